package auth

import (
	"errors"
	"strings"

	"github.com/equipsight/equipsight/engine/auth"
	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/auth/uc"
	"github.com/equipsight/equipsight/engine/auth/userctx"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Manager handles bearer token authentication middleware.
type Manager struct {
	factory *uc.Factory
	tokens  *token.Manager
}

// NewManager creates a new auth middleware manager.
func NewManager(factory *uc.Factory, tokens *token.Manager) *Manager {
	return &Manager{factory: factory, tokens: tokens}
}

// Middleware returns the authentication middleware. Requests without an
// Authorization header pass through without user context; RequireAuth blocks
// them where needed.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())
		accessToken, err := m.extractBearerToken(c)
		if err != nil {
			var authErr *authError
			if errors.As(err, &authErr) && authErr.message == "no authorization header" {
				c.Next()
				return
			}
			log.Debug("Authentication failed", "reason", err.Error())
			m.handleAuthError(c, err)
			return
		}
		claims, err := m.tokens.VerifyAccess(accessToken)
		if err != nil {
			log.Debug("Access token verification failed")
			m.handleAuthError(c, err)
			return
		}
		user, err := m.factory.GetUser(&uc.GetUserInput{UserID: claims.UserID}).Execute(c.Request.Context())
		if err != nil {
			log.Debug("Token subject lookup failed", "user_id", claims.UserID)
			m.handleAuthError(c, err)
			return
		}
		if !user.Active {
			m.handleAuthError(c, errors.New("account inactive"))
			return
		}
		m.setAuthContext(c, user)
		c.Next()
	}
}

// extractBearerToken extracts and validates the bearer token.
func (m *Manager) extractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", &authError{message: "no authorization header"}
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", &authError{message: "invalid format", public: true}
	}
	accessToken := strings.TrimSpace(parts[1])
	if accessToken == "" {
		return "", &authError{message: "empty token", public: true}
	}
	return accessToken, nil
}

// handleAuthError sends a generic 401 so token state is not leaked.
func (m *Manager) handleAuthError(c *gin.Context, err error) {
	response := gin.H{
		"error":   "Authentication failed",
		"details": "Invalid or missing credentials",
	}
	if authErr, ok := err.(*authError); ok && authErr.public {
		response["details"] = "Invalid authorization header format"
	}
	c.JSON(401, response)
	c.Abort()
}

// setAuthContext sets authentication information in context.
func (m *Manager) setAuthContext(c *gin.Context, user *model.User) {
	c.Set(auth.ContextKeyUserID, user.ID.String())
	ctx := userctx.WithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
	log := logger.FromContext(ctx)
	log.Debug("Authentication successful", "user_id", user.ID)
}

type authError struct {
	message string
	public  bool
}

func (e *authError) Error() string {
	return e.message
}

// RequireAuth returns middleware that requires an authenticated user.
func (m *Manager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userctx.UserFromContext(c.Request.Context()); !ok {
			c.JSON(401, gin.H{
				"error":   "Authentication required",
				"details": "This endpoint requires a valid access token",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
