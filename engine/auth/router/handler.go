package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/engine/auth/uc"
	"github.com/equipsight/equipsight/engine/auth/userctx"
	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Handler handles auth-related HTTP requests.
type Handler struct {
	factory *uc.Factory
	tokens  *token.Manager
}

// NewHandler creates a new auth handler.
func NewHandler(factory *uc.Factory, tokens *token.Manager) *Handler {
	return &Handler{factory: factory, tokens: tokens}
}

// Register godoc
// @Summary Register a new account
// @Description Create an inactive account and email a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]any "contains data.email and message"
// @Failure 400 {object} ErrorResponse "validation failure"
// @Failure 409 {object} ErrorResponse "email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	var input uc.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.Register(&input).Execute(ctx)
	if err != nil {
		h.handleRegisterError(ctx, c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data":    gin.H{"email": out.Email, "otp_required": out.OTPRequired},
		"message": "Verification code sent",
	})
}

// handleRegisterError centralizes registration error logging and responses.
func (h *Handler) handleRegisterError(ctx context.Context, c *gin.Context, err error) {
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, uc.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Email already registered",
			"details": "An account with this email address already exists",
		})
	case errors.Is(err, uc.ErrPasswordTooShort), errors.Is(err, uc.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password", "details": err.Error()})
	default:
		log.Error("Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register", "details": err.Error()})
	}
}

// VerifySignupOTP godoc
// @Summary Verify a signup code
// @Description Activate the account and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.tokens and data.user"
// @Failure 400 {object} ErrorResponse "invalid or expired code"
// @Router /auth/verify-signup-otp [post]
func (h *Handler) VerifySignupOTP(c *gin.Context) {
	ctx := c.Request.Context()
	var input uc.VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.VerifySignupOTP(&input).Execute(ctx)
	if err != nil {
		h.handleOTPError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"tokens": out.Tokens,
			"user":   userPayload(out),
		},
		"message": "Account verified",
	})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password, returns a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.tokens and data.user"
// @Failure 401 {object} ErrorResponse "invalid credentials"
// @Failure 403 {object} ErrorResponse "email not verified"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var input uc.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.Login(&input).Execute(ctx)
	if err != nil {
		h.handleLoginError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"tokens": out.Tokens,
			"user":   userPayload(out),
		},
		"message": "Logged in",
	})
}

// handleLoginError centralizes login error logging and responses.
func (h *Handler) handleLoginError(ctx context.Context, c *gin.Context, err error) {
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, uc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"details": "Email or password is incorrect",
		})
	case errors.Is(err, uc.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Email not verified",
			"details": "Verify your email address before logging in",
		})
	default:
		log.Error("Failed to log in user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in", "details": err.Error()})
	}
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.tokens"
// @Failure 401 {object} ErrorResponse "invalid refresh token"
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	claims, err := h.tokens.VerifyRefresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid refresh token",
			"details": "The refresh token is invalid or expired",
		})
		return
	}
	user, err := h.factory.GetUser(&uc.GetUserInput{UserID: claims.UserID}).Execute(ctx)
	if err != nil || !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid refresh token",
			"details": "The refresh token is invalid or expired",
		})
		return
	}
	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		log.Error("Failed to issue token pair", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh tokens", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"tokens": pair}, "message": "Tokens refreshed"})
}

// RequestPasswordReset godoc
// @Summary Request a password reset code
// @Description Email a reset code; responds identically whether or not the account exists
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.email and message"
// @Router /auth/request-password-reset [post]
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	var input uc.RequestPasswordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.RequestPasswordReset(&input).Execute(ctx)
	if err != nil {
		log.Error("Failed to request password reset", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request reset", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"email": out.Email},
		"message": "If the account exists, a reset code has been sent",
	})
}

// VerifyResetOTP godoc
// @Summary Pre-check a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.valid"
// @Failure 400 {object} ErrorResponse "invalid or expired code"
// @Router /auth/verify-reset-otp [post]
func (h *Handler) VerifyResetOTP(c *gin.Context) {
	ctx := c.Request.Context()
	var input uc.VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.VerifyResetOTP(&input).Execute(ctx)
	if err != nil {
		h.handleOTPError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"email": out.Email, "valid": out.Valid},
		"message": "Code verified",
	})
}

// ResetPassword godoc
// @Summary Reset the password with a verified code
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.email"
// @Failure 400 {object} ErrorResponse "invalid code or password"
// @Router /auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	ctx := c.Request.Context()
	var input uc.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.ResetPassword(&input).Execute(ctx)
	if err != nil {
		h.handleResetPasswordError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"email": out.Email},
		"message": "Password updated",
	})
}

// handleResetPasswordError centralizes reset error logging and responses.
func (h *Handler) handleResetPasswordError(ctx context.Context, c *gin.Context, err error) {
	switch {
	case errors.Is(err, uc.ErrPasswordTooShort), errors.Is(err, uc.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password", "details": err.Error()})
	default:
		h.handleOTPError(ctx, c, err)
	}
}

// ResendOTP godoc
// @Summary Resend a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "contains data.email"
// @Failure 400 {object} ErrorResponse "invalid OTP type"
// @Router /auth/resend-otp [post]
func (h *Handler) ResendOTP(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	var input uc.ResendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	out, err := h.factory.ResendOTP(&input).Execute(ctx)
	if err != nil {
		if errors.Is(err, uc.ErrInvalidOTPType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid OTP type",
				"details": "otp_type must be 'signup' or 'password_reset'",
			})
			return
		}
		log.Error("Failed to resend OTP", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"email": out.Email},
		"message": "If the account exists, a new code has been sent",
	})
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Success 200 {object} map[string]any "contains data.user"
// @Failure 401 {object} ErrorResponse "authentication failure"
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := userctx.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication required",
			"details": "User not found in context",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.DisplayName(),
		"created_at": user.CreatedAt,
	}}})
}

// handleOTPError maps OTP verification failures to responses.
func (h *Handler) handleOTPError(ctx context.Context, c *gin.Context, err error) {
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, uc.ErrOTPNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid code",
			"details": "The verification code is incorrect",
		})
	case errors.Is(err, uc.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Code expired",
			"details": "The verification code has expired, request a new one",
		})
	case errors.Is(err, uc.ErrUserNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid code",
			"details": "The verification code is incorrect",
		})
	default:
		log.Error("OTP verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed", "details": err.Error()})
	}
}

func userPayload(out *uc.AuthOutput) gin.H {
	return gin.H{
		"id":    out.User.ID,
		"email": out.User.Email,
		"name":  out.User.DisplayName(),
	}
}
