package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/golang-jwt/jwt/v4"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when a refresh token is presented where an
	// access token is expected, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Pair bundles the access and refresh tokens issued at login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Claims carries the verified identity extracted from a token.
type Claims struct {
	UserID core.ID
	Email  string
}

type jwtClaims struct {
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 token pairs.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewManager creates a token manager. The secret must be non-empty.
func NewManager(secret []byte, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive")
	}
	return &Manager{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// IssuePair signs a new access/refresh token pair for the user.
func (m *Manager) IssuePair(user *model.User) (*Pair, error) {
	now := time.Now().UTC()
	access, err := m.sign(user, typeAccess, now, now.Add(m.accessTTL))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := m.sign(user, typeRefresh, now, now.Add(m.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}
	return &Pair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	return m.verify(tokenString, typeAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (m *Manager) VerifyRefresh(tokenString string) (*Claims, error) {
	return m.verify(tokenString, typeRefresh)
}

func (m *Manager) sign(user *model.User, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwtClaims{
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) verify(tokenString, wantType string) (*Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	userID, err := core.ParseID(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: userID, Email: claims.Email}, nil
}
