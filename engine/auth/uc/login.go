package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// A valid bcrypt hash compared against when the account does not exist, so
// lookup misses cost the same as password mismatches.
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// LoginInput represents the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login use case: email/password authentication for verified accounts.
type Login struct {
	factory *Factory
	input   *LoginInput
}

// Execute authenticates the user and issues a token pair.
func (uc *Login) Execute(ctx context.Context) (*AuthOutput, error) {
	log := logger.FromContext(ctx)
	email := model.NormalizeEmail(uc.input.Email)
	user, err := uc.factory.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(uc.input.Password)) //nolint:errcheck // constant-time padding
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(uc.input.Password)); err != nil {
		log.Debug("Password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}
	tokens, err := uc.factory.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	log.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return &AuthOutput{User: user, Tokens: tokens}, nil
}
