package uc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput represents the input for creating an account.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
}

// RegisterOutput reports the address the verification code was sent to.
type RegisterOutput struct {
	Email       string `json:"email"`
	OTPRequired bool   `json:"otp_required"`
}

// Register use case: creates an inactive account and emails a signup OTP.
// Re-registering over an unverified account updates it in place.
type Register struct {
	factory *Factory
	input   *RegisterInput
}

// Execute creates the account and sends the verification code.
func (uc *Register) Execute(ctx context.Context) (*RegisterOutput, error) {
	log := logger.FromContext(ctx)
	cfg := uc.factory.cfg
	email := model.NormalizeEmail(uc.input.Email)
	if len(uc.input.Password) < cfg.MinPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if uc.input.Password != uc.input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uc.input.Password), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	existing, err := uc.factory.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.Active:
		return nil, ErrEmailExists
	case err == nil:
		// Unverified account: allow re-registration with fresh credentials.
		existing.PasswordHash = hash
		if uc.input.Name != "" {
			existing.Name = uc.input.Name
		}
		if err := uc.factory.repo.UpdateUser(ctx, existing); err != nil {
			return nil, fmt.Errorf("updating unverified user: %w", err)
		}
	case errors.Is(err, ErrUserNotFound):
		userID, err := core.NewID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate user ID: %w", err)
		}
		user := &model.User{
			ID:           userID,
			Email:        email,
			Name:         uc.input.Name,
			PasswordHash: hash,
			Active:       false,
			CreatedAt:    time.Now().UTC(),
		}
		if err := uc.factory.repo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("checking existing user: %w", err)
	}
	if err := uc.factory.issueOTP(ctx, email, model.OTPTypeSignup, nil); err != nil {
		return nil, err
	}
	log.Info("User registered, pending verification", "email", email)
	return &RegisterOutput{Email: email, OTPRequired: true}, nil
}
