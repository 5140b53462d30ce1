package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// ResetPasswordInput carries the reset code and the replacement password.
type ResetPasswordInput struct {
	Email           string `json:"email"`
	Code            string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPasswordOutput reports the account whose password changed.
type ResetPasswordOutput struct {
	Email string `json:"email"`
}

// ResetPassword use case: sets a new password after verifying the reset code.
type ResetPassword struct {
	factory *Factory
	input   *ResetPasswordInput
}

// Execute validates the new password, verifies the code, updates the hash,
// and consumes the OTP.
func (uc *ResetPassword) Execute(ctx context.Context) (*ResetPasswordOutput, error) {
	log := logger.FromContext(ctx)
	cfg := uc.factory.cfg
	email := model.NormalizeEmail(uc.input.Email)
	if len(uc.input.Password) < cfg.MinPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if uc.input.Password != uc.input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	otp, err := uc.factory.verifyOTP(ctx, email, uc.input.Code, model.OTPTypePasswordReset)
	if err != nil {
		return nil, err
	}
	user, err := uc.factory.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uc.input.Password), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user.PasswordHash = hash
	if err := uc.factory.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating password: %w", err)
	}
	if err := uc.factory.repo.MarkOTPUsed(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("consuming OTP: %w", err)
	}
	log.Info("Password reset completed", "user_id", user.ID, "email", email)
	return &ResetPasswordOutput{Email: email}, nil
}
