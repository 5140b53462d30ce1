package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/auth/token"
	"github.com/equipsight/equipsight/pkg/logger"
)

// VerifyOTPInput carries an email/code pair.
type VerifyOTPInput struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

// AuthOutput is returned by use cases that end an authentication flow.
type AuthOutput struct {
	User   *model.User
	Tokens *token.Pair
}

// VerifySignupOTP use case: consumes a signup code and activates the account.
type VerifySignupOTP struct {
	factory *Factory
	input   *VerifyOTPInput
}

// Execute verifies the code, activates the user, and issues a token pair.
func (uc *VerifySignupOTP) Execute(ctx context.Context) (*AuthOutput, error) {
	log := logger.FromContext(ctx)
	email := model.NormalizeEmail(uc.input.Email)
	otp, err := uc.factory.verifyOTP(ctx, email, uc.input.Code, model.OTPTypeSignup)
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
	user.Active = true
	if err := uc.factory.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("activating user: %w", err)
	}
	if err := uc.factory.repo.MarkOTPUsed(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("consuming OTP: %w", err)
	}
	tokens, err := uc.factory.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	log.Info("User verified and activated", "user_id", user.ID, "email", user.Email)
	return &AuthOutput{User: user, Tokens: tokens}, nil
}
