package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/pkg/logger"
)

// RequestPasswordResetInput names the account to reset.
type RequestPasswordResetInput struct {
	Email string `json:"email"`
}

// RequestPasswordResetOutput is always the same regardless of whether the
// account exists, so the endpoint cannot be used to enumerate addresses.
type RequestPasswordResetOutput struct {
	Email string `json:"email"`
}

// RequestPasswordReset use case: emails a reset code to verified accounts.
type RequestPasswordReset struct {
	factory *Factory
	input   *RequestPasswordResetInput
}

// Execute issues a reset OTP when the account exists and is active. Unknown
// or unverified addresses get the same response with no email sent.
func (uc *RequestPasswordReset) Execute(ctx context.Context) (*RequestPasswordResetOutput, error) {
	log := logger.FromContext(ctx)
	email := model.NormalizeEmail(uc.input.Email)
	out := &RequestPasswordResetOutput{Email: email}
	user, err := uc.factory.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Debug("Password reset requested for unknown email", "email", email)
			return out, nil
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if !user.Active {
		log.Debug("Password reset requested for unverified account", "email", email)
		return out, nil
	}
	if err := uc.factory.issueOTP(ctx, email, model.OTPTypePasswordReset, &user.ID); err != nil {
		// Delivery failures stay server-side so the response does not leak
		// account existence.
		log.Error("Failed to issue password reset OTP", "email", email, "error", err)
	}
	return out, nil
}
