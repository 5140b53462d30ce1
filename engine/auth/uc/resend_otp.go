package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/pkg/logger"
)

// ResendOTPInput names the address and flow to resend a code for.
type ResendOTPInput struct {
	Email string `json:"email"`
	Type  string `json:"otp_type"`
}

// ResendOTPOutput mirrors the request regardless of account state.
type ResendOTPOutput struct {
	Email string `json:"email"`
}

// ResendOTP use case: reissues a signup or password reset code. The response
// does not reveal whether the address has a matching account.
type ResendOTP struct {
	factory *Factory
	input   *ResendOTPInput
}

// Execute reissues the code when the account is in the right state for the
// requested flow: unverified for signup, active for password reset.
func (uc *ResendOTP) Execute(ctx context.Context) (*ResendOTPOutput, error) {
	log := logger.FromContext(ctx)
	otpType := model.OTPType(uc.input.Type)
	if !otpType.Valid() {
		return nil, ErrInvalidOTPType
	}
	email := model.NormalizeEmail(uc.input.Email)
	out := &ResendOTPOutput{Email: email}
	user, err := uc.factory.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Debug("OTP resend requested for unknown email", "email", email, "otp_type", otpType)
			return out, nil
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	eligible := (otpType == model.OTPTypeSignup && !user.Active) ||
		(otpType == model.OTPTypePasswordReset && user.Active)
	if !eligible {
		log.Debug("OTP resend skipped, account state mismatch", "email", email, "otp_type", otpType)
		return out, nil
	}
	if otpType == model.OTPTypePasswordReset {
		if err := uc.factory.issueOTP(ctx, email, otpType, &user.ID); err != nil {
			log.Error("Failed to reissue OTP", "email", email, "otp_type", otpType, "error", err)
		}
		return out, nil
	}
	if err := uc.factory.issueOTP(ctx, email, otpType, nil); err != nil {
		return nil, err
	}
	return out, nil
}
