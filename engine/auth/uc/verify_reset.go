package uc

import (
	"context"

	"github.com/equipsight/equipsight/engine/auth/model"
)

// VerifyResetOTPOutput confirms the code can be used to set a new password.
type VerifyResetOTPOutput struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

// VerifyResetOTP use case: pre-checks a reset code without consuming it, so
// clients can gate the new-password form.
type VerifyResetOTP struct {
	factory *Factory
	input   *VerifyOTPInput
}

// Execute checks the code. The OTP stays unused until ResetPassword runs.
func (uc *VerifyResetOTP) Execute(ctx context.Context) (*VerifyResetOTPOutput, error) {
	email := model.NormalizeEmail(uc.input.Email)
	if _, err := uc.factory.verifyOTP(ctx, email, uc.input.Code, model.OTPTypePasswordReset); err != nil {
		return nil, err
	}
	return &VerifyResetOTPOutput{Email: email, Valid: true}, nil
}
