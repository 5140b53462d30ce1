package uc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/core"
	"github.com/equipsight/equipsight/engine/mailer"
	"github.com/equipsight/equipsight/pkg/logger"
)

// issueOTP invalidates previous unused codes for (email, type), stores a
// fresh one, and emails it.
func (f *Factory) issueOTP(ctx context.Context, email string, otpType model.OTPType, userID *core.ID) error {
	log := logger.FromContext(ctx)
	if err := f.repo.InvalidateOTPs(ctx, email, otpType); err != nil {
		return fmt.Errorf("invalidating previous OTPs: %w", err)
	}
	code, err := model.NewOTPCode(f.cfg.OTPLength)
	if err != nil {
		return fmt.Errorf("generating OTP code: %w", err)
	}
	id, err := core.NewID()
	if err != nil {
		return fmt.Errorf("generating OTP ID: %w", err)
	}
	now := time.Now().UTC()
	otp := &model.OTP{
		ID:        id,
		Email:     email,
		UserID:    userID,
		Code:      code,
		Type:      otpType,
		ExpiresAt: now.Add(f.cfg.OTPTTL),
		CreatedAt: now,
	}
	if err := f.repo.CreateOTP(ctx, otp); err != nil {
		return fmt.Errorf("storing OTP: %w", err)
	}
	expiryMinutes := int(f.cfg.OTPTTL / time.Minute)
	var msg *mailer.Message
	if otpType == model.OTPTypeSignup {
		msg = mailer.SignupOTPMessage(email, code, expiryMinutes)
	} else {
		msg = mailer.PasswordResetOTPMessage(email, code, expiryMinutes)
	}
	if err := f.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending OTP email: %w", err)
	}
	log.Info("OTP issued", "email", email, "otp_type", otpType)
	return nil
}

// verifyOTP finds the most recent active code and checks expiry. The code is
// not consumed; callers mark it used once their own work succeeds.
func (f *Factory) verifyOTP(ctx context.Context, email, code string, otpType model.OTPType) (*model.OTP, error) {
	otp, err := f.repo.GetActiveOTP(ctx, email, code, otpType)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("looking up OTP: %w", err)
	}
	if !otp.IsValid(time.Now().UTC()) {
		return nil, ErrOTPExpired
	}
	return otp, nil
}
