package uc

import (
	"context"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/core"
)

// Repository defines the persistence operations needed by the auth use cases.
type Repository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id core.ID) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error

	CreateOTP(ctx context.Context, otp *model.OTP) error
	// InvalidateOTPs marks all unused codes for (email, type) as used.
	InvalidateOTPs(ctx context.Context, email string, otpType model.OTPType) error
	// GetActiveOTP returns the most recent unused code matching
	// (email, code, type), or ErrOTPNotFound.
	GetActiveOTP(ctx context.Context, email, code string, otpType model.OTPType) (*model.OTP, error)
	MarkOTPUsed(ctx context.Context, id core.ID) error
}
