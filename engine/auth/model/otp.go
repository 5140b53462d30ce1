package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/equipsight/equipsight/engine/core"
)

// OTPType distinguishes signup verification codes from password reset codes.
type OTPType string

const (
	OTPTypeSignup        OTPType = "signup"
	OTPTypePasswordReset OTPType = "password_reset"
)

// Valid checks if the OTP type is a known value.
func (t OTPType) Valid() bool {
	return t == OTPTypeSignup || t == OTPTypePasswordReset
}

// OTP is a short-lived, single-use email verification code. UserID is zero
// for signup codes issued before the account is activated.
type OTP struct {
	ID        core.ID   `db:"id"`
	Email     string    `db:"email"`
	UserID    *core.ID  `db:"user_id"`
	Code      string    `db:"code"`
	Type      OTPType   `db:"otp_type"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
	CreatedAt time.Time `db:"created_at"`
}

// IsValid reports whether the OTP is unused and unexpired at the given time.
func (o *OTP) IsValid(now time.Time) bool {
	return !o.Used && now.Before(o.ExpiresAt)
}

// NewOTPCode generates a cryptographically secure numeric code of the given
// length.
func NewOTPCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("otp length must be positive, got %d", length)
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
