package model_test

import (
	"testing"
	"time"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTPCode(t *testing.T) {
	t.Run("Should generate a numeric code of the requested length", func(t *testing.T) {
		code, err := model.NewOTPCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "expected digit, got %q", r)
		}
	})
	t.Run("Should generate different codes across calls", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			code, err := model.NewOTPCode(6)
			require.NoError(t, err)
			seen[code] = true
		}
		assert.Greater(t, len(seen), 1)
	})
	t.Run("Should reject non-positive lengths", func(t *testing.T) {
		_, err := model.NewOTPCode(0)
		assert.Error(t, err)
	})
}

func TestOTP_IsValid(t *testing.T) {
	now := time.Now().UTC()
	t.Run("Should be valid when unused and unexpired", func(t *testing.T) {
		otp := &model.OTP{ExpiresAt: now.Add(10 * time.Minute)}
		assert.True(t, otp.IsValid(now))
	})
	t.Run("Should be invalid when used", func(t *testing.T) {
		otp := &model.OTP{Used: true, ExpiresAt: now.Add(10 * time.Minute)}
		assert.False(t, otp.IsValid(now))
	})
	t.Run("Should be invalid when expired", func(t *testing.T) {
		otp := &model.OTP{ExpiresAt: now.Add(-time.Second)}
		assert.False(t, otp.IsValid(now))
	})
}

func TestOTPType_Valid(t *testing.T) {
	t.Run("Should accept known types", func(t *testing.T) {
		assert.True(t, model.OTPTypeSignup.Valid())
		assert.True(t, model.OTPTypePasswordReset.Valid())
	})
	t.Run("Should reject unknown types", func(t *testing.T) {
		assert.False(t, model.OTPType("login").Valid())
	})
}

func TestUser_DisplayName(t *testing.T) {
	t.Run("Should prefer the stored name", func(t *testing.T) {
		u := &model.User{Name: "Ada Lovelace", Email: "ada@example.com"}
		assert.Equal(t, "Ada Lovelace", u.DisplayName())
	})
	t.Run("Should fall back to the email local part", func(t *testing.T) {
		u := &model.User{Email: "ada@example.com"}
		assert.Equal(t, "ada", u.DisplayName())
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Run("Should lowercase and trim", func(t *testing.T) {
		assert.Equal(t, "ada@example.com", model.NormalizeEmail("  Ada@Example.COM "))
	})
}
