package model

import (
	"strings"
	"time"

	"github.com/equipsight/equipsight/engine/core"
)

// User represents an account holder. Accounts start inactive and are
// activated by verifying the signup OTP.
type User struct {
	ID           core.ID   `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash []byte    `db:"password_hash"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

// DisplayName returns the user's name, falling back to the local part of the
// email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// NormalizeEmail lowercases and trims an email address for case-insensitive
// matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
