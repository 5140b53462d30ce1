package uc

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found in the repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when registering over an active account.
	ErrEmailExists = errors.New("an account with this email already exists")
	// ErrOTPNotFound is returned when no active code matches.
	ErrOTPNotFound = errors.New("invalid OTP")
	// ErrOTPExpired is returned when the matching code is past its expiry.
	ErrOTPExpired = errors.New("OTP has expired")
	// ErrInvalidCredentials is returned on a bad email/password combination.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when logging in before email verification.
	ErrAccountInactive = errors.New("email address not verified")
	// ErrPasswordTooShort is returned when the password fails the length policy.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidOTPType is returned for unknown OTP type values.
	ErrInvalidOTPType = errors.New("invalid OTP type")
)
