package auth

import "errors"

// Auth errors.
var (
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrWeakPassword       = errors.New("auth: password does not meet requirements")
	ErrSessionNotFound    = errors.New("auth: session not found")
	ErrInvalidResetToken  = errors.New("auth: invalid or expired reset token")
)
