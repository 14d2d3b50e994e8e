package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrOAuthDisabled      = errors.New("google sign-in is not configured")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
	ErrUserNotFound       = errors.New("user not found")
)
