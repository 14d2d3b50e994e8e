package auth

import (
	"context"
)

type AuthService interface {
	// Login authenticates an admin with email and password
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)

	// LoginWithEmployeeCode authenticates an employee device; the issued token
	// becomes the employee's only active session and supersedes earlier devices
	LoginWithEmployeeCode(ctx context.Context, req LoginEmployeeCodeRequest) (TokenResponse, error)

	// GoogleLoginURL returns the Google consent redirect URL, or ErrOAuthDisabled
	GoogleLoginURL(state string) (string, error)

	// OAuthCallbackGoogle exchanges the authorization code for an admin token
	OAuthCallbackGoogle(ctx context.Context, code string) (TokenResponse, error)

	// Logout releases the employee's device session; admin tokens just expire
	Logout(ctx context.Context, req LogoutRequest) error
}
