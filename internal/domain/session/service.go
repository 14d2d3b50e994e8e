package session

import "context"

// SessionService enforces one active device per employee: the newest login always
// wins, and earlier device tokens are reported as superseded rather than invalid.
type SessionService interface {
	// Login registers the device token as the employee's only active session
	Login(ctx context.Context, employeeID, token string) error

	// Authorize checks that the presented token is still the active session.
	// Returns ErrSessionSuperseded when a newer login replaced it, or
	// ErrSessionNotFound when nothing is stored for the employee.
	Authorize(ctx context.Context, employeeID, token string) error

	// Logout removes the session if the token is still the active one
	Logout(ctx context.Context, employeeID, token string) error
}
