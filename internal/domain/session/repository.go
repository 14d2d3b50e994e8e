package session

import "context"

// SessionRepository defines data access methods for device sessions. Implementations
// store a hash of the token, never the token itself.
type SessionRepository interface {
	// Save stores the device token as the employee's only session, replacing any
	// previous one
	Save(ctx context.Context, employeeID, token string) error

	// Matches reports whether the presented token is the stored session.
	// Returns ErrSessionNotFound when the employee has no session at all.
	Matches(ctx context.Context, employeeID, token string) (bool, error)

	// DeleteIfMatches removes the session only when the stored token matches; a
	// stale token is a no-op
	DeleteIfMatches(ctx context.Context, employeeID, token string) error
}
