package user

import "context"

// UserRepository defines data access methods for admin accounts.
type UserRepository interface {
	// GetByEmail retrieves an admin by email
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByID retrieves an admin by ID
	GetByID(ctx context.Context, id string) (User, error)
}
