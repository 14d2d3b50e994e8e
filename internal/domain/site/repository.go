package site

import "context"

// SiteRepository defines data access methods for work sites.
type SiteRepository interface {
	// GetByID retrieves a site by ID
	GetByID(ctx context.Context, id string) (Site, error)

	// GetByOwner retrieves all sites belonging to an admin, oldest first
	GetByOwner(ctx context.Context, ownerID string) ([]Site, error)
}
