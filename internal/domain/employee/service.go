package employee

import "context"

// EmployeeService defines business logic exposed to admins about their staff.
type EmployeeService interface {
	// ListLatestPositions returns the last known position of every employee owned
	// by the admin, for seeding the live map before SSE events arrive
	ListLatestPositions(ctx context.Context, ownerID string) (ListPositionsResponse, error)
}
