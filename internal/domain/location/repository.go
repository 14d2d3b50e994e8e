package location

import "context"

// SampleRepository defines data access methods for the location history.
type SampleRepository interface {
	// Append stores one sample; history is never updated or deleted
	Append(ctx context.Context, sample Sample) error

	// LatestByEmployee retrieves the most recent sample for one employee
	LatestByEmployee(ctx context.Context, employeeID string) (Sample, error)
}
