package employee

import "context"

// EmployeeRepository defines data access methods for employees.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmployeeCode retrieves an employee by its login code
	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)

	// LatestPositions retrieves the most recent location sample for every employee
	// of an admin; employees with no samples yet are omitted
	LatestPositions(ctx context.Context, ownerID string) ([]Position, error)
}
