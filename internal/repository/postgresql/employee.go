package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, owner_id, site_id, full_name, email, employee_code, password_hash, is_remote,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.OwnerID, &emp.SiteID, &emp.FullName, &emp.Email,
		&emp.EmployeeCode, &emp.PasswordHash, &emp.IsRemote,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return emp, nil
}

// LatestPositions implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) LatestPositions(ctx context.Context, ownerID string) ([]employee.Position, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT DISTINCT ON (ls.employee_id)
			   ls.employee_id, e.full_name, e.email, e.site_id, s.name,
			   ls.latitude, ls.longitude, ls.is_on_site, ls.recorded_at
		FROM location_samples ls
		JOIN employees e ON e.id = ls.employee_id
		LEFT JOIN sites s ON s.id = e.site_id
		WHERE e.owner_id = $1
		ORDER BY ls.employee_id, ls.recorded_at DESC
	`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest positions: %w", err)
	}
	defer rows.Close()

	var positions []employee.Position
	for rows.Next() {
		var pos employee.Position
		if err := rows.Scan(
			&pos.EmployeeID, &pos.FullName, &pos.Email, &pos.SiteID, &pos.SiteName,
			&pos.Latitude, &pos.Longitude, &pos.IsOnSite, &pos.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}

	return positions, nil
}
