package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetOpenByEmployee retrieves the employee's open record (no clock-out yet)
	GetOpenByEmployee(ctx context.Context, employeeID string) (Attendance, error)

	// Close stamps clock-out time and coordinates on a record
	Close(ctx context.Context, id string, clockOut time.Time, latitude, longitude float64) error

	// ListByEmployee retrieves an employee's records, newest first
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Attendance, int64, error)

	// GetStaleOpen retrieves open records whose clock-in predates the cutoff
	GetStaleOpen(ctx context.Context, olderThan time.Time) ([]Attendance, error)
}
