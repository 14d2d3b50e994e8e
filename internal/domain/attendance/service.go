package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens a work session after geofence validation. A leftover open
	// session is closed silently first; remote employees bypass the fence.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the employee's open work session
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// ReportLocation records a tracking ping without changing attendance state
	ReportLocation(ctx context.Context, req ReportLocationRequest) (ReportLocationResponse, error)

	// GetMyAttendance retrieves attendance records for the authenticated employee
	GetMyAttendance(ctx context.Context, employeeID string, filter HistoryFilter) (ListAttendanceResponse, error)
}
