package attendance

import (
	"time"
)

// Attendance is one work session. At most one open record (ClockOut == nil) exists
// per employee; check-in closes any stale leftover before opening a new one.
type Attendance struct {
	ID                string
	EmployeeID        string
	SiteID            string
	ClockIn           time.Time
	ClockInLatitude   float64
	ClockInLongitude  float64
	ClockOut          *time.Time
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	SiteName *string
}
