package employee

import "time"

// Employee is a tracked worker account. SiteID is the assigned work site; nil means
// unassigned, which is only an error for non-remote staff. IsRemote employees bypass
// geofence checks entirely.
type Employee struct {
	ID           string
	OwnerID      string
	SiteID       *string
	FullName     string
	Email        string
	EmployeeCode string
	PasswordHash string
	IsRemote     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Position is the last known location of one employee, joined with the identity
// fields an admin live map needs.
type Position struct {
	EmployeeID string
	FullName   string
	Email      string
	SiteID     *string
	SiteName   *string
	Latitude   float64
	Longitude  float64
	IsOnSite   bool
	RecordedAt time.Time
}
