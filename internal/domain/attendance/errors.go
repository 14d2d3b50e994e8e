package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrNoSiteAssigned  = errors.New("no work site assigned to this employee")
	ErrNoSiteAvailable = errors.New("no work site available for this account")
	ErrOutsideGeofence = errors.New("you are outside the allowed site radius")

	// Check-out errors
	ErrNotCheckedIn            = errors.New("you have not checked in yet")
	ErrCheckoutOutsideGeofence = errors.New("you must be at the site to check out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)

// Geofence violation stages.
const (
	StageCheckIn  = "check-in"
	StageCheckOut = "check-out"
)

// GeofenceViolationError carries the measured distance of a rejected clock action so
// clients can tell the employee how far off they are. Unwrap yields the stage
// sentinel, keeping errors.Is checks working.
type GeofenceViolationError struct {
	Stage                 string
	DistanceMeters        float64
	SiteRadiusMeters      int
	EffectiveRadiusMeters float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("%s rejected: %.0fm from site, allowed within %.0fm",
		e.Stage, e.DistanceMeters, e.EffectiveRadiusMeters)
}

func (e *GeofenceViolationError) Unwrap() error {
	if e.Stage == StageCheckOut {
		return ErrCheckoutOutsideGeofence
	}
	return ErrOutsideGeofence
}
