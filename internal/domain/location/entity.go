package location

import "time"

// Sample is one append-only GPS reading. IsOnSite records the geofence verdict at
// the time of the reading so history stays meaningful when site radii change later.
type Sample struct {
	ID         string
	EmployeeID string
	Latitude   float64
	Longitude  float64
	IsOnSite   bool
	RecordedAt time.Time
}
