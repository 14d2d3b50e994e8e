package site

import "time"

// Site is a physical work location with a circular geofence. IsRemote marks a
// virtual site used for fully remote staff; its coordinates are never fenced.
type Site struct {
	ID           string
	OwnerID      string
	Name         string
	Address      string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	IsRemote     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
