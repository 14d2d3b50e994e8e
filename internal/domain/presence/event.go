package presence

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event types understood by admin dashboards. Anything else is dropped at the hub.
const (
	TypeCheckIn        = "checkin"
	TypeCheckOut       = "checkout"
	TypeLocationUpdate = "location_update"
)

// KnownType reports whether t is a presence event type dashboards understand.
func KnownType(t string) bool {
	switch t {
	case TypeCheckIn, TypeCheckOut, TypeLocationUpdate:
		return true
	}
	return false
}

// Event is one presence notification for an admin dashboard. Events are transient:
// they live only in the hub's recent-history buffer, never in the database. The ID
// rides on the SSE id: field, not in the JSON payload.
type Event struct {
	ID        string      `json:"-"`
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Employee  Employee    `json:"employee"`
	Site      *Site       `json:"site"`
	Timestamp time.Time   `json:"timestamp"`
	Location  Coordinates `json:"location"`
}

type Employee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Site struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCheckIn builds the event published when an employee opens a work session.
func NewCheckIn(emp Employee, site *Site, lat, lon float64, at time.Time) Event {
	msg := fmt.Sprintf("%s checked in", emp.Name)
	if site != nil {
		msg = fmt.Sprintf("%s checked in at %s", emp.Name, site.Name)
	}
	return newEvent(TypeCheckIn, msg, emp, site, lat, lon, at)
}

// NewCheckOut builds the event published when a work session closes, whether by the
// employee or by the stale-session sweeper.
func NewCheckOut(emp Employee, site *Site, lat, lon float64, at time.Time) Event {
	msg := fmt.Sprintf("%s checked out", emp.Name)
	if site != nil {
		msg = fmt.Sprintf("%s checked out from %s", emp.Name, site.Name)
	}
	return newEvent(TypeCheckOut, msg, emp, site, lat, lon, at)
}

// NewLocationUpdate builds the event published for a tracking ping.
func NewLocationUpdate(emp Employee, site *Site, lat, lon float64, at time.Time) Event {
	return newEvent(TypeLocationUpdate, fmt.Sprintf("%s sent a location update", emp.Name), emp, site, lat, lon, at)
}

func newEvent(eventType, message string, emp Employee, site *Site, lat, lon float64, at time.Time) Event {
	return Event{
		ID:        ulid.Make().String(),
		Type:      eventType,
		Message:   message,
		Employee:  emp,
		Site:      site,
		Timestamp: at.UTC(),
		Location:  Coordinates{Latitude: lat, Longitude: lon},
	}
}
