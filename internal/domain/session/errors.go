package session

import "errors"

var (
	// ErrSessionSuperseded means a newer login on another device replaced this token.
	// Kept distinct from a plain invalid token so clients can explain the logout.
	ErrSessionSuperseded = errors.New("session superseded by a login on another device")

	ErrSessionNotFound = errors.New("no active session for this employee")
)
