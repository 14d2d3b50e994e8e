package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/site"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
)

func errorWithCode(w http.ResponseWriter, statusCode int, code string, message string) {
	writeJSON(w, statusCode, Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the measured distance so the app can show
	// how far off the employee is.
	var geofenceErr *attendance.GeofenceViolationError
	if errors.As(err, &geofenceErr) {
		code := "OUT_OF_GEOFENCE"
		if geofenceErr.Stage == attendance.StageCheckOut {
			code = "CHECKOUT_OUT_OF_GEOFENCE"
		}
		writeJSON(w, http.StatusForbidden, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    code,
				Message: geofenceErr.Error(),
				Details: map[string]string{
					"distance_meters":         fmt.Sprintf("%.1f", geofenceErr.DistanceMeters),
					"site_radius_meters":      strconv.Itoa(geofenceErr.SiteRadiusMeters),
					"effective_radius_meters": fmt.Sprintf("%.1f", geofenceErr.EffectiveRadiusMeters),
				},
			},
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrOAuthDisabled):
		BadRequest(w, "Google sign-in is not enabled", nil)
	case errors.Is(err, auth.ErrOAuthStateMismatch):
		Unauthorized(w, "OAuth state mismatch")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// Device session errors
	case errors.Is(err, session.ErrSessionSuperseded):
		errorWithCode(w, http.StatusUnauthorized, "SESSION_SUPERSEDED", "Your account was signed in on another device")
	case errors.Is(err, session.ErrSessionNotFound):
		Unauthorized(w, "No active session for this device")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoSiteAssigned):
		errorWithCode(w, http.StatusConflict, "NO_SITE_ASSIGNED", "No work site assigned to this employee")
	case errors.Is(err, attendance.ErrNoSiteAvailable):
		errorWithCode(w, http.StatusConflict, "NO_SITE_AVAILABLE", "No work site available for this employee")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		errorWithCode(w, http.StatusConflict, "NOT_CHECKED_IN", "You have not checked in yet")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
