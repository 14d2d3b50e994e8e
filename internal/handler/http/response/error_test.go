package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleAndDecode(t *testing.T, err error) (int, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	HandleError(w, err)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

func TestHandleError_GeofenceViolation(t *testing.T) {
	code, resp := handleAndDecode(t, &attendance.GeofenceViolationError{
		Stage:                 attendance.StageCheckIn,
		DistanceMeters:        215.4,
		SiteRadiusMeters:      100,
		EffectiveRadiusMeters: 150,
	})

	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_GEOFENCE", resp.Error.Code)
	assert.Equal(t, "215.4", resp.Error.Details["distance_meters"])
	assert.Equal(t, "100", resp.Error.Details["site_radius_meters"])
	assert.Equal(t, "150.0", resp.Error.Details["effective_radius_meters"])
}

func TestHandleError_GeofenceViolationOnCheckout(t *testing.T) {
	code, resp := handleAndDecode(t, &attendance.GeofenceViolationError{
		Stage:                 attendance.StageCheckOut,
		DistanceMeters:        380.0,
		SiteRadiusMeters:      100,
		EffectiveRadiusMeters: 150,
	})

	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CHECKOUT_OUT_OF_GEOFENCE", resp.Error.Code)
}

func TestHandleError_SessionSuperseded(t *testing.T) {
	code, resp := handleAndDecode(t, session.ErrSessionSuperseded)

	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SESSION_SUPERSEDED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "another device")
}

func TestHandleError_SessionNotFound(t *testing.T) {
	code, resp := handleAndDecode(t, session.ErrSessionNotFound)

	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestHandleError_ValidationErrors(t *testing.T) {
	errs := validator.ValidationErrors{
		{Field: "latitude", Message: "latitude must be a number"},
	}

	code, resp := handleAndDecode(t, errs)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "latitude must be a number", resp.Error.Details["latitude"])
}

func TestHandleError_AttendanceConflicts(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no site assigned", attendance.ErrNoSiteAssigned, "NO_SITE_ASSIGNED"},
		{"no site available", attendance.ErrNoSiteAvailable, "NO_SITE_AVAILABLE"},
		{"not checked in", attendance.ErrNotCheckedIn, "NOT_CHECKED_IN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := handleAndDecode(t, tt.err)

			assert.Equal(t, http.StatusConflict, code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleError_InvalidCredentials(t *testing.T) {
	code, resp := handleAndDecode(t, auth.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
}

func TestHandleError_UnknownErrorIsOpaque(t *testing.T) {
	code, resp := handleAndDecode(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	require.NotNil(t, resp.Error)
	// Internal details never leak into the response body.
	assert.NotContains(t, resp.Error.Message, "pq:")
}
