package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
)

// EmployeeSessionGuard rejects device tokens that are no longer the
// employee's active session. A token superseded by a newer login gets a
// distinct error so the app can explain why the device was signed out.
func EmployeeSessionGuard(sessionService session.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			employeeID, ok := claims["employee_id"].(string)
			if !ok || employeeID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			// The guard compares the raw bearer token against the stored
			// session, so it has to come off the header again.
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if err := sessionService.Authorize(r.Context(), employeeID, token); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
