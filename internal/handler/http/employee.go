package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListPositions(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// ListPositions implements EmployeeHandler.
//
// The response seeds the admin live map; realtime updates then arrive over
// the event stream.
func (h *employeeHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	ownerID := getUserIDFromContext(r)
	if ownerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	results, err := h.employeeService.ListLatestPositions(r.Context(), ownerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}
