package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
)

const positionTimeLayout = "2006-01-02 15:04:05"

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
	}
}

// ListLatestPositions implements employee.EmployeeService.
func (e *EmployeeServiceImpl) ListLatestPositions(ctx context.Context, ownerID string) (employee.ListPositionsResponse, error) {
	positions, err := e.EmployeeRepository.LatestPositions(ctx, ownerID)
	if err != nil {
		return employee.ListPositionsResponse{}, fmt.Errorf("failed to list employee positions: %w", err)
	}

	responses := make([]employee.PositionResponse, 0, len(positions))
	for _, pos := range positions {
		responses = append(responses, toPositionResponse(pos))
	}

	return employee.ListPositionsResponse{
		TotalCount: len(responses),
		Positions:  responses,
	}, nil
}

func toPositionResponse(pos employee.Position) employee.PositionResponse {
	return employee.PositionResponse{
		EmployeeID: pos.EmployeeID,
		FullName:   pos.FullName,
		Email:      pos.Email,
		SiteID:     pos.SiteID,
		SiteName:   pos.SiteName,
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
		IsOnSite:   pos.IsOnSite,
		RecordedAt: pos.RecordedAt.Format(positionTimeLayout),
	}
}
