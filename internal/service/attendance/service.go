package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/site"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presensi-backend-go/internal/repository/postgresql"
)

const responseTimeLayout = "2006-01-02 15:04:05"

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	site.SiteRepository
	location.SampleRepository
	db        *database.DB
	hub       *sse.Hub
	evaluator geo.Evaluator

	// mu guards locks; each employee gets their own mutex so check-in and
	// check-out for the same employee never interleave.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	sampleRepo location.SampleRepository,
	hub *sse.Hub,
	evaluator geo.Evaluator,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		SiteRepository:       siteRepo,
		SampleRepository:     sampleRepo,
		db:                   db,
		hub:                  hub,
		evaluator:            evaluator,
		locks:                make(map[string]*sync.Mutex),
	}
}

// lockEmployee serializes attendance writes for a single employee and returns
// the matching unlock func.
func (a *AttendanceServiceImpl) lockEmployee(employeeID string) func() {
	a.mu.Lock()
	l, ok := a.locks[employeeID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[employeeID] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// withTx runs fn inside a database transaction. A service wired without a
// pool runs fn directly; in-memory repositories have nothing to roll back.
func (a *AttendanceServiceImpl) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// resolveSite picks the geofence site for an employee. An assigned site always
// wins. Remote employees without one fall back to the owner's remote site,
// then the owner's oldest site.
func (a *AttendanceServiceImpl) resolveSite(ctx context.Context, emp employee.Employee) (site.Site, error) {
	if emp.SiteID != nil && *emp.SiteID != "" {
		st, err := a.SiteRepository.GetByID(ctx, *emp.SiteID)
		if err != nil {
			return site.Site{}, fmt.Errorf("failed to get assigned site: %w", err)
		}
		return st, nil
	}

	if !emp.IsRemote {
		return site.Site{}, attendance.ErrNoSiteAssigned
	}

	sites, err := a.SiteRepository.GetByOwner(ctx, emp.OwnerID)
	if err != nil {
		return site.Site{}, fmt.Errorf("failed to list owner sites: %w", err)
	}
	for _, st := range sites {
		if st.IsRemote {
			return st, nil
		}
	}
	if len(sites) > 0 {
		return sites[0], nil
	}
	return site.Site{}, attendance.ErrNoSiteAvailable
}

func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	unlock := a.lockEmployee(req.EmployeeID)
	defer unlock()

	now := time.Now().UTC()

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	st, err := a.resolveSite(ctx, emp)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !emp.IsRemote && !st.IsRemote {
		ev := a.evaluator.Evaluate(req.Lat, req.Lon, st.Latitude, st.Longitude, st.RadiusMeters)
		if ev.Invalid {
			return attendance.AttendanceResponse{}, fmt.Errorf("site %s has invalid coordinates", st.ID)
		}
		if !ev.IsWithin {
			return attendance.AttendanceResponse{}, &attendance.GeofenceViolationError{
				Stage:                 attendance.StageCheckIn,
				DistanceMeters:        ev.DistanceMeters,
				SiteRadiusMeters:      st.RadiusMeters,
				EffectiveRadiusMeters: ev.EffectiveRadiusMeters,
			}
		}
	}

	// A leftover open record from a missed check-out is closed here with the
	// current coordinates, never surfaced to the employee as an error.
	var staleID string
	open, err := a.AttendanceRepository.GetOpenByEmployee(ctx, req.EmployeeID)
	if err == nil {
		staleID = open.ID
	} else if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check open attendance: %w", err)
	}

	data := attendance.Attendance{
		EmployeeID:       emp.ID,
		SiteID:           st.ID,
		ClockIn:          now,
		ClockInLatitude:  req.Lat,
		ClockInLongitude: req.Lon,
	}

	var created attendance.Attendance
	err = a.withTx(ctx, func(txCtx context.Context) error {
		if staleID != "" {
			if err := a.AttendanceRepository.Close(txCtx, staleID, now, req.Lat, req.Lon); err != nil {
				return fmt.Errorf("failed to close stale attendance: %w", err)
			}
			slog.Warn("Closed leftover open attendance during check-in",
				"attendance_id", staleID,
				"employee_id", emp.ID,
				"opened_at", open.ClockIn)
		}

		result, err := a.AttendanceRepository.Create(txCtx, data)
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		created = result

		sample := location.Sample{
			ID:         uuid.NewString(),
			EmployeeID: emp.ID,
			Latitude:   req.Lat,
			Longitude:  req.Lon,
			IsOnSite:   true,
			RecordedAt: now,
		}
		if err := a.SampleRepository.Append(txCtx, sample); err != nil {
			return fmt.Errorf("failed to record location sample: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.hub.Publish(emp.OwnerID, presence.NewCheckIn(presenceEmployee(emp), presenceSite(st), req.Lat, req.Lon, now))

	created.SiteName = &st.Name
	return toAttendanceResponse(created), nil
}

func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	unlock := a.lockEmployee(req.EmployeeID)
	defer unlock()

	now := time.Now().UTC()

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	open, err := a.AttendanceRepository.GetOpenByEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}

	st, err := a.SiteRepository.GetByID(ctx, open.SiteID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance site: %w", err)
	}

	if !emp.IsRemote && !st.IsRemote {
		ev := a.evaluator.Evaluate(req.Lat, req.Lon, st.Latitude, st.Longitude, st.RadiusMeters)
		if ev.Invalid {
			return attendance.AttendanceResponse{}, fmt.Errorf("site %s has invalid coordinates", st.ID)
		}
		if !ev.IsWithin {
			return attendance.AttendanceResponse{}, &attendance.GeofenceViolationError{
				Stage:                 attendance.StageCheckOut,
				DistanceMeters:        ev.DistanceMeters,
				SiteRadiusMeters:      st.RadiusMeters,
				EffectiveRadiusMeters: ev.EffectiveRadiusMeters,
			}
		}
	}

	err = a.withTx(ctx, func(txCtx context.Context) error {
		if err := a.AttendanceRepository.Close(txCtx, open.ID, now, req.Lat, req.Lon); err != nil {
			return fmt.Errorf("failed to close attendance record: %w", err)
		}

		sample := location.Sample{
			ID:         uuid.NewString(),
			EmployeeID: emp.ID,
			Latitude:   req.Lat,
			Longitude:  req.Lon,
			IsOnSite:   true,
			RecordedAt: now,
		}
		if err := a.SampleRepository.Append(txCtx, sample); err != nil {
			return fmt.Errorf("failed to record location sample: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.hub.Publish(emp.OwnerID, presence.NewCheckOut(presenceEmployee(emp), presenceSite(st), req.Lat, req.Lon, now))

	open.ClockOut = &now
	open.ClockOutLatitude = &req.Lat
	open.ClockOutLongitude = &req.Lon
	open.UpdatedAt = now
	open.SiteName = &st.Name
	return toAttendanceResponse(open), nil
}

func (a *AttendanceServiceImpl) ReportLocation(ctx context.Context, req attendance.ReportLocationRequest) (attendance.ReportLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ReportLocationResponse{}, err
	}

	now := time.Now().UTC()

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.ReportLocationResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	st, err := a.resolveSite(ctx, emp)
	if err != nil {
		return attendance.ReportLocationResponse{}, err
	}

	isOnSite := true
	distance := 0.0
	if !emp.IsRemote && !st.IsRemote {
		ev := a.evaluator.Evaluate(req.Lat, req.Lon, st.Latitude, st.Longitude, st.RadiusMeters)
		if ev.Invalid {
			return attendance.ReportLocationResponse{}, fmt.Errorf("site %s has invalid coordinates", st.ID)
		}
		isOnSite = ev.IsWithin
		distance = ev.DistanceMeters
	}

	sample := location.Sample{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Latitude:   req.Lat,
		Longitude:  req.Lon,
		IsOnSite:   isOnSite,
		RecordedAt: now,
	}
	if err := a.SampleRepository.Append(ctx, sample); err != nil {
		return attendance.ReportLocationResponse{}, fmt.Errorf("failed to record location sample: %w", err)
	}

	a.hub.Publish(emp.OwnerID, presence.NewLocationUpdate(presenceEmployee(emp), presenceSite(st), req.Lat, req.Lon, now))

	return attendance.ReportLocationResponse{
		IsOnSite:       isOnSite,
		DistanceMeters: distance,
		RecordedAt:     now.Format(responseTimeLayout),
	}, nil
}

func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toAttendanceResponse(record))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

func presenceEmployee(emp employee.Employee) presence.Employee {
	return presence.Employee{
		ID:    emp.ID,
		Name:  emp.FullName,
		Email: emp.Email,
	}
}

func presenceSite(st site.Site) *presence.Site {
	return &presence.Site{
		ID:   st.ID,
		Name: st.Name,
	}
}

func toAttendanceResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                att.ID,
		EmployeeID:        att.EmployeeID,
		SiteID:            att.SiteID,
		SiteName:          att.SiteName,
		ClockInTime:       att.ClockIn.Format(responseTimeLayout),
		ClockOutTime:      timePtrToString(att.ClockOut),
		ClockInLatitude:   att.ClockInLatitude,
		ClockInLongitude:  att.ClockInLongitude,
		ClockOutLatitude:  att.ClockOutLatitude,
		ClockOutLongitude: att.ClockOutLongitude,
		CreatedAt:         att.CreatedAt.Format(responseTimeLayout),
		UpdatedAt:         att.UpdatedAt.Format(responseTimeLayout),
	}
	if att.ClockOut != nil {
		hours := att.ClockOut.Sub(att.ClockIn).Hours()
		resp.WorkingHours = &hours
	}
	return resp
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(responseTimeLayout)
	return &s
}
