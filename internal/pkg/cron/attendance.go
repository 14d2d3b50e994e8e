package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/site"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	siteRepo       site.SiteRepository
	sampleRepo     location.SampleRepository
	hub            *sse.Hub
	maxOpenAge     time.Duration
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	sampleRepo location.SampleRepository,
	hub *sse.Hub,
	maxOpenAge time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		siteRepo:       siteRepo,
		sampleRepo:     sampleRepo,
		hub:            hub,
		maxOpenAge:     maxOpenAge,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances closes open attendance records whose check-in is
// older than maxOpenAge. Each record is closed at the employee's last reported
// position, or at the check-in position when no later sample exists. The next
// check-in would heal these records anyway; the sweeper keeps the admin live
// map honest for employees who simply never come back.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.maxOpenAge)

	stale, err := j.attendanceRepo.GetStaleOpen(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to get stale open attendances: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	slog.Info("Cron: Starting stale attendance sweep", "count", len(stale), "cutoff", cutoff)

	closedCount := 0
	for _, att := range stale {
		clockOut := time.Now().UTC()
		lat := att.ClockInLatitude
		lon := att.ClockInLongitude

		sample, err := j.sampleRepo.LatestByEmployee(ctx, att.EmployeeID)
		if err == nil && sample.RecordedAt.After(att.ClockIn) {
			clockOut = sample.RecordedAt
			lat = sample.Latitude
			lon = sample.Longitude
		}

		if err := j.attendanceRepo.Close(ctx, att.ID, clockOut, lat, lon); err != nil {
			slog.Error("Cron: Failed to close stale attendance",
				"attendance_id", att.ID,
				"employee_id", att.EmployeeID,
				"error", err)
			continue
		}
		closedCount++

		if j.hub == nil {
			continue
		}
		emp, err := j.employeeRepo.GetByID(ctx, att.EmployeeID)
		if err != nil {
			slog.Error("Cron: Failed to load employee for checkout event",
				"employee_id", att.EmployeeID,
				"error", err)
			continue
		}
		var eventSite *presence.Site
		if st, err := j.siteRepo.GetByID(ctx, att.SiteID); err == nil {
			eventSite = &presence.Site{ID: st.ID, Name: st.Name}
		}
		j.hub.Publish(emp.OwnerID, presence.NewCheckOut(presence.Employee{
			ID:    emp.ID,
			Name:  emp.FullName,
			Email: emp.Email,
		}, eventSite, lat, lon, clockOut))
	}

	slog.Info("Cron: Auto-closed stale attendances", "count", closedCount)
	return nil
}
