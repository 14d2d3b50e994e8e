package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/site"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/sse"
)

type sweeperAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.Attendance
}

func newSweeperAttendanceRepo() *sweeperAttendanceRepo {
	return &sweeperAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *sweeperAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[att.ID] = att
	return att, nil
}

func (f *sweeperAttendanceRepo) GetOpenByEmployee(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *sweeperAttendanceRepo) Close(ctx context.Context, id string, clockOut time.Time, latitude, longitude float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	att, ok := f.records[id]
	if !ok || att.ClockOut != nil {
		return attendance.ErrAttendanceNotFound
	}
	att.ClockOut = &clockOut
	att.ClockOutLatitude = &latitude
	att.ClockOutLongitude = &longitude
	f.records[id] = att
	return nil
}

func (f *sweeperAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (f *sweeperAttendanceRepo) GetStaleOpen(ctx context.Context, olderThan time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.ClockOut == nil && att.ClockIn.Before(olderThan) {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *sweeperAttendanceRepo) get(id string) (attendance.Attendance, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	att, ok := f.records[id]
	return att, ok
}

type sweeperEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *sweeperEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *sweeperEmployeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *sweeperEmployeeRepo) LatestPositions(ctx context.Context, ownerID string) ([]employee.Position, error) {
	return nil, nil
}

type sweeperSiteRepo struct {
	sites map[string]site.Site
}

func (f *sweeperSiteRepo) GetByID(ctx context.Context, id string) (site.Site, error) {
	st, ok := f.sites[id]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	return st, nil
}

func (f *sweeperSiteRepo) GetByOwner(ctx context.Context, ownerID string) ([]site.Site, error) {
	return nil, nil
}

type sweeperSampleRepo struct {
	samples []location.Sample
}

func (f *sweeperSampleRepo) Append(ctx context.Context, sample location.Sample) error {
	f.samples = append(f.samples, sample)
	return nil
}

func (f *sweeperSampleRepo) LatestByEmployee(ctx context.Context, employeeID string) (location.Sample, error) {
	for i := len(f.samples) - 1; i >= 0; i-- {
		if f.samples[i].EmployeeID == employeeID {
			return f.samples[i], nil
		}
	}
	return location.Sample{}, location.ErrSampleNotFound
}

type sweeperFixture struct {
	jobs        *AttendanceJobs
	attendances *sweeperAttendanceRepo
	employees   *sweeperEmployeeRepo
	sites       *sweeperSiteRepo
	samples     *sweeperSampleRepo
	hub         *sse.Hub
}

func newSweeperFixture(maxOpenAge time.Duration) *sweeperFixture {
	f := &sweeperFixture{
		attendances: newSweeperAttendanceRepo(),
		employees:   &sweeperEmployeeRepo{employees: make(map[string]employee.Employee)},
		sites:       &sweeperSiteRepo{sites: make(map[string]site.Site)},
		samples:     &sweeperSampleRepo{},
		hub:         sse.NewHub(),
	}
	f.employees.employees["emp-1"] = employee.Employee{
		ID:       "emp-1",
		OwnerID:  "owner-1",
		FullName: "Employee emp-1",
		Email:    "emp-1@example.com",
	}
	f.sites.sites["site-1"] = site.Site{ID: "site-1", OwnerID: "owner-1", Name: "HQ"}
	f.jobs = NewAttendanceJobs(f.attendances, f.employees, f.sites, f.samples, f.hub, maxOpenAge)
	return f
}

func (f *sweeperFixture) seedOpenRecord(id string, age time.Duration) attendance.Attendance {
	att := attendance.Attendance{
		ID:               id,
		EmployeeID:       "emp-1",
		SiteID:           "site-1",
		ClockIn:          time.Now().UTC().Add(-age),
		ClockInLatitude:  -6.2146,
		ClockInLongitude: 106.8451,
	}
	f.attendances.records[id] = att
	return att
}

// Test that the sweeper closes an abandoned record at the last reported position
func TestAttendanceJobs_AutoCloseStaleAttendances_ClosesAtLastSample(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(24 * time.Hour)
	f.seedOpenRecord("att-1", 30*time.Hour)

	sampleTime := time.Now().UTC().Add(-2 * time.Hour)
	f.samples.samples = append(f.samples.samples, location.Sample{
		ID:         "sample-1",
		EmployeeID: "emp-1",
		Latitude:   -6.3,
		Longitude:  106.9,
		RecordedAt: sampleTime,
	})

	ch, cleanup := f.hub.Register("owner-1")
	defer cleanup()

	require.NoError(t, f.jobs.AutoCloseStaleAttendances(ctx))

	closed, ok := f.attendances.get("att-1")
	require.True(t, ok)
	require.NotNil(t, closed.ClockOut)
	assert.True(t, closed.ClockOut.Equal(sampleTime))
	require.NotNil(t, closed.ClockOutLatitude)
	assert.InDelta(t, -6.3, *closed.ClockOutLatitude, 1e-9)

	select {
	case event := <-ch:
		assert.Equal(t, presence.TypeCheckOut, event.Type)
		assert.Equal(t, "emp-1", event.Employee.ID)
		require.NotNil(t, event.Site)
		assert.Equal(t, "HQ", event.Site.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for checkout event")
	}
}

// Test that a record with no later samples closes at its check-in position
func TestAttendanceJobs_AutoCloseStaleAttendances_FallsBackToCheckInCoords(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(24 * time.Hour)
	seeded := f.seedOpenRecord("att-1", 30*time.Hour)

	require.NoError(t, f.jobs.AutoCloseStaleAttendances(ctx))

	closed, ok := f.attendances.get("att-1")
	require.True(t, ok)
	require.NotNil(t, closed.ClockOut)
	require.NotNil(t, closed.ClockOutLatitude)
	assert.InDelta(t, seeded.ClockInLatitude, *closed.ClockOutLatitude, 1e-9)
	assert.WithinDuration(t, time.Now().UTC(), *closed.ClockOut, 5*time.Second)
}

func TestAttendanceJobs_AutoCloseStaleAttendances_SkipsFreshRecords(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(24 * time.Hour)
	f.seedOpenRecord("att-1", 1*time.Hour)

	require.NoError(t, f.jobs.AutoCloseStaleAttendances(ctx))

	fresh, ok := f.attendances.get("att-1")
	require.True(t, ok)
	assert.Nil(t, fresh.ClockOut)
}

func TestAttendanceJobs_RegisterJobs_RunsThroughScheduler(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(24 * time.Hour)
	f.seedOpenRecord("att-1", 30*time.Hour)

	scheduler := NewScheduler()
	f.jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(ctx)

	closed, ok := f.attendances.get("att-1")
	require.True(t, ok)
	assert.NotNil(t, closed.ClockOut)
}
