package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/presensi-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createOpenAttendance inserts an open record with the given clock-in time and
// returns its id.
func createOpenAttendance(t *testing.T, ctx context.Context, db *database.DB, employeeID, siteID string, clockIn time.Time) string {
	t.Helper()

	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO attendances (id, employee_id, site_id, clock_in, clock_in_latitude, clock_in_longitude)
		VALUES (gen_random_uuid(), $1, $2, $3, -6.2146, 106.8451)
		RETURNING id
	`, employeeID, siteID, clockIn).Scan(&id)
	require.NoError(t, err)

	return id
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_Create_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	created, err := attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID:       employeeID,
		SiteID:           siteID,
		ClockIn:          time.Now().UTC(),
		ClockInLatitude:  -6.2146,
		ClockInLongitude: 106.8451,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.ClockOut)
}

func TestAttendanceRepository_GetOpenByEmployee_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	id := createOpenAttendance(t, ctx, db, employeeID, siteID, time.Now().UTC())

	open, err := attendanceRepo.GetOpenByEmployee(ctx, employeeID)

	assert.NoError(t, err)
	assert.Equal(t, id, open.ID)
	assert.Nil(t, open.ClockOut)
}

func TestAttendanceRepository_GetOpenByEmployee_NotFound(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	employeeID := createTestEmployee(t, ctx, db, ownerID, nil, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	_, err := attendanceRepo.GetOpenByEmployee(ctx, employeeID)

	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_Close_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	id := createOpenAttendance(t, ctx, db, employeeID, siteID, time.Now().UTC().Add(-8*time.Hour))

	err := attendanceRepo.Close(ctx, id, time.Now().UTC(), -6.2150, 106.8455)
	assert.NoError(t, err)

	_, err = attendanceRepo.GetOpenByEmployee(ctx, employeeID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_Close_AlreadyClosed(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	id := createOpenAttendance(t, ctx, db, employeeID, siteID, time.Now().UTC().Add(-8*time.Hour))

	require.NoError(t, attendanceRepo.Close(ctx, id, time.Now().UTC(), -6.2150, 106.8455))

	// The guard on clock_out IS NULL makes a second close a no-op.
	err := attendanceRepo.Close(ctx, id, time.Now().UTC(), -6.2150, 106.8455)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_GetStaleOpen_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	staleEmployee := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	freshEmployee := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP002")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	staleID := createOpenAttendance(t, ctx, db, staleEmployee, siteID, time.Now().UTC().Add(-30*time.Hour))
	createOpenAttendance(t, ctx, db, freshEmployee, siteID, time.Now().UTC().Add(-2*time.Hour))

	stale, err := attendanceRepo.GetStaleOpen(ctx, time.Now().UTC().Add(-24*time.Hour))

	assert.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, staleID, stale[0].ID)
}

func TestAttendanceRepository_ListByEmployee_DateFilter(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	old := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	createOpenAttendance(t, ctx, db, employeeID, siteID, old)
	recentID := createOpenAttendance(t, ctx, db, employeeID, siteID, recent)

	startDate := "2026-08-15"
	records, total, err := attendanceRepo.ListByEmployee(ctx, employeeID, attendance.HistoryFilter{
		StartDate: &startDate,
		Page:      1,
		Limit:     10,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, recentID, records[0].ID)
	require.NotNil(t, records[0].SiteName)
	assert.Equal(t, "HQ", *records[0].SiteName)
}

func TestAttendanceRepository_ListByEmployee_Pagination(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	base := time.Date(2026, 8, 18, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		createOpenAttendance(t, ctx, db, employeeID, siteID, base.AddDate(0, 0, day))
	}

	records, total, err := attendanceRepo.ListByEmployee(ctx, employeeID, attendance.HistoryFilter{
		Page:  2,
		Limit: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, records, 1)
	// Newest first, so page two holds the oldest record.
	assert.Equal(t, base, records[0].ClockIn.UTC())
}

// ===== LOCATION SAMPLE REPOSITORY TESTS =====

func TestLocationRepository_LatestByEmployee_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	employeeID := createTestEmployee(t, ctx, db, ownerID, nil, "EMP001")
	sampleRepo := postgresql.NewLocationRepository(db)

	older := location.Sample{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Latitude:   -6.2146,
		Longitude:  106.8451,
		IsOnSite:   true,
		RecordedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := location.Sample{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Latitude:   -6.3000,
		Longitude:  106.9000,
		IsOnSite:   false,
		RecordedAt: time.Now().UTC(),
	}
	require.NoError(t, sampleRepo.Append(ctx, older))
	require.NoError(t, sampleRepo.Append(ctx, newer))

	latest, err := sampleRepo.LatestByEmployee(ctx, employeeID)

	assert.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.False(t, latest.IsOnSite)
}

func TestLocationRepository_LatestByEmployee_NotFound(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	employeeID := createTestEmployee(t, ctx, db, ownerID, nil, "EMP001")
	sampleRepo := postgresql.NewLocationRepository(db)

	_, err := sampleRepo.LatestByEmployee(ctx, employeeID)

	assert.ErrorIs(t, err, location.ErrSampleNotFound)
}

// ===== EMPLOYEE REPOSITORY TESTS =====

func TestEmployeeRepository_LatestPositions_PicksNewestSample(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	siteID := createTestSite(t, ctx, db, ownerID, "HQ")
	employeeID := createTestEmployee(t, ctx, db, ownerID, &siteID, "EMP001")
	sampleRepo := postgresql.NewLocationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	require.NoError(t, sampleRepo.Append(ctx, location.Sample{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Latitude:   -6.2146,
		Longitude:  106.8451,
		IsOnSite:   true,
		RecordedAt: time.Now().UTC().Add(-time.Hour),
	}))
	require.NoError(t, sampleRepo.Append(ctx, location.Sample{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Latitude:   -6.3000,
		Longitude:  106.9000,
		IsOnSite:   false,
		RecordedAt: time.Now().UTC(),
	}))

	positions, err := employeeRepo.LatestPositions(ctx, ownerID)

	assert.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, employeeID, positions[0].EmployeeID)
	assert.InDelta(t, -6.3000, positions[0].Latitude, 1e-9)
	assert.False(t, positions[0].IsOnSite)
	require.NotNil(t, positions[0].SiteName)
	assert.Equal(t, "HQ", *positions[0].SiteName)
}

func TestEmployeeRepository_GetByEmployeeCode_Success(t *testing.T) {
	db := setupTest(t)
	ctx := context.Background()

	ownerID := createTestUser(t, ctx, db)
	employeeID := createTestEmployee(t, ctx, db, ownerID, nil, "EMP042")
	employeeRepo := postgresql.NewEmployeeRepository(db)

	emp, err := employeeRepo.GetByEmployeeCode(ctx, "EMP042")

	assert.NoError(t, err)
	assert.Equal(t, employeeID, emp.ID)
	assert.Nil(t, emp.SiteID)
}
