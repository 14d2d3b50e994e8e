package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

// requireTestDB connects to the test database once and skips the calling test
// when TEST_DATABASE_URL is not set, so the suite stays green on machines
// without PostgreSQL.
func requireTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	if testDB == nil {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		require.NoError(t, err, "failed to connect to test database")
	}

	return testDB
}

// setupTest truncates all tables before the test and again after it.
func setupTest(t *testing.T) *database.DB {
	t.Helper()

	db := requireTestDB(t)
	truncateAllTables(t, db)
	t.Cleanup(func() { truncateAllTables(t, db) })

	return db
}

func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"employee_sessions",
		"location_samples",
		"attendances",
		"employees",
		"sites",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}
}

// createTestUser inserts an admin account and returns its id.
func createTestUser(t *testing.T, ctx context.Context, db *database.DB) string {
	t.Helper()

	var userID string
	err := db.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin@example.com', 'Test Admin', NOW(), NOW())
		RETURNING id
	`).Scan(&userID)
	require.NoError(t, err)

	return userID
}

// createTestSite inserts a fenced site owned by the given admin and returns its id.
func createTestSite(t *testing.T, ctx context.Context, db *database.DB, ownerID, name string) string {
	t.Helper()

	var siteID string
	err := db.QueryRow(ctx, `
		INSERT INTO sites (id, owner_id, name, address, latitude, longitude, radius_meters, is_remote, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, '', -6.2146, 106.8451, 100, false, NOW(), NOW())
		RETURNING id
	`, ownerID, name).Scan(&siteID)
	require.NoError(t, err)

	return siteID
}

// createTestEmployee inserts an employee assigned to siteID (nil for unassigned)
// and returns its id.
func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, ownerID string, siteID *string, code string) string {
	t.Helper()

	var employeeID string
	err := db.QueryRow(ctx, `
		INSERT INTO employees (id, owner_id, site_id, full_name, email, employee_code, password_hash, is_remote, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, 'Test Employee', $3, $4, 'x', false, NOW(), NOW())
		RETURNING id
	`, ownerID, siteID, code+"@example.com", code).Scan(&employeeID)
	require.NoError(t, err)

	return employeeID
}
