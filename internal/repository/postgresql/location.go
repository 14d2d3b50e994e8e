package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.SampleRepository {
	return &locationRepository{db: db}
}

// Append implements location.SampleRepository.
func (l *locationRepository) Append(ctx context.Context, sample location.Sample) error {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO location_samples (id, employee_id, latitude, longitude, is_on_site, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		sample.ID,
		sample.EmployeeID,
		sample.Latitude,
		sample.Longitude,
		sample.IsOnSite,
		sample.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append location sample: %w", err)
	}

	return nil
}

// LatestByEmployee implements location.SampleRepository.
func (l *locationRepository) LatestByEmployee(ctx context.Context, employeeID string) (location.Sample, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, latitude, longitude, is_on_site, recorded_at
		FROM location_samples
		WHERE employee_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var sample location.Sample
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&sample.ID, &sample.EmployeeID, &sample.Latitude, &sample.Longitude,
		&sample.IsOnSite, &sample.RecordedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return location.Sample{}, location.ErrSampleNotFound
		}
		return location.Sample{}, fmt.Errorf("failed to get latest location sample: %w", err)
	}

	return sample, nil
}
