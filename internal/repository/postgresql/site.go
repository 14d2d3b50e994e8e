package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presensi-backend-go/internal/domain/site"
	"github.com/cmlabs-hris/presensi-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type siteRepositoryImpl struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepositoryImpl{db: db}
}

// GetByID implements site.SiteRepository.
func (s *siteRepositoryImpl) GetByID(ctx context.Context, id string) (site.Site, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, owner_id, name, address, latitude, longitude, radius_meters, is_remote,
			   created_at, updated_at
		FROM sites
		WHERE id = $1
	`

	var st site.Site
	err := q.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.OwnerID, &st.Name, &st.Address, &st.Latitude, &st.Longitude,
		&st.RadiusMeters, &st.IsRemote,
		&st.CreatedAt, &st.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site: %w", err)
	}

	return st, nil
}

// GetByOwner implements site.SiteRepository.
func (s *siteRepositoryImpl) GetByOwner(ctx context.Context, ownerID string) ([]site.Site, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, owner_id, name, address, latitude, longitude, radius_meters, is_remote,
			   created_at, updated_at
		FROM sites
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sites by owner: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		var st site.Site
		if err := rows.Scan(
			&st.ID, &st.OwnerID, &st.Name, &st.Address, &st.Latitude, &st.Longitude,
			&st.RadiusMeters, &st.IsRemote,
			&st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}

	return sites, nil
}
