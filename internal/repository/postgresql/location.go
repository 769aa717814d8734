package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const locationColumns = `
	id, name, COALESCE(address, ''), latitude, longitude, radius_meters, is_active, created_at, updated_at`

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

func scanLocation(row pgx.Row) (location.OfficeLocation, error) {
	var l location.OfficeLocation
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.RadiusMeters, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *locationRepositoryImpl) Create(ctx context.Context, l location.OfficeLocation) (location.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO office_locations (name, address, latitude, longitude, radius_meters, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING` + locationColumns

	created, err := scanLocation(q.QueryRow(ctx, query, l.Name, l.Address, l.Latitude, l.Longitude, l.RadiusMeters, l.IsActive))
	if err != nil {
		return location.OfficeLocation{}, fmt.Errorf("failed to create location: %w", err)
	}
	return created, nil
}

func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLocation(q.QueryRow(ctx, "SELECT"+locationColumns+" FROM office_locations WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.OfficeLocation{}, location.ErrLocationNotFound
		}
		return location.OfficeLocation{}, fmt.Errorf("failed to get location: %w", err)
	}
	return l, nil
}

func (r *locationRepositoryImpl) List(ctx context.Context, includeInactive bool) ([]location.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, "SELECT"+locationColumns+" FROM office_locations WHERE is_active OR $1 ORDER BY name", includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := []location.OfficeLocation{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *locationRepositoryImpl) Update(ctx context.Context, l location.OfficeLocation) (location.OfficeLocation, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE office_locations
		SET name = $1, address = NULLIF($2, ''), latitude = $3, longitude = $4, radius_meters = $5,
			is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING` + locationColumns

	updated, err := scanLocation(q.QueryRow(ctx, query, l.Name, l.Address, l.Latitude, l.Longitude, l.RadiusMeters, l.IsActive, l.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.OfficeLocation{}, location.ErrLocationNotFound
		}
		return location.OfficeLocation{}, fmt.Errorf("failed to update location: %w", err)
	}
	return updated, nil
}

func (r *locationRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE office_locations SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrLocationNotFound
	}
	return nil
}
