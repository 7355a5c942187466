package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"evwarranty_backend/platform/apperr"
)

// CreateVehicle registers a vehicle record.
func (r *Repository) CreateVehicle(ctx context.Context, v *Vehicle) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evw_vehicles (id, vin, model, registered_at, mileage_km, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.VIN, v.Model, v.RegisteredAt, v.MileageKm, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetVehicle fetches a vehicle by id.
func (r *Repository) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	var v Vehicle
	err := r.pool.QueryRow(ctx, `
		SELECT id, vin, model, registered_at, mileage_km, updated_at
		FROM evw_vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.VIN, &v.Model, &v.RegisteredAt, &v.MileageKm, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// GetVehicleByVIN fetches a vehicle by its VIN.
func (r *Repository) GetVehicleByVIN(ctx context.Context, vin string) (*Vehicle, error) {
	var v Vehicle
	err := r.pool.QueryRow(ctx, `
		SELECT id, vin, model, registered_at, mileage_km, updated_at
		FROM evw_vehicles WHERE vin = $1`, vin,
	).Scan(&v.ID, &v.VIN, &v.Model, &v.RegisteredAt, &v.MileageKm, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle by vin: %w", err)
	}
	return &v, nil
}

// UpdateVehicleMileage records a new odometer reading. Mileage never goes
// backwards; a lower reading is rejected.
func (r *Repository) UpdateVehicleMileage(ctx context.Context, id uuid.UUID, mileageKm int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evw_vehicles SET mileage_km = $2, updated_at = $3
		WHERE id = $1 AND mileage_km <= $2`,
		id, mileageKm, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle mileage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Validation("mileage reading is lower than the recorded value")
	}
	return nil
}
