// Package repository provides database operations for technician profiles.
// Workload changes lock the profile row so concurrent claim assignments
// cannot oversubscribe a technician.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evwarranty_backend/internal/technicians/domain"
	"evwarranty_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const technicianNotFoundMsg = "technician not found"

// Repository provides database operations for technicians.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new technicians repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InTx runs fn inside one transaction, mapping lock races to
// ConcurrencyConflict so callers can retry.
func (r *Repository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return mapConcurrencyError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapConcurrencyError(err)
	}
	return nil
}

func mapConcurrencyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return apperr.ConcurrencyConflict("technician was modified concurrently, retry the command")
		}
	}
	return err
}

const technicianColumns = `
	id, name, specialty, certification_level, active, max_workload,
	current_workload, avg_repair_hours, completed_count, available_from, updated_at`

func scanTechnician(row pgx.Row) (*domain.Technician, error) {
	var t domain.Technician
	err := row.Scan(
		&t.ID, &t.Name, &t.Specialty, &t.CertificationLevel, &t.Active, &t.MaxWorkload,
		&t.CurrentWorkload, &t.AvgRepairHours, &t.CompletedCount, &t.AvailableFrom, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(technicianNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan technician: %w", err)
	}
	return &t, nil
}

// Create inserts a technician profile.
func (r *Repository) Create(ctx context.Context, t *domain.Technician) error {
	query := `
		INSERT INTO evw_technicians (
			id, name, specialty, certification_level, active, max_workload,
			current_workload, avg_repair_hours, completed_count, available_from, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.Name, t.Specialty, t.CertificationLevel, t.Active, t.MaxWorkload,
		t.CurrentWorkload, t.AvgRepairHours, t.CompletedCount, t.AvailableFrom, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert technician: %w", err)
	}
	return nil
}

// GetByID fetches one technician.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM evw_technicians WHERE id = $1`
	return scanTechnician(r.pool.QueryRow(ctx, query, id))
}

// GetForUpdate fetches one technician inside tx with a row lock.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM evw_technicians WHERE id = $1 FOR UPDATE`
	return scanTechnician(tx.QueryRow(ctx, query, id))
}

// List returns all technicians ordered by name.
func (r *Repository) List(ctx context.Context) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM evw_technicians ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var out []domain.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ListForAssignment returns the active technicians matching the specialty
// and certification floor inside tx with their rows locked, ordered so the
// preferred candidate comes first. Locking the candidate set for the
// duration of the pick keeps two concurrent assignments from landing on the
// same last free slot. An empty specialty matches every specialty.
func (r *Repository) ListForAssignment(ctx context.Context, tx pgx.Tx, specialty string, minLevel int) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + `
		FROM evw_technicians
		WHERE active
		  AND ($1 = '' OR lower(specialty) = lower($1))
		  AND certification_level >= $2
		ORDER BY current_workload ASC, avg_repair_hours ASC, id ASC
		FOR UPDATE`

	rows, err := tx.Query(ctx, query, specialty, minLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians for assignment: %w", err)
	}
	defer rows.Close()

	var out []domain.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateProfile persists mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, tx pgx.Tx, t *domain.Technician) error {
	query := `
		UPDATE evw_technicians
		SET name = $2, specialty = $3, certification_level = $4, active = $5,
		    max_workload = $6, updated_at = $7
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		t.ID, t.Name, t.Specialty, t.CertificationLevel, t.Active, t.MaxWorkload, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMsg)
	}
	return nil
}

// IncrementWorkload raises the locked technician's workload by one. When the
// bump fills the last slot, freeAt records the estimated time the next slot
// opens so future-dated assignment checks have a horizon.
func (r *Repository) IncrementWorkload(ctx context.Context, tx pgx.Tx, id uuid.UUID, now time.Time, freeAt *time.Time) error {
	query := `
		UPDATE evw_technicians
		SET current_workload = current_workload + 1,
		    available_from = CASE WHEN current_workload + 1 >= max_workload THEN $3 ELSE available_from END,
		    updated_at = $2
		WHERE id = $1 AND current_workload < max_workload`

	tag, err := tx.Exec(ctx, query, id, now, freeAt)
	if err != nil {
		return fmt.Errorf("failed to increment workload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.CapacityUnavailable("technician has no free capacity")
	}
	return nil
}

// DecrementWorkload lowers the technician's workload by one, never below
// zero, and clears the next-free estimate since a slot just opened.
func (r *Repository) DecrementWorkload(ctx context.Context, tx pgx.Tx, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE evw_technicians
		SET current_workload = GREATEST(current_workload - 1, 0),
		    available_from = NULL,
		    updated_at = $2
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id, now); err != nil {
		return fmt.Errorf("failed to decrement workload: %w", err)
	}
	return nil
}

// UpdateStats persists the completion statistics computed in the domain.
func (r *Repository) UpdateStats(ctx context.Context, tx pgx.Tx, id uuid.UUID, avgHours float64, completedCount int, now time.Time) error {
	query := `
		UPDATE evw_technicians
		SET avg_repair_hours = $2, completed_count = $3, updated_at = $4
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, avgHours, completedCount, now)
	if err != nil {
		return fmt.Errorf("failed to update completion stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMsg)
	}
	return nil
}
