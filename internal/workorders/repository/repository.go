// Package repository provides database operations for work orders.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"evwarranty_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workOrderNotFoundMsg = "work order not found"

// Repository provides database operations for work orders.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new work orders repository.
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
			return apperr.ConcurrencyConflict("work order was modified concurrently, retry the command")
		}
	}
	return err
}

const workOrderColumns = `
	id, claim_id, technician_id, description, status,
	labor_hours, parts, parts_cents, created_at, updated_at, completed_at`

func scanWorkOrder(row pgx.Row) (*WorkOrder, error) {
	var (
		w         WorkOrder
		partsJSON []byte
	)
	err := row.Scan(
		&w.ID, &w.ClaimID, &w.TechnicianID, &w.Description, &w.Status,
		&w.LaborHours, &partsJSON, &w.PartsCents, &w.CreatedAt, &w.UpdatedAt, &w.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(workOrderNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan work order: %w", err)
	}
	if len(partsJSON) > 0 {
		if err := json.Unmarshal(partsJSON, &w.Parts); err != nil {
			return nil, fmt.Errorf("failed to decode work order parts: %w", err)
		}
	}
	return &w, nil
}

// Create inserts a new work order.
func (r *Repository) Create(ctx context.Context, w *WorkOrder) error {
	partsJSON, err := json.Marshal(w.Parts)
	if err != nil {
		return fmt.Errorf("failed to encode work order parts: %w", err)
	}

	query := `
		INSERT INTO evw_work_orders (
			id, claim_id, technician_id, description, status,
			labor_hours, parts, parts_cents, created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		w.ID, w.ClaimID, w.TechnicianID, w.Description, w.Status,
		w.LaborHours, partsJSON, w.PartsCents, w.CreatedAt, w.UpdatedAt, w.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert work order: %w", err)
	}
	return nil
}

// GetByID fetches one work order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM evw_work_orders WHERE id = $1`
	return scanWorkOrder(r.pool.QueryRow(ctx, query, id))
}

// GetForUpdate fetches one work order inside tx with a row lock.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM evw_work_orders WHERE id = $1 FOR UPDATE`
	return scanWorkOrder(tx.QueryRow(ctx, query, id))
}

// ListForClaim returns a claim's work orders in creation order.
func (r *Repository) ListForClaim(ctx context.Context, claimID uuid.UUID) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
		FROM evw_work_orders WHERE claim_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var out []WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Complete records the order's outcome inside tx.
func (r *Repository) Complete(ctx context.Context, tx pgx.Tx, w *WorkOrder) error {
	partsJSON, err := json.Marshal(w.Parts)
	if err != nil {
		return fmt.Errorf("failed to encode work order parts: %w", err)
	}

	query := `
		UPDATE evw_work_orders
		SET status = $2, labor_hours = $3, parts = $4, parts_cents = $5,
			updated_at = $6, completed_at = $7
		WHERE id = $1`

	_, err = tx.Exec(ctx, query,
		w.ID, w.Status, w.LaborHours, partsJSON, w.PartsCents, w.UpdatedAt, w.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to complete work order: %w", err)
	}
	return nil
}

// Summarize aggregates a claim's work orders: open and completed counts plus
// the labor hours and part costs of completed work.
func (r *Repository) Summarize(ctx context.Context, claimID uuid.UUID) (Summary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3),
			COALESCE(SUM(labor_hours) FILTER (WHERE status = $3), 0),
			COALESCE(SUM(parts_cents) FILTER (WHERE status = $3), 0)
		FROM evw_work_orders
		WHERE claim_id = $1`

	var s Summary
	err := r.pool.QueryRow(ctx, query, claimID, StatusOpen, StatusCompleted).
		Scan(&s.Open, &s.Completed, &s.LaborHours, &s.PartsCents)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize work orders: %w", err)
	}
	return s, nil
}
