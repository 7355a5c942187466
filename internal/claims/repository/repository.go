// Package repository provides database operations for the claims aggregate.
// Every lifecycle command runs inside a single transaction that locks the
// claim row with a write intent, so concurrent commands against the same
// claim serialize and re-evaluate guards against committed state.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evwarranty_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const claimNotFoundMsg = "claim not found"

// Repository provides database operations for claims.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new claims repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InTx runs fn inside one transaction. Serialization failures and deadlocks
// surface as ConcurrencyConflict, which callers may retry: guards re-run
// against fresh state on the next attempt.
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

// mapConcurrencyError converts Postgres lock-race failures into the typed
// ConcurrencyConflict error. Everything else passes through unchanged.
func mapConcurrencyError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization failure, deadlock, lock not available
			return apperr.ConcurrencyConflict("claim was modified concurrently, retry the command")
		}
	}
	return err
}

// NextClaimNumber atomically generates the next claim number for the current
// year, formatted WC-<year>-<seq>.
func (r *Repository) NextClaimNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	var nextNum int
	query := `
		INSERT INTO evw_claim_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = evw_claim_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", fmt.Errorf("failed to generate claim number: %w", err)
	}

	return fmt.Sprintf("WC-%d-%05d", year, nextNum), nil
}

// Create inserts the aggregate root inside tx. Further sub-records are
// created lazily by their own upserts as the lifecycle progresses.
func (r *Repository) Create(ctx context.Context, tx pgx.Tx, claim *Claim) error {
	query := `
		INSERT INTO evw_claims (
			id, claim_number, status, cancel_state, vehicle_id,
			customer_name, customer_phone, customer_email, tracking_token,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := tx.Exec(ctx, query,
		claim.ID, claim.ClaimNumber, claim.Status, claim.CancelState, claim.VehicleID,
		claim.CustomerName, claim.CustomerPhone, claim.CustomerEmail, claim.TrackingToken,
		claim.CreatedBy, claim.CreatedAt, claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

const claimColumns = `
	id, claim_number, status, cancel_state, vehicle_id,
	customer_name, customer_phone, customer_email, tracking_token,
	created_by, created_at, updated_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(
		&c.ID, &c.ClaimNumber, &c.Status, &c.CancelState, &c.VehicleID,
		&c.CustomerName, &c.CustomerPhone, &c.CustomerEmail, &c.TrackingToken,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(claimNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}
	return &c, nil
}

// GetForUpdate loads the claim root with a write-intent lock inside tx.
// The lock blocks concurrent commands on the same claim until commit.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, claimID uuid.UUID) (*Claim, error) {
	row := tx.QueryRow(ctx, `SELECT `+claimColumns+` FROM evw_claims WHERE id = $1 FOR UPDATE`, claimID)
	claim, err := scanClaim(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadSubRecords(ctx, tx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// GetByID loads a claim and its sub-records without locking.
func (r *Repository) GetByID(ctx context.Context, claimID uuid.UUID) (*Claim, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM evw_claims WHERE id = $1`, claimID)
	claim, err := scanClaim(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadSubRecords(ctx, r.pool, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// GetByTrackingToken loads the claim referenced by a public tracking token.
func (r *Repository) GetByTrackingToken(ctx context.Context, token string) (*Claim, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM evw_claims WHERE tracking_token = $1`, token)
	return scanClaim(row)
}

// UpdateStatus writes the new main-flow status inside tx.
func (r *Repository) UpdateStatus(ctx context.Context, tx pgx.Tx, claimID uuid.UUID, status string, now time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE evw_claims SET status = $2, updated_at = $3 WHERE id = $1`,
		claimID, status, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update claim status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(claimNotFoundMsg)
	}
	return nil
}

// UpdateCancelState writes the cancellation sub-flow state inside tx.
func (r *Repository) UpdateCancelState(ctx context.Context, tx pgx.Tx, claimID uuid.UUID, state string, now time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE evw_claims SET cancel_state = $2, updated_at = $3 WHERE id = $1`,
		claimID, state, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update cancel state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(claimNotFoundMsg)
	}
	return nil
}

// List returns a paginated claim listing, optionally filtered.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 25
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *params.Status)
		idx++
	}
	if params.VehicleID != nil {
		where += fmt.Sprintf(" AND vehicle_id = $%d", idx)
		args = append(args, *params.VehicleID)
		idx++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (claim_number ILIKE $%d OR customer_name ILIKE $%d)", idx, idx)
		args = append(args, "%"+params.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM evw_claims`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count claims: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := `SELECT ` + claimColumns + ` FROM evw_claims` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	defer rows.Close()

	items := []Claim{}
	for rows.Next() {
		var c Claim
		if err := rows.Scan(
			&c.ID, &c.ClaimNumber, &c.Status, &c.CancelState, &c.VehicleID,
			&c.CustomerName, &c.CustomerPhone, &c.CustomerEmail, &c.TrackingToken,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan claim row: %w", err)
		}
		items = append(items, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
