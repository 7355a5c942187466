package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evwarranty_backend/internal/warranty/domain"
	"evwarranty_backend/platform/apperr"
)

// Policy is a named coverage program a manufacturer publishes. Its
// conditions carry the actual limits per vehicle model.
type Policy struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreatePolicy(ctx context.Context, p *Policy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evw_warranty_policies (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create warranty policy: %w", err)
	}
	return nil
}

func (r *Repository) GetPolicy(ctx context.Context, id uuid.UUID) (*Policy, error) {
	var p Policy
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM evw_warranty_policies WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("warranty policy not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warranty policy: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListPolicies(ctx context.Context) ([]Policy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM evw_warranty_policies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list warranty policies: %w", err)
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warranty policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// CountPolicies reports how many policies exist. Seeding only runs against
// an empty table.
func (r *Repository) CountPolicies(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM evw_warranty_policies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count warranty policies: %w", err)
	}
	return n, nil
}

const conditionColumns = `
	id, policy_id, vehicle_model, coverage_years, coverage_km,
	effective_from, effective_to, updated_at`

func scanCondition(rows pgx.Rows) (domain.Condition, error) {
	var c domain.Condition
	err := rows.Scan(
		&c.ID, &c.PolicyID, &c.VehicleModel, &c.CoverageYears, &c.CoverageKm,
		&c.EffectiveFrom, &c.EffectiveTo, &c.UpdatedAt,
	)
	return c, err
}

func (r *Repository) CreateCondition(ctx context.Context, c *domain.Condition) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evw_warranty_conditions (
			id, policy_id, vehicle_model, coverage_years, coverage_km,
			effective_from, effective_to, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.PolicyID, c.VehicleModel, c.CoverageYears, c.CoverageKm,
		c.EffectiveFrom, c.EffectiveTo, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create warranty condition: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCondition(ctx context.Context, c *domain.Condition) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evw_warranty_conditions SET
			coverage_years = $2, coverage_km = $3,
			effective_from = $4, effective_to = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, c.CoverageYears, c.CoverageKm, c.EffectiveFrom, c.EffectiveTo, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update warranty condition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("warranty condition not found")
	}
	return nil
}

// ListConditionsForModel returns every condition targeting the model; the
// evaluator resolves which one governs.
func (r *Repository) ListConditionsForModel(ctx context.Context, model string) ([]domain.Condition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conditionColumns+` FROM evw_warranty_conditions WHERE vehicle_model = $1`, model)
	if err != nil {
		return nil, fmt.Errorf("failed to list warranty conditions: %w", err)
	}
	defer rows.Close()

	var conditions []domain.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warranty condition: %w", err)
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}

// ListConditionsForPolicy returns all conditions of one policy.
func (r *Repository) ListConditionsForPolicy(ctx context.Context, policyID uuid.UUID) ([]domain.Condition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conditionColumns+` FROM evw_warranty_conditions WHERE policy_id = $1 ORDER BY vehicle_model`, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warranty conditions: %w", err)
	}
	defer rows.Close()

	var conditions []domain.Condition
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warranty condition: %w", err)
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}
