// Package repository provides database operations for the parts catalog.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"evwarranty_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const partNotFoundMsg = "part not found"

// Part is a spare part with its current price.
type Part struct {
	ID        uuid.UUID
	SKU       string
	Name      string
	Category  string
	UnitCents int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePartParams holds the fields for a new part.
type CreatePartParams struct {
	SKU       string
	Name      string
	Category  string
	UnitCents int64
}

// UpdatePartParams holds optional field updates. Nil fields are kept.
type UpdatePartParams struct {
	ID        uuid.UUID
	Name      *string
	Category  *string
	UnitCents *int64
}

// ListPartsParams filters and paginates the part list.
type ListPartsParams struct {
	Search    string
	Category  string
	IsActive  *bool
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
}

// Repository provides database operations for parts.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const partColumns = `
	id, sku, name, category, unit_cents, is_active, created_at, updated_at`

func scanPart(row pgx.Row) (Part, error) {
	var p Part
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.UnitCents,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Part{}, apperr.NotFound(partNotFoundMsg)
		}
		return Part{}, fmt.Errorf("failed to scan part: %w", err)
	}
	return p, nil
}

// Create inserts a new part. Duplicate SKUs surface as a conflict.
func (r *Repository) Create(ctx context.Context, params CreatePartParams) (Part, error) {
	query := `
		INSERT INTO evw_catalog_parts (id, sku, name, category, unit_cents, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, now(), now())
		RETURNING ` + partColumns

	p, err := scanPart(r.pool.QueryRow(ctx, query,
		uuid.New(), params.SKU, params.Name, params.Category, params.UnitCents,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return Part{}, apperr.Conflict("part with this SKU already exists")
		}
		return Part{}, err
	}
	return p, nil
}

// Update changes part fields, keeping values whose params are nil.
func (r *Repository) Update(ctx context.Context, params UpdatePartParams) (Part, error) {
	query := `
		UPDATE evw_catalog_parts
		SET name = COALESCE($2, name),
			category = COALESCE($3, category),
			unit_cents = COALESCE($4, unit_cents),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + partColumns

	return scanPart(r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Category, params.UnitCents))
}

// GetByID fetches one part.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Part, error) {
	query := `SELECT ` + partColumns + ` FROM evw_catalog_parts WHERE id = $1`
	return scanPart(r.pool.QueryRow(ctx, query, id))
}

// GetBySKU fetches one part by its SKU.
func (r *Repository) GetBySKU(ctx context.Context, sku string) (Part, error) {
	query := `SELECT ` + partColumns + ` FROM evw_catalog_parts WHERE sku = $1`
	return scanPart(r.pool.QueryRow(ctx, query, sku))
}

// SetActive flips the part's availability flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE evw_catalog_parts SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("failed to set part active flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(partNotFoundMsg)
	}
	return nil
}

// List returns parts matching the filters plus the unpaginated total.
func (r *Repository) List(ctx context.Context, params ListPartsParams) ([]Part, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}
	if params.IsActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *params.IsActive)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM evw_catalog_parts WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count parts: %w", err)
	}

	sortColumn := "name"
	switch params.SortBy {
	case "sku":
		sortColumn = "sku"
	case "unitCents":
		sortColumn = "unit_cents"
	case "createdAt":
		sortColumn = "created_at"
	}
	sortOrder := "ASC"
	if strings.EqualFold(params.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM evw_catalog_parts WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		partColumns, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var out []Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
