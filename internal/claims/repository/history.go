package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AppendHistory writes one audit row for a transition. Must run inside the
// same transaction as the status change it records.
func (r *Repository) AppendHistory(ctx context.Context, tx pgx.Tx, h *StatusHistory) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_status_history (id, claim_id, status_code, status_label, actor_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.ClaimID, h.StatusCode, h.StatusLabel, h.ActorID, h.Note, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

// ListHistory returns the full audit trail for a claim, oldest first.
func (r *Repository) ListHistory(ctx context.Context, claimID uuid.UUID) ([]StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, claim_id, status_code, status_label, actor_id, note, created_at
		FROM evw_claim_status_history
		WHERE claim_id = $1
		ORDER BY created_at ASC, id ASC`, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var history []StatusHistory
	for rows.Next() {
		var h StatusHistory
		if err := rows.Scan(&h.ID, &h.ClaimID, &h.StatusCode, &h.StatusLabel, &h.ActorID, &h.Note, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status history: %w", err)
	}
	return history, nil
}
