package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evwarranty_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Attachment is an evidence file recorded against a claim after its upload
// to object storage.
type Attachment struct {
	ID          uuid.UUID
	ClaimID     uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	CreatedAt   time.Time
}

// CreateAttachmentParams holds the fields for recording an attachment.
type CreateAttachmentParams struct {
	ClaimID     uuid.UUID
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
}

const attachmentColumns = `
	id, claim_id, file_key, file_name, content_type, size_bytes, uploaded_by, created_at`

func scanAttachment(row pgx.Row) (Attachment, error) {
	var a Attachment
	err := row.Scan(
		&a.ID, &a.ClaimID, &a.FileKey, &a.FileName,
		&a.ContentType, &a.SizeBytes, &a.UploadedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attachment{}, apperr.NotFound("attachment not found")
		}
		return Attachment{}, fmt.Errorf("failed to scan attachment: %w", err)
	}
	return a, nil
}

// CreateAttachment records an uploaded evidence file.
func (r *Repository) CreateAttachment(ctx context.Context, params CreateAttachmentParams) (Attachment, error) {
	query := `
		INSERT INTO evw_claim_attachments (
			id, claim_id, file_key, file_name, content_type, size_bytes, uploaded_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + attachmentColumns

	return scanAttachment(r.pool.QueryRow(ctx, query,
		uuid.New(), params.ClaimID, params.FileKey, params.FileName,
		params.ContentType, params.SizeBytes, params.UploadedBy, time.Now(),
	))
}

// ListAttachments returns a claim's attachments, newest first.
func (r *Repository) ListAttachments(ctx context.Context, claimID uuid.UUID) ([]Attachment, error) {
	query := `SELECT ` + attachmentColumns + `
		FROM evw_claim_attachments WHERE claim_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, claimID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAttachmentByID fetches one attachment scoped to its claim.
func (r *Repository) GetAttachmentByID(ctx context.Context, attachmentID, claimID uuid.UUID) (Attachment, error) {
	query := `SELECT ` + attachmentColumns + `
		FROM evw_claim_attachments WHERE id = $1 AND claim_id = $2`
	return scanAttachment(r.pool.QueryRow(ctx, query, attachmentID, claimID))
}

// DeleteAttachment removes an attachment record.
func (r *Repository) DeleteAttachment(ctx context.Context, attachmentID, claimID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM evw_claim_attachments WHERE id = $1 AND claim_id = $2`,
		attachmentID, claimID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("attachment not found")
	}
	return nil
}
