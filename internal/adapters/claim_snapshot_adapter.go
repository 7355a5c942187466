package adapters

import (
	"context"

	claimrepo "evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/notification"

	"github.com/google/uuid"
)

// ClaimSnapshotAdapter resolves claim contact details for the notification
// module. It wraps the repository directly: snapshots are pure reads and do
// not go through the lifecycle guard.
type ClaimSnapshotAdapter struct {
	repo *claimrepo.Repository
}

// NewClaimSnapshotAdapter creates a new adapter over the claims repository.
func NewClaimSnapshotAdapter(repo *claimrepo.Repository) *ClaimSnapshotAdapter {
	return &ClaimSnapshotAdapter{repo: repo}
}

// Snapshot loads the claim fields notifications need.
func (a *ClaimSnapshotAdapter) Snapshot(ctx context.Context, claimID uuid.UUID) (notification.ClaimSnapshot, error) {
	claim, err := a.repo.GetByID(ctx, claimID)
	if err != nil {
		return notification.ClaimSnapshot{}, err
	}

	return notification.ClaimSnapshot{
		ID:            claim.ID,
		ClaimNumber:   claim.ClaimNumber,
		Status:        claim.Status,
		CustomerName:  claim.CustomerName,
		CustomerEmail: claim.CustomerEmail,
		TrackingToken: claim.TrackingToken,
		OwnerID:       claim.CreatedBy,
	}, nil
}

// Compile-time check.
var _ notification.ClaimReader = (*ClaimSnapshotAdapter)(nil)
