package adapters

import (
	"context"

	claimsvc "evwarranty_backend/internal/claims/service"
	worepo "evwarranty_backend/internal/workorders/repository"

	"github.com/google/uuid"
)

// WorkOrderReaderAdapter exposes work order aggregates to the claims
// lifecycle for the repair completion check and cost booking. It wraps the
// repository rather than the service so the claims module can be built
// before the work orders module, which itself depends on claims.
type WorkOrderReaderAdapter struct {
	repo *worepo.Repository
}

// NewWorkOrderReaderAdapter creates a new adapter over the work orders
// repository.
func NewWorkOrderReaderAdapter(repo *worepo.Repository) *WorkOrderReaderAdapter {
	return &WorkOrderReaderAdapter{repo: repo}
}

// Summary aggregates the claim's work orders.
func (a *WorkOrderReaderAdapter) Summary(ctx context.Context, claimID uuid.UUID) (claimsvc.WorkOrderSummary, error) {
	sum, err := a.repo.Summarize(ctx, claimID)
	if err != nil {
		return claimsvc.WorkOrderSummary{}, err
	}
	return claimsvc.WorkOrderSummary{
		Open:       sum.Open,
		Completed:  sum.Completed,
		LaborHours: sum.LaborHours,
		PartsCents: sum.PartsCents,
	}, nil
}

// Compile-time check.
var _ claimsvc.WorkOrderReader = (*WorkOrderReaderAdapter)(nil)
