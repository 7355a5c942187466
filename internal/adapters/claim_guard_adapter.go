package adapters

import (
	"context"

	claimsvc "evwarranty_backend/internal/claims/service"
	wosvc "evwarranty_backend/internal/workorders/service"

	"github.com/google/uuid"
)

// ClaimGuardAdapter lets the work order flow verify a claim is in active
// repair and the reporting technician is the one assigned to it.
type ClaimGuardAdapter struct {
	svc *claimsvc.Service
}

// NewClaimGuardAdapter creates a new adapter that wraps the claims service.
func NewClaimGuardAdapter(svc *claimsvc.Service) *ClaimGuardAdapter {
	return &ClaimGuardAdapter{svc: svc}
}

// AuthorizeWorkDone checks the claim lifecycle guard for work reporting.
func (a *ClaimGuardAdapter) AuthorizeWorkDone(ctx context.Context, technicianID, claimID uuid.UUID) error {
	return a.svc.MarkWorkDone(ctx, claimsvc.Actor{ID: technicianID}, claimID)
}

// Compile-time check.
var _ wosvc.ClaimGuard = (*ClaimGuardAdapter)(nil)
