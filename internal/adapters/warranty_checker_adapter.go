package adapters

import (
	"context"
	"time"

	claimsvc "evwarranty_backend/internal/claims/service"
	warrantysvc "evwarranty_backend/internal/warranty/service"
)

// WarrantyCheckerAdapter adapts the warranty evaluation service for the
// claims lifecycle.
type WarrantyCheckerAdapter struct {
	svc *warrantysvc.Service
}

// NewWarrantyCheckerAdapter creates a new adapter that wraps the warranty service.
func NewWarrantyCheckerAdapter(svc *warrantysvc.Service) *WarrantyCheckerAdapter {
	return &WarrantyCheckerAdapter{svc: svc}
}

// Evaluate runs the coverage check for a vehicle and maps the verdict into
// the claims-side decision.
func (a *WarrantyCheckerAdapter) Evaluate(ctx context.Context, model string, registeredAt time.Time, mileageKm int) (claimsvc.CoverageDecision, error) {
	verdict, err := a.svc.Evaluate(ctx, model, registeredAt, mileageKm)
	if err != nil {
		return claimsvc.CoverageDecision{}, err
	}
	return claimsvc.CoverageDecision{
		Eligible:      verdict.Eligible,
		Reasons:       verdict.Reasons,
		CoverageYears: verdict.AppliedCoverageYears,
		CoverageKm:    verdict.AppliedCoverageKm,
	}, nil
}

// Compile-time check.
var _ claimsvc.WarrantyChecker = (*WarrantyCheckerAdapter)(nil)
