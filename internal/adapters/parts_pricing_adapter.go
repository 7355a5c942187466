package adapters

import (
	"context"

	catalogsvc "evwarranty_backend/internal/catalog/service"
	wosvc "evwarranty_backend/internal/workorders/service"
	"evwarranty_backend/platform/apperr"
)

// PartsPricingAdapter resolves work-order part lines against the parts
// catalog so unit prices always come from the catalog record.
type PartsPricingAdapter struct {
	svc *catalogsvc.Service
}

// NewPartsPricingAdapter creates a new adapter that wraps the catalog
// service.
func NewPartsPricingAdapter(svc *catalogsvc.Service) *PartsPricingAdapter {
	return &PartsPricingAdapter{svc: svc}
}

// PriceBySKU looks the part up by SKU. Inactive parts cannot be consumed.
func (a *PartsPricingAdapter) PriceBySKU(ctx context.Context, sku string) (wosvc.PartPrice, error) {
	part, err := a.svc.GetPartBySKU(ctx, sku)
	if err != nil {
		return wosvc.PartPrice{}, err
	}
	if !part.IsActive {
		return wosvc.PartPrice{}, apperr.Validation("part " + part.SKU + " is no longer available")
	}
	return wosvc.PartPrice{Name: part.Name, UnitCents: part.UnitCents}, nil
}

// Compile-time check.
var _ wosvc.PartsPricer = (*PartsPricingAdapter)(nil)
