package service

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
)

// LaborRateCentsPerHour is the flat shop rate applied to recorded hours.
const LaborRateCentsPerHour int64 = 45_00

// roundCents rounds a fractional cent amount half-up to a whole cent.
func roundCents(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// laborCostCents prices recorded labor hours at the shop rate.
func laborCostCents(hours float64) int64 {
	return roundCents(hours * float64(LaborRateCentsPerHour))
}

// serviceItemsTotalCents sums the catalog lines. Each line total is
// quantity times unit price; lines carry whole-cent prices already.
func serviceItemsTotalCents(items []repository.ServiceItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}

// buildServiceItems converts request lines into stored lines with computed
// totals.
func buildServiceItems(reqs []transport.ServiceItemRequest) []repository.ServiceItem {
	items := make([]repository.ServiceItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, repository.ServiceItem{
			Code:           r.Code,
			Description:    r.Description,
			Quantity:       r.Quantity,
			UnitPriceCents: r.UnitPriceCents,
			TotalCents:     int64(r.Quantity) * r.UnitPriceCents,
		})
	}
	return items
}

// aggregateCosts derives the cost figures for a claim from its service
// lines and the recorded repair work. For EVM_REPAIR the authoritative
// warranty amount is companyPaidCents as entered by EVM staff on approval,
// never computed from the estimate; for SC_REPAIR the service center
// invoices the customer and nothing is booked against warranty.
func aggregateCosts(repairType domain.RepairType, items []repository.ServiceItem, work WorkOrderSummary, companyPaidCents int64) repository.Cost {
	service := serviceItemsTotalCents(items) + laborCostCents(work.LaborHours)
	total := service + work.PartsCents

	cost := repository.Cost{
		TotalServiceCents:   service,
		TotalPartsCents:     work.PartsCents,
		TotalEstimatedCents: total,
		LaborHours:          work.LaborHours,
	}
	switch repairType {
	case domain.RepairTypeEVM:
		cost.WarrantyCostCents = companyPaidCents
		cost.CompanyPaidCents = companyPaidCents
	case domain.RepairTypeSC:
		cost.WarrantyCostCents = 0
		cost.CompanyPaidCents = 0
	}
	return cost
}

// recalculateCosts rebuilds and persists the cost sub-record inside tx.
// A claim with no repair configuration has no costs yet.
func (s *Service) recalculateCosts(ctx context.Context, tx pgx.Tx, claim *repository.Claim) error {
	if claim.RepairConfig == nil {
		return nil
	}
	repairType, err := domain.ParseRepairType(claim.RepairConfig.RepairType)
	if err != nil {
		return err
	}
	summary, err := s.workOrders.Summary(ctx, claim.ID)
	if err != nil {
		return err
	}

	var companyPaid int64
	if claim.Cost != nil {
		companyPaid = claim.Cost.CompanyPaidCents
	}
	cost := aggregateCosts(repairType, claim.RepairConfig.ServiceItems, summary, companyPaid)
	cost.ClaimID = claim.ID
	cost.UpdatedAt = time.Now()
	if err := s.repo.UpsertCost(ctx, tx, &cost); err != nil {
		return err
	}
	claim.Cost = &cost
	return nil
}
