package service

import (
	"testing"

	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
)

func TestServiceItemsTotal(t *testing.T) {
	items := []repository.ServiceItem{
		{Code: "SVC-BATT-DIAG", Quantity: 1, UnitPriceCents: 120_00},
		{Code: "SVC-COOLANT", Quantity: 2, UnitPriceCents: 45_50},
	}
	if got := serviceItemsTotalCents(items); got != 211_00 {
		t.Fatalf("expected 21100 cents, got %d", got)
	}
}

func TestLaborCostRoundsHalfUp(t *testing.T) {
	tests := []struct {
		hours float64
		want  int64
	}{
		{0, 0},
		{1, 45_00},
		{2.5, 112_50},
		{0.333, 14_99}, // 1498.5 rounds up
		{0.111, 5_00},  // 499.5 rounds up
	}
	for _, tc := range tests {
		if got := laborCostCents(tc.hours); got != tc.want {
			t.Errorf("laborCostCents(%v) = %d, want %d", tc.hours, got, tc.want)
		}
	}
}

func TestAggregateCostsEVMRepair(t *testing.T) {
	items := []repository.ServiceItem{
		{Code: "SVC-BATT-SWAP", Quantity: 1, UnitPriceCents: 800_00},
	}
	work := WorkOrderSummary{LaborHours: 4, PartsCents: 1_200_00}

	cost := aggregateCosts(domain.RepairTypeEVM, items, work, 1_500_00)

	if cost.TotalServiceCents != 800_00+4*45_00 {
		t.Fatalf("service total = %d", cost.TotalServiceCents)
	}
	if cost.TotalPartsCents != 1_200_00 {
		t.Fatalf("parts total = %d", cost.TotalPartsCents)
	}
	wantTotal := cost.TotalServiceCents + cost.TotalPartsCents
	if cost.TotalEstimatedCents != wantTotal {
		t.Fatalf("estimated total = %d, want %d", cost.TotalEstimatedCents, wantTotal)
	}
	if cost.WarrantyCostCents != 1_500_00 || cost.CompanyPaidCents != 1_500_00 {
		t.Fatalf("warranty repair must book the staff-entered amount: %+v", cost)
	}
}

func TestAggregateCostsEVMRepairKeepsEnteredAmount(t *testing.T) {
	work := WorkOrderSummary{LaborHours: 10, PartsCents: 5_000_00}

	cost := aggregateCosts(domain.RepairTypeEVM, nil, work, 99_00)

	if cost.CompanyPaidCents != 99_00 {
		t.Fatalf("company paid must stay the entered amount, got %d", cost.CompanyPaidCents)
	}
	if cost.CompanyPaidCents == cost.TotalEstimatedCents {
		t.Fatalf("company paid must not be derived from the estimate: %+v", cost)
	}
}

func TestAggregateCostsSCRepair(t *testing.T) {
	items := []repository.ServiceItem{
		{Code: "SVC-TIRE", Quantity: 4, UnitPriceCents: 150_00},
	}
	work := WorkOrderSummary{LaborHours: 1.5, PartsCents: 80_00}

	cost := aggregateCosts(domain.RepairTypeSC, items, work, 0)

	if cost.WarrantyCostCents != 0 || cost.CompanyPaidCents != 0 {
		t.Fatalf("customer-paid repair must not book warranty costs: %+v", cost)
	}
	if cost.TotalEstimatedCents != cost.TotalServiceCents+cost.TotalPartsCents {
		t.Fatalf("estimated total must equal service plus parts: %+v", cost)
	}
}

func TestAggregateCostsEmpty(t *testing.T) {
	cost := aggregateCosts(domain.RepairTypeSC, nil, WorkOrderSummary{}, 0)
	if cost.TotalEstimatedCents != 0 {
		t.Fatalf("empty claim should cost nothing, got %d", cost.TotalEstimatedCents)
	}
}
