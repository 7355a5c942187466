package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"evwarranty_backend/internal/claims/repository"
)

func strPtr(s string) *string { return &s }

func readyClaim() (*repository.Claim, *repository.Vehicle) {
	now := time.Now()
	claimID := uuid.New()
	claim := &repository.Claim{
		ID:            claimID,
		ClaimNumber:   "WC-2026-00042",
		CustomerName:  "Tran Thi Mai",
		CustomerPhone: "+84901234567",
		Diagnostic: &repository.Diagnostic{
			ClaimID:            claimID,
			ReportedFailure:    "battery drains overnight",
			TechnicalDiagnosis: strPtr("BMS cell balancing fault"),
			TestResults:        strPtr("cell voltage delta 0.4V under load"),
		},
		RepairConfig: &repository.RepairConfig{
			ClaimID:    claimID,
			RepairType: "EVM_REPAIR",
		},
		Cost: &repository.Cost{
			ClaimID:             claimID,
			TotalEstimatedCents: 250_000,
		},
		Eligibility: &repository.Eligibility{
			ClaimID:         claimID,
			AutoCheckResult: true,
			Eligible:        true,
			CheckedAt:       &now,
			MileageAtCheck:  30_000,
		},
	}
	vehicle := &repository.Vehicle{
		ID:        uuid.New(),
		MileageKm: 30_000,
	}
	return claim, vehicle
}

func TestReadinessPassesCompleteClaim(t *testing.T) {
	claim, vehicle := readyClaim()
	if missing := EvaluateReadiness(claim, vehicle); len(missing) != 0 {
		t.Fatalf("expected no missing requirements, got %v", missing)
	}
}

func TestReadinessReportsAllMissingAtOnce(t *testing.T) {
	claim := &repository.Claim{ID: uuid.New()}
	vehicle := &repository.Vehicle{ID: uuid.New()}

	missing := EvaluateReadiness(claim, vehicle)

	want := []string{
		MissingCustomerContact,
		MissingReportedFailure,
		MissingTechnicalDiagnosis,
		MissingRepairType,
		MissingServiceEvidence,
		MissingCostEstimate,
		MissingWarrantyCheck,
	}
	if len(missing) != len(want) {
		t.Fatalf("expected %d requirements, got %v", len(want), missing)
	}
	for i, code := range want {
		if missing[i] != code {
			t.Errorf("missing[%d] = %s, want %s", i, missing[i], code)
		}
	}
}

func TestReadinessFailedCheckNeedsConfirmedOverride(t *testing.T) {
	claim, vehicle := readyClaim()
	claim.Eligibility.AutoCheckResult = false
	claim.Eligibility.Eligible = false

	missing := EvaluateReadiness(claim, vehicle)
	if len(missing) != 1 || missing[0] != WarrantyOverrideRequired {
		t.Fatalf("expected [%s], got %v", WarrantyOverrideRequired, missing)
	}

	// Override recorded but not yet confirmed still blocks.
	claim.Eligibility.ManualOverride = true
	missing = EvaluateReadiness(claim, vehicle)
	if len(missing) != 1 || missing[0] != WarrantyOverrideRequired {
		t.Fatalf("unconfirmed override must block, got %v", missing)
	}

	claim.Eligibility.OverrideConfirmed = true
	if missing = EvaluateReadiness(claim, vehicle); len(missing) != 0 {
		t.Fatalf("confirmed override should satisfy the checklist, got %v", missing)
	}
}

func TestReadinessStaleWarrantyCheck(t *testing.T) {
	claim, vehicle := readyClaim()
	vehicle.MileageKm = claim.Eligibility.MileageAtCheck + 500

	missing := EvaluateReadiness(claim, vehicle)
	if len(missing) != 1 || missing[0] != WarrantyCheckStale {
		t.Fatalf("expected [%s], got %v", WarrantyCheckStale, missing)
	}
}

func TestReadinessRequiresServiceEvidence(t *testing.T) {
	claim, vehicle := readyClaim()
	claim.Diagnostic.TestResults = nil

	missing := EvaluateReadiness(claim, vehicle)
	if len(missing) != 1 || missing[0] != MissingServiceEvidence {
		t.Fatalf("expected [%s], got %v", MissingServiceEvidence, missing)
	}

	claim.Diagnostic.RepairNotes = strPtr("replaced BMS balancing board")
	if missing = EvaluateReadiness(claim, vehicle); len(missing) != 0 {
		t.Fatalf("repair notes should satisfy the evidence requirement, got %v", missing)
	}
}

func TestReadinessServiceItemsCountForSCRepair(t *testing.T) {
	claim, vehicle := readyClaim()
	claim.Diagnostic.TestResults = nil
	claim.RepairConfig.RepairType = "SC_REPAIR"
	claim.RepairConfig.ServiceItems = []repository.ServiceItem{
		{Code: "SVC-COOLANT", Quantity: 1, UnitPriceCents: 45_50},
	}

	if missing := EvaluateReadiness(claim, vehicle); len(missing) != 0 {
		t.Fatalf("catalog lines should satisfy the evidence requirement, got %v", missing)
	}
}

func TestReadinessZeroCostEstimateBlocks(t *testing.T) {
	claim, vehicle := readyClaim()
	claim.Cost.TotalEstimatedCents = 0

	missing := EvaluateReadiness(claim, vehicle)
	if len(missing) != 1 || missing[0] != MissingCostEstimate {
		t.Fatalf("expected [%s], got %v", MissingCostEstimate, missing)
	}
}
