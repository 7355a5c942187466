package service

import (
	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
)

// Requirement codes reported by the pre-submission checklist.
const (
	MissingReportedFailure    = "REPORTED_FAILURE_MISSING"
	MissingTechnicalDiagnosis = "TECHNICAL_DIAGNOSIS_MISSING"
	MissingRepairType         = "REPAIR_TYPE_MISSING"
	MissingServiceEvidence    = "SERVICE_EVIDENCE_MISSING"
	MissingCostEstimate       = "COST_ESTIMATE_MISSING"
	MissingWarrantyCheck      = "WARRANTY_CHECK_MISSING"
	WarrantyOverrideRequired  = "WARRANTY_OVERRIDE_REQUIRED"
	WarrantyCheckStale        = "WARRANTY_CHECK_STALE"
	MissingCustomerContact    = "CUSTOMER_CONTACT_MISSING"
)

// EvaluateReadiness runs the full pre-submission checklist and returns every
// unmet requirement, not just the first. An empty slice means the claim can
// go to the manufacturer.
//
// A failed automatic warranty check does not block submission by itself: a
// manual override confirmed by authorized staff satisfies the requirement.
// A check run at a lower odometer reading than the vehicle's current one is
// stale and must be re-run.
func EvaluateReadiness(claim *repository.Claim, vehicle *repository.Vehicle) []string {
	var missing []string

	if claim.CustomerName == "" || claim.CustomerPhone == "" {
		missing = append(missing, MissingCustomerContact)
	}
	if claim.Diagnostic == nil || claim.Diagnostic.ReportedFailure == "" {
		missing = append(missing, MissingReportedFailure)
	}
	if claim.Diagnostic == nil || claim.Diagnostic.TechnicalDiagnosis == nil || *claim.Diagnostic.TechnicalDiagnosis == "" {
		missing = append(missing, MissingTechnicalDiagnosis)
	}
	if claim.RepairConfig == nil || claim.RepairConfig.RepairType == "" {
		missing = append(missing, MissingRepairType)
	}
	if !hasServiceEvidence(claim) {
		missing = append(missing, MissingServiceEvidence)
	}
	if claim.Cost == nil || claim.Cost.TotalEstimatedCents <= 0 {
		missing = append(missing, MissingCostEstimate)
	}

	switch e := claim.Eligibility; {
	case e == nil || e.CheckedAt == nil:
		missing = append(missing, MissingWarrantyCheck)
	case vehicle.MileageKm > e.MileageAtCheck:
		missing = append(missing, WarrantyCheckStale)
	case !e.AutoCheckResult && !(e.ManualOverride && e.OverrideConfirmed):
		missing = append(missing, WarrantyOverrideRequired)
	}

	return missing
}

// hasServiceEvidence checks that at least one piece of repair evidence
// backs the claim. An EVM repair needs the technician's own findings, test
// results or repair notes; a service-center repair may instead rely on its
// catalog service lines.
func hasServiceEvidence(claim *repository.Claim) bool {
	if d := claim.Diagnostic; d != nil {
		if d.TestResults != nil && *d.TestResults != "" {
			return true
		}
		if d.RepairNotes != nil && *d.RepairNotes != "" {
			return true
		}
	}
	if rc := claim.RepairConfig; rc != nil && rc.RepairType == string(domain.RepairTypeSC) {
		return len(rc.ServiceItems) > 0
	}
	return false
}
