package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so sub-record reads
// work inside and outside a command transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// loadSubRecords populates the lazily created one-to-one sub-records.
// A missing row leaves the corresponding field nil.
func (r *Repository) loadSubRecords(ctx context.Context, q querier, claim *Claim) error {
	var err error
	if claim.Diagnostic, err = r.getDiagnostic(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.Cost, err = r.getCost(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.Approval, err = r.getApproval(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.Assignment, err = r.getAssignment(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.Eligibility, err = r.getEligibility(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.RepairConfig, err = r.getRepairConfig(ctx, q, claim.ID); err != nil {
		return err
	}
	if claim.Cancellation, err = r.getCancellation(ctx, q, claim.ID); err != nil {
		return err
	}
	return nil
}

func (r *Repository) getDiagnostic(ctx context.Context, q querier, claimID uuid.UUID) (*Diagnostic, error) {
	var d Diagnostic
	err := q.QueryRow(ctx, `
		SELECT claim_id, reported_failure, initial_diagnosis, technical_diagnosis,
		       problem_type, problem_description, test_results, repair_notes, updated_at
		FROM evw_claim_diagnostics WHERE claim_id = $1`, claimID,
	).Scan(&d.ClaimID, &d.ReportedFailure, &d.InitialDiagnosis, &d.TechnicalDiagnosis,
		&d.ProblemType, &d.ProblemDescription, &d.TestResults, &d.RepairNotes, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diagnostic: %w", err)
	}
	return &d, nil
}

// UpsertDiagnostic creates or updates the diagnostic sub-record inside tx.
func (r *Repository) UpsertDiagnostic(ctx context.Context, tx pgx.Tx, d *Diagnostic) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_diagnostics (
			claim_id, reported_failure, initial_diagnosis, technical_diagnosis,
			problem_type, problem_description, test_results, repair_notes, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (claim_id) DO UPDATE SET
			reported_failure = EXCLUDED.reported_failure,
			initial_diagnosis = EXCLUDED.initial_diagnosis,
			technical_diagnosis = EXCLUDED.technical_diagnosis,
			problem_type = EXCLUDED.problem_type,
			problem_description = EXCLUDED.problem_description,
			test_results = EXCLUDED.test_results,
			repair_notes = EXCLUDED.repair_notes,
			updated_at = EXCLUDED.updated_at`,
		d.ClaimID, d.ReportedFailure, d.InitialDiagnosis, d.TechnicalDiagnosis,
		d.ProblemType, d.ProblemDescription, d.TestResults, d.RepairNotes, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert diagnostic: %w", err)
	}
	return nil
}

func (r *Repository) getCost(ctx context.Context, q querier, claimID uuid.UUID) (*Cost, error) {
	var c Cost
	err := q.QueryRow(ctx, `
		SELECT claim_id, warranty_cost_cents, company_paid_cents, total_service_cents,
		       total_parts_cents, total_estimated_cents, labor_hours, updated_at
		FROM evw_claim_costs WHERE claim_id = $1`, claimID,
	).Scan(&c.ClaimID, &c.WarrantyCostCents, &c.CompanyPaidCents, &c.TotalServiceCents,
		&c.TotalPartsCents, &c.TotalEstimatedCents, &c.LaborHours, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cost: %w", err)
	}
	return &c, nil
}

// UpsertCost creates or updates the cost sub-record inside tx.
func (r *Repository) UpsertCost(ctx context.Context, tx pgx.Tx, c *Cost) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_costs (
			claim_id, warranty_cost_cents, company_paid_cents, total_service_cents,
			total_parts_cents, total_estimated_cents, labor_hours, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (claim_id) DO UPDATE SET
			warranty_cost_cents = EXCLUDED.warranty_cost_cents,
			company_paid_cents = EXCLUDED.company_paid_cents,
			total_service_cents = EXCLUDED.total_service_cents,
			total_parts_cents = EXCLUDED.total_parts_cents,
			total_estimated_cents = EXCLUDED.total_estimated_cents,
			labor_hours = EXCLUDED.labor_hours,
			updated_at = EXCLUDED.updated_at`,
		c.ClaimID, c.WarrantyCostCents, c.CompanyPaidCents, c.TotalServiceCents,
		c.TotalPartsCents, c.TotalEstimatedCents, c.LaborHours, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cost: %w", err)
	}
	return nil
}

func (r *Repository) getApproval(ctx context.Context, q querier, claimID uuid.UUID) (*Approval, error) {
	var a Approval
	err := q.QueryRow(ctx, `
		SELECT claim_id, approved_by, rejected_by, approved_at, rejected_at,
		       rejection_reason, rejection_notes, resubmit_count, rejection_count, can_resubmit
		FROM evw_claim_approvals WHERE claim_id = $1`, claimID,
	).Scan(&a.ClaimID, &a.ApprovedBy, &a.RejectedBy, &a.ApprovedAt, &a.RejectedAt,
		&a.RejectionReason, &a.RejectionNotes, &a.ResubmitCount, &a.RejectionCount, &a.CanResubmit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load approval: %w", err)
	}
	return &a, nil
}

// UpsertApproval creates or updates the approval sub-record inside tx.
func (r *Repository) UpsertApproval(ctx context.Context, tx pgx.Tx, a *Approval) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_approvals (
			claim_id, approved_by, rejected_by, approved_at, rejected_at,
			rejection_reason, rejection_notes, resubmit_count, rejection_count, can_resubmit
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (claim_id) DO UPDATE SET
			approved_by = EXCLUDED.approved_by,
			rejected_by = EXCLUDED.rejected_by,
			approved_at = EXCLUDED.approved_at,
			rejected_at = EXCLUDED.rejected_at,
			rejection_reason = EXCLUDED.rejection_reason,
			rejection_notes = EXCLUDED.rejection_notes,
			resubmit_count = EXCLUDED.resubmit_count,
			rejection_count = EXCLUDED.rejection_count,
			can_resubmit = EXCLUDED.can_resubmit`,
		a.ClaimID, a.ApprovedBy, a.RejectedBy, a.ApprovedAt, a.RejectedAt,
		a.RejectionReason, a.RejectionNotes, a.ResubmitCount, a.RejectionCount, a.CanResubmit,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert approval: %w", err)
	}
	return nil
}

func (r *Repository) getAssignment(ctx context.Context, q querier, claimID uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := q.QueryRow(ctx, `
		SELECT claim_id, technician_id, assigned_at
		FROM evw_claim_assignments WHERE claim_id = $1`, claimID,
	).Scan(&a.ClaimID, &a.TechnicianID, &a.AssignedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}
	return &a, nil
}

// UpsertAssignment creates or replaces the assignment sub-record inside tx.
func (r *Repository) UpsertAssignment(ctx context.Context, tx pgx.Tx, a *Assignment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_assignments (claim_id, technician_id, assigned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (claim_id) DO UPDATE SET
			technician_id = EXCLUDED.technician_id,
			assigned_at = EXCLUDED.assigned_at`,
		a.ClaimID, a.TechnicianID, a.AssignedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert assignment: %w", err)
	}
	return nil
}

func (r *Repository) getEligibility(ctx context.Context, q querier, claimID uuid.UUID) (*Eligibility, error) {
	var e Eligibility
	err := q.QueryRow(ctx, `
		SELECT claim_id, assessment, eligible, auto_check_result, auto_check_reasons,
		       checked_at, mileage_at_check, manual_override, override_confirmed,
		       override_confirmed_at, override_confirmed_by,
		       applied_coverage_years, applied_coverage_km
		FROM evw_claim_eligibility WHERE claim_id = $1`, claimID,
	).Scan(&e.ClaimID, &e.Assessment, &e.Eligible, &e.AutoCheckResult, &e.AutoCheckReasons,
		&e.CheckedAt, &e.MileageAtCheck, &e.ManualOverride, &e.OverrideConfirmed,
		&e.OverrideConfirmedAt, &e.OverrideConfirmedBy,
		&e.AppliedCoverageYears, &e.AppliedCoverageKm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load eligibility: %w", err)
	}
	return &e, nil
}

// UpsertEligibility creates or updates the eligibility sub-record inside tx.
func (r *Repository) UpsertEligibility(ctx context.Context, tx pgx.Tx, e *Eligibility) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_eligibility (
			claim_id, assessment, eligible, auto_check_result, auto_check_reasons,
			checked_at, mileage_at_check, manual_override, override_confirmed,
			override_confirmed_at, override_confirmed_by,
			applied_coverage_years, applied_coverage_km
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (claim_id) DO UPDATE SET
			assessment = EXCLUDED.assessment,
			eligible = EXCLUDED.eligible,
			auto_check_result = EXCLUDED.auto_check_result,
			auto_check_reasons = EXCLUDED.auto_check_reasons,
			checked_at = EXCLUDED.checked_at,
			mileage_at_check = EXCLUDED.mileage_at_check,
			manual_override = EXCLUDED.manual_override,
			override_confirmed = EXCLUDED.override_confirmed,
			override_confirmed_at = EXCLUDED.override_confirmed_at,
			override_confirmed_by = EXCLUDED.override_confirmed_by,
			applied_coverage_years = EXCLUDED.applied_coverage_years,
			applied_coverage_km = EXCLUDED.applied_coverage_km`,
		e.ClaimID, e.Assessment, e.Eligible, e.AutoCheckResult, e.AutoCheckReasons,
		e.CheckedAt, e.MileageAtCheck, e.ManualOverride, e.OverrideConfirmed,
		e.OverrideConfirmedAt, e.OverrideConfirmedBy,
		e.AppliedCoverageYears, e.AppliedCoverageKm,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert eligibility: %w", err)
	}
	return nil
}

func (r *Repository) getRepairConfig(ctx context.Context, q querier, claimID uuid.UUID) (*RepairConfig, error) {
	var rc RepairConfig
	var itemsJSON []byte
	err := q.QueryRow(ctx, `
		SELECT claim_id, repair_type, payment_status, service_items, updated_at
		FROM evw_claim_repair_configs WHERE claim_id = $1`, claimID,
	).Scan(&rc.ClaimID, &rc.RepairType, &rc.PaymentStatus, &itemsJSON, &rc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load repair config: %w", err)
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &rc.ServiceItems); err != nil {
			return nil, fmt.Errorf("failed to decode service items: %w", err)
		}
	}
	return &rc, nil
}

// UpsertRepairConfig creates or updates the repair configuration inside tx.
func (r *Repository) UpsertRepairConfig(ctx context.Context, tx pgx.Tx, rc *RepairConfig) error {
	itemsJSON, err := json.Marshal(rc.ServiceItems)
	if err != nil {
		return fmt.Errorf("failed to encode service items: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO evw_claim_repair_configs (claim_id, repair_type, payment_status, service_items, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (claim_id) DO UPDATE SET
			repair_type = EXCLUDED.repair_type,
			payment_status = EXCLUDED.payment_status,
			service_items = EXCLUDED.service_items,
			updated_at = EXCLUDED.updated_at`,
		rc.ClaimID, rc.RepairType, rc.PaymentStatus, itemsJSON, rc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert repair config: %w", err)
	}
	return nil
}

func (r *Repository) getCancellation(ctx context.Context, q querier, claimID uuid.UUID) (*Cancellation, error) {
	var c Cancellation
	err := q.QueryRow(ctx, `
		SELECT claim_id, state, request_count, requested_by, requested_at,
		       prev_status, outcome, resolved_by, resolved_at
		FROM evw_claim_cancellations WHERE claim_id = $1`, claimID,
	).Scan(&c.ClaimID, &c.State, &c.RequestCount, &c.RequestedBy, &c.RequestedAt,
		&c.PrevStatus, &c.Outcome, &c.ResolvedBy, &c.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cancellation: %w", err)
	}
	return &c, nil
}

// UpsertCancellation creates or updates the cancellation sub-record inside tx.
func (r *Repository) UpsertCancellation(ctx context.Context, tx pgx.Tx, c *Cancellation) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO evw_claim_cancellations (
			claim_id, state, request_count, requested_by, requested_at,
			prev_status, outcome, resolved_by, resolved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (claim_id) DO UPDATE SET
			state = EXCLUDED.state,
			request_count = EXCLUDED.request_count,
			requested_by = EXCLUDED.requested_by,
			requested_at = EXCLUDED.requested_at,
			prev_status = EXCLUDED.prev_status,
			outcome = EXCLUDED.outcome,
			resolved_by = EXCLUDED.resolved_by,
			resolved_at = EXCLUDED.resolved_at`,
		c.ClaimID, c.State, c.RequestCount, c.RequestedBy, c.RequestedAt,
		c.PrevStatus, c.Outcome, c.ResolvedBy, c.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cancellation: %w", err)
	}
	return nil
}
