package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
	"evwarranty_backend/internal/events"
	"evwarranty_backend/platform/apperr"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/phone"
	"evwarranty_backend/platform/sanitize"
)

type Service struct {
	repo        *repository.Repository
	bus         events.Bus
	log         *logger.Logger
	policy      config.ClaimPolicyConfig
	warranty    WarrantyChecker
	coordinator AssignmentCoordinator
	workOrders  WorkOrderReader
}

func New(
	repo *repository.Repository,
	bus events.Bus,
	log *logger.Logger,
	policy config.ClaimPolicyConfig,
	warranty WarrantyChecker,
	coordinator AssignmentCoordinator,
	workOrders WorkOrderReader,
) *Service {
	return &Service{
		repo:        repo,
		bus:         bus,
		log:         log,
		policy:      policy,
		warranty:    warranty,
		coordinator: coordinator,
		workOrders:  workOrders,
	}
}

// guard checks the transition table and the cancellation overlay for one
// main-flow command. An active cancellation review freezes the main flow.
func (s *Service) guard(claim *repository.Claim, cmd domain.Command) (domain.ClaimStatus, error) {
	status, err := domain.ParseStatus(claim.Status)
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("claim %s has unknown status %q", claim.ClaimNumber, claim.Status))
	}
	state, err := domain.ParseCancelState(claim.CancelState)
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("claim %s has unknown cancel state %q", claim.ClaimNumber, claim.CancelState))
	}
	if domain.BlocksMainFlow(state) {
		s.log.ClaimCommandRejected(claim.ClaimNumber, string(cmd), claim.Status, "cancellation review in progress")
		return "", apperr.InvalidTransition("claim is under cancellation review")
	}
	if !domain.CanApply(cmd, status) {
		s.log.ClaimCommandRejected(claim.ClaimNumber, string(cmd), claim.Status, "status not allowed")
		return "", apperr.InvalidTransition(fmt.Sprintf("%s is not allowed from status %s", cmd, status))
	}
	return status, nil
}

// applyTransition moves the claim to its new status and appends the audit
// row in the same transaction. The caller publishes events after commit.
func (s *Service) applyTransition(ctx context.Context, tx pgx.Tx, claim *repository.Claim, cmd domain.Command, to domain.ClaimStatus, actor Actor, note *string) error {
	now := time.Now()
	if err := s.repo.UpdateStatus(ctx, tx, claim.ID, string(to), now); err != nil {
		return err
	}
	if err := s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
		ID:          uuid.New(),
		ClaimID:     claim.ID,
		StatusCode:  string(to),
		StatusLabel: to.Label(),
		ActorID:     actor.ID,
		Note:        note,
		CreatedAt:   now,
	}); err != nil {
		return err
	}
	s.log.ClaimTransition(claim.ClaimNumber, string(cmd), claim.Status, string(to), actor.ID.String())
	claim.Status = string(to)
	claim.UpdatedAt = now
	return nil
}

func (s *Service) publishStatusChanged(claim *repository.Claim, cmd domain.Command, from domain.ClaimStatus) {
	s.bus.Publish(context.Background(), events.ClaimStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     claim.ID,
		ClaimNumber: claim.ClaimNumber,
		Command:     string(cmd),
		FromStatus:  string(from),
		ToStatus:    claim.Status,
		ActorID:     claim.CreatedBy,
	})
}

func newTrackingToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate tracking token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CreateDraft registers a new warranty claim in DRAFT with the customer's
// reported failure. The claim number and tracking token are fixed for life.
func (s *Service) CreateDraft(ctx context.Context, actor Actor, req transport.CreateDraftRequest) (transport.ClaimResponse, error) {
	if _, err := s.repo.GetVehicle(ctx, req.VehicleID); err != nil {
		return transport.ClaimResponse{}, err
	}

	number, err := s.repo.NextClaimNumber(ctx)
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	token, err := newTrackingToken()
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	now := time.Now()
	claim := &repository.Claim{
		ID:            uuid.New(),
		ClaimNumber:   number,
		Status:        string(domain.StatusDraft),
		CancelState:   string(domain.CancelNone),
		VehicleID:     req.VehicleID,
		CustomerName:  req.CustomerName,
		CustomerPhone: phone.NormalizeE164(req.CustomerPhone),
		CustomerEmail: req.CustomerEmail,
		TrackingToken: token,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	diagnostic := &repository.Diagnostic{
		ClaimID:         claim.ID,
		ReportedFailure: sanitize.Text(req.ReportedFailure),
		UpdatedAt:       now,
	}

	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.Create(ctx, tx, claim); err != nil {
			return err
		}
		if err := s.repo.UpsertDiagnostic(ctx, tx, diagnostic); err != nil {
			return err
		}
		return s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			StatusCode:  claim.Status,
			StatusLabel: domain.StatusDraft.Label(),
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	claim.Diagnostic = diagnostic
	return toClaimResponse(claim), nil
}

// SubmitIntake moves DRAFT to OPEN, records the odometer reading, and runs
// the automatic warranty check against the updated mileage.
func (s *Service) SubmitIntake(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.SubmitIntakeRequest) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var decision CoverageDecision

	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandSubmitIntake); err != nil {
			return err
		}

		vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
		if err != nil {
			return err
		}
		if req.MileageKm > vehicle.MileageKm {
			if err := s.repo.UpdateVehicleMileage(ctx, claim.VehicleID, req.MileageKm); err != nil {
				return err
			}
			vehicle.MileageKm = req.MileageKm
		}

		decision, err = s.warranty.Evaluate(ctx, vehicle.Model, vehicle.RegisteredAt, vehicle.MileageKm)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := s.repo.UpsertEligibility(ctx, tx, &repository.Eligibility{
			ClaimID:              claim.ID,
			Eligible:             decision.Eligible,
			AutoCheckResult:      decision.Eligible,
			AutoCheckReasons:     decision.Reasons,
			CheckedAt:            &now,
			MileageAtCheck:       vehicle.MileageKm,
			AppliedCoverageYears: decision.CoverageYears,
			AppliedCoverageKm:    decision.CoverageKm,
		}); err != nil {
			return err
		}

		if err := s.applyTransition(ctx, tx, claim, domain.CommandSubmitIntake, domain.StatusOpen, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandSubmitIntake, domain.StatusDraft)
	s.bus.Publish(ctx, events.WarrantyCheckCompleted{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		Eligible:    decision.Eligible,
		Reasons:     decision.Reasons,
	})
	return s.respond(ctx, result.ID)
}

// UpdateDiagnostic records technician findings. It never changes the status;
// it is allowed while the claim is OPEN, IN_PROGRESS, or REJECTED.
func (s *Service) UpdateDiagnostic(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.UpdateDiagnosticRequest) (transport.ClaimResponse, error) {
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandUpdateDiagnostic); err != nil {
			return err
		}

		d := claim.Diagnostic
		if d == nil {
			d = &repository.Diagnostic{ClaimID: claim.ID}
		}
		if req.InitialDiagnosis != nil {
			d.InitialDiagnosis = sanitize.TextPtr(req.InitialDiagnosis)
		}
		if req.TechnicalDiagnosis != nil {
			d.TechnicalDiagnosis = sanitize.TextPtr(req.TechnicalDiagnosis)
		}
		if req.ProblemType != nil {
			d.ProblemType = req.ProblemType
		}
		if req.ProblemDescription != nil {
			d.ProblemDescription = sanitize.TextPtr(req.ProblemDescription)
		}
		if req.TestResults != nil {
			d.TestResults = sanitize.TextPtr(req.TestResults)
		}
		if req.RepairNotes != nil {
			d.RepairNotes = sanitize.TextPtr(req.RepairNotes)
		}
		d.UpdatedAt = time.Now()
		return s.repo.UpsertDiagnostic(ctx, tx, d)
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return s.respond(ctx, claimID)
}

// UpdateRepairConfig sets the repair funding path and the service-catalog
// lines, then rebuilds the cost estimate.
func (s *Service) UpdateRepairConfig(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.UpdateRepairConfigRequest) (transport.ClaimResponse, error) {
	repairType, err := domain.ParseRepairType(req.RepairType)
	if err != nil {
		return transport.ClaimResponse{}, apperr.Validation(err.Error())
	}

	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandUpdateDiagnostic); err != nil {
			return err
		}

		now := time.Now()
		rc := claim.RepairConfig
		if rc == nil {
			rc = &repository.RepairConfig{
				ClaimID:       claim.ID,
				PaymentStatus: string(domain.PaymentUnpaid),
			}
		}
		rc.RepairType = string(repairType)
		rc.ServiceItems = buildServiceItems(req.ServiceItems)
		rc.UpdatedAt = now
		if err := s.repo.UpsertRepairConfig(ctx, tx, rc); err != nil {
			return err
		}
		claim.RepairConfig = rc
		return s.recalculateCosts(ctx, tx, claim)
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return s.respond(ctx, claimID)
}

// Readiness evaluates the pre-submission checklist without changing state.
// All unmet requirements are reported at once.
func (s *Service) Readiness(ctx context.Context, claimID uuid.UUID) (transport.ReadinessResponse, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return transport.ReadinessResponse{}, err
	}
	vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
	if err != nil {
		return transport.ReadinessResponse{}, err
	}
	missing := EvaluateReadiness(claim, vehicle)
	return transport.ReadinessResponse{Ready: len(missing) == 0, Missing: missing}, nil
}

// MarkReadyForSubmission moves OPEN to IN_PROGRESS once every submission
// requirement is met. The full list of unmet requirements is returned on
// failure so staff can fix everything in one pass.
func (s *Service) MarkReadyForSubmission(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandMarkReadyForSubmission); err != nil {
			return err
		}
		vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
		if err != nil {
			return err
		}
		if missing := EvaluateReadiness(claim, vehicle); len(missing) > 0 {
			return apperr.Validation("claim is not ready for submission").WithDetails(missing)
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandMarkReadyForSubmission, domain.StatusInProgress, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	s.publishStatusChanged(result, domain.CommandMarkReadyForSubmission, domain.StatusOpen)
	return s.respond(ctx, claimID)
}

// SubmitToEVM sends the claim into manufacturer review. The readiness
// checklist is re-evaluated: the claim may have drifted since it was marked
// ready.
func (s *Service) SubmitToEVM(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var from domain.ClaimStatus
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		from, err = s.guard(claim, domain.CommandSubmitToEVM)
		if err != nil {
			return err
		}
		vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
		if err != nil {
			return err
		}
		if missing := EvaluateReadiness(claim, vehicle); len(missing) > 0 {
			return apperr.Validation("claim is not ready for submission").WithDetails(missing)
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandSubmitToEVM, domain.StatusPendingEVMApproval, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandSubmitToEVM, from)
	s.bus.Publish(ctx, events.ClaimSubmittedToEVM{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
	})
	return s.respond(ctx, claimID)
}

// Approve records the EVM decision and moves the claim to EVM_APPROVED.
func (s *Service) Approve(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.ApproveRequest) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandApprove); err != nil {
			return err
		}

		now := time.Now()
		a := claim.Approval
		if a == nil {
			a = &repository.Approval{ClaimID: claim.ID}
		}
		a.ApprovedBy = &actor.ID
		a.ApprovedAt = &now
		a.RejectionReason = nil
		a.RejectionNotes = req.Notes
		if err := s.repo.UpsertApproval(ctx, tx, a); err != nil {
			return err
		}

		// The warranty amount the manufacturer pays is entered here by EVM
		// staff, never derived from the estimate.
		if req.ApprovedCostCents != nil {
			if claim.RepairConfig == nil || claim.RepairConfig.RepairType != string(domain.RepairTypeEVM) {
				return apperr.Validation("approved cost applies to EVM repairs only")
			}
			if claim.Cost == nil {
				claim.Cost = &repository.Cost{ClaimID: claim.ID}
			}
			claim.Cost.CompanyPaidCents = *req.ApprovedCostCents
			if err := s.recalculateCosts(ctx, tx, claim); err != nil {
				return err
			}
		}

		if err := s.applyTransition(ctx, tx, claim, domain.CommandApprove, domain.StatusEVMApproved, actor, req.Notes); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandApprove, domain.StatusPendingEVMApproval)
	s.bus.Publish(ctx, events.ClaimApproved{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       result.ID,
		ClaimNumber:   result.ClaimNumber,
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		ApprovedBy:    actor.ID,
	})
	return s.respond(ctx, claimID)
}

// Reject records the EVM rejection with a mandatory reason. The claim can be
// corrected and resubmitted until the resubmission ceiling is reached.
func (s *Service) Reject(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.RejectRequest) (transport.ClaimResponse, error) {
	req.Reason = sanitize.Text(req.Reason)
	req.Notes = sanitize.TextPtr(req.Notes)

	var result *repository.Claim
	var canResubmit bool
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandReject); err != nil {
			return err
		}

		now := time.Now()
		a := claim.Approval
		if a == nil {
			a = &repository.Approval{ClaimID: claim.ID}
		}
		a.RejectedBy = &actor.ID
		a.RejectedAt = &now
		a.RejectionReason = &req.Reason
		a.RejectionNotes = req.Notes
		a.RejectionCount++
		a.CanResubmit = a.ResubmitCount < s.policy.GetMaxResubmissions()
		canResubmit = a.CanResubmit
		if err := s.repo.UpsertApproval(ctx, tx, a); err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandReject, domain.StatusRejected, actor, &req.Reason); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandReject, domain.StatusPendingEVMApproval)
	s.bus.Publish(ctx, events.ClaimRejected{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       result.ID,
		ClaimNumber:   result.ClaimNumber,
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		Reason:        req.Reason,
		CanResubmit:   canResubmit,
	})
	return s.respond(ctx, claimID)
}

// Resubmit sends a corrected claim back into EVM review. A lifetime ceiling
// bounds the number of attempts.
func (s *Service) Resubmit(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var resubmitCount int
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandResubmit); err != nil {
			return err
		}

		a := claim.Approval
		if a == nil || !a.CanResubmit {
			return apperr.LimitExceeded("resubmission limit reached for this claim")
		}
		a.ResubmitCount++
		a.CanResubmit = a.ResubmitCount < s.policy.GetMaxResubmissions()
		resubmitCount = a.ResubmitCount
		if err := s.repo.UpsertApproval(ctx, tx, a); err != nil {
			return err
		}

		vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
		if err != nil {
			return err
		}
		if missing := EvaluateReadiness(claim, vehicle); len(missing) > 0 {
			return apperr.Validation("claim is not ready for submission").WithDetails(missing)
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandResubmit, domain.StatusPendingEVMApproval, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandResubmit, domain.StatusRejected)
	s.bus.Publish(ctx, events.ClaimSubmittedToEVM{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       result.ID,
		ClaimNumber:   result.ClaimNumber,
		Resubmission:  true,
		ResubmitCount: resubmitCount,
	})
	return s.respond(ctx, claimID)
}

// AssignTechnician reserves a technician and starts the repair. The pick is
// constrained to the requested specialty, defaulting to the diagnosed
// problem type, and to the requested certification floor. The coordinator's
// reservation is released if the transition fails.
func (s *Service) AssignTechnician(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.AssignTechnicianRequest) (transport.ClaimResponse, error) {
	specialty := req.Specialty
	if specialty == "" {
		claim, err := s.repo.GetByID(ctx, claimID)
		if err != nil {
			return transport.ClaimResponse{}, err
		}
		if claim.Diagnostic != nil && claim.Diagnostic.ProblemType != nil {
			specialty = *claim.Diagnostic.ProblemType
		}
	}

	pick, err := s.coordinator.Acquire(ctx, req.TechnicianID, specialty, req.MinCertificationLevel)
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	var result *repository.Claim
	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandAssignTechnician); err != nil {
			return err
		}
		if err := s.repo.UpsertAssignment(ctx, tx, &repository.Assignment{
			ClaimID:      claim.ID,
			TechnicianID: pick.ID,
			AssignedAt:   time.Now(),
		}); err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandAssignTechnician, domain.StatusRepairInProgress, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		if relErr := s.coordinator.Release(ctx, pick.ID); relErr != nil {
			s.log.DatabaseError("release technician reservation", relErr)
		}
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandAssignTechnician, domain.StatusEVMApproved)
	s.bus.Publish(ctx, events.TechnicianAssigned{
		BaseEvent:      events.NewBaseEvent(),
		ClaimID:        result.ID,
		ClaimNumber:    result.ClaimNumber,
		TechnicianID:   pick.ID,
		TechnicianName: pick.Name,
	})
	return s.respond(ctx, claimID)
}

// MarkWorkDone authorizes a work-done report from a technician: the claim
// must be in active repair and the reporter its assigned technician. The
// work orders module calls it through the claim guard; the claim status is
// untouched and CompleteRepair moves the claim on.
func (s *Service) MarkWorkDone(ctx context.Context, actor Actor, claimID uuid.UUID) error {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return err
	}
	if _, err := s.guard(claim, domain.CommandMarkWorkDone); err != nil {
		return err
	}
	if claim.Assignment == nil || claim.Assignment.TechnicianID != actor.ID {
		return apperr.Forbidden("only the assigned technician can mark work done")
	}
	return nil
}

// CompleteRepair moves REPAIR_IN_PROGRESS to HANDOVER_PENDING once all work
// orders are done, releases the technician, and rebuilds the cost totals
// from the recorded work.
func (s *Service) CompleteRepair(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var technicianID *uuid.UUID
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandCompleteRepair); err != nil {
			return err
		}

		summary, err := s.workOrders.Summary(ctx, claim.ID)
		if err != nil {
			return err
		}
		if summary.Open > 0 {
			return apperr.Validation(fmt.Sprintf("%d work orders are still open", summary.Open))
		}
		if err := s.recalculateCosts(ctx, tx, claim); err != nil {
			return err
		}
		if claim.Assignment != nil {
			technicianID = &claim.Assignment.TechnicianID
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandCompleteRepair, domain.StatusHandoverPending, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	if technicianID != nil {
		if err := s.coordinator.Release(ctx, *technicianID); err != nil {
			s.log.DatabaseError("release technician after repair", err)
		}
	}
	s.publishStatusChanged(result, domain.CommandCompleteRepair, domain.StatusRepairInProgress)
	return s.respond(ctx, claimID)
}

// PerformInspection records the final quality check. A pass moves the claim
// to READY_FOR_HANDOVER; a fail sends it back to REPAIR_IN_PROGRESS.
func (s *Service) PerformInspection(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.PerformInspectionRequest) (transport.ClaimResponse, error) {
	target, err := domain.InspectionTarget(domain.InspectionOutcome(req.Outcome))
	if err != nil {
		return transport.ClaimResponse{}, apperr.Validation(err.Error())
	}

	var result *repository.Claim
	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandPerformInspection); err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandPerformInspection, target, actor, req.Notes); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandPerformInspection, domain.StatusHandoverPending)
	if target == domain.StatusReadyForHandover {
		s.bus.Publish(ctx, events.ClaimReadyForHandover{
			BaseEvent:     events.NewBaseEvent(),
			ClaimID:       result.ID,
			ClaimNumber:   result.ClaimNumber,
			CustomerName:  result.CustomerName,
			CustomerEmail: result.CustomerEmail,
			TrackingToken: result.TrackingToken,
		})
	}
	return s.respond(ctx, claimID)
}

// HandoverVehicle records the vehicle's return to the customer.
func (s *Service) HandoverVehicle(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandHandoverVehicle); err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandHandoverVehicle, domain.StatusCompleted, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandHandoverVehicle, domain.StatusReadyForHandover)
	s.bus.Publish(ctx, events.ClaimHandedOver{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       result.ID,
		ClaimNumber:   result.ClaimNumber,
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		TrackingToken: result.TrackingToken,
	})
	return s.respond(ctx, claimID)
}

// CloseClaim finalizes the record. CLOSED is terminal; no command ever
// leaves it.
func (s *Service) CloseClaim(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var from domain.ClaimStatus
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		from, err = s.guard(claim, domain.CommandCloseClaim)
		if err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, claim, domain.CommandCloseClaim, domain.StatusClosed, actor, nil); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.publishStatusChanged(result, domain.CommandCloseClaim, from)
	s.bus.Publish(ctx, events.ClaimClosed{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		ClosedBy:    actor.ID,
	})
	return s.respond(ctx, claimID)
}

// UpdatePaymentStatus moves the invoice bookkeeping forward. The claim
// status itself is untouched.
func (s *Service) UpdatePaymentStatus(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.UpdatePaymentStatusRequest) (transport.ClaimResponse, error) {
	payment, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return transport.ClaimResponse{}, apperr.Validation(err.Error())
	}

	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if _, err := s.guard(claim, domain.CommandUpdatePaymentStatus); err != nil {
			return err
		}
		rc := claim.RepairConfig
		if rc == nil {
			return apperr.Validation("repair configuration is not set")
		}
		rc.PaymentStatus = string(payment)
		rc.UpdatedAt = time.Now()
		return s.repo.UpsertRepairConfig(ctx, tx, rc)
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return s.respond(ctx, claimID)
}

// Queries

func (s *Service) Get(ctx context.Context, claimID uuid.UUID) (transport.ClaimResponse, error) {
	return s.respond(ctx, claimID)
}

func (s *Service) List(ctx context.Context, query transport.ListClaimsQuery) (transport.ClaimListResponse, error) {
	params := repository.ListParams{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status, err := domain.ParseStatus(query.Status)
		if err != nil {
			return transport.ClaimListResponse{}, apperr.Validation(err.Error())
		}
		str := string(status)
		params.Status = &str
	}
	if query.VehicleID != "" {
		id, err := uuid.Parse(query.VehicleID)
		if err != nil {
			return transport.ClaimListResponse{}, apperr.Validation("invalid vehicle id")
		}
		params.VehicleID = &id
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ClaimListResponse{}, err
	}
	return toClaimListResponse(result), nil
}

func (s *Service) History(ctx context.Context, claimID uuid.UUID) ([]transport.StatusHistoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, claimID); err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(history), nil
}

// TrackByToken serves the unauthenticated tracking view. Customer contact
// data and cost figures never leak through this endpoint.
func (s *Service) TrackByToken(ctx context.Context, token string) (transport.PublicTrackingResponse, error) {
	claim, err := s.repo.GetByTrackingToken(ctx, token)
	if err != nil {
		return transport.PublicTrackingResponse{}, err
	}
	history, err := s.repo.ListHistory(ctx, claim.ID)
	if err != nil {
		return transport.PublicTrackingResponse{}, err
	}
	status, _ := domain.ParseStatus(claim.Status)
	return transport.PublicTrackingResponse{
		ClaimNumber: claim.ClaimNumber,
		Status:      claim.Status,
		StatusLabel: status.Label(),
		UpdatedAt:   claim.UpdatedAt,
		History:     toHistoryResponses(history),
	}, nil
}

func (s *Service) respond(ctx context.Context, claimID uuid.UUID) (transport.ClaimResponse, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return toClaimResponse(claim), nil
}
