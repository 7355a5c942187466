package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"evwarranty_backend/internal/claims/domain"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
	"evwarranty_backend/internal/events"
	"evwarranty_backend/platform/apperr"
)

// RecheckWarranty re-runs the automatic eligibility check against the
// vehicle's current mileage. Any earlier manual override is discarded: it
// was given for a different reading.
func (s *Service) RecheckWarranty(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var decision CoverageDecision

	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		status, err := domain.ParseStatus(claim.Status)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		if status.IsTerminal() {
			return apperr.InvalidTransition("claim is closed")
		}
		vehicle, err := s.repo.GetVehicle(ctx, claim.VehicleID)
		if err != nil {
			return err
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
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.bus.Publish(ctx, events.WarrantyCheckCompleted{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		Eligible:    decision.Eligible,
		Reasons:     decision.Reasons,
	})
	return s.respond(ctx, claimID)
}

// OverrideEligibility records a manual assessment over a failed automatic
// check. The override stays pending until confirmed by authorized staff.
func (s *Service) OverrideEligibility(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.OverrideEligibilityRequest) (transport.ClaimResponse, error) {
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		e := claim.Eligibility
		if e == nil || e.CheckedAt == nil {
			return apperr.Validation("run the automatic warranty check first")
		}
		if e.AutoCheckResult {
			return apperr.Validation("automatic check passed, no override needed")
		}

		e.ManualOverride = true
		e.Eligible = true
		e.Assessment = &req.Assessment
		e.OverrideConfirmed = false
		e.OverrideConfirmedAt = nil
		e.OverrideConfirmedBy = nil
		return s.repo.UpsertEligibility(ctx, tx, e)
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return s.respond(ctx, claimID)
}

// ConfirmOverride approves a pending manual override. Only a confirmed
// override satisfies the pre-submission checklist.
func (s *Service) ConfirmOverride(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		e := claim.Eligibility
		if e == nil || !e.ManualOverride {
			return apperr.Validation("no manual override to confirm")
		}
		if e.OverrideConfirmed {
			return apperr.Conflict("override is already confirmed")
		}

		now := time.Now()
		e.OverrideConfirmed = true
		e.OverrideConfirmedAt = &now
		e.OverrideConfirmedBy = &actor.ID
		if err := s.repo.UpsertEligibility(ctx, tx, e); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.bus.Publish(ctx, events.WarrantyOverrideConfirmed{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		ConfirmedBy: actor.ID,
	})
	return s.respond(ctx, claimID)
}
