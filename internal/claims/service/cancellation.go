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

// The cancellation sub-flow overlays the main status instead of replacing
// it. While a request is under review the main flow is frozen; the status
// the claim held at request time is kept so rejection and reopening restore
// it exactly. The lifetime request count never resets.

// RequestCancel opens a cancellation request for review.
func (s *Service) RequestCancel(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.RequestCancelRequest) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var requestCount int
	var fromStatus string

	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		status, err := domain.ParseStatus(claim.Status)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		state, err := domain.ParseCancelState(claim.CancelState)
		if err != nil {
			return apperr.Internal(err.Error())
		}

		cn := claim.Cancellation
		if cn == nil {
			cn = &repository.Cancellation{ClaimID: claim.ID, State: string(domain.CancelNone)}
		}
		allowed, reason := domain.CanRequestCancel(status, state, cn.RequestCount, s.policy.GetMaxCancelRequests())
		if !allowed {
			s.log.ClaimCommandRejected(claim.ClaimNumber, string(domain.CommandRequestCancel), claim.Status, reason)
			if reason == "CANCEL_LIMIT_EXCEEDED" {
				return apperr.LimitExceeded("cancellation request limit reached for this claim")
			}
			return apperr.InvalidTransition(reason)
		}

		now := time.Now()
		prev := claim.Status
		cn.State = string(domain.CancelRequested)
		cn.RequestCount++
		cn.RequestedBy = &actor.ID
		cn.RequestedAt = &now
		cn.PrevStatus = &prev
		cn.Outcome = nil
		cn.ResolvedBy = nil
		cn.ResolvedAt = nil
		if err := s.repo.UpsertCancellation(ctx, tx, cn); err != nil {
			return err
		}
		if err := s.repo.UpdateCancelState(ctx, tx, claim.ID, cn.State, now); err != nil {
			return err
		}
		if err := s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			StatusCode:  claim.Status,
			StatusLabel: "Cancellation requested",
			ActorID:     actor.ID,
			Note:        &req.Reason,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		claim.CancelState = cn.State
		claim.Cancellation = cn
		requestCount = cn.RequestCount
		fromStatus = prev
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.bus.Publish(ctx, events.CancelRequested{
		BaseEvent:    events.NewBaseEvent(),
		ClaimID:      result.ID,
		ClaimNumber:  result.ClaimNumber,
		RequestedBy:  actor.ID,
		RequestCount: requestCount,
		FromStatus:   fromStatus,
	})
	return s.respond(ctx, claimID)
}

// AcceptCancel approves the pending request and asks for the vehicle to be
// handed back before the claim is closed.
func (s *Service) AcceptCancel(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		state, err := domain.ParseCancelState(claim.CancelState)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		if !domain.CanAcceptCancel(state) {
			s.log.ClaimCommandRejected(claim.ClaimNumber, string(domain.CommandAcceptCancel), claim.Status, "no open cancel request")
			return apperr.InvalidTransition("no cancellation request is open for review")
		}

		now := time.Now()
		cn := claim.Cancellation
		cn.State = string(domain.CancelHandoverForCancel)
		if err := s.repo.UpsertCancellation(ctx, tx, cn); err != nil {
			return err
		}
		if err := s.repo.UpdateCancelState(ctx, tx, claim.ID, cn.State, now); err != nil {
			return err
		}
		return s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			StatusCode:  claim.Status,
			StatusLabel: "Cancellation accepted, awaiting vehicle handover",
			ActorID:     actor.ID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}
	return s.respond(ctx, claimID)
}

// RejectCancel declines the pending request. The claim resumes at the exact
// status it held; the lifetime request count is kept.
func (s *Service) RejectCancel(ctx context.Context, actor Actor, claimID uuid.UUID, req transport.RejectCancelRequest) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		state, err := domain.ParseCancelState(claim.CancelState)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		if !domain.CanRejectCancel(state) {
			s.log.ClaimCommandRejected(claim.ClaimNumber, string(domain.CommandRejectCancel), claim.Status, "no open cancel request")
			return apperr.InvalidTransition("no cancellation request is open for review")
		}

		now := time.Now()
		outcome := string(domain.CancelOutcomeRejected)
		cn := claim.Cancellation
		cn.State = string(domain.CancelNone)
		cn.Outcome = &outcome
		cn.ResolvedBy = &actor.ID
		cn.ResolvedAt = &now
		if err := s.repo.UpsertCancellation(ctx, tx, cn); err != nil {
			return err
		}
		if err := s.repo.UpdateCancelState(ctx, tx, claim.ID, cn.State, now); err != nil {
			return err
		}
		if err := s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			StatusCode:  claim.Status,
			StatusLabel: "Cancellation rejected, claim resumed",
			ActorID:     actor.ID,
			Note:        &req.Reason,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.bus.Publish(ctx, events.CancelResolved{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		Outcome:     string(domain.CancelOutcomeRejected),
		ResolvedBy:  actor.ID,
	})
	return s.respond(ctx, claimID)
}

// ConfirmHandoverCancel records that the vehicle went back to the customer
// and closes the claim as cancelled. The assigned technician is released.
func (s *Service) ConfirmHandoverCancel(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	var technicianID *uuid.UUID
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		state, err := domain.ParseCancelState(claim.CancelState)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		if !domain.CanConfirmHandoverCancel(state) {
			s.log.ClaimCommandRejected(claim.ClaimNumber, string(domain.CommandConfirmHandoverCancel), claim.Status, "cancellation handover not pending")
			return apperr.InvalidTransition("cancellation handover is not pending")
		}

		now := time.Now()
		outcome := string(domain.CancelOutcomeClosed)
		cn := claim.Cancellation
		cn.State = string(domain.CancelNone)
		cn.Outcome = &outcome
		cn.ResolvedBy = &actor.ID
		cn.ResolvedAt = &now
		if err := s.repo.UpsertCancellation(ctx, tx, cn); err != nil {
			return err
		}
		if err := s.repo.UpdateCancelState(ctx, tx, claim.ID, cn.State, now); err != nil {
			return err
		}
		if claim.Assignment != nil {
			technicianID = &claim.Assignment.TechnicianID
		}
		claim.CancelState = cn.State
		if err := s.applyTransition(ctx, tx, claim, domain.CommandConfirmHandoverCancel, domain.StatusClosed, actor, nil); err != nil {
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
			s.log.DatabaseError("release technician after cancellation", err)
		}
	}
	s.bus.Publish(ctx, events.CancelResolved{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		Outcome:     string(domain.CancelOutcomeClosed),
		ResolvedBy:  actor.ID,
	})
	s.bus.Publish(ctx, events.ClaimClosed{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		ClosedBy:    actor.ID,
	})
	return s.respond(ctx, claimID)
}

// ReopenAfterCancel abandons an accepted cancellation before the handover is
// confirmed. The claim resumes at the exact status it held at request time.
func (s *Service) ReopenAfterCancel(ctx context.Context, actor Actor, claimID uuid.UUID) (transport.ClaimResponse, error) {
	var result *repository.Claim
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		claim, err := s.repo.GetForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		state, err := domain.ParseCancelState(claim.CancelState)
		if err != nil {
			return apperr.Internal(err.Error())
		}
		if !domain.CanConfirmHandoverCancel(state) {
			s.log.ClaimCommandRejected(claim.ClaimNumber, string(domain.CommandReopenAfterCancel), claim.Status, "cancellation handover not pending")
			return apperr.InvalidTransition("no accepted cancellation to reopen from")
		}

		now := time.Now()
		outcome := string(domain.CancelOutcomeReopened)
		cn := claim.Cancellation
		cn.State = string(domain.CancelNone)
		cn.Outcome = &outcome
		cn.ResolvedBy = &actor.ID
		cn.ResolvedAt = &now
		if err := s.repo.UpsertCancellation(ctx, tx, cn); err != nil {
			return err
		}
		if err := s.repo.UpdateCancelState(ctx, tx, claim.ID, cn.State, now); err != nil {
			return err
		}
		if err := s.repo.AppendHistory(ctx, tx, &repository.StatusHistory{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			StatusCode:  claim.Status,
			StatusLabel: "Cancellation abandoned, claim reopened",
			ActorID:     actor.ID,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		result = claim
		return nil
	})
	if err != nil {
		return transport.ClaimResponse{}, err
	}

	s.bus.Publish(ctx, events.CancelResolved{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     result.ID,
		ClaimNumber: result.ClaimNumber,
		Outcome:     string(domain.CancelOutcomeReopened),
		ResolvedBy:  actor.ID,
	})
	return s.respond(ctx, claimID)
}
