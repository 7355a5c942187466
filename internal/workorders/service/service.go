// Package service implements the work order flow: opening repair work
// against a claim, completing it with labor and parts, and summarizing the
// recorded work for cost booking.
package service

import (
	"context"
	"time"

	"evwarranty_backend/internal/events"
	"evwarranty_backend/internal/workorders/repository"
	"evwarranty_backend/internal/workorders/transport"
	"evwarranty_backend/platform/apperr"
	"evwarranty_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClaimGuard checks a work-done report against the claim lifecycle: the
// claim must be in active repair and the reporter must be its assigned
// technician.
type ClaimGuard interface {
	AuthorizeWorkDone(ctx context.Context, technicianID, claimID uuid.UUID) error
}

// RepairStats receives labor hours from completed work so technician
// selection stays informed.
type RepairStats interface {
	RecordCompletedRepair(ctx context.Context, technicianID uuid.UUID, laborHours float64) error
}

// PartPrice is a catalog part resolved for a work-order line.
type PartPrice struct {
	Name      string
	UnitCents int64
}

// PartsPricer resolves a part's name and unit price from the parts catalog.
// Both OEM and third-party parts live in the catalog under their source.
type PartsPricer interface {
	PriceBySKU(ctx context.Context, sku string) (PartPrice, error)
}

// Service coordinates work orders for claims under repair.
type Service struct {
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
	guard  ClaimGuard
	stats  RepairStats
	pricer PartsPricer
}

// New creates a work orders service.
func New(repo *repository.Repository, bus events.Bus, log *logger.Logger, guard ClaimGuard, stats RepairStats, pricer PartsPricer) *Service {
	return &Service{repo: repo, bus: bus, log: log, guard: guard, stats: stats, pricer: pricer}
}

// CreateWorkOrder opens a work order. The claim guard confirms the claim is
// in active repair and the technician is the one assigned to it.
func (s *Service) CreateWorkOrder(ctx context.Context, req transport.CreateWorkOrderRequest) (transport.WorkOrderResponse, error) {
	if err := s.guard.AuthorizeWorkDone(ctx, req.TechnicianID, req.ClaimID); err != nil {
		return transport.WorkOrderResponse{}, err
	}

	now := time.Now()
	order := repository.WorkOrder{
		ID:           uuid.New(),
		ClaimID:      req.ClaimID,
		TechnicianID: req.TechnicianID,
		Description:  req.Description,
		Status:       repository.StatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &order); err != nil {
		return transport.WorkOrderResponse{}, err
	}

	s.log.Info("work order created", "work_order_id", order.ID, "claim_id", order.ClaimID)
	return toWorkOrderResponse(order), nil
}

// CompleteWorkOrder records the order's labor and parts and marks it done.
// Only the reporting technician may complete their own order, enforced by
// the claim guard against the live assignment.
func (s *Service) CompleteWorkOrder(ctx context.Context, actorID, orderID uuid.UUID, req transport.CompleteWorkOrderRequest) (transport.WorkOrderResponse, error) {
	parts, err := s.priceParts(ctx, req.Parts)
	if err != nil {
		return transport.WorkOrderResponse{}, err
	}

	var completed repository.WorkOrder
	err = s.repo.InTx(ctx, func(tx pgx.Tx) error {
		order, err := s.repo.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == repository.StatusCompleted {
			return apperr.Conflict("work order is already completed")
		}
		if err := s.guard.AuthorizeWorkDone(ctx, actorID, order.ClaimID); err != nil {
			return err
		}

		now := time.Now()
		order.Status = repository.StatusCompleted
		order.LaborHours = req.LaborHours
		order.Parts = parts
		order.PartsCents = partsTotalCents(order.Parts)
		order.UpdatedAt = now
		order.CompletedAt = &now

		if err := s.repo.Complete(ctx, tx, order); err != nil {
			return err
		}
		completed = *order
		return nil
	})
	if err != nil {
		return transport.WorkOrderResponse{}, err
	}

	if err := s.stats.RecordCompletedRepair(ctx, completed.TechnicianID, completed.LaborHours); err != nil {
		s.log.DatabaseError("record repair hours", err)
	}

	s.bus.Publish(ctx, events.WorkOrderCompleted{
		BaseEvent:    events.NewBaseEvent(),
		WorkOrderID:  completed.ID,
		ClaimID:      completed.ClaimID,
		TechnicianID: completed.TechnicianID,
		LaborHours:   completed.LaborHours,
	})

	s.log.Info("work order completed",
		"work_order_id", completed.ID,
		"claim_id", completed.ClaimID,
		"labor_hours", completed.LaborHours,
	)
	return toWorkOrderResponse(completed), nil
}

// GetWorkOrder fetches one work order.
func (s *Service) GetWorkOrder(ctx context.Context, id uuid.UUID) (transport.WorkOrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.WorkOrderResponse{}, err
	}
	return toWorkOrderResponse(*order), nil
}

// ListForClaim returns a claim's work orders.
func (s *Service) ListForClaim(ctx context.Context, claimID uuid.UUID) ([]transport.WorkOrderResponse, error) {
	orders, err := s.repo.ListForClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.WorkOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toWorkOrderResponse(o))
	}
	return out, nil
}

// Summarize aggregates a claim's work orders for cost booking.
func (s *Service) Summarize(ctx context.Context, claimID uuid.UUID) (repository.Summary, error) {
	return s.repo.Summarize(ctx, claimID)
}

// priceParts resolves every requested line against the parts catalog. The
// caller supplies SKU and quantity only; name and unit price come from the
// catalog record.
func (s *Service) priceParts(ctx context.Context, reqs []transport.PartLineRequest) ([]repository.PartLine, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	out := make([]repository.PartLine, 0, len(reqs))
	for _, r := range reqs {
		price, err := s.pricer.PriceBySKU(ctx, r.SKU)
		if err != nil {
			return nil, err
		}
		out = append(out, repository.PartLine{
			SKU:       r.SKU,
			Name:      price.Name,
			Source:    r.Source,
			Quantity:  r.Quantity,
			UnitCents: price.UnitCents,
		})
	}
	return out, nil
}

func partsTotalCents(parts []repository.PartLine) int64 {
	var total int64
	for _, p := range parts {
		total += int64(p.Quantity) * p.UnitCents
	}
	return total
}

func toWorkOrderResponse(w repository.WorkOrder) transport.WorkOrderResponse {
	parts := make([]transport.PartLineResponse, 0, len(w.Parts))
	for _, p := range w.Parts {
		parts = append(parts, transport.PartLineResponse{
			SKU:       p.SKU,
			Name:      p.Name,
			Source:    p.Source,
			Quantity:  p.Quantity,
			UnitCents: p.UnitCents,
		})
	}
	return transport.WorkOrderResponse{
		ID:           w.ID,
		ClaimID:      w.ClaimID,
		TechnicianID: w.TechnicianID,
		Description:  w.Description,
		Status:       w.Status,
		LaborHours:   w.LaborHours,
		Parts:        parts,
		PartsCents:   w.PartsCents,
		CreatedAt:    w.CreatedAt,
		CompletedAt:  w.CompletedAt,
	}
}
