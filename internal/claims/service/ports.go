package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actor identifies who issued a command. Every transition is attributed.
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

// CoverageDecision is the result of an automatic warranty eligibility check.
type CoverageDecision struct {
	Eligible      bool
	Reasons       []string
	CoverageYears int
	CoverageKm    int
}

// WarrantyChecker evaluates coverage for a vehicle at a point in time.
// Implemented by the warranty module behind an adapter.
type WarrantyChecker interface {
	Evaluate(ctx context.Context, model string, registeredAt time.Time, mileageKm int) (CoverageDecision, error)
}

// TechnicianPick is the technician the coordinator reserved for a repair.
type TechnicianPick struct {
	ID   uuid.UUID
	Name string
}

// AssignmentCoordinator reserves and releases technician capacity.
// Acquire must atomically bump the technician's workload; when preferred is
// nil the coordinator selects the best active technician matching the
// specialty and certification floor itself. An empty specialty matches any.
type AssignmentCoordinator interface {
	Acquire(ctx context.Context, preferred *uuid.UUID, specialty string, minLevel int) (TechnicianPick, error)
	Release(ctx context.Context, technicianID uuid.UUID) error
}

// WorkOrderSummary aggregates the repair work recorded against one claim.
type WorkOrderSummary struct {
	Open       int
	Completed  int
	LaborHours float64
	PartsCents int64
}

// WorkOrderReader exposes the work-order totals the cost aggregator and the
// repair-completion guard need.
type WorkOrderReader interface {
	Summary(ctx context.Context, claimID uuid.UUID) (WorkOrderSummary, error)
}
