package adapters

import (
	"context"

	claimsvc "evwarranty_backend/internal/claims/service"
	techsvc "evwarranty_backend/internal/technicians/service"

	"github.com/google/uuid"
)

// AssignmentCoordinatorAdapter adapts the technician roster service for
// claim assignments.
type AssignmentCoordinatorAdapter struct {
	svc *techsvc.Service
}

// NewAssignmentCoordinatorAdapter creates a new adapter that wraps the
// technicians service.
func NewAssignmentCoordinatorAdapter(svc *techsvc.Service) *AssignmentCoordinatorAdapter {
	return &AssignmentCoordinatorAdapter{svc: svc}
}

// Acquire reserves a workload slot and returns the picked technician.
func (a *AssignmentCoordinatorAdapter) Acquire(ctx context.Context, preferred *uuid.UUID, specialty string, minLevel int) (claimsvc.TechnicianPick, error) {
	pick, err := a.svc.Acquire(ctx, preferred, specialty, minLevel)
	if err != nil {
		return claimsvc.TechnicianPick{}, err
	}
	return claimsvc.TechnicianPick{ID: pick.ID, Name: pick.Name}, nil
}

// Release frees the technician's workload slot.
func (a *AssignmentCoordinatorAdapter) Release(ctx context.Context, technicianID uuid.UUID) error {
	return a.svc.Release(ctx, technicianID)
}

// Compile-time check.
var _ claimsvc.AssignmentCoordinator = (*AssignmentCoordinatorAdapter)(nil)
