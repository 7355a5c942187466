// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"evwarranty_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Claim Lifecycle Events
// =============================================================================

// ClaimStatusChanged is published after every committed claim transition.
type ClaimStatusChanged struct {
	BaseEvent
	ClaimID     uuid.UUID `json:"claimId"`
	ClaimNumber string    `json:"claimNumber"`
	Command     string    `json:"command"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	ActorID     uuid.UUID `json:"actorId"`
}

func (e ClaimStatusChanged) EventName() string { return "claims.status.changed" }

// ClaimSubmittedToEVM is published when a claim enters EVM review.
type ClaimSubmittedToEVM struct {
	BaseEvent
	ClaimID       uuid.UUID `json:"claimId"`
	ClaimNumber   string    `json:"claimNumber"`
	Resubmission  bool      `json:"resubmission"`
	ResubmitCount int       `json:"resubmitCount"`
}

func (e ClaimSubmittedToEVM) EventName() string { return "claims.evm.submitted" }

// ClaimApproved is published when EVM staff approve a claim.
type ClaimApproved struct {
	BaseEvent
	ClaimID       uuid.UUID `json:"claimId"`
	ClaimNumber   string    `json:"claimNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	ApprovedBy    uuid.UUID `json:"approvedBy"`
}

func (e ClaimApproved) EventName() string { return "claims.evm.approved" }

// ClaimRejected is published when EVM staff reject a claim. CanResubmit
// tells the service center whether another attempt is allowed.
type ClaimRejected struct {
	BaseEvent
	ClaimID       uuid.UUID `json:"claimId"`
	ClaimNumber   string    `json:"claimNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Reason        string    `json:"reason"`
	CanResubmit   bool      `json:"canResubmit"`
}

func (e ClaimRejected) EventName() string { return "claims.evm.rejected" }

// TechnicianAssigned is published when a technician is put on a repair.
type TechnicianAssigned struct {
	BaseEvent
	ClaimID        uuid.UUID `json:"claimId"`
	ClaimNumber    string    `json:"claimNumber"`
	TechnicianID   uuid.UUID `json:"technicianId"`
	TechnicianName string    `json:"technicianName"`
}

func (e TechnicianAssigned) EventName() string { return "claims.technician.assigned" }

// ClaimReadyForHandover is published when final inspection passes.
// TrackingToken lets the customer follow the claim without signing in.
type ClaimReadyForHandover struct {
	BaseEvent
	ClaimID       uuid.UUID `json:"claimId"`
	ClaimNumber   string    `json:"claimNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	TrackingToken string    `json:"trackingToken"`
}

func (e ClaimReadyForHandover) EventName() string { return "claims.handover.ready" }

// ClaimHandedOver is published when the vehicle is returned to the customer.
type ClaimHandedOver struct {
	BaseEvent
	ClaimID       uuid.UUID `json:"claimId"`
	ClaimNumber   string    `json:"claimNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	TrackingToken string    `json:"trackingToken"`
}

func (e ClaimHandedOver) EventName() string { return "claims.handover.done" }

// ClaimClosed is published when the claim record is finalized.
type ClaimClosed struct {
	BaseEvent
	ClaimID     uuid.UUID `json:"claimId"`
	ClaimNumber string    `json:"claimNumber"`
	ClosedBy    uuid.UUID `json:"closedBy"`
}

func (e ClaimClosed) EventName() string { return "claims.closed" }

// =============================================================================
// Cancellation Sub-Flow Events
// =============================================================================

// CancelRequested is published when a cancellation request is accepted for
// review. RequestCount is the lifetime count including this request.
type CancelRequested struct {
	BaseEvent
	ClaimID      uuid.UUID `json:"claimId"`
	ClaimNumber  string    `json:"claimNumber"`
	RequestedBy  uuid.UUID `json:"requestedBy"`
	RequestCount int       `json:"requestCount"`
	FromStatus   string    `json:"fromStatus"`
}

func (e CancelRequested) EventName() string { return "claims.cancel.requested" }

// CancelResolved is published when a cancellation request reaches its
// outcome: REJECTED, REOPENED, or CLOSED.
type CancelResolved struct {
	BaseEvent
	ClaimID     uuid.UUID `json:"claimId"`
	ClaimNumber string    `json:"claimNumber"`
	Outcome     string    `json:"outcome"`
	ResolvedBy  uuid.UUID `json:"resolvedBy"`
}

func (e CancelResolved) EventName() string { return "claims.cancel.resolved" }

// =============================================================================
// Warranty Events
// =============================================================================

// WarrantyCheckCompleted is published after an automatic eligibility check.
type WarrantyCheckCompleted struct {
	BaseEvent
	ClaimID     uuid.UUID `json:"claimId"`
	ClaimNumber string    `json:"claimNumber"`
	Eligible    bool      `json:"eligible"`
	Reasons     []string  `json:"reasons"`
}

func (e WarrantyCheckCompleted) EventName() string { return "warranty.check.completed" }

// WarrantyOverrideConfirmed is published when a manual override of a failed
// automatic check is confirmed by authorized staff.
type WarrantyOverrideConfirmed struct {
	BaseEvent
	ClaimID     uuid.UUID `json:"claimId"`
	ClaimNumber string    `json:"claimNumber"`
	ConfirmedBy uuid.UUID `json:"confirmedBy"`
}

func (e WarrantyOverrideConfirmed) EventName() string { return "warranty.override.confirmed" }

// =============================================================================
// Work Order Events
// =============================================================================

// WorkOrderCompleted is published when a technician marks a work order done.
type WorkOrderCompleted struct {
	BaseEvent
	WorkOrderID  uuid.UUID `json:"workOrderId"`
	ClaimID      uuid.UUID `json:"claimId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	LaborHours   float64   `json:"laborHours"`
}

func (e WorkOrderCompleted) EventName() string { return "workorders.completed" }

// =============================================================================
// Scheduler Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler worker when a pending
// outbox record reaches its run_at time.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notifications.outbox.due" }
