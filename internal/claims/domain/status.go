// Package domain provides core business rules for the claims bounded context:
// the claim status enum, the lifecycle transition table, and the cancellation
// sub-flow rules. Everything here is pure; persistence lives in the repository.
package domain

import "fmt"

// ClaimStatus is the closed set of claim lifecycle states. The persisted codes
// are fixed strings; anything else read from storage is corruption, not a new
// valid state.
type ClaimStatus string

const (
	StatusDraft              ClaimStatus = "DRAFT"
	StatusOpen               ClaimStatus = "OPEN"
	StatusInProgress         ClaimStatus = "IN_PROGRESS"
	StatusPendingEVMApproval ClaimStatus = "PENDING_EVM_APPROVAL"
	StatusEVMApproved        ClaimStatus = "EVM_APPROVED"
	StatusRejected           ClaimStatus = "REJECTED"
	StatusRepairInProgress   ClaimStatus = "REPAIR_IN_PROGRESS"
	StatusHandoverPending    ClaimStatus = "HANDOVER_PENDING"
	StatusReadyForHandover   ClaimStatus = "READY_FOR_HANDOVER"
	StatusCompleted          ClaimStatus = "COMPLETED"
	StatusClosed             ClaimStatus = "CLOSED"
)

// AllStatuses lists every valid claim status, in lifecycle order.
var AllStatuses = []ClaimStatus{
	StatusDraft,
	StatusOpen,
	StatusInProgress,
	StatusPendingEVMApproval,
	StatusEVMApproved,
	StatusRejected,
	StatusRepairInProgress,
	StatusHandoverPending,
	StatusReadyForHandover,
	StatusCompleted,
	StatusClosed,
}

var statusLabels = map[ClaimStatus]string{
	StatusDraft:              "Draft",
	StatusOpen:               "Open",
	StatusInProgress:         "In Progress",
	StatusPendingEVMApproval: "Pending EVM Approval",
	StatusEVMApproved:        "EVM Approved",
	StatusRejected:           "Rejected",
	StatusRepairInProgress:   "Repair In Progress",
	StatusHandoverPending:    "Handover Pending",
	StatusReadyForHandover:   "Ready For Handover",
	StatusCompleted:          "Completed",
	StatusClosed:             "Closed",
}

// ParseStatus converts a persisted status code into a ClaimStatus.
// An unknown code is a defect (corrupted storage), never a new state.
func ParseStatus(code string) (ClaimStatus, error) {
	s := ClaimStatus(code)
	if _, ok := statusLabels[s]; !ok {
		return "", fmt.Errorf("unknown claim status code %q", code)
	}
	return s, nil
}

// Label returns the human-readable label recorded in status history rows.
func (s ClaimStatus) Label() string {
	return statusLabels[s]
}

// IsTerminal reports whether no further lifecycle commands apply.
// CLOSED is the only hard-terminal state; REJECTED is terminal unless a
// resubmission re-opens the claim, which the transition table expresses.
func (s ClaimStatus) IsTerminal() bool {
	return s == StatusClosed
}

// IsValid reports whether the status is a member of the closed enum.
func (s ClaimStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}
