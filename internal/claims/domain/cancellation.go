package domain

import "fmt"

// CancelState is the cancellation sub-flow state layered on top of the main
// status. The main status is preserved while the sub-flow is active so that
// reopening after a rejected or abandoned cancellation is exact.
type CancelState string

const (
	CancelNone              CancelState = "NONE"
	CancelRequested         CancelState = "CANCEL_REQUESTED"
	CancelHandoverForCancel CancelState = "HANDOVER_FOR_CANCEL"
)

// CancelOutcome records how a completed cancellation sub-flow resolved.
type CancelOutcome string

const (
	CancelOutcomeRejected CancelOutcome = "REJECTED"
	CancelOutcomeReopened CancelOutcome = "REOPENED"
	CancelOutcomeClosed   CancelOutcome = "CLOSED"
)

// DefaultMaxCancelRequests is the ceiling on lifetime cancel requests per
// claim. Exceeding it is rejected, never silently clamped.
const DefaultMaxCancelRequests = 3

// ParseCancelState converts a persisted sub-flow state code.
func ParseCancelState(code string) (CancelState, error) {
	switch s := CancelState(code); s {
	case CancelNone, CancelRequested, CancelHandoverForCancel:
		return s, nil
	default:
		return "", fmt.Errorf("unknown cancel state code %q", code)
	}
}

// CanRequestCancel reports whether a cancellation may be requested given the
// main status, the current sub-flow state, and the lifetime request count.
// reason is empty when allowed; otherwise it names the violated rule.
func CanRequestCancel(status ClaimStatus, state CancelState, requestCount, maxRequests int) (bool, string) {
	if status.IsTerminal() {
		return false, "claim is closed"
	}
	if state != CancelNone {
		return false, "cancellation already in progress"
	}
	if requestCount >= maxRequests {
		return false, "CANCEL_LIMIT_EXCEEDED"
	}
	return true, ""
}

// CanAcceptCancel reports whether an open cancel request can be accepted.
func CanAcceptCancel(state CancelState) bool {
	return state == CancelRequested
}

// CanRejectCancel reports whether an open cancel request can be rejected.
// Rejection resets the sub-flow to NONE but keeps the lifetime count.
func CanRejectCancel(state CancelState) bool {
	return state == CancelRequested
}

// CanConfirmHandoverCancel reports whether the cancellation handover can be
// confirmed.
func CanConfirmHandoverCancel(state CancelState) bool {
	return state == CancelHandoverForCancel
}

// BlocksMainFlow reports whether an active cancellation sub-flow freezes
// forward lifecycle commands until it resolves.
func BlocksMainFlow(state CancelState) bool {
	return state != CancelNone
}
