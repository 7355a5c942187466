package domain

import "testing"

func TestCanRequestCancel(t *testing.T) {
	cases := []struct {
		name    string
		status  ClaimStatus
		state   CancelState
		count   int
		allowed bool
		reason  string
	}{
		{"from open", StatusOpen, CancelNone, 0, true, ""},
		{"from repair in progress", StatusRepairInProgress, CancelNone, 2, true, ""},
		{"from rejected", StatusRejected, CancelNone, 0, true, ""},
		{"closed claim", StatusClosed, CancelNone, 0, false, "claim is closed"},
		{"already requested", StatusOpen, CancelRequested, 1, false, "cancellation already in progress"},
		{"at ceiling", StatusOpen, CancelNone, 3, false, "CANCEL_LIMIT_EXCEEDED"},
		{"beyond ceiling", StatusOpen, CancelNone, 7, false, "CANCEL_LIMIT_EXCEEDED"},
	}

	for _, tc := range cases {
		allowed, reason := CanRequestCancel(tc.status, tc.state, tc.count, DefaultMaxCancelRequests)
		if allowed != tc.allowed {
			t.Fatalf("%s: allowed = %v, want %v", tc.name, allowed, tc.allowed)
		}
		if reason != tc.reason {
			t.Fatalf("%s: reason = %q, want %q", tc.name, reason, tc.reason)
		}
	}
}

func TestFourthRequestAlwaysFails(t *testing.T) {
	// Three requests exhaust the ceiling regardless of sub-flow resets.
	count := 0
	for i := 0; i < DefaultMaxCancelRequests; i++ {
		allowed, _ := CanRequestCancel(StatusInProgress, CancelNone, count, DefaultMaxCancelRequests)
		if !allowed {
			t.Fatalf("request %d unexpectedly blocked", i+1)
		}
		count++ // request recorded, then rejected: sub-flow resets to NONE
	}

	allowed, reason := CanRequestCancel(StatusInProgress, CancelNone, count, DefaultMaxCancelRequests)
	if allowed || reason != "CANCEL_LIMIT_EXCEEDED" {
		t.Fatalf("4th request: allowed=%v reason=%q, want blocked with CANCEL_LIMIT_EXCEEDED", allowed, reason)
	}
}

func TestSubflowStateGuards(t *testing.T) {
	if !CanAcceptCancel(CancelRequested) || CanAcceptCancel(CancelNone) || CanAcceptCancel(CancelHandoverForCancel) {
		t.Fatal("accept is only valid from CANCEL_REQUESTED")
	}
	if !CanRejectCancel(CancelRequested) || CanRejectCancel(CancelNone) {
		t.Fatal("reject is only valid from CANCEL_REQUESTED")
	}
	if !CanConfirmHandoverCancel(CancelHandoverForCancel) || CanConfirmHandoverCancel(CancelRequested) {
		t.Fatal("confirm handover is only valid from HANDOVER_FOR_CANCEL")
	}
}

func TestBlocksMainFlow(t *testing.T) {
	if BlocksMainFlow(CancelNone) {
		t.Fatal("NONE must not block the main flow")
	}
	if !BlocksMainFlow(CancelRequested) || !BlocksMainFlow(CancelHandoverForCancel) {
		t.Fatal("active sub-flow must block the main flow")
	}
}

func TestParseCancelState(t *testing.T) {
	for _, s := range []CancelState{CancelNone, CancelRequested, CancelHandoverForCancel} {
		got, err := ParseCancelState(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseCancelState(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseCancelState("ACCEPTED"); err == nil {
		t.Fatal("ParseCancelState accepted a non-persisted code")
	}
}
