package domain

import "testing"

func TestParseStatusAcceptsEveryKnownCode(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Fatalf("ParseStatus(%q) returned error: %v", s, err)
		}
		if parsed != s {
			t.Fatalf("ParseStatus(%q) = %q, want %q", s, parsed, s)
		}
		if parsed.Label() == "" {
			t.Fatalf("status %q has no label", s)
		}
	}
}

func TestParseStatusRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"", "draft", "OPENED", "CANCEL_REQUESTED", "garbage"} {
		if _, err := ParseStatus(code); err == nil {
			t.Fatalf("ParseStatus(%q) accepted an unknown code", code)
		}
	}
}

func TestOnlyClosedIsTerminal(t *testing.T) {
	for _, s := range AllStatuses {
		got := s.IsTerminal()
		want := s == StatusClosed
		if got != want {
			t.Fatalf("IsTerminal(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		cmd     Command
		from    ClaimStatus
		allowed bool
	}{
		{CommandSubmitIntake, StatusDraft, true},
		{CommandSubmitIntake, StatusOpen, false},
		{CommandSubmitToEVM, StatusOpen, true},
		{CommandSubmitToEVM, StatusInProgress, true},
		{CommandSubmitToEVM, StatusDraft, false},
		{CommandSubmitToEVM, StatusRejected, false},
		{CommandApprove, StatusPendingEVMApproval, true},
		{CommandApprove, StatusOpen, false},
		{CommandReject, StatusPendingEVMApproval, true},
		{CommandResubmit, StatusRejected, true},
		{CommandResubmit, StatusPendingEVMApproval, false},
		{CommandAssignTechnician, StatusEVMApproved, true},
		{CommandAssignTechnician, StatusRepairInProgress, false},
		{CommandCompleteRepair, StatusRepairInProgress, true},
		{CommandCompleteRepair, StatusHandoverPending, false},
		{CommandPerformInspection, StatusHandoverPending, true},
		{CommandHandoverVehicle, StatusReadyForHandover, true},
		{CommandHandoverVehicle, StatusCompleted, false},
		{CommandCloseClaim, StatusCompleted, true},
		{CommandCloseClaim, StatusReadyForHandover, false},
		{CommandCloseClaim, StatusClosed, false},
		{CommandMarkWorkDone, StatusRepairInProgress, true},
		{CommandMarkWorkDone, StatusClosed, false},
	}

	for _, tc := range cases {
		if got := CanApply(tc.cmd, tc.from); got != tc.allowed {
			t.Fatalf("CanApply(%s, %s) = %v, want %v", tc.cmd, tc.from, got, tc.allowed)
		}
	}
}

func TestNoCommandEscapesClosed(t *testing.T) {
	for cmd := range transitions {
		if CanApply(cmd, StatusClosed) {
			t.Fatalf("command %s is applicable from CLOSED", cmd)
		}
	}
}

func TestTargetOnlyForMutatingCommands(t *testing.T) {
	if _, ok := Target(CommandUpdateDiagnostic); ok {
		t.Fatal("updateDiagnostic should not have a fixed target")
	}
	if _, ok := Target(CommandPerformInspection); ok {
		t.Fatal("performInspection target is payload-dependent")
	}
	got, ok := Target(CommandReject)
	if !ok || got != StatusRejected {
		t.Fatalf("Target(reject) = %q, %v; want REJECTED, true", got, ok)
	}
}

func TestInspectionTarget(t *testing.T) {
	if s, err := InspectionTarget(InspectionPassed); err != nil || s != StatusReadyForHandover {
		t.Fatalf("InspectionTarget(PASSED) = %q, %v", s, err)
	}
	if s, err := InspectionTarget(InspectionFailed); err != nil || s != StatusRepairInProgress {
		t.Fatalf("InspectionTarget(FAILED) = %q, %v", s, err)
	}
	if _, err := InspectionTarget("MAYBE"); err == nil {
		t.Fatal("InspectionTarget accepted an unknown outcome")
	}
}
