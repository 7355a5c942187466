package domain

// Command identifies a lifecycle operation on a claim. Commands are fixed
// business rules, not runtime-configurable process definitions.
type Command string

const (
	CommandCreateDraft            Command = "createDraft"
	CommandSubmitIntake           Command = "submitIntake"
	CommandUpdateDiagnostic       Command = "updateDiagnostic"
	CommandMarkReadyForSubmission Command = "markReadyForSubmission"
	CommandSubmitToEVM            Command = "submitToEvm"
	CommandApprove                Command = "approve"
	CommandReject                 Command = "reject"
	CommandResubmit               Command = "resubmit"
	CommandAssignTechnician       Command = "assignTechnician"
	CommandCompleteRepair         Command = "completeRepair"
	CommandPerformInspection      Command = "performInspection"
	CommandHandoverVehicle        Command = "handoverVehicle"
	CommandCloseClaim             Command = "closeClaim"
	CommandRequestCancel          Command = "requestCancel"
	CommandAcceptCancel           Command = "acceptCancel"
	CommandRejectCancel           Command = "rejectCancel"
	CommandConfirmHandoverCancel  Command = "confirmHandoverCancel"
	CommandReopenAfterCancel      Command = "reopenAfterCancel"
	CommandUpdatePaymentStatus    Command = "updatePaymentStatus"
	CommandMarkWorkDone           Command = "markWorkDone"
)

// transition is one row of the guard table: the statuses a command may be
// applied from, and the status it produces. Commands whose target depends on
// the payload (performInspection) or that leave the status untouched
// (updateDiagnostic, updatePaymentStatus, markWorkDone) set mutates=false and
// resolve their target in the service layer.
type transition struct {
	from    map[ClaimStatus]bool
	to      ClaimStatus
	mutates bool
}

func sources(statuses ...ClaimStatus) map[ClaimStatus]bool {
	set := make(map[ClaimStatus]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	return set
}

// transitions is the authoritative, closed transition table for the main flow.
// Cancellation sub-flow commands are table-driven separately (cancellation.go)
// because they overlay the main status rather than replacing it.
var transitions = map[Command]transition{
	CommandSubmitIntake: {
		from:    sources(StatusDraft),
		to:      StatusOpen,
		mutates: true,
	},
	CommandUpdateDiagnostic: {
		from: sources(StatusOpen, StatusInProgress, StatusRejected),
	},
	CommandMarkReadyForSubmission: {
		from:    sources(StatusOpen),
		to:      StatusInProgress,
		mutates: true,
	},
	CommandSubmitToEVM: {
		from:    sources(StatusOpen, StatusInProgress),
		to:      StatusPendingEVMApproval,
		mutates: true,
	},
	CommandApprove: {
		from:    sources(StatusPendingEVMApproval),
		to:      StatusEVMApproved,
		mutates: true,
	},
	CommandReject: {
		from:    sources(StatusPendingEVMApproval),
		to:      StatusRejected,
		mutates: true,
	},
	CommandResubmit: {
		from:    sources(StatusRejected),
		to:      StatusPendingEVMApproval,
		mutates: true,
	},
	CommandAssignTechnician: {
		from:    sources(StatusEVMApproved),
		to:      StatusRepairInProgress,
		mutates: true,
	},
	CommandCompleteRepair: {
		from:    sources(StatusRepairInProgress),
		to:      StatusHandoverPending,
		mutates: true,
	},
	CommandPerformInspection: {
		// Target depends on the inspection outcome: pass moves to
		// READY_FOR_HANDOVER, fail returns to REPAIR_IN_PROGRESS.
		from: sources(StatusHandoverPending),
	},
	CommandHandoverVehicle: {
		from:    sources(StatusReadyForHandover),
		to:      StatusCompleted,
		mutates: true,
	},
	// Closing requires the confirmed handover recorded by handoverVehicle.
	CommandCloseClaim: {
		from:    sources(StatusCompleted),
		to:      StatusClosed,
		mutates: true,
	},
	CommandUpdatePaymentStatus: {
		from: sources(StatusHandoverPending, StatusReadyForHandover, StatusCompleted, StatusClosed),
	},
	CommandMarkWorkDone: {
		from: sources(StatusRepairInProgress),
	},
}

// CanApply reports whether the command's allowed source set contains the
// given status. Commands not present in the table are never applicable to an
// existing claim (createDraft creates one, cancel commands have their own
// sub-flow table).
func CanApply(cmd Command, from ClaimStatus) bool {
	t, ok := transitions[cmd]
	if !ok {
		return false
	}
	return t.from[from]
}

// Target returns the status the command produces, when the command has a
// fixed target. ok is false for commands that do not change the status or
// whose target is payload-dependent.
func Target(cmd Command) (ClaimStatus, bool) {
	t, ok := transitions[cmd]
	if !ok || !t.mutates {
		return "", false
	}
	return t.to, true
}

// AllowedSources returns the statuses a command may be applied from,
// for error details.
func AllowedSources(cmd Command) []ClaimStatus {
	t, ok := transitions[cmd]
	if !ok {
		return nil
	}
	out := make([]ClaimStatus, 0, len(t.from))
	for _, s := range AllStatuses {
		if t.from[s] {
			out = append(out, s)
		}
	}
	return out
}
