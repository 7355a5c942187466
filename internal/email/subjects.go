package email

const (
	subjectClaimApprovedFmt    = "Warranty claim %s approved"
	subjectClaimRejectedFmt    = "Update on warranty claim %s"
	subjectReadyForHandoverFmt = "Your vehicle is ready for pickup: claim %s"
	subjectClaimClosedFmt      = "Warranty claim %s closed"
	subjectCancelUpdateFmt     = "Cancellation update for claim %s"
)
