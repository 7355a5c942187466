package notification

import (
	"context"
	"testing"
	"time"

	"evwarranty_backend/internal/email"
	"evwarranty_backend/internal/events"
	"evwarranty_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://portal.example.com/" }

type testSender struct {
	approvedCalls    int
	rejectedCalls    int
	handoverCalls    int
	closedCalls      int
	cancelCalls      int
	customCalls      int
	lastTrackingURL  string
	lastAttachments  []email.Attachment
	lastCanResubmit  bool
	lastCustomBody   string
	lastCustomEmail  string
	lastCancelResult string
}

func (s *testSender) SendClaimApprovedEmail(context.Context, string, string, string) error {
	s.approvedCalls++
	return nil
}

func (s *testSender) SendClaimRejectedEmail(_ context.Context, _, _, _, _ string, canResubmit bool) error {
	s.rejectedCalls++
	s.lastCanResubmit = canResubmit
	return nil
}

func (s *testSender) SendReadyForHandoverEmail(_ context.Context, _, _, _, trackingURL string, attachments ...email.Attachment) error {
	s.handoverCalls++
	s.lastTrackingURL = trackingURL
	s.lastAttachments = attachments
	return nil
}

func (s *testSender) SendClaimClosedEmail(context.Context, string, string, string) error {
	s.closedCalls++
	return nil
}

func (s *testSender) SendCancelUpdateEmail(_ context.Context, _, _, _, outcome string) error {
	s.cancelCalls++
	s.lastCancelResult = outcome
	return nil
}

func (s *testSender) SendCustomEmail(_ context.Context, toEmail, _, body string) error {
	s.customCalls++
	s.lastCustomEmail = toEmail
	s.lastCustomBody = body
	return nil
}

type testClaimReader struct {
	snapshot ClaimSnapshot
	err      error
}

func (r testClaimReader) Snapshot(context.Context, uuid.UUID) (ClaimSnapshot, error) {
	return r.snapshot, r.err
}

func newTestModule(sender email.Sender) *Module {
	return New(nil, sender, testNotificationConfig{}, logger.New("development"))
}

func TestHandleClaimApprovedSendsEmail(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.ClaimApproved{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       uuid.New(),
		ClaimNumber:   "CLM-2026-000101",
		CustomerName:  "Eva de Vries",
		CustomerEmail: "eva@example.com",
		ApprovedBy:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.approvedCalls != 1 {
		t.Fatalf("approved email calls = %d, want 1", sender.approvedCalls)
	}
}

func TestHandleClaimRejectedPassesResubmitFlag(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.ClaimRejected{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       uuid.New(),
		ClaimNumber:   "CLM-2026-000102",
		CustomerName:  "Eva de Vries",
		CustomerEmail: "eva@example.com",
		Reason:        "battery degradation within tolerance",
		CanResubmit:   true,
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.rejectedCalls != 1 {
		t.Fatalf("rejected email calls = %d, want 1", sender.rejectedCalls)
	}
	if !sender.lastCanResubmit {
		t.Fatal("expected canResubmit to be forwarded to the sender")
	}
}

func TestHandleReadyForHandoverBuildsTrackingLink(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.ClaimReadyForHandover{
		BaseEvent:     events.NewBaseEvent(),
		ClaimID:       uuid.New(),
		ClaimNumber:   "CLM-2026-000103",
		CustomerName:  "Eva de Vries",
		CustomerEmail: "eva@example.com",
		TrackingToken: "tok-abc123",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.handoverCalls != 1 {
		t.Fatalf("handover email calls = %d, want 1", sender.handoverCalls)
	}

	want := "https://portal.example.com/claims/track/tok-abc123"
	if sender.lastTrackingURL != want {
		t.Fatalf("tracking URL = %q, want %q", sender.lastTrackingURL, want)
	}
	if len(sender.lastAttachments) != 1 {
		t.Fatalf("attachments = %d, want 1 QR code", len(sender.lastAttachments))
	}
	if sender.lastAttachments[0].MIMEType != "image/png" {
		t.Fatalf("attachment MIME type = %q, want image/png", sender.lastAttachments[0].MIMEType)
	}
	if len(sender.lastAttachments[0].Content) == 0 {
		t.Fatal("QR code attachment is empty")
	}
}

func TestHandleClaimClosedUsesClaimReader(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)
	m.SetClaimReader(testClaimReader{snapshot: ClaimSnapshot{
		ClaimNumber:   "CLM-2026-000104",
		Status:        "COMPLETED",
		CustomerName:  "Eva de Vries",
		CustomerEmail: "eva@example.com",
	}})

	err := m.Handle(context.Background(), events.ClaimClosed{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     uuid.New(),
		ClaimNumber: "CLM-2026-000104",
		ClosedBy:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.closedCalls != 1 {
		t.Fatalf("closed email calls = %d, want 1", sender.closedCalls)
	}
}

func TestHandleClaimClosedWithoutClaimReaderSkipsEmail(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)

	err := m.Handle(context.Background(), events.ClaimClosed{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     uuid.New(),
		ClaimNumber: "CLM-2026-000105",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.closedCalls != 0 {
		t.Fatalf("closed email calls = %d, want 0 without claim lookup", sender.closedCalls)
	}
}

func TestHandleCancelResolvedSendsOutcome(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(sender)
	m.SetClaimReader(testClaimReader{snapshot: ClaimSnapshot{
		ClaimNumber:   "CLM-2026-000106",
		Status:        "CLOSED",
		CustomerName:  "Eva de Vries",
		CustomerEmail: "eva@example.com",
	}})

	err := m.Handle(context.Background(), events.CancelResolved{
		BaseEvent:   events.NewBaseEvent(),
		ClaimID:     uuid.New(),
		ClaimNumber: "CLM-2026-000106",
		Outcome:     "CLOSED",
		ResolvedBy:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.cancelCalls != 1 {
		t.Fatalf("cancel update email calls = %d, want 1", sender.cancelCalls)
	}
	if sender.lastCancelResult != "CLOSED" {
		t.Fatalf("cancel outcome = %q, want CLOSED", sender.lastCancelResult)
	}
}

func TestComputeOutboxRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Minute},
		{attempt: 1, want: time.Minute},
		{attempt: 2, want: 2 * time.Minute},
		{attempt: 3, want: 4 * time.Minute},
		{attempt: 5, want: 16 * time.Minute},
		{attempt: 10, want: 60 * time.Minute},
	}

	for _, tt := range tests {
		if got := computeOutboxRetryDelay(tt.attempt); got != tt.want {
			t.Errorf("computeOutboxRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBuildTrackingURLTrimsTrailingSlash(t *testing.T) {
	m := newTestModule(&testSender{})

	got := m.buildTrackingURL("tok-xyz")
	want := "https://portal.example.com/claims/track/tok-xyz"
	if got != want {
		t.Fatalf("buildTrackingURL = %q, want %q", got, want)
	}
}
