// Package notification provides event handlers for sending notifications
// (emails, in-app, SSE) in response to domain events.
// This module subscribes to events and inverts the dependency: domain modules
// no longer need to know about email providers or templates.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"evwarranty_backend/internal/email"
	"evwarranty_backend/internal/events"
	apphttp "evwarranty_backend/internal/http"
	notifhandler "evwarranty_backend/internal/notification/handler"
	"evwarranty_backend/internal/notification/inapp"
	notificationoutbox "evwarranty_backend/internal/notification/outbox"
	"evwarranty_backend/internal/notification/sse"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/httpkit"
	"evwarranty_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	maxOutboxRetryAttempts = 5
	outboxRetryBaseDelay   = time.Minute
	outboxRetryMaxDelay    = 60 * time.Minute

	pickupReminderDelay = 48 * time.Hour

	invalidOutboxPayloadPrefix = "invalid payload: "

	resourceTypeClaim     = "claim"
	resourceTypeWorkOrder = "work_order"

	qrCodeSize = 256

	outboxKindEmail        = "email"
	templateEmailSend      = "email_send"
	templatePickupReminder = "pickup_reminder"
)

// ClaimSnapshot is the slice of claim state notifications need: who to
// contact, who owns the claim internally, and where the claim stands.
type ClaimSnapshot struct {
	ID            uuid.UUID
	ClaimNumber   string
	Status        string
	CustomerName  string
	CustomerEmail string
	TrackingToken string
	OwnerID       uuid.UUID
}

// ClaimReader resolves claim state for events that do not carry customer
// contact details themselves.
type ClaimReader interface {
	Snapshot(ctx context.Context, claimID uuid.UUID) (ClaimSnapshot, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	pool               *pgxpool.Pool
	sender             email.Sender
	cfg                config.NotificationConfig
	log                *logger.Logger
	sse                *sse.Service
	claimReader        ClaimReader
	notificationOutbox *notificationoutbox.Repository
	inAppService       *inapp.Service
	inAppHandler       *notifhandler.HTTPHandler
}

// New creates a new notification module.
func New(pool *pgxpool.Pool, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)

	return &Module{
		pool:         pool,
		sender:       sender,
		cfg:          cfg,
		log:          log,
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
	}
}

func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	if m.inAppHandler == nil {
		return
	}

	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)

	if m.sse != nil {
		notifications.GET("/stream", m.sse.Handler(func(c *gin.Context) (uuid.UUID, bool) {
			identity := httpkit.MustGetIdentity(c)
			if identity == nil {
				return uuid.Nil, false
			}
			return identity.UserID(), true
		}))
	}
}

// SetSSE injects the SSE service so claim events can be pushed to staff.
func (m *Module) SetSSE(s *sse.Service) {
	m.sse = s
	if m.inAppService != nil {
		m.inAppService.SetSSE(s)
	}
}

// SetClaimReader injects the claim lookup used by handlers whose events do
// not carry customer contact details.
func (m *Module) SetClaimReader(reader ClaimReader) { m.claimReader = reader }

// SetNotificationOutbox enables durable, scheduled notifications.
func (m *Module) SetNotificationOutbox(repo *notificationoutbox.Repository) {
	m.notificationOutbox = repo
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ClaimStatusChanged{}.EventName(), m)
	bus.Subscribe(events.ClaimSubmittedToEVM{}.EventName(), m)
	bus.Subscribe(events.ClaimApproved{}.EventName(), m)
	bus.Subscribe(events.ClaimRejected{}.EventName(), m)
	bus.Subscribe(events.TechnicianAssigned{}.EventName(), m)
	bus.Subscribe(events.ClaimReadyForHandover{}.EventName(), m)
	bus.Subscribe(events.ClaimHandedOver{}.EventName(), m)
	bus.Subscribe(events.ClaimClosed{}.EventName(), m)

	bus.Subscribe(events.CancelRequested{}.EventName(), m)
	bus.Subscribe(events.CancelResolved{}.EventName(), m)

	bus.Subscribe(events.WorkOrderCompleted{}.EventName(), m)

	bus.Subscribe(events.NotificationOutboxDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ClaimStatusChanged:
		return m.handleClaimStatusChanged(ctx, e)
	case events.ClaimSubmittedToEVM:
		return m.handleClaimSubmittedToEVM(ctx, e)
	case events.ClaimApproved:
		return m.handleClaimApproved(ctx, e)
	case events.ClaimRejected:
		return m.handleClaimRejected(ctx, e)
	case events.TechnicianAssigned:
		return m.handleTechnicianAssigned(ctx, e)
	case events.ClaimReadyForHandover:
		return m.handleClaimReadyForHandover(ctx, e)
	case events.ClaimHandedOver:
		return m.handleClaimHandedOver(ctx, e)
	case events.ClaimClosed:
		return m.handleClaimClosed(ctx, e)
	case events.CancelRequested:
		return m.handleCancelRequested(ctx, e)
	case events.CancelResolved:
		return m.handleCancelResolved(ctx, e)
	case events.WorkOrderCompleted:
		return m.handleWorkOrderCompleted(ctx, e)
	case events.NotificationOutboxDue:
		return m.handleNotificationOutboxDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// =============================================================================
// Claim Lifecycle Handlers
// =============================================================================

func (m *Module) handleClaimStatusChanged(ctx context.Context, e events.ClaimStatusChanged) error {
	snap, err := m.snapshot(ctx, e.ClaimID)
	if err != nil {
		m.log.Warn("claim lookup failed for status change push", "claimId", e.ClaimID, "error", err)
		return nil
	}

	if m.sse != nil && snap.OwnerID != uuid.Nil {
		m.sse.PublishClaimEvent(snap.OwnerID, sse.EventClaimStatusChanged, e.ClaimID,
			fmt.Sprintf("Claim %s moved to %s", e.ClaimNumber, e.ToStatus))
	}
	return nil
}

func (m *Module) handleClaimSubmittedToEVM(ctx context.Context, e events.ClaimSubmittedToEVM) error {
	title := "Claim submitted for review"
	content := fmt.Sprintf("Claim %s was submitted to the manufacturer for approval.", e.ClaimNumber)
	if e.Resubmission {
		title = "Claim resubmitted for review"
		content = fmt.Sprintf("Claim %s was resubmitted to the manufacturer (attempt %d).", e.ClaimNumber, e.ResubmitCount+1)
	}

	m.notifyClaimOwner(ctx, e.ClaimID, title, content, "info")
	return nil
}

func (m *Module) handleClaimApproved(ctx context.Context, e events.ClaimApproved) error {
	if err := m.sender.SendClaimApprovedEmail(ctx, e.CustomerEmail, e.CustomerName, e.ClaimNumber); err != nil {
		m.log.Error("failed to send claim approved email",
			"claimId", e.ClaimID,
			"email", e.CustomerEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("claim approved email sent", "claimId", e.ClaimID, "email", e.CustomerEmail)

	m.notifyClaimOwner(ctx, e.ClaimID, "Claim approved",
		fmt.Sprintf("Claim %s was approved by the manufacturer. Repair can be scheduled.", e.ClaimNumber), "success")
	m.pushClaimSSE(ctx, e.ClaimID, sse.EventClaimApproved, fmt.Sprintf("Claim %s approved", e.ClaimNumber))
	return nil
}

func (m *Module) handleClaimRejected(ctx context.Context, e events.ClaimRejected) error {
	if err := m.sender.SendClaimRejectedEmail(ctx, e.CustomerEmail, e.CustomerName, e.ClaimNumber, e.Reason, e.CanResubmit); err != nil {
		m.log.Error("failed to send claim rejected email",
			"claimId", e.ClaimID,
			"email", e.CustomerEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("claim rejected email sent", "claimId", e.ClaimID, "email", e.CustomerEmail)

	content := fmt.Sprintf("Claim %s was rejected: %s", e.ClaimNumber, e.Reason)
	category := "error"
	if e.CanResubmit {
		content += " The claim can be corrected and resubmitted."
		category = "warning"
	}
	m.notifyClaimOwner(ctx, e.ClaimID, "Claim rejected", content, category)
	m.pushClaimSSE(ctx, e.ClaimID, sse.EventClaimRejected, fmt.Sprintf("Claim %s rejected", e.ClaimNumber))
	return nil
}

func (m *Module) handleTechnicianAssigned(ctx context.Context, e events.TechnicianAssigned) error {
	m.notifyClaimOwner(ctx, e.ClaimID, "Technician assigned",
		fmt.Sprintf("%s was assigned to the repair for claim %s.", e.TechnicianName, e.ClaimNumber), "info")
	m.pushClaimSSE(ctx, e.ClaimID, sse.EventTechnicianAssigned,
		fmt.Sprintf("%s assigned to claim %s", e.TechnicianName, e.ClaimNumber))
	return nil
}

func (m *Module) handleClaimReadyForHandover(ctx context.Context, e events.ClaimReadyForHandover) error {
	trackingURL := m.buildTrackingURL(e.TrackingToken)

	var attachments []email.Attachment
	if png, err := qrcode.Encode(trackingURL, qrcode.Medium, qrCodeSize); err != nil {
		m.log.Warn("tracking QR code generation failed; sending without attachment", "claimId", e.ClaimID, "error", err)
	} else {
		attachments = append(attachments, email.Attachment{
			Content:  png,
			FileName: "claim-tracking.png",
			MIMEType: "image/png",
		})
	}

	if err := m.sender.SendReadyForHandoverEmail(ctx, e.CustomerEmail, e.CustomerName, e.ClaimNumber, trackingURL, attachments...); err != nil {
		m.log.Error("failed to send ready for handover email",
			"claimId", e.ClaimID,
			"email", e.CustomerEmail,
			"error", err,
		)
		return err
	}
	m.log.Info("ready for handover email sent", "claimId", e.ClaimID, "email", e.CustomerEmail)

	m.enqueuePickupReminder(ctx, e)

	m.notifyClaimOwner(ctx, e.ClaimID, "Vehicle ready for pickup",
		fmt.Sprintf("Claim %s passed final inspection. The customer has been notified.", e.ClaimNumber), "success")
	return nil
}

func (m *Module) handleClaimHandedOver(ctx context.Context, e events.ClaimHandedOver) error {
	m.notifyClaimOwner(ctx, e.ClaimID, "Vehicle handed over",
		fmt.Sprintf("The vehicle for claim %s was returned to %s.", e.ClaimNumber, e.CustomerName), "info")
	return nil
}

func (m *Module) handleClaimClosed(ctx context.Context, e events.ClaimClosed) error {
	snap, err := m.snapshot(ctx, e.ClaimID)
	if err != nil {
		m.log.Warn("claim lookup failed for closed email", "claimId", e.ClaimID, "error", err)
		return nil
	}

	if snap.CustomerEmail != "" {
		if err := m.sender.SendClaimClosedEmail(ctx, snap.CustomerEmail, snap.CustomerName, e.ClaimNumber); err != nil {
			m.log.Error("failed to send claim closed email",
				"claimId", e.ClaimID,
				"email", snap.CustomerEmail,
				"error", err,
			)
			return err
		}
		m.log.Info("claim closed email sent", "claimId", e.ClaimID, "email", snap.CustomerEmail)
	}

	m.notifyClaimOwner(ctx, e.ClaimID, "Claim closed",
		fmt.Sprintf("Claim %s has been closed.", e.ClaimNumber), "info")
	return nil
}

// =============================================================================
// Cancellation Handlers
// =============================================================================

func (m *Module) handleCancelRequested(ctx context.Context, e events.CancelRequested) error {
	m.notifyClaimOwner(ctx, e.ClaimID, "Cancellation requested",
		fmt.Sprintf("A cancellation was requested for claim %s (request %d).", e.ClaimNumber, e.RequestCount), "warning")
	m.pushClaimSSE(ctx, e.ClaimID, sse.EventCancelRequested,
		fmt.Sprintf("Cancellation requested for claim %s", e.ClaimNumber))
	return nil
}

func (m *Module) handleCancelResolved(ctx context.Context, e events.CancelResolved) error {
	snap, err := m.snapshot(ctx, e.ClaimID)
	if err != nil {
		m.log.Warn("claim lookup failed for cancel update email", "claimId", e.ClaimID, "error", err)
		return nil
	}

	if snap.CustomerEmail != "" {
		if err := m.sender.SendCancelUpdateEmail(ctx, snap.CustomerEmail, snap.CustomerName, e.ClaimNumber, e.Outcome); err != nil {
			m.log.Error("failed to send cancel update email",
				"claimId", e.ClaimID,
				"email", snap.CustomerEmail,
				"error", err,
			)
			return err
		}
		m.log.Info("cancel update email sent", "claimId", e.ClaimID, "outcome", e.Outcome)
	}

	m.notifyClaimOwner(ctx, e.ClaimID, "Cancellation resolved",
		fmt.Sprintf("The cancellation request for claim %s was resolved: %s.", e.ClaimNumber, e.Outcome), "info")
	m.pushClaimSSE(ctx, e.ClaimID, sse.EventCancelResolved,
		fmt.Sprintf("Cancellation for claim %s: %s", e.ClaimNumber, e.Outcome))
	return nil
}

// =============================================================================
// Work Order Handlers
// =============================================================================

func (m *Module) handleWorkOrderCompleted(ctx context.Context, e events.WorkOrderCompleted) error {
	snap, err := m.snapshot(ctx, e.ClaimID)
	if err != nil {
		m.log.Warn("claim lookup failed for work order notification", "claimId", e.ClaimID, "error", err)
		return nil
	}

	if m.inAppService != nil && snap.OwnerID != uuid.Nil {
		workOrderID := e.WorkOrderID
		resourceType := resourceTypeWorkOrder
		_ = m.inAppService.Send(ctx, inapp.SendParams{
			UserID:       snap.OwnerID,
			Title:        "Work order completed",
			Content:      fmt.Sprintf("A work order on claim %s was completed (%.1f labor hours).", snap.ClaimNumber, e.LaborHours),
			ResourceID:   &workOrderID,
			ResourceType: resourceType,
			Category:     "success",
		})
	}
	if m.sse != nil && snap.OwnerID != uuid.Nil {
		m.sse.PublishClaimEvent(snap.OwnerID, sse.EventWorkOrderCompleted, e.ClaimID,
			fmt.Sprintf("Work order completed on claim %s", snap.ClaimNumber))
	}
	return nil
}

// =============================================================================
// Outbox Processing
// =============================================================================

type emailSendOutboxPayload struct {
	ClaimID  *string `json:"claimId,omitempty"`
	ToEmail  string  `json:"toEmail"`
	Subject  string  `json:"subject"`
	BodyHTML string  `json:"bodyHtml"`
}

type pickupReminderOutboxPayload struct {
	ClaimID       string `json:"claimId"`
	ClaimNumber   string `json:"claimNumber"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	TrackingToken string `json:"trackingToken"`
}

func (m *Module) enqueuePickupReminder(ctx context.Context, e events.ClaimReadyForHandover) {
	if m.notificationOutbox == nil {
		return
	}

	id, err := m.notificationOutbox.Insert(ctx, notificationoutbox.InsertParams{
		Kind:     outboxKindEmail,
		Template: templatePickupReminder,
		Payload: pickupReminderOutboxPayload{
			ClaimID:       e.ClaimID.String(),
			ClaimNumber:   e.ClaimNumber,
			CustomerName:  e.CustomerName,
			CustomerEmail: e.CustomerEmail,
			TrackingToken: e.TrackingToken,
		},
		RunAt: time.Now().UTC().Add(pickupReminderDelay),
	})
	if err != nil {
		m.log.Error("failed to enqueue pickup reminder", "claimId", e.ClaimID, "error", err)
		return
	}
	m.log.Info("pickup reminder enqueued", "claimId", e.ClaimID, "outboxId", id)
}

func (m *Module) handleNotificationOutboxDue(ctx context.Context, e events.NotificationOutboxDue) error {
	if m.notificationOutbox == nil {
		m.log.Debug("notification outbox repository not configured; skipping outbox due event", "outboxId", e.OutboxID)
		return nil
	}

	rec, process, err := m.prepareOutboxRecord(ctx, e.OutboxID)
	if err != nil || !process {
		if err != nil {
			m.log.Error("failed to prepare outbox record", "outboxId", e.OutboxID, "error", err)
		}
		return err
	}

	if rec.Kind != outboxKindEmail {
		m.markOutboxUnsupported(ctx, rec)
		return nil
	}

	var processErr error
	switch rec.Template {
	case templateEmailSend:
		processErr = m.processGenericEmailOutbox(ctx, rec)
	case templatePickupReminder:
		processErr = m.processPickupReminderOutbox(ctx, rec)
	default:
		m.markOutboxUnsupported(ctx, rec)
		return nil
	}

	if processErr != nil {
		m.handleOutboxDeliveryError(ctx, rec, processErr)
		return processErr
	}
	m.log.Info("outbox record processed", "outboxId", rec.ID.String(), "kind", rec.Kind, "template", rec.Template)

	return nil
}

func (m *Module) processGenericEmailOutbox(ctx context.Context, rec notificationoutbox.Record) error {
	var payload emailSendOutboxPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, invalidOutboxPayloadPrefix+err.Error())
		return nil
	}
	if strings.TrimSpace(payload.ToEmail) == "" {
		m.log.Debug("outbox email payload has no recipient; marking succeeded", "outboxId", rec.ID.String())
		_ = m.notificationOutbox.MarkSucceeded(ctx, rec.ID)
		return nil
	}

	if err := m.sender.SendCustomEmail(ctx, payload.ToEmail, payload.Subject, payload.BodyHTML); err != nil {
		return err
	}
	return m.notificationOutbox.MarkSucceeded(ctx, rec.ID)
}

func (m *Module) processPickupReminderOutbox(ctx context.Context, rec notificationoutbox.Record) error {
	var payload pickupReminderOutboxPayload
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, invalidOutboxPayloadPrefix+err.Error())
		return nil
	}

	claimID, err := uuid.Parse(payload.ClaimID)
	if err != nil {
		_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, invalidOutboxPayloadPrefix+err.Error())
		return nil
	}

	// The reminder only applies while the vehicle is still waiting. If the
	// handover already happened, or the claim moved on for any other reason,
	// the record is done.
	stillWaiting, err := m.claimAwaitingPickup(ctx, claimID)
	if err != nil {
		return err
	}
	if !stillWaiting {
		m.log.Info("claim no longer awaiting pickup; skipping reminder", "outboxId", rec.ID.String(), "claimId", claimID)
		return m.notificationOutbox.MarkSucceeded(ctx, rec.ID)
	}

	subject := fmt.Sprintf("Reminder: your vehicle is ready for pickup (claim %s)", payload.ClaimNumber)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your vehicle is still waiting for pickup at the service center. "+
			"You can follow claim %s here: <a href=%q>%s</a></p>",
		payload.CustomerName, payload.ClaimNumber,
		m.buildTrackingURL(payload.TrackingToken), m.buildTrackingURL(payload.TrackingToken),
	)

	if err := m.sender.SendCustomEmail(ctx, payload.CustomerEmail, subject, body); err != nil {
		return err
	}
	return m.notificationOutbox.MarkSucceeded(ctx, rec.ID)
}

// claimAwaitingPickup reports whether the claim still sits in the
// ready-for-handover state. Unknown when no claim reader is configured; the
// reminder is sent in that case rather than silently dropped.
func (m *Module) claimAwaitingPickup(ctx context.Context, claimID uuid.UUID) (bool, error) {
	if m.claimReader == nil {
		return true, nil
	}
	snap, err := m.claimReader.Snapshot(ctx, claimID)
	if err != nil {
		return false, err
	}
	return snap.Status == "READY_FOR_HANDOVER", nil
}

func (m *Module) prepareOutboxRecord(ctx context.Context, outboxID uuid.UUID) (notificationoutbox.Record, bool, error) {
	rec, err := m.notificationOutbox.GetByID(ctx, outboxID)
	if err != nil {
		return notificationoutbox.Record{}, false, err
	}
	if rec.Status == notificationoutbox.StatusSucceeded {
		m.log.Debug("outbox record already succeeded; skipping", "outboxId", rec.ID.String())
		return rec, false, nil
	}
	if err := m.notificationOutbox.MarkProcessing(ctx, rec.ID); err != nil {
		return notificationoutbox.Record{}, false, err
	}
	return rec, true, nil
}

func (m *Module) markOutboxUnsupported(ctx context.Context, rec notificationoutbox.Record) {
	_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, fmt.Sprintf("unsupported kind/template: %s/%s", rec.Kind, rec.Template))
	m.log.Warn("outbox record has unsupported kind/template", "outboxId", rec.ID.String(), "kind", rec.Kind, "template", rec.Template)
}

func (m *Module) handleOutboxDeliveryError(ctx context.Context, rec notificationoutbox.Record, deliveryErr error) {
	attempt := rec.Attempts + 1
	if attempt >= maxOutboxRetryAttempts {
		_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, deliveryErr.Error())
		m.log.Warn("notification outbox exhausted retries",
			"outboxId", rec.ID.String(),
			"template", rec.Template,
			"attempt", attempt,
			"maxAttempts", maxOutboxRetryAttempts,
			"error", deliveryErr,
		)
		return
	}

	retryAt := time.Now().UTC().Add(computeOutboxRetryDelay(attempt))
	if err := m.notificationOutbox.ScheduleRetry(ctx, rec.ID, retryAt, deliveryErr.Error()); err != nil {
		_ = m.notificationOutbox.MarkFailed(ctx, rec.ID, deliveryErr.Error())
		m.log.Error("notification outbox retry scheduling failed; marked failed",
			"outboxId", rec.ID.String(),
			"attempt", attempt,
			"error", err,
		)
		return
	}

	m.log.Warn("notification outbox scheduled retry",
		"outboxId", rec.ID.String(),
		"template", rec.Template,
		"attempt", attempt,
		"retryAt", retryAt,
		"error", deliveryErr,
	)
}

func computeOutboxRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := outboxRetryBaseDelay << (attempt - 1)
	if delay > outboxRetryMaxDelay {
		return outboxRetryMaxDelay
	}
	return delay
}

// =============================================================================
// Helpers
// =============================================================================

func (m *Module) snapshot(ctx context.Context, claimID uuid.UUID) (ClaimSnapshot, error) {
	if m.claimReader == nil {
		return ClaimSnapshot{}, fmt.Errorf("claim reader not configured")
	}
	return m.claimReader.Snapshot(ctx, claimID)
}

// notifyClaimOwner persists an in-app notification for the staff member that
// created the claim. Delivery is best effort.
func (m *Module) notifyClaimOwner(ctx context.Context, claimID uuid.UUID, title, content, category string) {
	if m.inAppService == nil {
		return
	}
	snap, err := m.snapshot(ctx, claimID)
	if err != nil {
		m.log.Warn("claim lookup failed for in-app notification", "claimId", claimID, "error", err)
		return
	}
	if snap.OwnerID == uuid.Nil {
		return
	}

	resourceID := claimID
	_ = m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       snap.OwnerID,
		Title:        title,
		Content:      content,
		ResourceID:   &resourceID,
		ResourceType: resourceTypeClaim,
		Category:     category,
	})
}

func (m *Module) pushClaimSSE(ctx context.Context, claimID uuid.UUID, eventType sse.EventType, message string) {
	if m.sse == nil {
		return
	}
	snap, err := m.snapshot(ctx, claimID)
	if err != nil || snap.OwnerID == uuid.Nil {
		return
	}
	m.sse.PublishClaimEvent(snap.OwnerID, eventType, claimID, message)
}

// buildTrackingURL points customers at the public, unauthenticated claim
// tracking page.
func (m *Module) buildTrackingURL(token string) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	return fmt.Sprintf("%s/claims/track/%s", base, token)
}
