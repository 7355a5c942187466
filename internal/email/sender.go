// Package email delivers customer notifications for claim lifecycle events.
package email

import (
	"context"

	"evwarranty_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string
	MIMEType string
}

// Sender delivers the claim lifecycle emails.
type Sender interface {
	SendClaimApprovedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error
	SendClaimRejectedEmail(ctx context.Context, toEmail, customerName, claimNumber, reason string, canResubmit bool) error
	SendReadyForHandoverEmail(ctx context.Context, toEmail, customerName, claimNumber, trackingURL string, attachments ...Attachment) error
	SendClaimClosedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error
	SendCancelUpdateEmail(ctx context.Context, toEmail, customerName, claimNumber, outcome string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender satisfies Sender without delivering anything. Used when email
// is not configured.
type NoopSender struct{}

func (NoopSender) SendClaimApprovedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error {
	return nil
}

func (NoopSender) SendClaimRejectedEmail(ctx context.Context, toEmail, customerName, claimNumber, reason string, canResubmit bool) error {
	return nil
}

func (NoopSender) SendReadyForHandoverEmail(ctx context.Context, toEmail, customerName, claimNumber, trackingURL string, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendClaimClosedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error {
	return nil
}

func (NoopSender) SendCancelUpdateEmail(ctx context.Context, toEmail, customerName, claimNumber, outcome string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender builds the configured sender, falling back to NoopSender when
// email delivery is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
