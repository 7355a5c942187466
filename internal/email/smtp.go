package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendClaimApprovedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error {
	subject := fmt.Sprintf(subjectClaimApprovedFmt, claimNumber)
	content, err := renderEmailTemplate("claim_approved.html", claimApprovedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Claim approved",
			Heading: "Your warranty claim was approved",
		},
		CustomerName: customerName,
		ClaimNumber:  claimNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendClaimRejectedEmail(ctx context.Context, toEmail, customerName, claimNumber, reason string, canResubmit bool) error {
	subject := fmt.Sprintf(subjectClaimRejectedFmt, claimNumber)
	content, err := renderEmailTemplate("claim_rejected.html", claimRejectedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Claim update",
			Heading: "Your warranty claim was not approved",
		},
		CustomerName: customerName,
		ClaimNumber:  claimNumber,
		Reason:       reason,
		CanResubmit:  canResubmit,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendReadyForHandoverEmail(ctx context.Context, toEmail, customerName, claimNumber, trackingURL string, attachments ...Attachment) error {
	subject := fmt.Sprintf(subjectReadyForHandoverFmt, claimNumber)
	content, err := renderEmailTemplate("ready_for_handover.html", readyForHandoverEmailData{
		baseEmailData: baseEmailData{
			Title:    "Ready for pickup",
			Heading:  "Your vehicle is ready for pickup",
			CTALabel: "Track your claim",
			CTAURL:   trackingURL,
		},
		CustomerName:   customerName,
		ClaimNumber:    claimNumber,
		HasAttachments: len(attachments) > 0,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content, attachments...)
}

func (s *SMTPSender) SendClaimClosedEmail(ctx context.Context, toEmail, customerName, claimNumber string) error {
	subject := fmt.Sprintf(subjectClaimClosedFmt, claimNumber)
	content, err := renderEmailTemplate("claim_closed.html", claimClosedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Claim closed",
			Heading: "Your warranty claim is closed",
		},
		CustomerName: customerName,
		ClaimNumber:  claimNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCancelUpdateEmail(ctx context.Context, toEmail, customerName, claimNumber, outcome string) error {
	subject := fmt.Sprintf(subjectCancelUpdateFmt, claimNumber)
	content, err := renderEmailTemplate("cancel_update.html", cancelUpdateEmailData{
		baseEmailData: baseEmailData{
			Title:   "Cancellation update",
			Heading: "Update on your cancellation request",
		},
		CustomerName: customerName,
		ClaimNumber:  claimNumber,
		Outcome:      outcome,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
