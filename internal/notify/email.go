package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"medicab/internal/domain"
	"medicab/internal/infra"
)

// EmailSender delivers one message to one address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends plain-text mail through a configured SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender returns nil when no SMTP host is configured, which disables
// the email channel.
func NewSMTPSender(cfg *infra.Config) *SMTPSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

// Send delivers one message. Transport failures map to
// domain.ErrDependencyUnavailable so the dispatcher retries them.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: smtp send: %v", domain.ErrDependencyUnavailable, err)
	}
	return nil
}

func subjectFor(category domain.NotificationCategory) string {
	switch category {
	case domain.NotifyExpiry:
		return "Medicine Expiry Alert"
	case domain.NotifyDonation:
		return "Donation Update"
	default:
		return "MediCab Notification"
	}
}
