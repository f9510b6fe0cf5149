package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v3"
)

// Config holds Resend configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// APIKey is the Resend API key. When empty the sender degrades to a
	// log-only mode, consistent with the credential handling elsewhere.
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL" envDefault:"no-reply@perkloop.app"`
	SenderName  string `env:"RESEND_FROM_NAME" envDefault:"Perkloop"`
}

// ResendSender implements Sender using the Resend API.
type ResendSender struct {
	client *resend.Client
	log    *slog.Logger
	cfg    Config
}

// NewResend creates a Resend-backed sender.
func NewResend(cfg Config, log *slog.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(cfg.APIKey),
		log:    log,
		cfg:    cfg,
	}
}

// Send delivers the email via Resend. Without an API key the message is
// logged and dropped so local development does not require credentials.
func (s *ResendSender) Send(ctx context.Context, email Email) error {
	if s.cfg.APIKey == "" {
		s.log.InfoContext(ctx, "mailer not configured, dropping email",
			"to", email.To, "subject", email.Subject)
		return nil
	}

	from := s.cfg.SenderEmail
	if s.cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.SenderName, s.cfg.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("mailer: failed to send email: %w", err)
	}
	return nil
}

var _ Sender = (*ResendSender)(nil)
