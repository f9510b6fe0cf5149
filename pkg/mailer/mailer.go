// Package mailer sends transactional email through Resend.
package mailer

import "context"

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers an email. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, email Email) error
}
