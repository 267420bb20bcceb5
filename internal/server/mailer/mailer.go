// Package mailer delivers magic-link sign-in emails.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ddanilov/daybook/internal/logging"
)

type Mailer interface {
	// SendLink mails the one-time sign-in link to the address.
	SendLink(ctx context.Context, email, link string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) SendLink(ctx context.Context, email, link string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + email,
		"Subject: Your Daybook sign-in link",
		"",
		"Open this link to sign in:",
		link,
		"",
		"The link expires shortly and can be used once.",
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes the link to the log instead of sending it. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) SendLink(ctx context.Context, email, link string) error {
	m.logger.Info(ctx, "magic link issued", "email", email, "link", link)
	return nil
}
