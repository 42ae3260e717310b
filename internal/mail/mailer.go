// Package mail delivers fire-and-forget notification email over an
// authenticated implicit-TLS SMTP submission channel. Delivery failures are
// reported to the caller once and never retried.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Config carries the SMTP submission settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough settings are present to attempt
// delivery.
func (c Config) Configured() bool {
	return c.Host != "" && c.From != ""
}

// SMTPMailer sends messages over SMTPS.
type SMTPMailer struct {
	config Config
}

// NewSMTPMailer constructs a mailer for the given submission settings.
func NewSMTPMailer(config Config) *SMTPMailer {
	if config.Port == 0 {
		config.Port = 465
	}
	return &SMTPMailer{config: config}
}

// Send delivers one message. The connection is opened, authenticated, used,
// and closed per call; there is no pooling and no retry.
func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body string) error {
	if m == nil || !m.config.Configured() {
		return fmt.Errorf("mailer not configured")
	}

	addr := net.JoinHostPort(m.config.Host, fmt.Sprintf("%d", m.config.Port))

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.config.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to mail server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open smtp session: %w", err)
	}
	defer client.Close()

	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp authentication failed: %w", err)
		}
	}

	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("sender rejected: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("recipient rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message body: %w", err)
	}
	if _, err := w.Write([]byte(FormatMessage(m.config.From, recipient, subject, body))); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message body: %w", err)
	}

	return client.Quit()
}

// FormatMessage renders the RFC 5322 wire form of a plain-text message.
func FormatMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}

// NopMailer satisfies the notifier contract without delivering anything.
// Used when SMTP settings are absent and throughout the tests.
type NopMailer struct{}

// Send discards the message.
func (NopMailer) Send(context.Context, string, string, string) error {
	return nil
}
