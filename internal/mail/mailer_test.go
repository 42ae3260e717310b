package mail

import (
	"context"
	"strings"
	"testing"
)

func TestFormatMessage(t *testing.T) {
	t.Parallel()

	msg := FormatMessage("noreply@campus.edu", "alice@campus.edu", "Reservation approved", "Hello Alice,\n\nYour reservation has been approved.")

	lines := strings.Split(msg, "\r\n")
	if lines[0] != "From: noreply@campus.edu" {
		t.Fatalf("unexpected From header: %q", lines[0])
	}
	if lines[1] != "To: alice@campus.edu" {
		t.Fatalf("unexpected To header: %q", lines[1])
	}
	if lines[2] != "Subject: Reservation approved" {
		t.Fatalf("unexpected Subject header: %q", lines[2])
	}

	if !strings.Contains(msg, "\r\n\r\nHello Alice,") {
		t.Fatalf("expected blank line before body, got %q", msg)
	}
	if strings.Contains(strings.ReplaceAll(msg, "\r\n", ""), "\n") {
		t.Fatalf("expected all line endings to be CRLF, got %q", msg)
	}
}

func TestConfig_Configured(t *testing.T) {
	t.Parallel()

	if (Config{}).Configured() {
		t.Fatalf("expected empty config to report unconfigured")
	}
	if (Config{Host: "smtp.campus.edu"}).Configured() {
		t.Fatalf("expected config without sender to report unconfigured")
	}
	if !(Config{Host: "smtp.campus.edu", From: "noreply@campus.edu"}).Configured() {
		t.Fatalf("expected host and sender to be sufficient")
	}
}

func TestSMTPMailer_RefusesWhenUnconfigured(t *testing.T) {
	t.Parallel()

	mailer := NewSMTPMailer(Config{})
	if err := mailer.Send(context.Background(), "alice@campus.edu", "subject", "body"); err == nil {
		t.Fatalf("expected error from unconfigured mailer")
	}
}

func TestNewSMTPMailer_DefaultsPort(t *testing.T) {
	t.Parallel()

	mailer := NewSMTPMailer(Config{Host: "smtp.campus.edu", From: "noreply@campus.edu"})
	if mailer.config.Port != 465 {
		t.Fatalf("expected default submission port 465, got %d", mailer.config.Port)
	}
}

func TestNopMailer_Send(t *testing.T) {
	t.Parallel()

	if err := (NopMailer{}).Send(context.Background(), "anyone@campus.edu", "subject", "body"); err != nil {
		t.Fatalf("expected nop mailer to always succeed, got %v", err)
	}
}
