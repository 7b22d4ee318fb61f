package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

type testUser struct {
	key   string
	email string
}

func (u *testUser) ResetLookupKey() string { return u.key }
func (u *testUser) Email() string          { return u.email }

// captureSender records messages instead of dialing SMTP.
type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, m...)
	return nil
}

func renderMessage(t *testing.T, msg *gomail.Message) string {
	t.Helper()

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	return buf.String()
}

func TestNewMailerRequiresFrom(t *testing.T) {
	if _, err := NewMailer(SMTPConfig{Host: "localhost", Port: 25}); err == nil {
		t.Fatal("expected error for missing From address")
	}
}

func TestSendPasswordReset(t *testing.T) {
	sender := &captureSender{}
	mailer := &Mailer{send: sender, from: "noreply@example.com", subject: defaultSubject}

	user := &testUser{key: "u1", email: "a@x.com"}
	resetURL := "https://app.example.com/password/reset?id=u1&signature=abc"

	if err := mailer.SendPasswordReset(context.Background(), user, resetURL); err != nil {
		t.Fatalf("SendPasswordReset failed: %v", err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.messages))
	}

	raw := renderMessage(t, sender.messages[0])
	if !strings.Contains(raw, "To: a@x.com") {
		t.Fatalf("message missing recipient:\n%s", raw)
	}
	if !strings.Contains(raw, "From: noreply@example.com") {
		t.Fatalf("message missing sender:\n%s", raw)
	}
	if !strings.Contains(raw, defaultSubject) {
		t.Fatalf("message missing subject:\n%s", raw)
	}
}

func TestComposeEmbedsLink(t *testing.T) {
	mailer := &Mailer{send: &captureSender{}, from: "noreply@example.com", subject: "Reset"}
	msg := mailer.compose("a@x.com", "https://app.example.com/password/reset?id=u1")

	raw := renderMessage(t, msg)
	// The body is quoted-printable encoded; the host survives intact.
	if !strings.Contains(raw, "app.example.com") {
		t.Fatalf("body missing link host:\n%s", raw)
	}
}

func TestSendPasswordResetHonorsContext(t *testing.T) {
	sender := &captureSender{}
	mailer := &Mailer{send: sender, from: "noreply@example.com", subject: "Reset"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.SendPasswordReset(ctx, &testUser{key: "u1", email: "a@x.com"}, "https://x")
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(sender.messages) != 0 {
		t.Fatal("no message must be sent after cancellation")
	}
}

func TestSendPasswordResetWrapsTransportError(t *testing.T) {
	sender := &captureSender{err: context.DeadlineExceeded}
	mailer := &Mailer{send: sender, from: "noreply@example.com", subject: "Reset"}

	err := mailer.SendPasswordReset(context.Background(), &testUser{key: "u1", email: "a@x.com"}, "https://x")
	if err == nil || !strings.Contains(err.Error(), "send password reset") {
		t.Fatalf("err = %v, want wrapped transport error", err)
	}
}

func TestNewMailerDefaultsSubject(t *testing.T) {
	mailer, err := NewMailer(SMTPConfig{Host: "localhost", Port: 25, From: "noreply@example.com"})
	if err != nil {
		t.Fatalf("NewMailer failed: %v", err)
	}
	if mailer.subject != defaultSubject {
		t.Fatalf("subject = %q, want default", mailer.subject)
	}
}
