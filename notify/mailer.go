package notify

import (
	"context"
	"errors"
	"fmt"
	"html"

	goReset "github.com/MrEthical07/goReset"
	"gopkg.in/gomail.v2"
)

const defaultSubject = "Password reset request"

// SMTPConfig holds mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address. Required.
	From string
	// Subject overrides the default message subject.
	Subject string
}

// sender abstracts gomail's DialAndSend so tests can capture messages.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers reset links over SMTP. It implements [goReset.Notifier].
type Mailer struct {
	send    sender
	from    string
	subject string
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	if cfg.From == "" {
		return nil, errors.New("notify: sender address required")
	}
	subject := cfg.Subject
	if subject == "" {
		subject = defaultSubject
	}
	return &Mailer{
		send:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		subject: subject,
	}, nil
}

// SendPasswordReset composes and sends the reset message. The context is
// checked before dialing; gomail itself has no cancellation support.
func (m *Mailer) SendPasswordReset(ctx context.Context, user goReset.UserIdentity, resetURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := m.compose(user.Email(), resetURL)
	if err := m.send.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: send password reset: %w", err)
	}
	return nil
}

func (m *Mailer) compose(to, resetURL string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", m.subject)

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p><a href=%q>Reset your password</a></p>
		<p>If the link does not work, copy this address into your browser: %s</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, resetURL, html.EscapeString(resetURL))
	msg.SetBody("text/html", body)

	return msg
}
