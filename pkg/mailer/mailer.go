package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP connection details.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	SenderName string
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

// New creates an SMTPMailer. From defaults to Username.
func New(cfg Config) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:       from,
		senderName: cfg.SenderName,
	}
}

// Send delivers one message. A new SMTP connection is opened per message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.message(to, subject, body)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	if m.senderName != "" {
		msg.SetAddressHeader("From", m.from, m.senderName)
	} else {
		msg.SetHeader("From", m.from)
	}
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
