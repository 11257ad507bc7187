// Package mail implements the outbound mail dispatcher over SMTP with
// mandatory STARTTLS.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPDispatcher sends messages through a single SMTP account.
type SMTPDispatcher struct {
	client *gomail.Client
	cfg    Config
}

// NewSMTPDispatcher builds a STARTTLS SMTP client. No connection is opened
// until the first send.
func NewSMTPDispatcher(cfg Config) (*SMTPDispatcher, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPDispatcher{client: client, cfg: cfg}, nil
}

// Send delivers one message with a plain-text body and an HTML alternative.
func (d *SMTPDispatcher) Send(ctx context.Context, msg ports.MailMessage) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(d.cfg.FromName, d.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	}

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
