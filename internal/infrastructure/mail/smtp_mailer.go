// Package mail delivers report emails over SMTP.
package mail

import (
	"context"
	"errors"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/pkg/config"
)

var _ report.Mailer = (*SMTPMailer)(nil)

// Sender abstracts the SMTP dial so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implements report.Mailer with gomail.
type SMTPMailer struct {
	from   string
	sender Sender
}

// NewSMTPMailer returns nil when mail is not configured, which the report
// use case treats as "delivery disabled".
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPMailer{
		from:   cfg.From,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// NewWithSender wires a custom sender.
func NewWithSender(from string, s Sender) *SMTPMailer {
	return &SMTPMailer{from: from, sender: s}
}

// Send builds a multipart message and delivers it. The dial is not
// cancellable; ctx is only checked before connecting.
func (m *SMTPMailer) Send(ctx context.Context, msg report.Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.sender.DialAndSend(buildMessage(m.from, msg))
}

func buildMessage(from string, msg report.Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		gm.Attach(a.Filename, settings...)
	}
	return gm
}
