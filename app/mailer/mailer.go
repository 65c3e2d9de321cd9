package mailer

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/draftnag/draft-nag/app/cfg"
)

// Mailer delivers reminder emails over SMTP. With no SMTP host configured,
// or with dry-run enabled, deliveries are logged and dropped.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	dryRun   bool
}

func NewMailer() *Mailer {
	config := cfg.Get()

	m := &Mailer{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		username: config.SMTPUsername,
		password: config.SMTPPassword,
		from:     config.SMTPFrom,
		dryRun:   config.SMTPDryRun,
	}

	if m.host == "" {
		m.dryRun = true
	}
	if m.dryRun {
		slog.Warn("SMTP delivery disabled, emails will be logged only")
	}

	return m
}

// Send delivers one message. In dry-run mode the message is logged and
// reported as sent.
func (m *Mailer) Send(to, subject, body string) error {
	if m.dryRun {
		slog.Info("Email suppressed (dry run)", "to", to, "subject", subject, "bytes", len(body))
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.SetMessageIDWithValue(uuid.NewString())
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	slog.Debug("Email sent", "to", to, "subject", subject)

	return nil
}
