// Package mail provides the best-effort SMTP transport used for deadline
// reminder emails. Delivery failures are logged and swallowed; reminders
// never fail a scheduler tick.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/smarttasker/api/internal/config"
	"github.com/smarttasker/api/internal/platform/logger"
)

// ReminderMailer sends deadline reminder emails.
type ReminderMailer interface {
	// SendTaskReminder emails the owner about a task nearing its deadline.
	// Implementations are best-effort: an error return is for logging only.
	SendTaskReminder(ctx context.Context, to, taskTitle string, deadline time.Time) error
}

// sendMailFunc matches smtp.SendMail, injectable for testing.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer implements ReminderMailer over SMTP with PLAIN auth.
// When the configuration is incomplete the mailer is disabled and sends
// become logged no-ops, mirroring a deployment without email credentials.
type SMTPMailer struct {
	cfg      config.SMTPConfig
	logger   *slog.Logger
	sendMail sendMailFunc
}

// NewSMTPMailer creates a mailer from the given SMTP configuration.
// If logger is nil, a default logger will be used.
func NewSMTPMailer(cfg config.SMTPConfig, log *slog.Logger) *SMTPMailer {
	if log == nil {
		log = slog.Default()
	}

	return &SMTPMailer{
		cfg:      cfg,
		logger:   log.With(slog.String("component", "mailer")),
		sendMail: smtp.SendMail,
	}
}

// Ensure SMTPMailer implements ReminderMailer
var _ ReminderMailer = (*SMTPMailer)(nil)

// SendTaskReminder implements ReminderMailer.
func (m *SMTPMailer) SendTaskReminder(ctx context.Context, to, taskTitle string, deadline time.Time) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if !m.cfg.Enabled() {
		log.Warn("email credentials not set, skipping reminder email")
		return nil
	}

	subject := fmt.Sprintf("Reminder: Task %q is due soon!", taskTitle)
	body := fmt.Sprintf(
		"Hello,\r\n\r\n"+
			"This is a reminder that your task %q is due soon.\r\n\r\n"+
			"Deadline: %s\r\n\r\n"+
			"Please log in to SmartTasker to manage your tasks.\r\n",
		taskTitle,
		deadline.Local().Format(time.RFC1123),
	)

	msg := buildMessage(m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.sendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		log.Error("failed to send reminder email",
			slog.String("error", err.Error()),
			slog.String("task_title", taskTitle))
		return fmt.Errorf("sending reminder email: %w", err)
	}

	log.Info("reminder email sent",
		slog.String("task_title", taskTitle))
	return nil
}

// buildMessage assembles a minimal RFC 5322 message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: SmartTasker <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
