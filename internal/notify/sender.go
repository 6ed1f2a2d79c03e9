package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/calebwray/enroll-api/internal/config"
)

// Sender defines the interface for delivering a single message to one
// recipient address.
type Sender interface {
	// Send delivers the message. Returns an error if delivery fails.
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender implements Sender over a plain SMTP connection.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates an SMTPSender from the mail configuration.
// PLAIN auth is used when a username is configured.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

// Send implements the Sender interface using net/smtp.
// The context deadline is not honored mid-connection; callers should run
// Send on the task runtime, not on a request goroutine.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", s.addr, err)
	}
	return nil
}

// LogSender is a Sender that only logs the message. It is the default in
// local development where no SMTP server is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
// If logger is nil, the default logger is used.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements the Sender interface by logging the message instead of
// delivering it.
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info("mail delivery skipped (mail disabled)",
		"to", to,
		"subject", subject,
		"body_len", len(body))
	return nil
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*LogSender)(nil)
)
