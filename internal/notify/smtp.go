// internal/notify/smtp.go
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// sendMailFunc matches net/smtp.SendMail; tests substitute their own.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails the batch report. Cues are not mailed; they are
// immediate signals and the log sink already carries them.
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	send   sendMailFunc
	logger *zap.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		send:   smtp.SendMail,
		logger: logger.Named("smtp"),
	}
}

func (n *SMTPNotifier) Cue(ctx context.Context, c schemas.Cue) {}

func (n *SMTPNotifier) Deliver(ctx context.Context, r schemas.Report) error {
	if len(n.cfg.To) == 0 {
		return fmt.Errorf("smtp notifier has no recipients")
	}

	subject := fmt.Sprintf("Storefront sync %s: %d/%d records", statusWord(r), r.Processed, r.Total)
	msg := buildMessage(n.cfg.From, n.cfg.To, subject, FormatReport(r))

	var auth smtp.Auth
	if pw := os.Getenv(n.cfg.PasswordEnv); pw != "" {
		auth = smtp.PlainAuth("", n.cfg.From, pw, n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, n.cfg.To, msg); err != nil {
		return fmt.Errorf("failed to send report mail: %w", err)
	}

	n.logger.Info("Report mailed.",
		zap.String("run_id", r.RunID),
		zap.Strings("to", n.cfg.To))
	return nil
}

func statusWord(r schemas.Report) string {
	if r.Success {
		return "succeeded"
	}
	return "FAILED"
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
