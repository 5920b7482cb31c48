// Package notify delivers the end-of-batch report and the start/success/
// error cues. The orchestrator sees a single Notifier; what sits behind it
// (log lines, mail, both) is assembled here from configuration.
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// New assembles the configured notifier chain. The log sink is always
// present; SMTP is added when enabled.
func New(cfg config.NotifyConfig, logger *zap.Logger) schemas.Notifier {
	notifiers := multiNotifier{NewLogNotifier(logger)}
	if cfg.SMTP.Enabled {
		notifiers = append(notifiers, NewSMTPNotifier(cfg.SMTP, logger))
	}
	return notifiers
}

// FormatReport renders the operator-facing report body. Records before the
// failure are marked done, the failing record is called out, and anything
// after it is explicitly listed as not attempted.
func FormatReport(r schemas.Report) string {
	var b strings.Builder

	status := "SUCCESS"
	if !r.Success {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "Storefront sync run %s: %s\n", r.RunID, status)
	fmt.Fprintf(&b, "Processed %d of %d records in %s.\n", r.Processed, r.Total, r.Duration.Round(0))

	if r.FailureDetail != "" {
		fmt.Fprintf(&b, "Failure: %s\n", r.FailureDetail)
	}

	if len(r.RecordNames) > 0 {
		b.WriteString("\nRecords:\n")
		for i, name := range r.RecordNames {
			switch {
			case i == r.FailedIndex:
				fmt.Fprintf(&b, "  [failed]        %s\n", name)
			case r.FailedIndex >= 0 && i > r.FailedIndex:
				fmt.Fprintf(&b, "  [not attempted] %s\n", name)
			default:
				fmt.Fprintf(&b, "  [done]          %s\n", name)
			}
		}
	}
	return b.String()
}

// multiNotifier fans out to every configured sink. Cues go everywhere;
// delivery errors are joined so one broken sink does not hide another's.
type multiNotifier []schemas.Notifier

func (m multiNotifier) Cue(ctx context.Context, c schemas.Cue) {
	for _, n := range m {
		n.Cue(ctx, c)
	}
}

func (m multiNotifier) Deliver(ctx context.Context, r schemas.Report) error {
	var errs []string
	for _, n := range m {
		if err := n.Deliver(ctx, r); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("report delivery: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LogNotifier writes cues and the report to the structured log. It is the
// floor of the notifier chain: a batch run always leaves a trace even with
// mail disabled.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Cue(ctx context.Context, c schemas.Cue) {
	n.logger.Info("Batch cue.", zap.String("cue", c.String()))
}

func (n *LogNotifier) Deliver(ctx context.Context, r schemas.Report) error {
	if r.Success {
		n.logger.Info("Batch report.\n" + FormatReport(r))
	} else {
		n.logger.Error("Batch report.\n" + FormatReport(r))
	}
	return nil
}
