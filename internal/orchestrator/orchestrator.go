// Package orchestrator owns the batch run: one authenticated browser
// session, records processed strictly in order, fail-fast on the first
// record error, and exactly one report delivered at the end.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/history"
	"github.com/printready/storefront-sync/internal/processor"
)

// Session is a live authenticated browser session for the duration of one
// batch.
type Session interface {
	processor.Session
	Close() error
}

// Launcher opens sessions. The browser controller implements it; tests
// substitute their own.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

type Orchestrator struct {
	launcher Launcher
	notifier schemas.Notifier
	history  *history.Store
	loc      *config.Locators
	logger   *zap.Logger
}

// New wires an orchestrator. history may be nil when no run store is
// configured.
func New(launcher Launcher, notifier schemas.Notifier, hist *history.Store, loc *config.Locators, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		launcher: launcher,
		notifier: notifier,
		history:  hist,
		loc:      loc,
		logger:   logger.Named("orchestrator"),
	}
}

// Run processes the batch. The returned result always reflects how far the
// batch got; the error is the first record failure (or session failure), nil
// when every record completed.
func (o *Orchestrator) Run(ctx context.Context, records []schemas.ProductRecord) (*schemas.BatchResult, error) {
	result := schemas.NewBatchResult(uuid.NewString(), len(records))
	logger := o.logger.With(zap.String("run_id", result.RunID))

	logger.Info("Batch starting.", zap.Int("records", len(records)))
	o.notifier.Cue(ctx, schemas.CueStart)

	defer func() {
		result.FinishedAt = time.Now()
		o.finish(ctx, logger, result, records)
	}()

	sess, err := o.launcher.Open(ctx)
	if err != nil {
		result.Err = err
		return result, err
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Warn("Session close failed.", zap.Error(closeErr))
		}
	}()

	proc := processor.New(sess, o.loc, logger)
	for i := range records {
		rec := &records[i]
		if err := proc.Process(ctx, rec); err != nil {
			// Fail fast: the session's state is suspect after any record
			// error, so the rest of the batch is not attempted.
			result.FailedIndex = i
			result.FailedRecord = rec.Name
			result.Err = err
			return result, err
		}
		result.Processed++
	}
	return result, nil
}

// finish emits the end-of-run cue, delivers the single report, and persists
// the run when a history store is configured.
func (o *Orchestrator) finish(ctx context.Context, logger *zap.Logger, result *schemas.BatchResult, records []schemas.ProductRecord) {
	if result.Succeeded() {
		o.notifier.Cue(ctx, schemas.CueSuccess)
	} else {
		o.notifier.Cue(ctx, schemas.CueError)
	}

	report := buildReport(result, records)
	if err := o.notifier.Deliver(ctx, report); err != nil {
		logger.Warn("Report delivery failed.", zap.Error(err))
	}

	if o.history != nil {
		if err := o.history.RecordRun(ctx, result); err != nil {
			logger.Warn("Run history write failed.", zap.Error(err))
		}
	}

	logger.Info("Batch finished.",
		zap.Bool("success", result.Succeeded()),
		zap.Int("processed", result.Processed),
		zap.Int("total", result.Total),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)))
}

func buildReport(result *schemas.BatchResult, records []schemas.ProductRecord) schemas.Report {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = rec.Name
	}

	report := schemas.Report{
		RunID:       result.RunID,
		Success:     result.Succeeded(),
		Processed:   result.Processed,
		Total:       result.Total,
		RecordNames: names,
		FailedIndex: result.FailedIndex,
		Duration:    result.FinishedAt.Sub(result.StartedAt),
	}
	if result.Err != nil {
		report.FailureDetail = result.Err.Error()
	}
	return report
}
