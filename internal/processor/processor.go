// Package processor walks a single product record through its lifecycle
// against an open browser session: locate the record, prove the page really
// is that record, reconcile every section, save.
package processor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/sections"
)

// State names the processor's position in a record's lifecycle. Failed can
// be entered from anywhere; a skipped record goes straight to Done.
type State string

const (
	StateSearching         State = "searching"
	StateIdentityVerifying State = "identity_verifying"
	StateSectionsRunning   State = "sections_running"
	StateSaving            State = "saving"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Detail is the open record page the processor reconciles against.
type Detail interface {
	schemas.PageDriver
	Close() error
}

// Session is the slice of the browser session the processor needs: opening
// a record's detail page and confirming the listing is back after a save.
type Session interface {
	OpenRecordDetail(ctx context.Context, name string) (Detail, error)
	WaitListing(ctx context.Context) error
}

// Processor runs one record at a time. It holds no per-record state between
// calls; the session it drives does.
type Processor struct {
	session Session
	loc     *config.Locators
	drivers []sections.Driver
	logger  *zap.Logger
}

func New(session Session, loc *config.Locators, logger *zap.Logger) *Processor {
	return &Processor{
		session: session,
		loc:     loc,
		drivers: sections.Registry(),
		logger:  logger.Named("processor"),
	}
}

// Process reconciles one record end to end. Any error means the record
// finished in the failed state; the record's page is closed either way.
func (p *Processor) Process(ctx context.Context, rec *schemas.ProductRecord) error {
	logger := p.logger.With(zap.String("record", rec.Name))

	if rec.Skip {
		logger.Info("Record flagged to skip.")
		return nil
	}

	logger.Debug("State transition.", zap.String("state", string(StateSearching)))
	detail, err := p.session.OpenRecordDetail(ctx, rec.Name)
	if err != nil {
		return p.fail(logger, err)
	}
	defer detail.Close()

	logger.Debug("State transition.", zap.String("state", string(StateIdentityVerifying)))
	if err := p.verifyIdentity(ctx, detail, rec); err != nil {
		return p.fail(logger, err)
	}

	logger.Debug("State transition.", zap.String("state", string(StateSectionsRunning)))
	env := sections.NewEnv(detail, p.loc, logger)
	for _, driver := range p.drivers {
		if !driver.Applies(rec.Type) {
			logger.Debug("Section not applicable.",
				zap.String("section", driver.Name()),
				zap.String("product_type", string(rec.Type)))
			continue
		}
		if err := driver.Run(ctx, env, rec); err != nil {
			return p.fail(logger, fmt.Errorf("section %s: %w", driver.Name(), err))
		}
	}

	logger.Debug("State transition.", zap.String("state", string(StateSaving)))
	if err := p.save(ctx, detail); err != nil {
		return p.fail(logger, err)
	}

	logger.Info("Record reconciled.", zap.String("state", string(StateDone)))
	return nil
}

// verifyIdentity proves the opened page belongs to the record before any
// mutation is allowed. A fuzzy search match landing on the wrong product
// must never be edited.
func (p *Processor) verifyIdentity(ctx context.Context, detail Detail, rec *schemas.ProductRecord) error {
	loc := p.loc.Identity

	name, err := detail.ReadValue(ctx, config.Ref("identity.name", loc.NameValue))
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) != rec.Name {
		return &schemas.IdentityMismatchError{Attribute: "name", Want: rec.Name, Got: strings.TrimSpace(name)}
	}

	typeLabel, err := detail.ReadText(ctx, config.Ref("identity.type", loc.TypeLabel))
	if err != nil {
		return err
	}
	if got := strings.TrimSpace(typeLabel); got != string(rec.Type) {
		return &schemas.IdentityMismatchError{Attribute: "productType", Want: string(rec.Type), Got: got}
	}
	return nil
}

func (p *Processor) save(ctx context.Context, detail Detail) error {
	if err := detail.Click(ctx, config.Ref("save.button", p.loc.Save.Button)); err != nil {
		return err
	}
	if err := detail.WaitIdle(ctx, 0); err != nil {
		return err
	}
	if err := detail.Close(); err != nil {
		return err
	}
	return p.session.WaitListing(ctx)
}

func (p *Processor) fail(logger *zap.Logger, err error) error {
	logger.Error("Record failed.", zap.String("state", string(StateFailed)), zap.Error(err))
	return err
}
