// internal/reconcile/composite.go
package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

// maxConvergenceCycles bounds how many count-adjust-recount rounds a row
// section gets before its cardinality is declared stuck.
const maxConvergenceCycles = 3

// RowSection describes one repeated-row region of the page: the selector
// matching every rendered row plus the controls that add and remove rows.
type RowSection struct {
	Row       schemas.FieldRef
	AddRow    schemas.FieldRef
	DeleteRow schemas.FieldRef
}

// Expander adjusts repeated-row sections so their rendered row count matches
// a composite value's cardinality.
type Expander struct {
	page   schemas.PageDriver
	logger *zap.Logger
}

func NewExpander(page schemas.PageDriver, logger *zap.Logger) *Expander {
	return &Expander{
		page:   page,
		logger: logger.Named("expander"),
	}
}

// Pairs fans a value out into positional (subIndex, value) entries in
// ascending sub-index order. A scalar yields a single entry at index 0.
func Pairs(v schemas.Value) []schemas.SubValue {
	return v.Subs()
}

// ReconcileRowCount converges the section's rendered row count to want. It
// issues exactly the difference in add or delete clicks per cycle; a page
// that silently ignores some of them gets a bounded number of further
// cycles before the mismatch is reported.
//
// A target of zero accepts a single leftover row: the vendor page keeps one
// blank template row that cannot be removed.
func (e *Expander) ReconcileRowCount(ctx context.Context, sec RowSection, want int) error {
	for cycle := 0; cycle < maxConvergenceCycles; cycle++ {
		got, err := e.page.Count(ctx, sec.Row)
		if err != nil {
			return err
		}
		if rowCountConverged(got, want) {
			if cycle > 0 {
				e.logger.Debug("Row count converged.",
					zap.String("section", sec.Row.Name), zap.Int("rows", got))
			}
			return nil
		}

		e.logger.Debug("Adjusting row count.",
			zap.String("section", sec.Row.Name),
			zap.Int("rendered", got),
			zap.Int("target", want))

		var action schemas.FieldRef
		steps := want - got
		if steps > 0 {
			action = sec.AddRow
		} else {
			action = sec.DeleteRow
			steps = -steps
		}

		for i := 0; i < steps; i++ {
			if err := e.page.Click(ctx, action); err != nil {
				return err
			}
			if err := e.page.Settle(ctx, 0); err != nil {
				return err
			}
		}
	}

	got, err := e.page.Count(ctx, sec.Row)
	if err != nil {
		return err
	}
	if rowCountConverged(got, want) {
		return nil
	}
	return &schemas.CardinalityMismatchError{Field: sec.Row.Name, Want: want, Got: got}
}

func rowCountConverged(got, want int) bool {
	if want == 0 {
		return got <= 1
	}
	return got == want
}
