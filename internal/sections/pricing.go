// internal/sections/pricing.go
package sections

import (
	"context"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/reconcile"
)

// pricingSection reconciles the price sheet. Row cardinality is converged
// before any per-row value is typed, because a row that does not exist yet
// has no inputs to reconcile. The copy-to-all bulk action runs once at the
// end so shared scalar values propagate across composite rows.
type pricingSection struct{}

func (pricingSection) Name() string { return "pricing" }

func (pricingSection) Applies(schemas.ProductType) bool { return true }

func (pricingSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	loc := env.Loc.Pricing

	n, err := rec.Cardinality()
	if err != nil {
		return err
	}

	rows := reconcile.RowSection{
		Row:       config.Ref("pricing.rows", loc.Row),
		AddRow:    config.Ref("pricing.addRow", loc.AddRow),
		DeleteRow: config.Ref("pricing.deleteRow", loc.DeleteRow),
	}
	if err := env.Rows.ReconcileRowCount(ctx, rows, n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		cells := []struct {
			ref   schemas.FieldRef
			value schemas.Value
		}{
			{loc.RangeStartAt(i), rec.RangeStart},
			{loc.RangeEndAt(i), rec.RangeEnd},
			{loc.RegularPriceAt(i), rec.RegularPrice},
			{loc.SetupPriceAt(i), rec.SetupPrice},
		}
		for _, c := range cells {
			if c.value.IsZero() {
				continue
			}
			if _, err := env.Fields.Text(ctx, c.ref, c.value.At(i)); err != nil {
				return err
			}
		}
	}

	if n > 1 {
		env.Logger.Debug("Propagating first pricing row.", zap.Int("rows", n))
		if err := env.Page.Click(ctx, config.Ref("pricing.copyToAll", loc.CopyToAll)); err != nil {
			return err
		}
		if err := env.Page.Settle(ctx, 0); err != nil {
			return err
		}
	}
	return nil
}
