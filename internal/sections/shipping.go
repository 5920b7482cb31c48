// internal/sections/shipping.go
package sections

import (
	"context"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/reconcile"
)

// shippingWeightUnit is the unit every record's weight is expressed in. The
// dropdown is normalized to it before the weight value is typed, otherwise
// the page reinterprets the number under whatever unit happened to be
// selected.
const shippingWeightUnit = "lb"

// shippingSection reconciles the dimension rows and weight. Non-printed
// products have nothing to ship, so the whole section is skipped for them.
type shippingSection struct{}

func (shippingSection) Name() string { return "shipping" }

func (shippingSection) Applies(t schemas.ProductType) bool {
	return t != schemas.TypeNonPrintedProducts
}

func (shippingSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	loc := env.Loc.Shipping

	if _, err := env.Fields.Select(ctx, config.Ref("shipping.weightUnit", loc.WeightUnit), shippingWeightUnit); err != nil {
		return err
	}

	n, err := rec.Cardinality()
	if err != nil {
		return err
	}

	rows := reconcile.RowSection{
		Row:       config.Ref("shipping.rows", loc.Row),
		AddRow:    config.Ref("shipping.addRow", loc.AddRow),
		DeleteRow: config.Ref("shipping.deleteRow", loc.DeleteRow),
	}
	if err := env.Rows.ReconcileRowCount(ctx, rows, n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		cells := []struct {
			ref   schemas.FieldRef
			value schemas.Value
		}{
			{loc.WidthAt(i), rec.ShippingWidth},
			{loc.LengthAt(i), rec.ShippingLength},
			{loc.HeightAt(i), rec.ShippingHeight},
			{loc.MaxQtyAt(i), rec.ShippingMaxQty},
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

	if rec.Weight != "" {
		if _, err := env.Fields.Text(ctx, config.Ref("shipping.weight", loc.Weight), rec.Weight); err != nil {
			return err
		}
	}
	return nil
}
