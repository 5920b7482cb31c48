// internal/sections/settings.go
package sections

import (
	"context"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// settingsSection reconciles the order-quantity settings. The mode radio is
// applied before the advanced-range expression: the expression input only
// becomes interactable once the Specific radio has revealed it.
type settingsSection struct{}

func (settingsSection) Name() string { return "settings" }

func (settingsSection) Applies(schemas.ProductType) bool { return true }

func (settingsSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	loc := env.Loc.Settings

	if rec.OrderQuantityMode == schemas.QuantitySpecific {
		if _, err := env.Fields.Checkbox(ctx, config.Ref("settings.specificRadio", loc.SpecificRadio), true); err != nil {
			return err
		}
		if err := env.Page.Settle(ctx, 0); err != nil {
			return err
		}
		if _, err := env.Fields.Text(ctx, config.Ref("settings.advancedRange", loc.AdvancedRange), rec.AdvancedRange); err != nil {
			return err
		}
	} else {
		if _, err := env.Fields.Checkbox(ctx, config.Ref("settings.anyRadio", loc.AnyRadio), true); err != nil {
			return err
		}
	}

	if rec.MaxOrderQuantity != "" {
		if _, err := env.Fields.Text(ctx, config.Ref("settings.maxOrderQuantity", loc.MaxOrderQuantity), rec.MaxOrderQuantity); err != nil {
			return err
		}
	}

	if _, err := env.Fields.Checkbox(ctx, config.Ref("settings.showQuantityPrice", loc.ShowQuantityPrice), rec.ShowQuantityPrice); err != nil {
		return err
	}

	// Buyer configuration only exists for products a buyer can customize.
	if rec.Type == schemas.TypeAdHoc || rec.Type == schemas.TypeProductMatrix {
		if _, err := env.Fields.Checkbox(ctx, config.Ref("settings.buyerConfig", loc.BuyerConfig), rec.BuyerConfigurable); err != nil {
			return err
		}
	}
	return nil
}
