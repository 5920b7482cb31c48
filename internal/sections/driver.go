// Package sections holds one driver per logical region of the vendor's
// product-detail page. Each driver orchestrates reconciler and expander
// calls in the order the page's own scripting requires; the registry fixes
// the order regions are visited in.
package sections

import (
	"context"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/reconcile"
)

// Driver reconciles one page region against a record.
type Driver interface {
	Name() string
	// Applies filters by product type. A non-applicable section is skipped,
	// not failed.
	Applies(t schemas.ProductType) bool
	Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error
}

// Env bundles what every driver needs to touch the page. One Env serves one
// open detail page.
type Env struct {
	Page   schemas.PageDriver
	Fields *reconcile.Reconciler
	Rows   *reconcile.Expander
	Loc    *config.Locators
	Logger *zap.Logger
}

func NewEnv(page schemas.PageDriver, loc *config.Locators, logger *zap.Logger) *Env {
	return &Env{
		Page:   page,
		Fields: reconcile.NewReconciler(page, logger),
		Rows:   reconcile.NewExpander(page, logger),
		Loc:    loc,
		Logger: logger.Named("sections"),
	}
}

// Registry returns the drivers in page order. Pricing precedes shipping so
// the record's row cardinality is established on the price sheet first;
// settings runs late because its radio toggles re-render parts of the form.
func Registry() []Driver {
	return []Driver{
		identitySection{},
		pricingSection{},
		shippingSection{},
		iconSection{},
		descriptionSection{},
		fileSection{},
		settingsSection{},
		ticketSection{},
	}
}
