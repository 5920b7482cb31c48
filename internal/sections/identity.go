// internal/sections/identity.go
package sections

import (
	"context"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// identitySection fills the product's naming fields. The name itself is
// never written here; it is the search key that located the record, and the
// processor has already verified it before any section runs.
type identitySection struct{}

func (identitySection) Name() string { return "identity" }

func (identitySection) Applies(schemas.ProductType) bool { return true }

func (identitySection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	loc := env.Loc.Identity

	if rec.DisplayName != "" {
		if _, err := env.Fields.Text(ctx, config.Ref("identity.displayName", loc.DisplayName), rec.DisplayName); err != nil {
			return err
		}
	}
	if rec.ItemTemplateID != "" {
		if _, err := env.Fields.Select(ctx, config.Ref("identity.itemTemplate", loc.ItemTemplate), rec.ItemTemplateID); err != nil {
			return err
		}
	}
	if rec.BriefDescription != "" {
		if _, err := env.Fields.Text(ctx, config.Ref("identity.briefDescription", loc.BriefDescription), rec.BriefDescription); err != nil {
			return err
		}
	}
	return nil
}
