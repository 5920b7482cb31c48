// internal/sections/description.go
package sections

import (
	"context"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// descriptionSection reconciles the long rich-text description. The
// reconciler reads the rendered content first; clearing and retyping a long
// description is the most expensive single write on the page.
type descriptionSection struct{}

func (descriptionSection) Name() string { return "description" }

func (descriptionSection) Applies(schemas.ProductType) bool { return true }

func (descriptionSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	if rec.LongDescription == "" {
		return nil
	}
	loc := env.Loc.Description
	_, err := env.Fields.RichText(ctx,
		config.Ref("description.content", loc.Content),
		config.Ref("description.editor", loc.Editor),
		rec.LongDescription)
	return err
}
