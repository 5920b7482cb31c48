// internal/sections/tickets.go
package sections

import (
	"context"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// ticketSection assigns the production ticket template. Non-printed
// products never enter production, so they have no ticket.
type ticketSection struct{}

func (ticketSection) Name() string { return "tickets" }

func (ticketSection) Applies(t schemas.ProductType) bool {
	return t != schemas.TypeNonPrintedProducts
}

func (ticketSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	if rec.TicketTemplate == "" {
		return nil
	}
	_, err := env.Fields.Select(ctx, config.Ref("tickets.template", env.Loc.Tickets.TemplateSelect), rec.TicketTemplate)
	return err
}
