// Package reconcile compares desired field values against the live page and
// mutates only on divergence. Every write is verified with a re-read, so a
// silently dropped mutation surfaces as an error instead of a half-updated
// product.
package reconcile

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

// Outcome reports whether a reconciliation had to mutate the page.
type Outcome int

const (
	Unchanged Outcome = iota
	Changed
)

func (o Outcome) String() string {
	if o == Changed {
		return "changed"
	}
	return "unchanged"
}

// Reconciler drives one detail page. It is not safe for concurrent use; the
// page it wraps is a single stateful browser tab.
type Reconciler struct {
	page   schemas.PageDriver
	logger *zap.Logger
}

func NewReconciler(page schemas.PageDriver, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		page:   page,
		logger: logger.Named("reconcile"),
	}
}

// Text brings a text or numeric input to the desired value. Returns
// Unchanged without touching the page when the live value already matches.
func (r *Reconciler) Text(ctx context.Context, ref schemas.FieldRef, want string) (Outcome, error) {
	current, err := r.page.ReadValue(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if equalNormalized(current, want) {
		r.logger.Debug("Field already correct.", zap.String("field", ref.Name))
		return Unchanged, nil
	}

	r.logger.Debug("Rewriting field.",
		zap.String("field", ref.Name),
		zap.String("current", current),
		zap.String("desired", want))

	if err := r.page.Type(ctx, ref, want); err != nil {
		return Unchanged, err
	}
	if err := r.page.Settle(ctx, 0); err != nil {
		return Unchanged, err
	}

	after, err := r.page.ReadValue(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if !equalNormalized(after, want) {
		return Unchanged, &schemas.ReconciliationMismatchError{Field: ref.Name, Want: want, Got: after}
	}
	return Changed, nil
}

// Select brings a dropdown to the desired option value. Comparison is on the
// selected option's value, not its display text.
func (r *Reconciler) Select(ctx context.Context, ref schemas.FieldRef, want string) (Outcome, error) {
	current, err := r.page.ReadValue(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if strings.TrimSpace(current) == strings.TrimSpace(want) {
		return Unchanged, nil
	}

	if err := r.page.SelectOption(ctx, ref, want); err != nil {
		return Unchanged, err
	}
	if err := r.page.Settle(ctx, 0); err != nil {
		return Unchanged, err
	}

	after, err := r.page.ReadValue(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if strings.TrimSpace(after) != strings.TrimSpace(want) {
		return Unchanged, &schemas.ReconciliationMismatchError{Field: ref.Name, Want: want, Got: after}
	}
	return Changed, nil
}

// Checkbox toggles a checkbox or radio to the desired state. Toggling is a
// click, so the post-write verification guards against pages that swallow
// the event.
func (r *Reconciler) Checkbox(ctx context.Context, ref schemas.FieldRef, want bool) (Outcome, error) {
	current, err := r.page.Checked(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if current == want {
		return Unchanged, nil
	}

	if err := r.page.Click(ctx, ref); err != nil {
		return Unchanged, err
	}
	if err := r.page.Settle(ctx, 0); err != nil {
		return Unchanged, err
	}

	after, err := r.page.Checked(ctx, ref)
	if err != nil {
		return Unchanged, err
	}
	if after != want {
		return Unchanged, &schemas.ReconciliationMismatchError{
			Field: ref.Name,
			Want:  strconv.FormatBool(want),
			Got:   strconv.FormatBool(after),
		}
	}
	return Changed, nil
}

// RichText reconciles a rich-text region. The current content is read from
// contentRef (the rendered text) and compared before anything is typed,
// because clearing and retyping a long description is expensive.
func (r *Reconciler) RichText(ctx context.Context, contentRef, editorRef schemas.FieldRef, want string) (Outcome, error) {
	current, err := r.page.ReadText(ctx, contentRef)
	if err != nil {
		return Unchanged, err
	}
	if collapseSpace(current) == collapseSpace(want) {
		r.logger.Debug("Rich text already correct.", zap.String("field", contentRef.Name))
		return Unchanged, nil
	}

	if err := r.page.Type(ctx, editorRef, want); err != nil {
		return Unchanged, err
	}
	if err := r.page.Settle(ctx, 0); err != nil {
		return Unchanged, err
	}

	after, err := r.page.ReadText(ctx, contentRef)
	if err != nil {
		return Unchanged, err
	}
	if collapseSpace(after) != collapseSpace(want) {
		return Unchanged, &schemas.ReconciliationMismatchError{Field: contentRef.Name, Want: want, Got: after}
	}
	return Changed, nil
}

// equalNormalized is the comparison behind every text reconciliation. Both
// sides are trimmed; values that parse as numbers compare numerically, so
// "2.5" and "2.50" count as equal regardless of how the page reformats them.
func equalNormalized(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}

// collapseSpace folds runs of whitespace to single spaces, the way a
// rendered rich-text read normalizes the markup it came from.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
