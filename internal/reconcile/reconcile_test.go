// internal/reconcile/reconcile_test.go
package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

// fakePage is an in-memory PageDriver. Mutating calls are recorded so tests
// can assert the idempotency guarantee: no writes when the page already
// agrees with the record.
type fakePage struct {
	values  map[string]string
	texts   map[string]string
	checks  map[string]bool
	counts  map[string]int
	present map[string]bool

	// sticky fields swallow writes, simulating a page that drops the input
	// event.
	sticky map[string]bool

	// onClick lets row-count tests react to add/delete button presses.
	onClick func(ref schemas.FieldRef)

	mutations []string
}

func newFakePage() *fakePage {
	return &fakePage{
		values:  make(map[string]string),
		texts:   make(map[string]string),
		checks:  make(map[string]bool),
		counts:  make(map[string]int),
		present: make(map[string]bool),
		sticky:  make(map[string]bool),
	}
}

func (f *fakePage) record(op string, ref schemas.FieldRef) {
	f.mutations = append(f.mutations, op+":"+ref.Name)
}

func (f *fakePage) Click(ctx context.Context, ref schemas.FieldRef) error {
	f.record("click", ref)
	if _, ok := f.checks[ref.Name]; ok && !f.sticky[ref.Name] {
		f.checks[ref.Name] = !f.checks[ref.Name]
	}
	if f.onClick != nil {
		f.onClick(ref)
	}
	return nil
}

func (f *fakePage) Type(ctx context.Context, ref schemas.FieldRef, text string) error {
	f.record("type", ref)
	if !f.sticky[ref.Name] {
		f.values[ref.Name] = text
		f.texts[ref.Name] = text
	}
	return nil
}

func (f *fakePage) SelectOption(ctx context.Context, ref schemas.FieldRef, value string) error {
	f.record("select", ref)
	if !f.sticky[ref.Name] {
		f.values[ref.Name] = value
	}
	return nil
}

func (f *fakePage) ReadValue(ctx context.Context, ref schemas.FieldRef) (string, error) {
	return f.values[ref.Name], nil
}

func (f *fakePage) ReadText(ctx context.Context, ref schemas.FieldRef) (string, error) {
	return f.texts[ref.Name], nil
}

func (f *fakePage) Checked(ctx context.Context, ref schemas.FieldRef) (bool, error) {
	return f.checks[ref.Name], nil
}

func (f *fakePage) Exists(ctx context.Context, ref schemas.FieldRef) (bool, error) {
	return f.present[ref.Name], nil
}

func (f *fakePage) Count(ctx context.Context, ref schemas.FieldRef) (int, error) {
	return f.counts[ref.Name], nil
}

func (f *fakePage) UploadFiles(ctx context.Context, ref schemas.FieldRef, paths []string) error {
	f.record("upload", ref)
	return nil
}

func (f *fakePage) WaitIdle(ctx context.Context, quiet time.Duration) error { return nil }

func (f *fakePage) Settle(ctx context.Context, d time.Duration) error { return nil }

var testRef = schemas.FieldRef{Name: "regularPrice", Selector: "#price"}

func TestTextUnchangedWhenLiveMatches(t *testing.T) {
	page := newFakePage()
	page.values[testRef.Name] = "2.50"

	r := NewReconciler(page, zap.NewNop())

	outcome, err := r.Text(context.Background(), testRef, "2.5")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Empty(t, page.mutations, "a matching field must not be touched")
}

func TestTextWritesOnceThenIdempotent(t *testing.T) {
	page := newFakePage()
	page.values[testRef.Name] = "1.00"

	r := NewReconciler(page, zap.NewNop())

	outcome, err := r.Text(context.Background(), testRef, "3.75")
	require.NoError(t, err)
	assert.Equal(t, Changed, outcome)
	assert.Equal(t, []string{"type:regularPrice"}, page.mutations)

	// Second pass with the same desired value observes the previous write.
	outcome, err = r.Text(context.Background(), testRef, "3.75")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Len(t, page.mutations, 1, "exactly one mutation across both calls")
}

func TestTextMismatchAfterWrite(t *testing.T) {
	page := newFakePage()
	page.values[testRef.Name] = "old"
	page.sticky[testRef.Name] = true

	r := NewReconciler(page, zap.NewNop())

	_, err := r.Text(context.Background(), testRef, "new")
	require.Error(t, err)

	var mismatch *schemas.ReconciliationMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "regularPrice", mismatch.Field)
	assert.Equal(t, "new", mismatch.Want)
	assert.Equal(t, "old", mismatch.Got)
}

func TestSelectComparesOptionValue(t *testing.T) {
	ref := schemas.FieldRef{Name: "weightUnit", Selector: "#unit"}
	page := newFakePage()
	page.values[ref.Name] = "oz"

	r := NewReconciler(page, zap.NewNop())

	outcome, err := r.Select(context.Background(), ref, "lb")
	require.NoError(t, err)
	assert.Equal(t, Changed, outcome)

	outcome, err = r.Select(context.Background(), ref, "lb")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
}

func TestCheckboxTogglesOnlyOnDivergence(t *testing.T) {
	ref := schemas.FieldRef{Name: "showQuantityPrice", Selector: "#sqp"}
	page := newFakePage()
	page.checks[ref.Name] = false

	r := NewReconciler(page, zap.NewNop())

	outcome, err := r.Checkbox(context.Background(), ref, true)
	require.NoError(t, err)
	assert.Equal(t, Changed, outcome)
	assert.Equal(t, []string{"click:showQuantityPrice"}, page.mutations)

	outcome, err = r.Checkbox(context.Background(), ref, true)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Len(t, page.mutations, 1)
}

func TestCheckboxStuckReportsMismatch(t *testing.T) {
	ref := schemas.FieldRef{Name: "buyerConfig", Selector: "#bc"}
	page := newFakePage()
	page.checks[ref.Name] = false
	page.sticky[ref.Name] = true

	r := NewReconciler(page, zap.NewNop())

	_, err := r.Checkbox(context.Background(), ref, true)

	var mismatch *schemas.ReconciliationMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "true", mismatch.Want)
	assert.Equal(t, "false", mismatch.Got)
}

func TestRichTextReadBeforeWrite(t *testing.T) {
	content := schemas.FieldRef{Name: "longDescription", Selector: "#desc"}
	editor := schemas.FieldRef{Name: "longDescriptionEditor", Selector: "#desc-editor"}

	page := newFakePage()
	page.texts[content.Name] = "Premium   business\n cards"

	r := NewReconciler(page, zap.NewNop())

	// Whitespace differences between the rendered read and the source text
	// do not trigger a rewrite.
	outcome, err := r.RichText(context.Background(), content, editor, "Premium business cards")
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Empty(t, page.mutations)
}

func TestEqualNormalized(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"identical", "abc", "abc", true},
		{"trimmed", "  abc ", "abc", true},
		{"trailing zero", "2.50", "2.5", true},
		{"integer float", "10", "10.0", true},
		{"different numbers", "2.5", "2.51", false},
		{"number vs text", "2.5", "2.5x", false},
		{"empty both", "", "   ", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, equalNormalized(tc.a, tc.b))
		})
	}
}
