// api/schemas/interfaces.go
package schemas

import (
	"context"
	"time"
)

// FieldRef pairs a logical field name with the selector that locates it on
// the live page. The name travels into errors and logs; the selector comes
// from the injected locator table, never hard-wired call sites.
type FieldRef struct {
	Name     string
	Selector string
}

// PageDriver is the element interaction surface a live detail page offers to
// the reconciliation layers. Every method waits for its element before
// acting and returns *ElementNotFoundError when the wait window closes
// empty. Implementations own exactly one page and are not safe for
// concurrent use; the engine is strictly sequential by design.
type PageDriver interface {
	// Click waits for the element and clicks it.
	Click(ctx context.Context, ref FieldRef) error
	// Type clears the field (select-all + delete) and types text into it.
	Type(ctx context.Context, ref FieldRef, text string) error
	// SelectOption picks the option with the given value from a dropdown.
	SelectOption(ctx context.Context, ref FieldRef, value string) error
	// ReadValue returns the current value of an input or select element.
	ReadValue(ctx context.Context, ref FieldRef) (string, error)
	// ReadText returns the rendered text content of an element.
	ReadText(ctx context.Context, ref FieldRef) (string, error)
	// Checked reports whether a checkbox or radio is currently on.
	Checked(ctx context.Context, ref FieldRef) (bool, error)
	// Exists probes for the element without waiting. Used to classify
	// optional fields before acting on them.
	Exists(ctx context.Context, ref FieldRef) (bool, error)
	// Count returns how many elements currently match the selector.
	Count(ctx context.Context, ref FieldRef) (int, error)
	// UploadFiles attaches local files to a file input.
	UploadFiles(ctx context.Context, ref FieldRef, paths []string) error
	// WaitIdle suspends until the page's network traffic has been quiet for
	// the given period, bounded by the context deadline.
	WaitIdle(ctx context.Context, quiet time.Duration) error
	// Settle inserts a fixed small delay to let an asynchronous UI
	// transition finish after a mutating action.
	Settle(ctx context.Context, d time.Duration) error
}

// Notifier receives batch lifecycle cues and exactly one report per run.
type Notifier interface {
	Cue(ctx context.Context, c Cue)
	Deliver(ctx context.Context, report Report) error
}
