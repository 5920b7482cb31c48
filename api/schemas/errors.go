// api/schemas/errors.go
package schemas

import (
	"fmt"
	"time"
)

// The error taxonomy below drives the engine's abort policy. Record-level
// errors carry the logical field they originated from so a failure report can
// name the exact point the batch stopped at.

// AuthenticationError means the vendor rejected the login. Nothing can
// proceed without a session, so this aborts the whole batch.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication rejected: %s", e.Reason)
}

// NavigationTimeoutError means an expected page or tab never appeared within
// the bounded wait. It is retried at the point of occurrence before being
// promoted to a record failure.
type NavigationTimeoutError struct {
	Target string
	Wait   time.Duration
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation to %q timed out after %s", e.Target, e.Wait)
}

// ElementNotFoundError means a field's element was still missing after its
// wait window. Fatal for the field unless the caller probed it as optional.
type ElementNotFoundError struct {
	Field    string
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element for field %q not found (selector %q)", e.Field, e.Selector)
}

// ReconciliationMismatchError means a write appeared to succeed but the
// post-write read still disagrees with the desired value. This signals drift
// between expected and actual page behavior and fails the record.
type ReconciliationMismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *ReconciliationMismatchError) Error() string {
	return fmt.Sprintf("field %q still reads %q after writing %q", e.Field, e.Got, e.Want)
}

// CardinalityMismatchError means the repeated-row count could not be
// converged to the composite value's length within the bounded cycles.
type CardinalityMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("field %q: row count stuck at %d, want %d", e.Field, e.Got, e.Want)
}

// IdentityMismatchError means the opened detail page does not belong to the
// expected record. It guards against mutating the wrong product after a
// fuzzy search match.
type IdentityMismatchError struct {
	Attribute string
	Want      string
	Got       string
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("record %s mismatch: page shows %q, expected %q", e.Attribute, e.Got, e.Want)
}
