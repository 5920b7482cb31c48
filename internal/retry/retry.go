// internal/retry/retry.go
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy parameterizes a bounded retry loop. The same policy serves
// navigation retries, gallery purge convergence and multi-file upload
// verification; there are deliberately no bespoke loops elsewhere.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// Delay is the pause before the second attempt.
	Delay time.Duration
	// Backoff multiplies the delay after each failed attempt. Zero or one
	// keeps the delay constant.
	Backoff float64
}

// Do runs op until it succeeds, the attempts are spent, or the context ends.
// The last error is returned wrapped with the attempt count.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	delay := p.Delay
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == p.Attempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		if p.Backoff > 1 {
			delay = time.Duration(float64(delay) * p.Backoff)
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", p.Attempts, lastErr)
}

// Until polls probe until it reports done, the attempts are spent, or the
// context ends. A probe error aborts immediately; running out of attempts
// returns ErrExhausted so callers can map it to their own failure type.
func Until(ctx context.Context, p Policy, probe func(ctx context.Context) (bool, error)) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	delay := p.Delay
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := probe(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == p.Attempts {
			break
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		if p.Backoff > 1 {
			delay = time.Duration(float64(delay) * p.Backoff)
		}
	}
	return ErrExhausted
}

// ErrExhausted reports that Until ran out of attempts without the probe
// succeeding.
var ErrExhausted = fmt.Errorf("retry attempts exhausted")

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
