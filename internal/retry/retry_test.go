// internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3}, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, func(context.Context) error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 10, Delay: time.Hour}, func(context.Context) error {
		calls++
		cancel() // cancel while the loop sleeps
		return errors.New("fail")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestUntilStopsOnSuccess(t *testing.T) {
	polls := 0
	err := Until(context.Background(), Policy{Attempts: 5, Delay: time.Millisecond}, func(context.Context) (bool, error) {
		polls++
		return polls == 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, polls)
}

func TestUntilExhausted(t *testing.T) {
	err := Until(context.Background(), Policy{Attempts: 4, Delay: time.Millisecond}, func(context.Context) (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestUntilProbeErrorAborts(t *testing.T) {
	boom := errors.New("probe broke")
	polls := 0
	err := Until(context.Background(), Policy{Attempts: 4}, func(context.Context) (bool, error) {
		polls++
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, polls)
}

func TestBackoffGrowth(t *testing.T) {
	// Three failures with doubling from 10ms should take at least
	// 10 + 20 = 30ms of sleeping between the three attempts.
	start := time.Now()
	_ = Do(context.Background(), Policy{Attempts: 3, Delay: 10 * time.Millisecond, Backoff: 2}, func(context.Context) error {
		return errors.New("fail")
	})
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
