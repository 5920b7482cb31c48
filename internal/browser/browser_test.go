// internal/browser/browser_test.go
package browser

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAllModifier(t *testing.T) {
	mod := selectAllModifier()
	if runtime.GOOS == "darwin" {
		assert.Equal(t, input.ModifierCommand, mod)
	} else {
		assert.Equal(t, input.ModifierCtrl, mod)
	}
}

func TestJSString(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain selector", `#productName`, `"#productName"`},
		{"embedded quotes", `input[name="qty"]`, `"input[name=\"qty\"]"`},
		{"script breakout attempt", `"; alert(1); "`, `"\"; alert(1); \""`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, jsString(tc.input))
		})
	}
}

func TestLinkedTimeoutPropagatesCallerCancelAfterWaitPhase(t *testing.T) {
	caller, callerCancel := context.WithCancel(context.Background())
	defer callerCancel()

	actCtx, cancel := linkedTimeout(context.Background(), caller, time.Minute)
	defer cancel()

	// The wait phase is over; the action phase must still see the caller.
	require.NoError(t, actCtx.Err())
	callerCancel()

	select {
	case <-actCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("caller cancellation no longer reaches the action context")
	}
}

func TestLinkedTimeoutHonorsDeadline(t *testing.T) {
	actCtx, cancel := linkedTimeout(context.Background(), context.Background(), 20*time.Millisecond)
	defer cancel()

	select {
	case <-actCtx.Done():
		require.ErrorIs(t, actCtx.Err(), context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("element wait deadline did not fire")
	}
}

func TestIdleWatcherWaitReturnsWhenQuiet(t *testing.T) {
	w := &idleWatcher{inflight: make(map[network.RequestID]bool)}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := w.Wait(ctx, 50*time.Millisecond)
	require.NoError(t, err)
}

func TestIdleWatcherWaitHonorsContext(t *testing.T) {
	w := &idleWatcher{inflight: make(map[network.RequestID]bool)}
	w.inflight["stuck"] = true

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := w.Wait(ctx, 50*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
