// internal/browser/netidle.go
package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// idleWatcher tracks in-flight network requests on a single tab so callers
// can wait for the vendor page's background traffic to settle after a save
// or a row mutation.
type idleWatcher struct {
	lock     sync.RWMutex
	inflight map[network.RequestID]bool
}

// newIdleWatcher attaches CDP network listeners to the tab behind ctx.
// network.Enable must be run on the same context for events to flow.
func newIdleWatcher(ctx context.Context) *idleWatcher {
	w := &idleWatcher{
		inflight: make(map[network.RequestID]bool),
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			w.lock.Lock()
			w.inflight[e.RequestID] = true
			w.lock.Unlock()
		case *network.EventLoadingFinished:
			w.lock.Lock()
			delete(w.inflight, e.RequestID)
			w.lock.Unlock()
		case *network.EventLoadingFailed:
			w.lock.Lock()
			delete(w.inflight, e.RequestID)
			w.lock.Unlock()
		}
	})

	return w
}

// Wait polls until there have been no in-flight requests for the full quiet
// period, or the context ends.
func (w *idleWatcher) Wait(ctx context.Context, quietPeriod time.Duration) error {
	ticker := time.NewTicker(quietPeriod / 2)
	defer ticker.Stop()

	lastActivity := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.lock.RLock()
			inflightCount := len(w.inflight)
			w.lock.RUnlock()

			if inflightCount > 0 {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) >= quietPeriod {
				return nil
			}
		}
	}
}
