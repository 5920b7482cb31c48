// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/retry"
)

// Controller owns the browser process lifecycle. It launches Chrome,
// authenticates against the vendor storefront, and hands out one Session
// positioned on the record-search page.
type Controller struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewController creates a controller; Chrome is not launched until Open.
func NewController(cfg *config.Config, logger *zap.Logger) *Controller {
	return &Controller{
		cfg:    cfg,
		logger: logger.Named("browser"),
	}
}

// Session is the single authenticated browser session for a batch run. The
// main tab stays on the listing/search page; a detail tab is opened and
// closed per record.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	allocCancel context.CancelFunc

	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	isClosed bool
}

// Open launches the browser, logs in, and waits for the record-search page.
// A rejected login surfaces as *schemas.AuthenticationError.
func (c *Controller) Open(ctx context.Context) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.cfg.Browser.DisableCache {
		opts = append(opts, chromedp.Flag("disk-cache-size", "0"))
	}
	for _, arg := range c.cfg.Browser.Args {
		opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	var ctxOpts []chromedp.ContextOption
	if c.cfg.Browser.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}))
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	s := &Session{
		id:          uuid.New().String(),
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		cfg:         c.cfg,
		logger:      c.logger.With(zap.String("session_id", uuid.New().String())),
	}

	if err := s.login(ctx); err != nil {
		s.Close(context.Background())
		return nil, err
	}

	s.logger.Info("Session authenticated.", zap.String("base_url", c.cfg.Vendor.BaseURL))
	return s, nil
}

// login navigates to the vendor base URL, submits credentials, and waits for
// either the landing marker or the login error banner.
func (s *Session) login(ctx context.Context) error {
	password, err := s.cfg.Vendor.Password()
	if err != nil {
		return &schemas.AuthenticationError{Reason: err.Error()}
	}

	loc := s.cfg.Locators.Login
	navCtx, navCancel := context.WithTimeout(s.operationCtx(ctx), s.cfg.Network.NavigationTimeout)
	defer navCancel()

	err = chromedp.Run(navCtx,
		chromedp.Navigate(s.cfg.Vendor.BaseURL),
		chromedp.WaitVisible(loc.Username, chromedp.ByQuery),
		chromedp.SendKeys(loc.Username, s.cfg.Vendor.Username, chromedp.ByQuery),
		chromedp.SendKeys(loc.Password, password, chromedp.ByQuery),
		chromedp.Click(loc.Submit, chromedp.ByQuery),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return &schemas.NavigationTimeoutError{Target: "login page", Wait: s.cfg.Network.NavigationTimeout}
		}
		return fmt.Errorf("login submission failed: %w", err)
	}

	// Poll for whichever outcome shows up first: the landing page or the
	// error banner.
	outcome := fmt.Sprintf(`(function() {
		if (document.querySelector(%q)) { return "ok"; }
		const banner = document.querySelector(%q);
		if (banner && banner.textContent.trim() !== "") { return banner.textContent.trim(); }
		return "";
	})()`, loc.LandingMarker, loc.ErrorBanner)

	err = retry.Until(navCtx, retry.Policy{Attempts: 120, Delay: 500 * time.Millisecond}, func(ctx context.Context) (bool, error) {
		var state string
		if err := chromedp.Run(ctx, chromedp.Evaluate(outcome, &state)); err != nil {
			return false, err
		}
		switch state {
		case "":
			return false, nil
		case "ok":
			return true, nil
		default:
			return false, &schemas.AuthenticationError{Reason: state}
		}
	})
	if err != nil {
		var authErr *schemas.AuthenticationError
		if errors.As(err, &authErr) {
			return authErr
		}
		if navCtx.Err() != nil {
			return &schemas.NavigationTimeoutError{Target: "record-search page", Wait: s.cfg.Network.NavigationTimeout}
		}
		return err
	}
	return nil
}

// OpenRecordDetail types the identity name into the global search, submits,
// and waits for the detail tab the vendor opens. The whole open action is
// retried before a *schemas.NavigationTimeoutError propagates.
func (s *Session) OpenRecordDetail(ctx context.Context, identityName string) (*DetailPage, error) {
	s.logger.Debug("Opening record detail.", zap.String("record", identityName))

	var detail *DetailPage
	policy := retry.Policy{
		Attempts: s.cfg.Network.NavigationRetries,
		Delay:    2 * time.Second,
	}
	err := retry.Do(s.operationCtx(ctx), policy, func(ctx context.Context) error {
		d, err := s.openDetailOnce(ctx, identityName)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Session) openDetailOnce(ctx context.Context, identityName string) (*DetailPage, error) {
	loc := s.cfg.Locators.Search
	opCtx, opCancel := context.WithTimeout(ctx, s.cfg.Network.NavigationTimeout)
	defer opCancel()

	current := chromedp.FromContext(s.ctx)
	if current == nil || current.Target == nil {
		return nil, fmt.Errorf("session tab has no target")
	}
	openerID := current.Target.TargetID

	// Register the new-target listener before the click so the tab cannot
	// slip past us.
	targetCh := chromedp.WaitNewTarget(s.ctx, func(info *target.Info) bool {
		return info.OpenerID == openerID && info.Type == "page"
	})

	err := chromedp.Run(opCtx,
		chromedp.WaitVisible(loc.Input, chromedp.ByQuery),
		chromedp.SetValue(loc.Input, "", chromedp.ByQuery),
		chromedp.SendKeys(loc.Input, identityName, chromedp.ByQuery),
		chromedp.Click(loc.Submit, chromedp.ByQuery),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, &schemas.NavigationTimeoutError{Target: identityName, Wait: s.cfg.Network.NavigationTimeout}
		}
		return nil, fmt.Errorf("search submission for %q failed: %w", identityName, err)
	}

	var targetID target.ID
	select {
	case targetID = <-targetCh:
	case <-opCtx.Done():
		return nil, &schemas.NavigationTimeoutError{Target: identityName, Wait: s.cfg.Network.NavigationTimeout}
	}

	detailCtx, detailCancel := chromedp.NewContext(s.ctx, chromedp.WithTargetID(targetID))

	if err := chromedp.Run(detailCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		detailCancel()
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, &schemas.NavigationTimeoutError{Target: identityName, Wait: s.cfg.Network.NavigationTimeout}
		}
		return nil, fmt.Errorf("detail page for %q never became ready: %w", identityName, err)
	}

	// Wire up the network-idle watcher for this tab.
	watcher := newIdleWatcher(detailCtx)
	if err := chromedp.Run(detailCtx, network.Enable()); err != nil {
		detailCancel()
		return nil, fmt.Errorf("failed to enable network tracking: %w", err)
	}

	return &DetailPage{
		ctx:    detailCtx,
		cancel: detailCancel,
		cfg:    s.cfg,
		logger: s.logger.With(zap.String("record", identityName)),
		idle:   watcher,
	}, nil
}

// WaitListing blocks until the main tab is back on the listing page after a
// save round-trip.
func (s *Session) WaitListing(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(s.operationCtx(ctx), s.cfg.Network.NavigationTimeout)
	defer cancel()

	marker := s.cfg.Locators.Save.ListingMarker
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(marker, chromedp.ByQuery)); err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			return &schemas.NavigationTimeoutError{Target: "listing page", Wait: s.cfg.Network.NavigationTimeout}
		}
		return err
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Close releases the tab, the browser, and the allocator. Safe to call more
// than once; always invoked in batch teardown regardless of outcome.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// operationCtx derives from the session's tab context, so chromedp actions
// keep their target wiring, and is cancelled early when the caller's context
// ends.
func (s *Session) operationCtx(ctx context.Context) context.Context {
	combined, cancel := context.WithCancel(s.ctx)
	context.AfterFunc(ctx, cancel)
	return combined
}

// DetailPage is the per-record editing surface. It implements
// schemas.PageDriver; the reconciliation layers never see chromedp.
type DetailPage struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *zap.Logger
	idle   *idleWatcher

	mu       sync.Mutex
	isClosed bool
}

var _ schemas.PageDriver = (*DetailPage)(nil)

// Close closes the detail tab. The vendor page sometimes closes it on its
// own after a save; a close error on an already-gone target is not a
// failure.
func (p *DetailPage) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.isClosed {
		p.mu.Unlock()
		return nil
	}
	p.isClosed = true
	p.mu.Unlock()

	closeCtx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()
	if err := chromedp.Run(closeCtx, page.Close()); err != nil {
		p.logger.Debug("Detail tab close returned an error (tab likely already gone).", zap.Error(err))
	}
	p.cancel()
	return nil
}
