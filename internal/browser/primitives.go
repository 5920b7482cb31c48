// internal/browser/primitives.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

// selectAllModifier is the platform-aware shortcut modifier used to clear a
// field before re-typing: Meta on Mac-like platforms, Control everywhere
// else.
func selectAllModifier() input.Modifier {
	if runtime.GOOS == "darwin" {
		return input.ModifierCommand
	}
	return input.ModifierCtrl
}

// linkedTimeout derives an action context from the tab's lifetime with the
// given timeout, and keeps the caller's cancellation propagating into it
// until the returned cancel runs. The linkage must outlive the wait phase:
// the same context is reused for the action that follows.
func linkedTimeout(parent, caller context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// waitVisible is the precondition every primitive applies: the element must
// become visible within the configured wait window or the field is reported
// missing.
func (p *DetailPage) waitVisible(ctx context.Context, ref schemas.FieldRef) (context.Context, context.CancelFunc, error) {
	actCtx, cancel := linkedTimeout(p.ctx, ctx, p.cfg.Network.ElementWait)

	if err := chromedp.Run(actCtx, chromedp.WaitVisible(ref.Selector, chromedp.ByQuery)); err != nil {
		cancel()
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, &schemas.ElementNotFoundError{Field: ref.Name, Selector: ref.Selector}
	}
	return actCtx, cancel, nil
}

// Click waits for the element, scrolls it into view, and clicks it.
func (p *DetailPage) Click(ctx context.Context, ref schemas.FieldRef) error {
	p.logger.Debug("Clicking element.", zap.String("field", ref.Name))

	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return err
	}
	defer cancel()

	err = chromedp.Run(actCtx,
		chromedp.ScrollIntoView(ref.Selector, chromedp.ByQuery),
		chromedp.Click(ref.Selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("click failed for field %q: %w", ref.Name, err)
	}
	return nil
}

// Type clears the field with select-all + delete and types the text.
func (p *DetailPage) Type(ctx context.Context, ref schemas.FieldRef, text string) error {
	p.logger.Debug("Typing into element.", zap.String("field", ref.Name), zap.Int("text_length", len(text)))

	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return err
	}
	defer cancel()

	err = chromedp.Run(actCtx,
		chromedp.ScrollIntoView(ref.Selector, chromedp.ByQuery),
		chromedp.Focus(ref.Selector, chromedp.ByQuery),
		chromedp.KeyEvent("a", chromedp.KeyModifiers(selectAllModifier())),
		chromedp.KeyEvent(kb.Delete),
		chromedp.SendKeys(ref.Selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("type failed for field %q: %w", ref.Name, err)
	}
	return nil
}

// SelectOption sets a dropdown to the option with the given value and fires
// the change events the page's own scripts listen for.
func (p *DetailPage) SelectOption(ctx context.Context, ref schemas.FieldRef, value string) error {
	p.logger.Debug("Selecting option.", zap.String("field", ref.Name), zap.String("value", value))

	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return err
	}
	defer cancel()

	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%s);
		if (!el) { return false; }
		const match = Array.from(el.options).some(o => o.value === %s);
		if (!match) { return false; }
		el.value = %s;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, jsString(ref.Selector), jsString(value), jsString(value))

	var ok bool
	if err := chromedp.Run(actCtx, chromedp.Evaluate(script, &ok)); err != nil {
		return fmt.Errorf("select failed for field %q: %w", ref.Name, err)
	}
	if !ok {
		return fmt.Errorf("field %q has no option with value %q", ref.Name, value)
	}
	return nil
}

// ReadValue returns the element's current value property.
func (p *DetailPage) ReadValue(ctx context.Context, ref schemas.FieldRef) (string, error) {
	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return "", err
	}
	defer cancel()

	var value string
	if err := chromedp.Run(actCtx, chromedp.Value(ref.Selector, &value, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read failed for field %q: %w", ref.Name, err)
	}
	return value, nil
}

// ReadText returns the element's rendered text content.
func (p *DetailPage) ReadText(ctx context.Context, ref schemas.FieldRef) (string, error) {
	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return "", err
	}
	defer cancel()

	var text string
	if err := chromedp.Run(actCtx, chromedp.Text(ref.Selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("text read failed for field %q: %w", ref.Name, err)
	}
	return text, nil
}

// Checked reports whether a checkbox or radio is on.
func (p *DetailPage) Checked(ctx context.Context, ref schemas.FieldRef) (bool, error) {
	actCtx, cancel, err := p.waitVisible(ctx, ref)
	if err != nil {
		return false, err
	}
	defer cancel()

	script := fmt.Sprintf(`(function() {
		const el = document.querySelector(%s);
		return !!(el && el.checked);
	})()`, jsString(ref.Selector))

	var checked bool
	if err := chromedp.Run(actCtx, chromedp.Evaluate(script, &checked)); err != nil {
		return false, fmt.Errorf("checked read failed for field %q: %w", ref.Name, err)
	}
	return checked, nil
}

// Exists probes for the element without any wait. This is how callers
// classify optional fields before acting on them.
func (p *DetailPage) Exists(ctx context.Context, ref schemas.FieldRef) (bool, error) {
	script := fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(ref.Selector))

	var exists bool
	if err := p.run(ctx, chromedp.Evaluate(script, &exists)); err != nil {
		return false, fmt.Errorf("existence probe failed for field %q: %w", ref.Name, err)
	}
	return exists, nil
}

// Count returns how many elements currently match the selector.
func (p *DetailPage) Count(ctx context.Context, ref schemas.FieldRef) (int, error) {
	script := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(ref.Selector))

	var count int
	if err := p.run(ctx, chromedp.Evaluate(script, &count)); err != nil {
		return 0, fmt.Errorf("count failed for field %q: %w", ref.Name, err)
	}
	return count, nil
}

// UploadFiles attaches local files to a file input. File inputs are often
// kept hidden by the page, so presence rather than visibility is the
// precondition here.
func (p *DetailPage) UploadFiles(ctx context.Context, ref schemas.FieldRef, paths []string) error {
	p.logger.Debug("Uploading files.", zap.String("field", ref.Name), zap.Int("count", len(paths)))

	actCtx, cancel := linkedTimeout(p.ctx, ctx, p.cfg.Network.ElementWait)
	defer cancel()

	if err := chromedp.Run(actCtx, chromedp.WaitReady(ref.Selector, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &schemas.ElementNotFoundError{Field: ref.Name, Selector: ref.Selector}
	}

	if err := p.run(ctx, chromedp.SetUploadFiles(ref.Selector, paths, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("upload failed for field %q: %w", ref.Name, err)
	}
	return nil
}

// WaitIdle suspends until network traffic has been quiet for the given
// period, bounded by the configured idle timeout.
func (p *DetailPage) WaitIdle(ctx context.Context, quiet time.Duration) error {
	if quiet <= 0 {
		quiet = p.cfg.Network.IdleQuiet
	}
	idleCtx, cancel := linkedTimeout(p.ctx, ctx, p.cfg.Network.IdleTimeout)
	defer cancel()

	return p.idle.Wait(idleCtx, quiet)
}

// Settle pauses for a fixed small delay so an asynchronous UI transition can
// finish.
func (p *DetailPage) Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = p.cfg.Network.SettleDelay
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-timer.C:
		return nil
	}
}

// run executes actions against the detail tab, respecting both the tab
// lifetime and the caller's context.
func (p *DetailPage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// jsString safely embeds a Go string into a generated script.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
