// -- cmd/launcher.go --
package cmd

import (
	"context"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/internal/browser"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/orchestrator"
	"github.com/printready/storefront-sync/internal/processor"
)

// browserLauncher adapts the browser controller to the orchestrator's
// launcher contract.
type browserLauncher struct {
	ctrl *browser.Controller
}

func newBrowserLauncher(cfg *config.Config, logger *zap.Logger) browserLauncher {
	return browserLauncher{ctrl: browser.NewController(cfg, logger)}
}

func (l browserLauncher) Open(ctx context.Context) (orchestrator.Session, error) {
	sess, err := l.ctrl.Open(ctx)
	if err != nil {
		return nil, err
	}
	return browserSession{sess: sess}, nil
}

type browserSession struct {
	sess *browser.Session
}

func (b browserSession) OpenRecordDetail(ctx context.Context, name string) (processor.Detail, error) {
	detail, err := b.sess.OpenRecordDetail(ctx, name)
	if err != nil {
		return nil, err
	}
	return detailHandle{DetailPage: detail}, nil
}

func (b browserSession) WaitListing(ctx context.Context) error {
	return b.sess.WaitListing(ctx)
}

func (b browserSession) Close() error {
	return b.sess.Close(context.Background())
}

// detailHandle narrows DetailPage's context-taking Close to the plain Close
// the processor owns.
type detailHandle struct {
	*browser.DetailPage
}

func (d detailHandle) Close() error {
	return d.DetailPage.Close(context.Background())
}
