// internal/sections/files.go
package sections

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
)

// fileSection uploads the printable content PDF. Only static documents
// carry one; every other product type skips the section outright.
type fileSection struct{}

func (fileSection) Name() string { return "files" }

func (fileSection) Applies(t schemas.ProductType) bool {
	return t == schemas.TypeStaticDocument
}

func (fileSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	if rec.PDF == "" {
		return nil
	}
	loc := env.Loc.Files

	// The page shows the stored file's name; a matching name means the PDF
	// is already in place and the upload round-trip can be skipped.
	current, err := env.Page.ReadText(ctx, config.Ref("files.currentName", loc.CurrentName))
	if err != nil {
		return err
	}
	want := filepath.Base(rec.PDF)
	if strings.TrimSpace(current) == want {
		env.Logger.Debug("Content PDF already uploaded.", zap.String("file", want))
		return nil
	}

	if err := env.Page.UploadFiles(ctx, config.Ref("files.pdf", loc.PDFInput), []string{rec.PDF}); err != nil {
		return err
	}
	return env.Page.WaitIdle(ctx, 0)
}
