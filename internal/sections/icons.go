// internal/sections/icons.go
package sections

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/config"
	"github.com/printready/storefront-sync/internal/retry"
)

const (
	// galleryPurgeAttempts bounds the delete loop that empties the image
	// gallery before a fresh upload.
	galleryPurgeAttempts = 15
	// galleryUploadAttempts covers the initial upload plus two full retries
	// when the rendered previews never appear.
	galleryUploadAttempts = 3
)

// iconSection uploads the primary icon and replaces the image gallery. The
// gallery has no per-item reconciliation on the vendor page, so a desired
// gallery always means purge-then-upload.
type iconSection struct{}

func (iconSection) Name() string { return "icons" }

func (iconSection) Applies(schemas.ProductType) bool { return true }

func (s iconSection) Run(ctx context.Context, env *Env, rec *schemas.ProductRecord) error {
	if rec.Icon != "" {
		if err := s.uploadPrimary(ctx, env, rec.Icon); err != nil {
			return err
		}
	}
	if len(rec.GalleryImages) > 0 {
		if err := s.purgeGallery(ctx, env); err != nil {
			return err
		}
		if err := s.uploadGallery(ctx, env, rec.GalleryImages); err != nil {
			return err
		}
	}
	return nil
}

func (iconSection) uploadPrimary(ctx context.Context, env *Env, path string) error {
	loc := env.Loc.Icons

	if err := env.Page.UploadFiles(ctx, config.Ref("icons.primary", loc.PrimaryInput), []string{path}); err != nil {
		return err
	}
	if err := env.Page.WaitIdle(ctx, 0); err != nil {
		return err
	}

	shown, err := env.Page.Exists(ctx, config.Ref("icons.primaryPreview", loc.PrimaryPreview))
	if err != nil {
		return err
	}
	if !shown {
		return fmt.Errorf("primary icon upload produced no preview")
	}
	return nil
}

// purgeGallery clicks the first-item delete control until a zero count is
// observed, stopping early the moment the gallery reads empty.
func (iconSection) purgeGallery(ctx context.Context, env *Env) error {
	loc := env.Loc.Icons
	item := config.Ref("icons.galleryItem", loc.GalleryItem)
	del := config.Ref("icons.galleryDelete", loc.GalleryDelete)

	policy := retry.Policy{Attempts: galleryPurgeAttempts}
	err := retry.Until(ctx, policy, func(ctx context.Context) (bool, error) {
		count, err := env.Page.Count(ctx, item)
		if err != nil {
			return false, err
		}
		if count == 0 {
			return true, nil
		}
		env.Logger.Debug("Deleting gallery entry.", zap.Int("remaining", count))
		if err := env.Page.Click(ctx, del); err != nil {
			return false, err
		}
		return false, env.Page.Settle(ctx, 0)
	})
	if errors.Is(err, retry.ErrExhausted) {
		return fmt.Errorf("gallery still has entries after %d delete attempts", galleryPurgeAttempts)
	}
	return err
}

// uploadGallery pushes all images in one multi-file upload and verifies the
// previews rendered; a short-counted gallery retries the whole attempt.
func (iconSection) uploadGallery(ctx context.Context, env *Env, paths []string) error {
	loc := env.Loc.Icons
	input := config.Ref("icons.galleryUpload", loc.GalleryInput)
	preview := config.Ref("icons.galleryPreview", loc.GalleryPreview)

	policy := retry.Policy{Attempts: galleryUploadAttempts}
	return retry.Do(ctx, policy, func(ctx context.Context) error {
		if err := env.Page.UploadFiles(ctx, input, paths); err != nil {
			return err
		}
		if err := env.Page.WaitIdle(ctx, 0); err != nil {
			return err
		}
		rendered, err := env.Page.Count(ctx, preview)
		if err != nil {
			return err
		}
		if rendered < len(paths) {
			return fmt.Errorf("gallery shows %d previews, uploaded %d files", rendered, len(paths))
		}
		return nil
	})
}
