// Package catalog loads the product record file and rejects bad data before
// any browser work starts. A batch that would fail on record 40's malformed
// composite should fail here, at record 40, in milliseconds.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Load reads a JSON array of product records, validates every record, and
// resolves icon/PDF references against assetDir. The returned slice is in
// file order, which is the order the batch will process.
func Load(path, assetDir string, logger *zap.Logger) ([]schemas.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	var records []schemas.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse record file %s: %w", path, err)
	}

	seen := make(map[string]int)
	for i := range records {
		rec := &records[i]
		rec.Name = strings.TrimSpace(rec.Name)

		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, dup := seen[rec.Name]; dup {
			return nil, fmt.Errorf("record %d: duplicate name %q (also record %d)", i, rec.Name, prev)
		}
		seen[rec.Name] = i

		// Skipped records never reach the browser, so their asset
		// references are never uploaded and must not abort the batch.
		if rec.Skip {
			continue
		}

		if err := resolveAssets(rec, assetDir, logger); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
	}

	logger.Info("Record file loaded.",
		zap.String("path", path),
		zap.Int("records", len(records)))
	return records, nil
}

// resolveAssets rewrites the record's file references to absolute paths. A
// missing file is fatal only for a mandatory upload: the primary icon when
// referenced, and the PDF on a StaticDocument record. Optional assets
// (gallery images, a PDF on a record type whose file section never runs)
// are dropped with a log entry instead.
func resolveAssets(rec *schemas.ProductRecord, assetDir string, logger *zap.Logger) error {
	resolve := func(field, ref string) (string, error) {
		p := ref
		if !filepath.IsAbs(p) {
			p = filepath.Join(assetDir, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("%s: %w", field, err)
		}
		return abs, nil
	}

	if rec.Icon != "" {
		abs, err := resolve("icon", rec.Icon)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("icon asset missing: %s", abs)
		}
		rec.Icon = abs
	}

	kept := rec.GalleryImages[:0]
	for _, img := range rec.GalleryImages {
		abs, err := resolve("gallery image", img)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			logger.Warn("Gallery image missing; skipping this upload.",
				zap.String("record", rec.Name),
				zap.String("path", abs))
			continue
		}
		kept = append(kept, abs)
	}
	rec.GalleryImages = kept

	if rec.PDF != "" {
		abs, err := resolve("pdf", rec.PDF)
		if err != nil {
			return err
		}
		if _, err := os.Stat(abs); err != nil {
			if rec.Type == schemas.TypeStaticDocument {
				return fmt.Errorf("pdf asset missing: %s", abs)
			}
			logger.Warn("PDF missing but the file section does not apply to this product type; skipping.",
				zap.String("record", rec.Name),
				zap.String("path", abs))
			rec.PDF = ""
		} else {
			rec.PDF = abs
		}
	}
	return nil
}
