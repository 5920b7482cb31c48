// internal/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "icon.png", "png")
	writeFile(t, dir, "spec.pdf", "pdf")

	recordFile := writeFile(t, dir, "records.json", `[
		{
			"name": "  Widget-100 ",
			"productType": "StaticDocument",
			"regularPrice": "2.50",
			"icon": "icon.png",
			"pdf": "spec.pdf"
		},
		{
			"name": "Poster-XL",
			"productType": "ProductMatrix",
			"rangeStart": {"A": "1", "B": "1"},
			"rangeEnd": {"A": "99", "B": "99"},
			"regularPrice": {"A": "5", "B": "7"}
		}
	]`)

	records, err := Load(recordFile, dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Widget-100", records[0].Name, "names are trimmed")
	assert.Equal(t, filepath.Join(dir, "icon.png"), records[0].Icon)
	assert.Equal(t, filepath.Join(dir, "spec.pdf"), records[0].PDF)

	assert.True(t, records[1].RangeStart.IsComposite())
	n, err := records[1].Cardinality()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadRejectsCardinalityDisagreement(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{
			"name": "Bad",
			"productType": "ProductMatrix",
			"rangeStart": {"A": "1", "B": "1"},
			"regularPrice": {"A": "5", "B": "7", "C": "9"}
		}
	]`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0")
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "Same", "productType": "AdHoc"},
		{"name": "Same", "productType": "AdHoc"}
	]`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate name")
}

func TestLoadRejectsMissingAsset(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "NoIcon", "productType": "AdHoc", "icon": "nope.png"}
	]`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset missing")
}

func TestLoadRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "X", "productType": "Mystery"}
	]`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `{"not": "an array"`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
}

func TestLoadSkippedRecordIgnoresDanglingAssets(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "Retired", "productType": "AdHoc", "icon": "gone.png", "pdf": "gone.pdf", "skip": true},
		{"name": "Live", "productType": "AdHoc"}
	]`)

	records, err := Load(recordFile, dir, zap.NewNop())
	require.NoError(t, err, "a skipped record's assets are never uploaded and must not abort the batch")
	require.Len(t, records, 2)
	assert.Equal(t, "gone.png", records[0].Icon, "skipped records are left unresolved")
}

func TestLoadDropsMissingOptionalAssets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", "png")

	recordFile := writeFile(t, dir, "records.json", `[
		{
			"name": "Flyer",
			"productType": "AdHoc",
			"galleryImages": ["a.png", "missing.png"],
			"pdf": "never-uploaded.pdf"
		}
	]`)

	records, err := Load(recordFile, dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, []string{filepath.Join(dir, "a.png")}, records[0].GalleryImages,
		"missing gallery images are dropped, not fatal")
	assert.Empty(t, records[0].PDF,
		"a dangling PDF on a type without a file section is cleared")
}

func TestLoadRejectsMissingMandatoryPDF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "icon.png", "png")
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "Manual", "productType": "StaticDocument", "icon": "icon.png", "pdf": "gone.pdf"}
	]`)

	_, err := Load(recordFile, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf asset missing")
}

func TestLoadSkipFlagSurvives(t *testing.T) {
	dir := t.TempDir()
	recordFile := writeFile(t, dir, "records.json", `[
		{"name": "Old", "productType": "AdHoc", "skip": true}
	]`)

	records, err := Load(recordFile, dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Skip)
}
