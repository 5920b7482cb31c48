// -- cmd/sync_test.go --
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printready/storefront-sync/api/schemas"
)

func TestExecuteContextReachesSyncCommand(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "batch")

	// Intercept the RunE function so the test observes the command context
	// without actually running a batch.
	originalRunE := syncCmd.RunE
	var got any
	syncCmd.RunE = func(cmd *cobra.Command, args []string) error {
		got = cmd.Context().Value(ctxKey{})
		return nil
	}
	defer func() { syncCmd.RunE = originalRunE }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"sync", "records.json"})
	require.NoError(t, rootCmd.ExecuteContext(ctx))

	assert.Equal(t, "batch", got,
		"the signal-aware context handed to Execute must surface as cmd.Context()")
}

func TestConfigFlagExpandsTilde(t *testing.T) {
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(
		filepath.Join(home, "config.yaml"),
		[]byte("logger:\n  level: debug\n"), 0o644))

	cfgFile = "~/config.yaml"
	defer func() { cfgFile = "" }()

	v, err := initializeConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), v.ConfigFileUsed())
	assert.Equal(t, "debug", v.GetString("logger.level"))
}

func TestPrintPlan(t *testing.T) {
	records := []schemas.ProductRecord{
		{Name: "Menu", Type: schemas.TypeStaticDocument},
		{Name: "Poster-XL", Type: schemas.TypeProductMatrix,
			RegularPrice: schemas.Composite(map[string]string{"A": "5", "B": "7"})},
		{Name: "Retired", Type: schemas.TypeAdHoc, Skip: true},
		{Name: "Mug", Type: schemas.TypeNonPrintedProducts},
	}

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	printPlan(c, records)
	plan := out.String()

	assert.Contains(t, plan, "Plan for 4 records")
	assert.Contains(t, plan, "rows=2", "composite record shows its cardinality")
	assert.Contains(t, plan, "skip")

	// Files only applies to static documents; shipping drops out for
	// non-printed products.
	lines := splitPlanLines(plan)
	assert.Contains(t, lines["Menu"], "files")
	assert.NotContains(t, lines["Poster-XL"], "files")
	assert.NotContains(t, lines["Mug"], "shipping")
	assert.NotContains(t, lines["Mug"], "tickets")
}

func splitPlanLines(plan string) map[string]string {
	out := make(map[string]string)
	for _, line := range bytes.Split([]byte(plan), []byte("\n")) {
		fields := bytes.Fields(line)
		if len(fields) > 0 {
			out[string(fields[0])] = string(line)
		}
	}
	return out
}
