// -- cmd/sync.go --
package cmd

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/printready/storefront-sync/api/schemas"
	"github.com/printready/storefront-sync/internal/catalog"
	"github.com/printready/storefront-sync/internal/history"
	"github.com/printready/storefront-sync/internal/notify"
	"github.com/printready/storefront-sync/internal/observability"
	"github.com/printready/storefront-sync/internal/orchestrator"
	"github.com/printready/storefront-sync/internal/sections"
)

var dryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync <records.json>",
	Short: "Run a batch sync of product records against the storefront.",
	Long: `Loads the given record file, opens an authenticated browser session,
and reconciles each record against the vendor's product-management UI in
order. The batch stops at the first record failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate records and print the plan without opening a session")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	cfg := appConfig

	assetDir, err := homedir.Expand(cfg.Files.AssetDir)
	if err != nil {
		return fmt.Errorf("asset directory: %w", err)
	}

	records, err := catalog.Load(args[0], assetDir, logger)
	if err != nil {
		return err
	}

	if dryRun {
		printPlan(cmd, records)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	notifier := notify.New(cfg.Notify, logger)

	var hist *history.Store
	if cfg.History.DSN != "" {
		hist, err = history.Open(cmd.Context(), cfg.History.DSN, logger)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	o := orchestrator.New(newBrowserLauncher(cfg, logger), notifier, hist, &cfg.Locators, logger)

	result, err := o.Run(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("batch %s failed at record %d (%s): %w",
			result.RunID, result.FailedIndex, result.FailedRecord, err)
	}

	logger.Info("Batch complete.",
		zap.String("run_id", result.RunID),
		zap.Int("processed", result.Processed))
	return nil
}

// printPlan reports what a real run would do, per record: whether it would
// be skipped, its row cardinality, and the sections that apply to its type.
func printPlan(cmd *cobra.Command, records []schemas.ProductRecord) {
	drivers := sections.Registry()

	cmd.Printf("Plan for %d records:\n", len(records))
	for _, rec := range records {
		if rec.Skip {
			cmd.Printf("  %-30s skip\n", rec.Name)
			continue
		}
		n, _ := rec.Cardinality()

		var applicable []string
		for _, d := range drivers {
			if d.Applies(rec.Type) {
				applicable = append(applicable, d.Name())
			}
		}
		cmd.Printf("  %-30s type=%s rows=%d sections=%v\n", rec.Name, rec.Type, n, applicable)
	}
}
