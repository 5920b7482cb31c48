// ./main.go
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/printready/storefront-sync/cmd"
)

// main is the entry point for the storefront-sync CLI. SIGINT/SIGTERM cancel
// the root context so an in-flight batch tears its browser session down
// instead of being killed mid-record.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
