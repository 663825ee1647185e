// Command kmcluster trains k-means centroids over a CSV dataset and assigns
// new vectors to them.
//
// Usage:
//
//	kmcluster train -k 3 --data items.csv
//	kmcluster assign img-42 0.1,0.9,0.3
//	kmcluster list --json
//	kmcluster dedupe
//
// Settings come from defaults, then an optional YAML file (--config), then
// KMCLUSTER_* environment variables, then flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
