// @MX:ANCHOR: [AUTO] main is the nestify entry point. Any error exits with status 1.
// @MX:REASON: The only binary entry point; it owns signal handling and delegates to internal/cli.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nestify-dev/nestify/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}
