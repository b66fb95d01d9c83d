// Package main is the patchpick entrypoint.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/patchpick/patchpick/internal/cli"
)

// main hands the process arguments to the CLI and exits with its code.
// An interrupt cancels the context, which shuts the picker down cleanly.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
