// Command fakezone serves an in-memory RitZone backend.
//
// Usage:
//
//	fakezone [--addr localhost:8001] [--shape token] [--opaque] [--cod-requires-cart]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ritzprobe/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := cli.NewFakeZoneCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
