// Command ritzprobe runs integration probes against a RitZone backend.
//
// Usage:
//
//	ritzprobe --api-url http://localhost:8001/api [--suite smoke] [--json]
//	ritzprobe workflow -f steps.yaml --api-url ...
//	ritzprobe suites
//	ritzprobe fakezone --addr localhost:8001
//
// Exit codes: 0 when the success rate meets the pass threshold, 1 when it
// does not, 2 on configuration or command errors.
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
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
