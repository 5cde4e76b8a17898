package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/fx"
)

type lifecycle interface {
	Start(context.Context) error
	Stop(context.Context) error
	Done() <-chan os.Signal
}

var _ lifecycle = (*fx.App)(nil)

// run starts the application, waits for a signal or a shutdown request, and
// returns the process exit code.
func run(ctx context.Context, app lifecycle) int {
	return runWithOutput(ctx, app, os.Stderr)
}

// the stop context carries no deadline so the server applies its configured shutdown timeout
func runWithOutput(ctx context.Context, app lifecycle, stderr io.Writer) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "failed to start verigate: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(stderr, "failed to stop verigate: %v\n", err)
		return 1
	}
	return 0
}
