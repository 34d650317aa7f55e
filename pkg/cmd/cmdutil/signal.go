package cmdutil

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdownSignal returns a context cancelled on SIGINT or SIGTERM.
func WithShutdownSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
