// Package signals turns termination signals into context cancellation.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/endorses/callflow/internal/pkg/logger"
)

// WithCancel returns a child of parent that is cancelled on SIGINT or
// SIGTERM. stop releases the handler and cancels the context.
func WithCancel(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case sig := <-sigCh:
			logger.Info("received signal, stopping replay", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
		<-done
	}
}
