package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Returns a context that will live until Ctrl+C is pressed
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

// Fatal logs err together with any hints attached to it and exits with
// status 1.
func Fatal(message string, err error) {
	attrs := []any{"err", err.Error()}
	if hints := errors.FlattenHints(err); hints != "" {
		attrs = append(attrs, "hint", hints)
	}
	if details := errors.FlattenDetails(err); details != "" {
		attrs = append(attrs, "detail", details)
	}
	slog.Error(message, attrs...)
	os.Exit(1)
}
