package etl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
)

// ProgressTimeLayout is DD.MM.YYYY HH:MM:SS.
const ProgressTimeLayout = "02.01.2006 15:04:05"

// ProgressLogger appends "<timestamp> : <message>" lines to a log file.
// The file is opened and closed on every call so that nothing is held open
// between stages.
type ProgressLogger struct {
	path string
	now  func() time.Time
}

func NewProgressLogger(path string) *ProgressLogger {
	return &ProgressLogger{path: path, now: time.Now}
}

// WithClock returns a copy of the logger that reads time from now.
func (l *ProgressLogger) WithClock(now func() time.Time) *ProgressLogger {
	return &ProgressLogger{path: l.path, now: now}
}

func (l *ProgressLogger) Path() string { return l.path }

func (l *ProgressLogger) Log(ctx context.Context, message string) error {
	slog.InfoContext(ctx, message)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open progress log")
	}
	_, err = fmt.Fprintf(f, "%s : %s\n", l.now().Format(ProgressTimeLayout), message)
	closeErr := f.Close()
	if err != nil {
		return errors.Wrapf(err, "write %s", l.path)
	}
	return errors.Wrapf(closeErr, "close %s", l.path)
}

// Note logs a message and only warns when the log file cannot be written,
// progress logging never stops a pipeline.
func (l *ProgressLogger) Note(ctx context.Context, message string) {
	err := l.Log(ctx, message)
	if err != nil {
		slog.WarnContext(ctx, "failed to write progress log", "path", l.path, "err", err)
	}
}
