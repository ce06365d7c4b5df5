package etl

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scrape-etl/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestProgressLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "code_log.txt")
	now := time.Date(2024, time.September, 5, 14, 3, 9, 0, time.UTC)
	logger := NewProgressLogger(path).WithClock(func() time.Time { return now })
	require.Equal(t, path, logger.Path())

	ctx := context.Background()
	require.NoError(t, logger.Log(ctx, "Preliminaries complete. Initiating ETL process"))
	now = now.Add(time.Minute)
	logger.Note(ctx, "Data extraction complete. Initiating Transformation process")

	expected := "05.09.2024 14:03:09 : Preliminaries complete. Initiating ETL process\n" +
		"05.09.2024 14:04:09 : Data extraction complete. Initiating Transformation process\n"
	require.Equal(t, expected, testutil.ReadFile(t, path))
}

func TestProgressLoggerAppends(t *testing.T) {
	path := testutil.WriteFile(t, "code_log.txt", "01.01.2024 00:00:00 : earlier run\n")
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	logger := NewProgressLogger(path).WithClock(func() time.Time { return now })

	logger.Note(context.Background(), "Server connection closed")
	expected := "01.01.2024 00:00:00 : earlier run\n" +
		"02.01.2024 00:00:00 : Server connection closed\n"
	require.Equal(t, expected, testutil.ReadFile(t, path))
}

func TestProgressLoggerUnwritable(t *testing.T) {
	logger := NewProgressLogger(filepath.Join(t.TempDir(), "missing", "code_log.txt"))
	require.Error(t, logger.Log(context.Background(), "message"))
	// Note only warns
	logger.Note(context.Background(), "message")
}
