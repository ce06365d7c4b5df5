package etl

import (
	"context"
	"testing"

	"scrape-etl/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestCountRecords(t *testing.T) {
	reader := testutil.RecordMetrics(t)

	ctx := context.Background()
	CountRecords(ctx, "banks", "extract", 10)
	CountRecords(ctx, "banks", "transform", 10)
	CountRecords(ctx, "laliga", "load", 0)

	require.Equal(t, int64(20), testutil.Int64Sum(t, reader, "etl.records"))
}
