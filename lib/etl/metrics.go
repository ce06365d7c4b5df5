package etl

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("scrape-etl/lib/etl")

// CountRecords adds n to the etl.records counter for a pipeline stage.
func CountRecords(ctx context.Context, pipeline, stage string, n int) {
	counter, err := meter.Int64Counter(
		"etl.records",
		metric.WithDescription("records produced by a pipeline stage"),
	)
	if err != nil {
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("stage", stage),
	))
}
