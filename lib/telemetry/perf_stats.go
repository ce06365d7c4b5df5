package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("go.perf_stats")

// RecordPerfStats records a single sample of the process' resource usage.
// Batch runs are too short for a periodic sampler, so this is called once
// when a run finishes.
func RecordPerfStats(ctx context.Context) {
	cpuGauge, _ := meter.Float64Gauge("cpu_usage")
	memoryGauge, _ := meter.Int64Gauge("allocated_mb")
	liveObjectsGauge, _ := meter.Int64Gauge("live_objects")

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err == nil {
		cpuUsage, err := proc.CPUPercentWithContext(ctx)
		if err == nil {
			cpuGauge.Record(ctx, cpuUsage)
		} else {
			slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
		}
	}

	memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	slog.DebugContext(ctx, "perf stats", "allocated_mb", memStats.Alloc/1_000_000)
}
