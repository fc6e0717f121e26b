package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfGauges struct {
	cpu         metric.Float64Gauge
	memory      metric.Int64Gauge
	liveObjects metric.Int64Gauge
	goroutines  metric.Int64Gauge
}

func newPerfGauges() (perfGauges, error) {
	meter := otel.Meter("eposfetch/perf_stats")

	var g perfGauges
	var err error
	g.cpu, err = meter.Float64Gauge("process.cpu_percent")
	if err != nil {
		return g, err
	}
	g.memory, err = meter.Int64Gauge("process.allocated_mb")
	if err != nil {
		return g, err
	}
	g.liveObjects, err = meter.Int64Gauge("process.live_objects")
	if err != nil {
		return g, err
	}
	g.goroutines, err = meter.Int64Gauge("process.goroutines")
	return g, err
}

func (g perfGauges) record(ctx context.Context, tel API) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// an interval of 0 compares against the previous call
	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(usage) == 0 {
		tel.ReportWarning("perf_stats.cpu", err)
	} else {
		g.cpu.Record(ctx, usage[0])
	}

	g.memory.Record(ctx, int64(memStats.Alloc/1_000_000))
	g.liveObjects.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	g.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats records process cpu and memory gauges every interval
// until ctx is done. It is meant to be called only when a meter provider has
// been installed by Setup.
func InstrumentPerfStats(ctx context.Context, tel API, interval time.Duration) error {
	gauges, err := newPerfGauges()
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gauges.record(ctx, tel)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
