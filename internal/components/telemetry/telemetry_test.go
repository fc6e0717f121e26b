package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	mem := &MemoryAPI{}
	scoped := NewScopedAPI("epos_client", mem)

	scoped.ReportBroken("client.fetch", "boom")
	scoped.ReportCount("cache.hits", 3)

	broken := mem.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "epos_client: client.fetch", broken[0].Id)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	require.Len(t, mem.Broken("client.fetch"), 1)
	require.Len(t, mem.Broken("scraper.card-details"), 0)

	n, ok := mem.LastCount("cache.hits")
	require.True(t, ok)
	require.Equal(t, int64(3), n)
}

func TestNewLoggerWritesConsoleAndFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "ration_details.log")
	console := &bytes.Buffer{}

	logger, closer, err := NewLogger(LogOptions{
		Console: console,
		File:    logFile,
	})
	require.NoError(t, err)

	tel := NewSlogAPI(logger)
	tel.ReportInfo("sales data", 12)
	tel.ReportDebug("hidden from console")
	require.NoError(t, closer.Close())

	require.Contains(t, console.String(), "sales data")
	require.NotContains(t, console.String(), "hidden from console")

	contents, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(contents), "sales data"))
	require.True(t, strings.Contains(string(contents), "hidden from console"))
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", OtlpConfig{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestPerfStatsRecord(t *testing.T) {
	gauges, err := newPerfGauges()
	require.NoError(t, err)

	mem := &MemoryAPI{}
	gauges.record(context.Background(), mem)
	require.Empty(t, mem.Reports(KindBroken))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, InstrumentPerfStats(ctx, mem, 0))
	cancel()
}
