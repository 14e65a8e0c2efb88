package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
)

// manualMeter returns a meter whose instruments are read back with collect.
func manualMeter(t *testing.T) (metric.Meter, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider.Meter("test"), reader
}

// collect indexes every recorded metric by name.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := map[string]metricdata.Metrics{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			byName[m.Name] = m
		}
	}

	return byName
}

func TestRequestMetricsBegin(t *testing.T) {
	t.Parallel()

	meter, reader := manualMeter(t)

	reqs, err := observability.NewRequestMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()

	reqs.Begin(ctx, "textDocument/diagnostic")(nil)
	reqs.Begin(ctx, "mcp.chainlint_check")(errors.New("bad input"))

	got := collect(t, reader)

	require.Contains(t, got, "chainlint.requests.total")
	assert.Equal(t, int64(2), sumOf(t, got["chainlint.requests.total"]))

	require.Contains(t, got, "chainlint.request.errors.total")
	assert.Equal(t, int64(1), sumOf(t, got["chainlint.request.errors.total"]))

	require.Contains(t, got, "chainlint.requests.inflight")
	assert.Equal(t, int64(0), sumOf(t, got["chainlint.requests.inflight"]))

	hist, ok := got["chainlint.request.duration.seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)
}

func TestRequestMetricsInflightWhileOpen(t *testing.T) {
	t.Parallel()

	meter, reader := manualMeter(t)

	reqs, err := observability.NewRequestMetrics(meter)
	require.NoError(t, err)

	done := reqs.Begin(context.Background(), "textDocument/codeAction")

	assert.Equal(t, int64(1), sumOf(t, collect(t, reader)["chainlint.requests.inflight"]))

	done(nil)

	assert.Equal(t, int64(0), sumOf(t, collect(t, reader)["chainlint.requests.inflight"]))
}

func TestRequestMetricsRecordStatus(t *testing.T) {
	t.Parallel()

	meter, reader := manualMeter(t)

	reqs, err := observability.NewRequestMetrics(meter)
	require.NoError(t, err)

	reqs.Record(context.Background(), "mcp.chainlint_rules", nil, 40*time.Second)

	sum, ok := collect(t, reader)["chainlint.requests.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	status, found := sum.DataPoints[0].Attributes.Value("status")
	require.True(t, found)
	assert.Equal(t, observability.StatusOK, status.AsString())

	hist, ok := collect(t, reader)["chainlint.request.duration.seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Contains(t, hist.DataPoints[0].Bounds, 60.0)
}

func TestRequestMetricsNilReceiver(t *testing.T) {
	t.Parallel()

	var reqs *observability.RequestMetrics

	assert.NotPanics(t, func() {
		reqs.Begin(context.Background(), "initialize")(errors.New("ignored"))
		reqs.Record(context.Background(), "initialize", nil, time.Millisecond)
	})
}
