package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequests        = "chainlint.requests.total"
	metricRequestDuration = "chainlint.request.duration.seconds"
	metricRequestErrors   = "chainlint.request.errors.total"
	metricInflight        = "chainlint.requests.inflight"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a request that returned without error.
	StatusOK = "ok"
	// StatusError marks a failed request.
	StatusError = "error"
)

// durationBucketBoundaries spans one small file (about a millisecond) up to a
// large workspace check.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// RequestMetrics counts editor and agent requests served by the LSP and MCP
// front ends.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	failures metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewRequestMetrics creates the request instruments from mt.
func NewRequestMetrics(mt metric.Meter) (*RequestMetrics, error) {
	b := &builder{meter: mt}

	rm := &RequestMetrics{
		requests: b.counter(metricRequests, "Requests served", "{request}"),
		duration: b.histogram(metricRequestDuration, "Time spent serving one request", "s"),
		failures: b.counter(metricRequestErrors, "Requests that ended in an error", "{request}"),
		inflight: b.gauge(metricInflight, "Requests currently being served", "{request}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// Begin marks op as in flight. The returned func ends it and records the
// outcome; a non-nil error counts as a failure. A nil receiver records nothing.
func (rm *RequestMetrics) Begin(ctx context.Context, op string) func(err error) {
	if rm == nil {
		return func(error) {}
	}

	opAttr := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflight.Add(ctx, 1, opAttr)

	start := time.Now()

	return func(err error) {
		rm.inflight.Add(ctx, -1, opAttr)
		rm.Record(ctx, op, err, time.Since(start))
	}
}

// Record adds one finished request.
func (rm *RequestMetrics) Record(ctx context.Context, op string, err error, took time.Duration) {
	if rm == nil {
		return
	}

	status := StatusOK
	if err != nil {
		status = StatusError

		rm.failures.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op), attribute.String(attrStatus, status))
	rm.requests.Add(ctx, 1, attrs)
	rm.duration.Record(ctx, took.Seconds(), attrs)
}
