package observability

import (
	"context"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func NewResource(cfg Config) (*resource.Resource, error) {
	return newResource(context.Background(), cfg)
}

// SamplesRoot reports whether the sampler chosen for cfg records a span
// without a parent.
func SamplesRoot(cfg Config) bool {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter), sdktrace.WithSampler(chooseSampler(cfg)))

	_, span := provider.Tracer("sampler").Start(context.Background(), "root")
	span.End()

	recorded := len(exporter.GetSpans()) > 0
	_ = provider.Shutdown(context.Background())

	return recorded
}
