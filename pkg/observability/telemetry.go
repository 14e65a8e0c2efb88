package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	instrumentationName = "github.com/Sumatoshi-tech/chainlint"

	envSampler    = "OTEL_TRACES_SAMPLER"
	envSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// Providers is what Init hands to the rest of the binary.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// MetricsHandler serves Prometheus text format. Nil unless Config.Prometheus.
	MetricsHandler http.Handler

	// Shutdown flushes exporters within the configured timeout. Later calls
	// return the first call's result.
	Shutdown func(ctx context.Context) error
}

// Init installs global tracer and meter providers for cfg and builds the
// process logger. With no collector endpoint and no Prometheus both providers
// are no-ops, so a plain CLI run pays nothing for telemetry.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return Providers{}, err
	}

	var stack flushStack

	col := collector{endpoint: cfg.OTLPEndpoint, insecure: cfg.OTLPInsecure, headers: cfg.OTLPHeaders}

	tracerProvider, err := newTracerProvider(ctx, cfg, col, res, &stack)
	if err != nil {
		return Providers{}, err
	}

	meterProvider, handler, err := newMeterProvider(ctx, cfg, col, res, &stack)
	if err != nil {
		return Providers{}, errors.Join(err, stack.flush(ctx))
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return Providers{
		Tracer:         tracerProvider.Tracer(instrumentationName),
		Meter:          meterProvider.Meter(instrumentationName),
		Logger:         NewLogger(os.Stderr, cfg),
		MetricsHandler: handler,
		Shutdown:       stack.shutdownFunc(shutdownTimeout(cfg)),
	}, nil
}

func shutdownTimeout(cfg Config) time.Duration {
	if cfg.ShutdownTimeoutSec > 0 {
		return time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	}

	return defaultShutdownTimeoutSec * time.Second
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(service)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	return res, nil
}

// collector is the OTLP gRPC endpoint shared by the trace and metric exporters.
type collector struct {
	endpoint string
	insecure bool
	headers  map[string]string
}

func (c collector) enabled() bool { return c.endpoint != "" }

func (c collector) spanExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(c.headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(c.headers))
	}

	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp span exporter: %w", err)
	}

	return exp, nil
}

func (c collector) metricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	if len(c.headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(c.headers))
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp metric exporter: %w", err)
	}

	return exp, nil
}

func newTracerProvider(
	ctx context.Context, cfg Config, col collector, res *resource.Resource, stack *flushStack,
) (trace.TracerProvider, error) {
	if !col.enabled() {
		return nooptrace.NewTracerProvider(), nil
	}

	exp, err := col.spanExporter(ctx)
	if err != nil {
		return nil, err
	}

	// Redacted keys are only logged under DebugTrace.
	var redactLog *slog.Logger
	if cfg.DebugTrace {
		redactLog = NewLogger(os.Stderr, Config{ServiceName: cfg.ServiceName, Mode: cfg.Mode, LogLevel: slog.LevelWarn})
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(chooseSampler(cfg)),
		sdktrace.WithSpanProcessor(NewRedactingProcessor(sdktrace.NewBatchSpanProcessor(exp), redactLog)),
	)
	stack.push(provider.Shutdown)

	return provider, nil
}

func newMeterProvider(
	ctx context.Context, cfg Config, col collector, res *resource.Resource, stack *flushStack,
) (metric.MeterProvider, http.Handler, error) {
	if !col.enabled() && !cfg.Prometheus {
		return noopmetric.NewMeterProvider(), nil, nil
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	var handler http.Handler

	if cfg.Prometheus {
		reader, h, err := newPrometheusReader()
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, sdkmetric.WithReader(reader))
		handler = h
	}

	if col.enabled() {
		exp, err := col.metricExporter(ctx)
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)))
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	stack.push(provider.Shutdown)

	return provider, handler, nil
}

// envSamplers maps OTEL_TRACES_SAMPLER values to samplers; ratio comes from
// OTEL_TRACES_SAMPLER_ARG.
var envSamplers = map[string]func(ratio float64) sdktrace.Sampler{
	"always_on":  func(float64) sdktrace.Sampler { return sdktrace.AlwaysSample() },
	"always_off": func(float64) sdktrace.Sampler { return sdktrace.NeverSample() },
	"traceidratio": func(ratio float64) sdktrace.Sampler {
		return sdktrace.TraceIDRatioBased(ratio)
	},
	"parentbased_always_on": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	},
	"parentbased_always_off": func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.NeverSample())
	},
	"parentbased_traceidratio": func(ratio float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	},
}

// chooseSampler applies, in order: DebugTrace, the OTEL_TRACES_SAMPLER
// environment, Config.SampleRatio, then parent-based always-on.
func chooseSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace {
		return sdktrace.AlwaysSample()
	}

	if build, ok := envSamplers[strings.ToLower(os.Getenv(envSampler))]; ok {
		return build(samplerRatio(os.Getenv(envSamplerArg)))
	}

	if cfg.SampleRatio > 0 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	return sdktrace.ParentBased(sdktrace.AlwaysSample())
}

// samplerRatio reads OTEL_TRACES_SAMPLER_ARG, falling back to 1.
func samplerRatio(raw string) float64 {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 1
	}

	return ratio
}

// ParseOTLPHeaders reads the OTEL_EXPORTER_OTLP_HEADERS form "k1=v1,k2=v2".
// Entries without '=' or with an empty key are ignored; nil means none.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for _, entry := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			continue
		}

		if headers == nil {
			headers = map[string]string{}
		}

		headers[key] = strings.TrimSpace(value)
	}

	return headers
}

// flushStack shuts providers down in reverse creation order, once.
type flushStack struct {
	funcs []func(context.Context) error

	once sync.Once
	err  error
}

func (s *flushStack) push(fn func(context.Context) error) {
	s.funcs = append(s.funcs, fn)
}

func (s *flushStack) flush(ctx context.Context) error {
	s.once.Do(func() {
		var errs []error

		for i := len(s.funcs) - 1; i >= 0; i-- {
			errs = append(errs, s.funcs[i](ctx))
		}

		s.err = errors.Join(errs...)
	})

	return s.err
}

func (s *flushStack) shutdownFunc(timeout time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return s.flush(ctx)
	}
}
