package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Log keys added to every record.
const (
	LogKeyTraceID = "trace_id"
	LogKeySpanID  = "span_id"
	LogKeyService = "service"
	LogKeyVersion = "version"
	LogKeyMode    = "mode"
	LogKeyEnv     = "env"
)

// NewLogger builds the logger described by cfg. Records go to w as JSON or
// text, carry the service identity, and name the active span when there is one.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var base slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogJSON {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(spanHandler{Handler: base.WithAttrs(identity(cfg))})
}

func identity(cfg Config) []slog.Attr {
	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	attrs := []slog.Attr{slog.String(LogKeyService, service)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, slog.String(LogKeyVersion, cfg.ServiceVersion))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, slog.String(LogKeyMode, string(cfg.Mode)))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, slog.String(LogKeyEnv, cfg.Environment))
	}

	return attrs
}

// spanHandler adds the trace and span IDs found in the record's context.
type spanHandler struct {
	slog.Handler
}

func (h spanHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(LogKeyTraceID, sc.TraceID().String()),
			slog.String(LogKeySpanID, sc.SpanID().String()),
		)
	}

	return h.Handler.Handle(ctx, record) //nolint:wrapcheck // handler errors pass through untouched.
}

func (h spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h spanHandler) WithGroup(name string) slog.Handler {
	return spanHandler{Handler: h.Handler.WithGroup(name)}
}
