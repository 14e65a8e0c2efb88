package observability

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedNamespaces are the first dotted segments of span attribute keys
// that may leave the process. A bare key such as "error" is its own namespace.
var exportedNamespaces = []string{
	"chainlint",
	"error",
	"file",
	"fix",
	"lint",
	"lsp",
	"mcp",
	"rule",
	"runner",
}

// redactedKeys carry source text and are dropped even inside an exported
// namespace.
var redactedKeys = []string{
	"file.content",
	"fix.output",
	"mcp.code",
}

// Exportable reports whether a span attribute key survives redaction.
func Exportable(key string) bool {
	if slices.Contains(redactedKeys, key) {
		return false
	}

	namespace, _, _ := strings.Cut(key, ".")

	return slices.Contains(exportedNamespaces, namespace)
}

// redactingProcessor removes non-exportable attributes from ended spans before
// handing them to the wrapped processor.
type redactingProcessor struct {
	sdktrace.SpanProcessor

	logger *slog.Logger
}

// NewRedactingProcessor wraps next so exporters only see Exportable
// attributes. Each dropped key is logged on logger when it is non-nil.
func NewRedactingProcessor(next sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &redactingProcessor{SpanProcessor: next, logger: logger}
}

func (p *redactingProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	attrs := span.Attributes()

	kept := slices.DeleteFunc(slices.Clone(attrs), func(kv attribute.KeyValue) bool {
		if Exportable(string(kv.Key)) {
			return false
		}

		if p.logger != nil {
			p.logger.LogAttrs(context.Background(), slog.LevelWarn, "span attribute redacted",
				slog.String("span", span.Name()), slog.String("key", string(kv.Key)))
		}

		return true
	})

	if len(kept) == len(attrs) {
		p.SpanProcessor.OnEnd(span)

		return
	}

	p.SpanProcessor.OnEnd(redactedSpan{ReadOnlySpan: span, attrs: kept})
}

type redactedSpan struct {
	sdktrace.ReadOnlySpan

	attrs []attribute.KeyValue
}

func (s redactedSpan) Attributes() []attribute.KeyValue { return s.attrs }
