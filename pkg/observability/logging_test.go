package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
)

func jsonLogger(buf *bytes.Buffer, mode observability.AppMode) *slog.Logger {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelDebug

	return observability.NewLogger(buf, cfg)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func sampledContext(t *testing.T) context.Context {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	return trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
}

func TestLoggerAddsSpanIdentifiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	jsonLogger(&buf, observability.ModeLSP).InfoContext(sampledContext(t), "published diagnostics", "uri", "file:///A.kt")

	record := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", record[observability.LogKeyTraceID])
	assert.Equal(t, "00f067aa0ba902b7", record[observability.LogKeySpanID])
	assert.Equal(t, "chainlint", record[observability.LogKeyService])
	assert.Equal(t, "lsp", record[observability.LogKeyMode])
	assert.NotContains(t, record, observability.LogKeyEnv)
}

func TestLoggerWithoutSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	jsonLogger(&buf, observability.ModeCLI).Info("checked", "files", 3)

	record := decode(t, &buf)
	assert.NotContains(t, record, observability.LogKeyTraceID)
	assert.NotContains(t, record, observability.LogKeySpanID)
	assert.InDelta(t, 3, record["files"], 0)
}

func TestLoggerKeepsIdentityOutsideGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	jsonLogger(&buf, observability.ModeMCP).WithGroup("tool").With("name", "chainlint_check").
		InfoContext(sampledContext(t), "called")

	record := decode(t, &buf)
	assert.Equal(t, "mcp", record[observability.LogKeyMode])

	group, ok := record["tool"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chainlint_check", group["name"])
	assert.Equal(t, "00f067aa0ba902b7", group[observability.LogKeySpanID])
}

func TestLoggerTextAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.Environment = "ci"
	cfg.ServiceVersion = "1.2.3"
	cfg.LogLevel = slog.LevelWarn

	logger := observability.NewLogger(&buf, cfg)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
	assert.Contains(t, buf.String(), "env=ci")
	assert.Contains(t, buf.String(), "version=1.2.3")
}
