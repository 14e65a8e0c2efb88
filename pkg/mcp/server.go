// Package mcp serves chainlint to agents over the Model Context Protocol.
// Three tools are exposed: inline checks with optional fixing, read-only
// checks of files on disk, and the rule catalogue.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
)

const implementationName = "chainlint"

var (
	// ErrNilLinter is returned by NewServer without a linter.
	ErrNilLinter = errors.New("mcp: nil linter")

	errToolFailed = errors.New("tool reported an error")
)

// ServerDeps wires a Server. Only Linter is required.
type ServerDeps struct {
	Linter *lint.Linter

	// Rules is the catalogue listed by chainlint_rules.
	Rules []lint.Rule

	Version string

	// MaxFileSize and Exclude apply to chainlint_check_paths.
	MaxFileSize int64
	Exclude     []string

	Logger  *slog.Logger
	Metrics *observability.RequestMetrics
	Tracer  trace.Tracer
}

// Server is an MCP server with the chainlint tools registered.
type Server struct {
	sdk   *mcpsdk.Server
	deps  ServerDeps
	tools []string
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(deps ServerDeps) (*Server, error) {
	if deps.Linter == nil {
		return nil, ErrNilLinter
	}

	impl := &mcpsdk.Implementation{Name: implementationName, Version: deps.Version}
	if impl.Version == "" {
		impl.Version = "dev"
	}

	srv := &Server{
		sdk:  mcpsdk.NewServer(impl, &mcpsdk.ServerOptions{Logger: deps.Logger}),
		deps: deps,
	}

	addTool(srv, ToolNameCheck, checkToolDescription, srv.handleCheck)
	addTool(srv, ToolNameCheckPaths, checkPathsToolDescription, srv.handleCheckPaths)
	addTool(srv, ToolNameRules, rulesToolDescription, srv.handleRules)

	return srv, nil
}

// ListToolNames returns the registered tool names in registration order.
func (s *Server) ListToolNames() []string {
	return slices.Clone(s.tools)
}

// Run serves over stdin and stdout until ctx ends or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &mcpsdk.StdioTransport{})
}

// Serve serves over transport.
func (s *Server) Serve(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.sdk.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp: serve: %w", err)
	}

	return nil
}

type toolHandler[In any] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[In any](s *Server, name, description string, handler toolHandler[In]) {
	wrapped := mcpsdk.ToolHandlerFor[In, ToolOutput](instrument(s, name, handler))
	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{Name: name, Description: description}, wrapped)
	s.tools = append(s.tools, name)
}

// instrument wraps handler in a server span and a request metric named
// "mcp.<tool>". A sampled call gets its trace ID appended to the result so it
// can be looked up later.
func instrument[In any](s *Server, name string, handler toolHandler[In]) toolHandler[In] {
	op := "mcp." + name
	tracer := s.deps.Tracer
	metrics := s.deps.Metrics

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		done := metrics.Begin(ctx, op)

		var span trace.Span
		if tracer != nil {
			ctx, span = tracer.Start(ctx, op,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("mcp.tool", name)),
			)
		}

		result, out, err := handler(ctx, req, in)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = errToolFailed
		}

		done(failure)

		if span != nil {
			if failure != nil {
				span.SetStatus(codes.Error, failure.Error())
			}

			if sc := span.SpanContext(); sc.IsSampled() && result != nil {
				result.Content = append(result.Content, &mcpsdk.TextContent{Text: "trace_id=" + sc.TraceID().String()})
			}

			span.End()
		}

		return result, out, err
	}
}

const (
	checkToolDescription = "Lint Kotlin source for call-chain rule violations. " +
		"Accepts inline code and an optional file name; with fix set, returns the corrected text."

	checkPathsToolDescription = "Lint Kotlin files and directories on disk without modifying them. " +
		"Accepts absolute paths."

	rulesToolDescription = "List the available chainlint rules with their severity, aliases " +
		"and whether they can fix findings automatically."
)
