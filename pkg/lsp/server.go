// Package lsp serves chainlint findings as Language Server Protocol
// diagnostics, with a code action applying the automatic fixes.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/observability"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

const (
	serverName         = "chainlint"
	diagnosticSource   = "chainlint"
	methodPublishDiags = "textDocument/publishDiagnostics"
	fixAllTitle        = "Fix all chainlint findings"
)

// ErrNilLinter is returned by NewServer without a linter.
var ErrNilLinter = errors.New("lsp: nil linter")

// Options configures a Server.
type Options struct {
	Version string
	Logger  *slog.Logger
	Metrics *observability.RequestMetrics

	// Rules feeds hover text. Missing rules fall back to the finding message.
	Rules []lint.Rule
}

// Server publishes diagnostics for open Kotlin documents.
type Server struct {
	store   *DocumentStore
	linter  *lint.Linter
	opts    Options
	logger  *slog.Logger
	docs    map[string]string
	handler protocol.Handler
}

// NewServer creates a Server around linter.
func NewServer(linter *lint.Linter, opts Options) (*Server, error) {
	if linter == nil {
		return nil, ErrNilLinter
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	srv := &Server{
		store:  NewDocumentStore(),
		linter: linter,
		opts:   opts,
		logger: logger,
		docs:   make(map[string]string, len(opts.Rules)),
	}

	for i := range opts.Rules {
		rule := &opts.Rules[i]
		srv.docs[rule.ID] = fmt.Sprintf("**%s** (%s)\n\n%s", rule.ID, rule.Severity, rule.Description)
	}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentHover:      srv.hover,
		TextDocumentCodeAction: srv.codeAction,
	}

	return srv, nil
}

// Run serves LSP on stdio until the client disconnects.
func (srv *Server) Run() error {
	if err := server.NewServer(&srv.handler, serverName, false).RunStdio(); err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	openClose := true
	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save:      true,
	}

	version := srv.opts.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	text, _ := srv.store.Get(uri)

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text

				continue
			}

			start, end := offsetAt(text, c.Range.Start), offsetAt(text, c.Range.End)
			text = text[:start] + c.Text + text[end:]
		case map[string]any:
			if whole, ok := c["text"].(string); ok {
				text = whole
			}
		}
	}

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(methodPublishDiags, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // LSP expects a null hover.
	}

	res, err := srv.lint(context.Background(), params.TextDocument.URI, text, false)
	if err != nil {
		return nil, err
	}

	cursor := offsetAt(text, params.Position)

	var parts []string

	for _, f := range res.Findings {
		if cursor < f.Start || cursor > f.End {
			continue
		}

		doc, found := srv.docs[f.RuleID]
		if !found {
			doc = fmt.Sprintf("**%s**", f.RuleID)
		}

		parts = append(parts, doc+"\n\n"+f.Message)
	}

	if len(parts) == 0 {
		return nil, nil //nolint:nilnil // LSP expects a null hover.
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: strings.Join(parts, "\n\n---\n\n"),
		},
	}, nil
}

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI

	text, ok := srv.store.Get(uri)
	if !ok {
		return nil, nil
	}

	res, err := srv.lint(context.Background(), uri, text, true)
	if err != nil {
		return nil, err
	}

	if !res.Changed() {
		return []protocol.CodeAction{}, nil
	}

	kind := protocol.CodeActionKindQuickFix
	diagnostics := slices.DeleteFunc(slices.Clone(params.Context.Diagnostics), func(d protocol.Diagnostic) bool {
		return d.Source == nil || *d.Source != diagnosticSource
	})

	return []protocol.CodeAction{{
		Title:       fixAllTitle,
		Kind:        &kind,
		Diagnostics: diagnostics,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{
				uri: {{
					Range:   protocol.Range{Start: positionAt(text, 0), End: positionAt(text, len(text))},
					NewText: string(res.Output),
				}},
			},
		},
	}}, nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	diagnostics, err := srv.Diagnostics(context.Background(), uri, text)
	if err != nil {
		srv.logger.Warn("lint failed", "uri", uri, "error", err)

		return
	}

	ctx.Notify(methodPublishDiags, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics lints text and converts the findings. Non-Kotlin documents have
// none.
func (srv *Server) Diagnostics(ctx context.Context, uri, text string) ([]protocol.Diagnostic, error) {
	res, err := srv.lint(ctx, uri, text, false)
	if err != nil {
		return nil, err
	}

	source := diagnosticSource
	out := make([]protocol.Diagnostic, 0, len(res.Findings))

	for _, f := range res.Findings {
		severity := diagnosticSeverity(f.Severity)
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: positionAt(text, f.Start), End: positionAt(text, f.End)},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: f.RuleID},
			Source:   &source,
			Message:  f.Message,
		})
	}

	return out, nil
}

func (srv *Server) lint(ctx context.Context, uri, text string, fix bool) (lint.Result, error) {
	path := pathFromURI(uri)
	if !isKotlin(path) {
		return lint.Result{}, nil
	}

	op := "textDocument/diagnostic"
	if fix {
		op = "textDocument/codeAction"
	}

	done := srv.opts.Metrics.Begin(ctx, op)

	var (
		res lint.Result
		err error
	)

	if fix {
		res, err = srv.linter.Fix(ctx, path, []byte(text))
	} else {
		res, err = srv.linter.Lint(ctx, path, []byte(text))
	}

	done(err)

	for _, ruleErr := range res.Errors {
		srv.logger.Error("rule panicked", "uri", uri, "rule", ruleErr.RuleID, "phase", ruleErr.Phase)
	}

	return res, err
}

func diagnosticSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityDefect:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning, lint.SeverityPerformance:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func pathFromURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uri
	}

	return filepath.FromSlash(parsed.Path)
}

func isKotlin(path string) bool {
	return slices.Contains(kotlin.Extensions, strings.ToLower(filepath.Ext(path)))
}
