package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/report"
	"github.com/Sumatoshi-tech/chainlint/pkg/runner"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

// Tool name constants.
const (
	ToolNameCheck      = "chainlint_check"
	ToolNameCheckPaths = "chainlint_check_paths"
	ToolNameRules      = "chainlint_rules"
)

// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
const MaxCodeInputBytes = 1 << 20

const defaultFilename = "snippet.kt"

// Sentinel errors for tool input validation.
var (
	ErrEmptyCode       = errors.New("code parameter is required and must not be empty")
	ErrCodeTooLarge    = errors.New("code input exceeds maximum size")
	ErrNotKotlin       = errors.New("filename must end in .kt or .kts")
	ErrEmptyPaths      = errors.New("paths parameter is required and must not be empty")
	ErrPathNotAbsolute = errors.New("paths must be absolute")
)

// CheckInput is the input schema for the chainlint_check tool.
type CheckInput struct {
	Code     string `json:"code"               jsonschema:"Kotlin source code to lint"`
	Filename string `json:"filename,omitempty" jsonschema:"file name used in findings and for @file suppressions (default: snippet.kt)"`
	Fix      bool   `json:"fix,omitempty"      jsonschema:"apply automatic fixes and return the corrected text"`
}

// CheckPathsInput is the input schema for the chainlint_check_paths tool.
type CheckPathsInput struct {
	Paths []string `json:"paths" jsonschema:"absolute paths of Kotlin files or directories"`
}

// RulesInput is the input schema for the chainlint_rules tool.
type RulesInput struct {
	Query string `json:"query,omitempty" jsonschema:"optional case-insensitive filter on rule id or alias"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// CheckResult is the payload of chainlint_check.
type CheckResult struct {
	Findings  []report.Finding `json:"findings"`
	Remaining []report.Finding `json:"remaining,omitempty"`
	Applied   int              `json:"applied,omitempty"`
	Output    string           `json:"output,omitempty"`
}

// PathError reports a file that could not be checked.
type PathError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// CheckPathsResult is the payload of chainlint_check_paths.
type CheckPathsResult struct {
	Files    int              `json:"files"`
	Findings []report.Finding `json:"findings"`
	Errors   []PathError      `json:"errors,omitempty"`
}

// RuleInfo describes one rule for chainlint_rules.
type RuleInfo struct {
	ID                 string        `json:"id"`
	Aliases            []string      `json:"aliases,omitempty"`
	Severity           lint.Severity `json:"severity"`
	Description        string        `json:"description"`
	AutoCorrect        bool          `json:"autoCorrect"`
	RequiresTypeOracle bool          `json:"requiresTypeOracle,omitempty"`
}

func (s *Server) handleCheck(ctx context.Context, _ *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	filename, err := validateCheckInput(input)
	if err != nil {
		return errorResult(err)
	}

	if !input.Fix {
		res, lintErr := s.deps.Linter.Lint(ctx, filename, []byte(input.Code))
		if lintErr != nil {
			return errorResult(fmt.Errorf("lint %s: %w", filename, lintErr))
		}

		return jsonResult(CheckResult{Findings: report.JSONFindings(res.Findings)})
	}

	res, err := s.deps.Linter.Fix(ctx, filename, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("fix %s: %w", filename, err))
	}

	return jsonResult(CheckResult{
		Findings:  report.JSONFindings(res.Findings),
		Remaining: report.JSONFindings(res.Remaining),
		Applied:   res.Applied,
		Output:    string(res.Output),
	})
}

func (s *Server) handleCheckPaths(ctx context.Context, _ *mcpsdk.CallToolRequest, input CheckPathsInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if len(input.Paths) == 0 {
		return errorResult(ErrEmptyPaths)
	}

	for _, path := range input.Paths {
		if !filepath.IsAbs(path) {
			return errorResult(fmt.Errorf("%w: %s", ErrPathNotAbsolute, path))
		}
	}

	run, err := runner.New(s.deps.Linter, runner.Options{
		MaxFileSize: s.deps.MaxFileSize,
		Exclude:     s.deps.Exclude,
		Logger:      s.deps.Logger,
		Tracer:      s.deps.Tracer,
	})
	if err != nil {
		return errorResult(err)
	}

	rep, err := run.Run(ctx, input.Paths)
	if err != nil {
		return errorResult(err)
	}

	out := CheckPathsResult{
		Files:    len(rep.Files),
		Findings: report.JSONFindings(rep.Findings()),
	}

	for _, failed := range rep.Failed() {
		out.Errors = append(out.Errors, PathError{File: failed.Path, Error: failed.Err.Error()})
	}

	return jsonResult(out)
}

func (s *Server) handleRules(_ context.Context, _ *mcpsdk.CallToolRequest, input RulesInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	query := strings.ToLower(input.Query)
	out := make([]RuleInfo, 0, len(s.deps.Rules))

	for i := range s.deps.Rules {
		rule := &s.deps.Rules[i]

		if query != "" && !slices.ContainsFunc(rule.Names(), func(name string) bool {
			return strings.Contains(strings.ToLower(name), query)
		}) {
			continue
		}

		out = append(out, RuleInfo{
			ID:                 rule.ID,
			Aliases:            rule.Aliases,
			Severity:           rule.Severity,
			Description:        rule.Description,
			AutoCorrect:        rule.AutoCorrectable(),
			RequiresTypeOracle: rule.RequiresTypeOracle,
		})
	}

	return jsonResult(out)
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCheckInput checks code input constraints and returns the file name
// to lint under.
func validateCheckInput(input CheckInput) (string, error) {
	if input.Code == "" {
		return "", ErrEmptyCode
	}

	if len(input.Code) > MaxCodeInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes)
	}

	filename := input.Filename
	if filename == "" {
		return defaultFilename, nil
	}

	if !slices.Contains(kotlin.Extensions, strings.ToLower(filepath.Ext(filename))) {
		return "", fmt.Errorf("%w: %s", ErrNotKotlin, filename)
	}

	return filename, nil
}
