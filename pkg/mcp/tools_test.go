package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/rules"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

const (
	dirtyCode = "fun test() {\n  assertThat(x).isEqualTo(false)\n}\n"
	fixedCode = "fun test() {\n  assertThat(x).isFalse()\n}\n"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	parser, err := kotlin.NewParser()
	require.NoError(t, err)

	walker, err := lint.NewWalker([]lint.Rule{rules.AlwaysUseIsTrueOrIsFalse()}, lint.WalkerConfig{})
	require.NoError(t, err)

	linter, err := lint.NewLinter(parser, walker, 0)
	require.NoError(t, err)

	srv, err := NewServer(ServerDeps{Linter: linter, Rules: rules.All(), Version: "test"})
	require.NoError(t, err)

	return srv
}

func errorText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	require.NotNil(t, result)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestNewServer_RequiresLinter(t *testing.T) {
	t.Parallel()

	_, err := NewServer(ServerDeps{})
	require.ErrorIs(t, err, ErrNilLinter)
}

func TestNewServer_RegistersTools(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	assert.Equal(t, []string{ToolNameCheck, ToolNameCheckPaths, ToolNameRules}, srv.ListToolNames())
}

func TestHandleCheck_Validation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	cases := []struct {
		name  string
		input CheckInput
		want  string
	}{
		{name: "empty code", input: CheckInput{}, want: "code parameter is required"},
		{name: "not kotlin", input: CheckInput{Code: "x", Filename: "main.go"}, want: "must end in .kt"},
		{name: "too large", input: CheckInput{Code: string(make([]byte, MaxCodeInputBytes+1))}, want: "exceeds maximum size"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, _, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, tc.input)
			require.NoError(t, err)
			assert.Contains(t, errorText(t, result), tc.want)
		})
	}
}

func TestHandleCheck_ReportsFindings(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, output, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{Code: dirtyCode})
	require.NoError(t, err)
	require.False(t, result.IsError)

	payload, ok := output.Data.(CheckResult)
	require.True(t, ok)
	require.Len(t, payload.Findings, 1)
	assert.Equal(t, "AlwaysUseIsTrueOrIsFalse", payload.Findings[0].Rule)
	assert.Equal(t, defaultFilename, payload.Findings[0].File)
	assert.Equal(t, 2, payload.Findings[0].Line)
	assert.Empty(t, payload.Output)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"rule": "AlwaysUseIsTrueOrIsFalse"`)
}

func TestHandleCheck_Fix(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, output, err := srv.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{
		Code:     dirtyCode,
		Filename: "Spec.kt",
		Fix:      true,
	})
	require.NoError(t, err)

	payload, ok := output.Data.(CheckResult)
	require.True(t, ok)
	assert.Equal(t, fixedCode, payload.Output)
	assert.Equal(t, 1, payload.Applied)
	assert.Empty(t, payload.Remaining)
	require.Len(t, payload.Findings, 1)
	assert.True(t, payload.Findings[0].Corrected)
}

func TestHandleCheckPaths(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Spec.kt")
	require.NoError(t, os.WriteFile(path, []byte(dirtyCode), 0o600))

	_, output, err := srv.handleCheckPaths(context.Background(), &mcpsdk.CallToolRequest{}, CheckPathsInput{Paths: []string{dir}})
	require.NoError(t, err)

	payload, ok := output.Data.(CheckPathsResult)
	require.True(t, ok)
	assert.Equal(t, 1, payload.Files)
	require.Len(t, payload.Findings, 1)
	assert.Equal(t, path, payload.Findings[0].File)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dirtyCode, string(written))
}

func TestHandleCheckPaths_Validation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleCheckPaths(context.Background(), &mcpsdk.CallToolRequest{}, CheckPathsInput{})
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "paths parameter is required")

	result, _, err = srv.handleCheckPaths(context.Background(), &mcpsdk.CallToolRequest{}, CheckPathsInput{Paths: []string{"relative/dir"}})
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "must be absolute")

	result, _, err = srv.handleCheckPaths(context.Background(), &mcpsdk.CallToolRequest{}, CheckPathsInput{Paths: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Contains(t, errorText(t, result), "no Kotlin sources")
}

func TestHandleRules(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	_, output, err := srv.handleRules(context.Background(), &mcpsdk.CallToolRequest{}, RulesInput{})
	require.NoError(t, err)

	all, ok := output.Data.([]RuleInfo)
	require.True(t, ok)
	assert.Len(t, all, len(rules.All()))

	_, output, err = srv.handleRules(context.Background(), &mcpsdk.CallToolRequest{}, RulesInput{Query: "use_get_or_else"})
	require.NoError(t, err)

	matched, ok := output.Data.([]RuleInfo)
	require.True(t, ok)
	require.Len(t, matched, 1)
	assert.Equal(t, "GetOrDefaultShouldBeReplacedWithGetOrElse", matched[0].ID)
	assert.Equal(t, []string{"USE_GET_OR_ELSE_INSTEAD_OF_GET_OR_DEFAULT"}, matched[0].Aliases)
}
