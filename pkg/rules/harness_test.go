package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/oracle"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

const testFile = "Test.kt"

type harnessOption func(*lint.WalkerConfig)

func withOracle(o oracle.Oracle) harnessOption {
	return func(cfg *lint.WalkerConfig) { cfg.Oracle = o }
}

func withConfig(id string, ruleCfg lint.RuleConfig) harnessOption {
	return func(cfg *lint.WalkerConfig) {
		if cfg.Configs == nil {
			cfg.Configs = map[string]lint.RuleConfig{}
		}

		cfg.Configs[id] = ruleCfg
	}
}

func newLinter(t *testing.T, rule lint.Rule, opts ...harnessOption) *lint.Linter {
	t.Helper()

	parser, err := kotlin.NewParser()
	require.NoError(t, err)

	var cfg lint.WalkerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	walker, err := lint.NewWalker([]lint.Rule{rule}, cfg)
	require.NoError(t, err)

	linter, err := lint.NewLinter(parser, walker, 0)
	require.NoError(t, err)

	return linter
}

func check(t *testing.T, rule lint.Rule, src string, opts ...harnessOption) []lint.Finding {
	t.Helper()

	res, err := newLinter(t, rule, opts...).Lint(context.Background(), testFile, []byte(src))
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	return res.Findings
}

func fix(t *testing.T, rule lint.Rule, src string, opts ...harnessOption) lint.Result {
	t.Helper()

	res, err := newLinter(t, rule, opts...).Fix(context.Background(), testFile, []byte(src))
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	return res
}

func staticOracle(t *testing.T, facts string) oracle.Oracle {
	t.Helper()

	parsed, err := oracle.ParseFacts([]byte(facts))
	require.NoError(t, err)

	o, err := oracle.NewStatic(parsed)
	require.NoError(t, err)

	return o
}

// inFunction wraps statements into a function body.
func inFunction(body string) string {
	return "fun test() {\n  " + body + "\n}\n"
}
