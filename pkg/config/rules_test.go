package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/config"
	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
)

func TestParseRules_NoSection(t *testing.T) {
	t.Parallel()

	rules, err := config.ParseRules([]byte("runner:\n  workers: 2\n"))
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestParseRules_AlternativesAsMapping(t *testing.T) {
	t.Parallel()

	rules, err := config.ParseRules([]byte(`
rules:
  PreventBannedImports:
    withAlternatives:
      com.google.inject.Inject: javax.inject.Inject
`))
	require.NoError(t, err)

	assert.Equal(t, config.Alternatives{"com.google.inject.Inject": "javax.inject.Inject"},
		rules["PreventBannedImports"].WithAlternatives)
}

func TestParseRules_RejectsMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"entry without equals": "rules:\n  PreventBannedImports:\n    withAlternatives: [com.foo]\n",
		"scalar alternatives":  "rules:\n  PreventBannedImports:\n    withAlternatives: com.foo=com.bar\n",
		"active not bool":      "rules:\n  PreferIgnoreCase:\n    active: sometimes\n",
		"rule not a mapping":   "rules:\n  PreferIgnoreCase: true\n",
		"broken yaml":          "rules: [\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.ParseRules([]byte(content))
			require.ErrorIs(t, err, config.ErrInvalidRuleSettings)
		})
	}
}

func TestRuleSettings_RuleConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lint.DefaultRuleConfig(), config.RuleSettings{}.RuleConfig())

	off := false
	cfg := config.RuleSettings{Active: &off, WithoutAlternatives: []string{"com.foo"}}.RuleConfig()

	assert.False(t, cfg.Active)
	assert.True(t, cfg.AutoCorrect)
	assert.Equal(t, []string{"com.foo"}, cfg.WithoutAlternatives)
}
