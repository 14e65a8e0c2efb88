package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/oracle"
	"github.com/Sumatoshi-tech/chainlint/pkg/rules"
)

const projectFacts = `
types:
  - {name: com.acme.Color, enum: true}
  - {name: com.acme.Bag, supertypes: [kotlin.collections.List]}
bindings:
  - {expr: xs, type: kotlin.collections.List}
  - {expr: names, type: kotlin.collections.Set}
  - {expr: text, type: kotlin.String}
  - {expr: counts, type: kotlin.collections.Map}
symbols:
  - {name: helper, package: com.other, annotations: [VisibleForTesting]}
`

func TestOracleRulesDeclineWithoutOracle(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rule lint.Rule
		src  string
	}{
		{rules.DoNotSplitByRegex(), inFunction(`val parts = "a,b".split(Regex(","))`)},
		{rules.UseEntriesInsteadOfValuesOnEnum(), inFunction("val all = Color.values()")},
		{rules.UseFirstOrNullInsteadOfFind(), inFunction("val y = xs.find { it > 1 }")},
		{rules.DoNotUseSizePropertyInAssert(), inFunction("assertThat(xs.size).isEqualTo(3)")},
		{rules.DoNotAccessVisibleForTesting(), "package com.mine\n\nfun f() {\n  helper()\n}\n"},
	}

	for _, tc := range cases {
		t.Run(tc.rule.ID, func(t *testing.T) {
			t.Parallel()

			assert.Empty(t, check(t, tc.rule, tc.src))
			assert.Empty(t, check(t, tc.rule, tc.src, withOracle(oracle.None{})))
			assert.NotEmpty(t, check(t, tc.rule, tc.src, withOracle(staticOracle(t, projectFacts))))
		})
	}
}

func TestSplitByRegex(t *testing.T) {
	t.Parallel()

	opt := withOracle(staticOracle(t, projectFacts))
	rule := rules.DoNotSplitByRegex()

	assert.Len(t, check(t, rule, inFunction(`val p = text.split(",".toRegex())`), opt), 1)
	assert.Empty(t, check(t, rule, inFunction(`val p = text.split(",")`), opt))
	assert.Empty(t, check(t, rule, inFunction(`val p = unknown.split(Regex(","))`), opt))
}

func TestUseEntriesOnlyForEnums(t *testing.T) {
	t.Parallel()

	opt := withOracle(staticOracle(t, projectFacts))
	rule := rules.UseEntriesInsteadOfValuesOnEnum()

	assert.Len(t, check(t, rule, inFunction("val all = Color.values()"), opt), 1)
	assert.Empty(t, check(t, rule, inFunction("val all = counts.values()"), opt))
	assert.Empty(t, check(t, rule, inFunction("val all = Color.entries"), opt))
}

func TestFindOnStringsAndIterables(t *testing.T) {
	t.Parallel()

	opt := withOracle(staticOracle(t, projectFacts))
	rule := rules.UseFirstOrNullInsteadOfFind()

	assert.Len(t, check(t, rule, inFunction("val c = text.find { it == 'a' }"), opt), 1)
	assert.Len(t, check(t, rule, inFunction("val n = names.find { it.isEmpty() }"), opt), 1)
	assert.Empty(t, check(t, rule, inFunction("val m = counts.find { true }"), opt))
	assert.Empty(t, check(t, rule, inFunction("val r = other.find { true }"), opt))
}

func TestSizePropertyInAssert(t *testing.T) {
	t.Parallel()

	opt := withOracle(staticOracle(t, projectFacts))
	rule := rules.DoNotUseSizePropertyInAssert()

	findings := check(t, rule, inFunction("assertThat(xs.size).isEqualTo(3)"), opt)
	require.Len(t, findings, 1)
	assert.False(t, findings[0].AutoCorrectable)

	assert.Len(t, check(t, rule, inFunction("assertThat(counts.size).isZero()"), opt), 1)
	assert.Len(t, check(t, rule, inFunction("with(xs) {\n    assertThat(size).isEqualTo(2)\n  }"), opt), 1)
	assert.Len(t, check(t, rule, "class Box : Bag() {\n  fun t() {\n    assertThat(size).isEqualTo(2)\n  }\n}\n", opt), 1)

	assert.Empty(t, check(t, rule, inFunction("assertThat(text.size).isEqualTo(3)"), opt))
	assert.Empty(t, check(t, rule, inFunction("assertThat(xs.size).isEqualTo(n)"), opt))
	assert.Empty(t, check(t, rule, inFunction("assertThat(xs.size).isGreaterThan(3)"), opt))
}

func TestVisibleForTestingAcrossPackages(t *testing.T) {
	t.Parallel()

	opt := withOracle(staticOracle(t, projectFacts))
	rule := rules.DoNotAccessVisibleForTesting()

	assert.Len(t, check(t, rule, "package com.mine\n\nfun f() {\n  helper()\n}\n", opt), 1)
	assert.Empty(t, check(t, rule, "package com.other\n\nfun f() {\n  helper()\n}\n", opt))
	assert.Empty(t, check(t, rule, "package com.mine\n\nimport com.other.helper\n\nfun f() {\n  other()\n}\n", opt))
}
