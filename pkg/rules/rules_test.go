package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/lint"
	"github.com/Sumatoshi-tech/chainlint/pkg/rules"
)

func TestScenarioIsEqualToTrue(t *testing.T) {
	t.Parallel()

	res := fix(t, rules.AlwaysUseIsTrueOrIsFalse(), inFunction("assertThat(x).isEqualTo(true)"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, inFunction("assertThat(x).isTrue()"), string(res.Output))
}

func TestScenarioHasSizeZero(t *testing.T) {
	t.Parallel()

	res := fix(t, rules.DoNotUseHasSizeForEmptyListInAssert(), inFunction("assertThat(list).hasSize(0)"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, inFunction("assertThat(list).isEmpty()"), string(res.Output))
}

func TestScenarioFilterSingle(t *testing.T) {
	t.Parallel()

	res := fix(t, rules.DoNotUseSingleOnFilter(), inFunction("items.filter { it.type == X }.single()"))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, inFunction("items.single { it.type == X }"), string(res.Output))
}

func TestScenarioGetOrDefault(t *testing.T) {
	t.Parallel()

	src := inFunction("val v = map.getOrDefault(key, default)")
	res := fix(t, rules.GetOrDefaultShouldBeReplacedWithGetOrElse(), src)

	require.Len(t, res.Findings, 1)
	assert.Contains(t, res.Findings[0].Message, "getOrElse")
	assert.False(t, res.Findings[0].AutoCorrectable)
	assert.Equal(t, src, string(res.Output))
}

func TestScenarioDuplicateMapKeys(t *testing.T) {
	t.Parallel()

	src := inFunction(`val m = mapOf("k" to 1, "k" to 2)`)
	findings := check(t, rules.NoDuplicateKeysInMapOf(), src)

	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, `"k"`)
	assert.Equal(t, `"k" to 2`, src[findings[0].Start:findings[0].End])

	assert.Empty(t, check(t, rules.NoDuplicateKeysInMapOf(), inFunction("val m = mapOf(computeKey() to 1, computeKey() to 2)")))
	assert.Empty(t, check(t, rules.NoDuplicateKeysInMapOf(), inFunction(`val m = mapOf("a" to 1, "b" to 2)`)))
}

func TestScenarioUnusedLet(t *testing.T) {
	t.Parallel()

	findings := check(t, rules.ReturnValueOfLetMustBeUsed(), inFunction("x?.let { updateState(it) }"))
	require.Len(t, findings, 1)

	assert.Empty(t, check(t, rules.ReturnValueOfLetMustBeUsed(), inFunction("val y = x?.let { updateState(it) }")))
}

func TestReturnValueOfLetUsedPositions(t *testing.T) {
	t.Parallel()

	used := []string{
		"fun f() = x?.let { it + 1 }\n",
		inFunction("return x?.let { it + 1 }"),
		inFunction("val s = x?.let { it + 1 } ?: 0"),
		inFunction("y = x?.let { it + 1 }"),
		inFunction("call(x?.let { it + 1 })"),
		inFunction(`println("${x?.let { it + 1 }}")`),
		inFunction("x?.let { it + 1 }?.also { print(it) }"),
		"fun f(y: Int? = x?.let { it + 1 }) {}\n",
	}

	for _, src := range used {
		assert.Empty(t, check(t, rules.ReturnValueOfLetMustBeUsed(), src), src)
	}
}

func TestCompanionObjectNames(t *testing.T) {
	t.Parallel()

	assert.Len(t, check(t, rules.DoNotNameCompanionObject(), "class A {\n  companion object Factory\n}\n"), 1)
	assert.Empty(t, check(t, rules.DoNotNameCompanionObject(), "class A {\n  companion object {}\n}\n"))
}

func TestDirectReceiverInsideWith(t *testing.T) {
	t.Parallel()

	rule := rules.DoNotUseDirectReceiverReferenceInsideWith()

	findings := check(t, rule, inFunction(`with(foo) { assertThat(foo).isEqualTo("Bar") }`))
	require.Len(t, findings, 1)
	assert.Equal(t, "DoNotUseDirectReceiverReferenceInsideWith", findings[0].RuleID)

	clean := []string{
		inFunction(`with(foo) { assertThat(food).isEqualTo("Bar") }`),
		inFunction(`with(foo) { assertThat(food.foo).isEqualTo("Bar") }`),
		inFunction(`with(foo) { bar(foo = 1) }`),
		inFunction(`actionScoper.with(foo) { bar(foo) }`),
		inFunction(`bar(foo)`),
	}

	for _, src := range clean {
		assert.Empty(t, check(t, rule, src), src)
	}
}

func TestDirectReceiverNestedWith(t *testing.T) {
	t.Parallel()

	src := inFunction("with(outer) {\n    with(inner) {\n      use(outer)\n      use(inner)\n    }\n  }")
	findings := check(t, rules.DoNotUseDirectReceiverReferenceInsideWith(), src)

	assert.Len(t, findings, 2)
}

func TestIsOneAndIsZeroAssertions(t *testing.T) {
	t.Parallel()

	assert.Len(t, check(t, rules.DoNotUseIsOneAssertions(), inFunction("assertThat(x).isOne()")), 1)
	assert.Len(t, check(t, rules.DoNotUseIsZeroAssertions(), inFunction("assertThat(x).isZero()")), 1)
	assert.Empty(t, check(t, rules.DoNotUseIsZeroAssertions(), inFunction("assertThat(x).isOne()")))

	assert.Empty(t, check(t, rules.DoNotUseIsOneAssertions(), inFunction("val b = amount.isOne()")))
	assert.Empty(t, check(t, rules.DoNotUseIsZeroAssertions(), inFunction("val b = amount.isZero()")))
}

func TestIsEqualToLiteralSkipsSize(t *testing.T) {
	t.Parallel()

	assert.Empty(t, check(t, rules.DoNotUseIsEqualToWhenArgumentIsZero(), inFunction("assertThat(xs.size).isEqualTo(0)")))
	assert.Empty(t, check(t, rules.DoNotUseIsEqualToWhenArgumentIsOne(), inFunction("assertThat(x).isEqualTo(01)")))
}

func TestExtensionFunctionOnNullableReceiver(t *testing.T) {
	t.Parallel()

	rule := rules.NoExtensionFunctionOnNullableReceiver()

	assert.Len(t, check(t, rule, "fun String?.orBlank(): String? = this\n"), 1)
	assert.Empty(t, check(t, rule, "fun String?.orBlank(): String = this ?: \"\"\n"))
	assert.Empty(t, check(t, rule, "fun String.twice(): String? = this\n"))
}

func TestFunctionReferenceToJavaClass(t *testing.T) {
	t.Parallel()

	rule := rules.NoFunctionReferenceToJavaClass()

	assert.Len(t, check(t, rule, inFunction("val c = Foo::javaClass")), 1)
	assert.Empty(t, check(t, rule, inFunction("val c = Foo::class.java")))
}

func TestNonPrivateGlobalVariablesExemptions(t *testing.T) {
	t.Parallel()

	rule := rules.NoNonPrivateGlobalVariables()

	assert.Empty(t, check(t, rule, "private val x = 1\n"))
	assert.Empty(t, check(t, rule, "val Int.twice: Int\n  get() = this * 2\n"))
	assert.Empty(t, check(t, rule, "class A {\n  val x = 1\n}\n"))
}

func TestNullableLambdaWithDefaultNull(t *testing.T) {
	t.Parallel()

	rule := rules.NoNullableLambdaWithDefaultNull()

	assert.Len(t, check(t, rule, "fun f(cb: ((String) -> Unit)? = null) {}\n"), 1)
	assert.Empty(t, check(t, rule, "fun f(cb: () -> Unit = {}) {}\n"))
	assert.Empty(t, check(t, rule, "fun f(cb: (() -> Int)? = null) {}\n"))
}

func TestPairWithAmbiguousTypes(t *testing.T) {
	t.Parallel()

	rule := rules.NoPairWithAmbiguousTypes()

	findings := check(t, rule, "fun f(p: Pair<String, String>) {}\n")
	require.Len(t, findings, 1)
	assert.Equal(t, "The function f has parameter p which should be a class instead", findings[0].Message)

	findings = check(t, rule, "fun g(): Pair<Any, Int> = TODO()\n")
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "return type")

	assert.Empty(t, check(t, rule, "fun h(p: Pair<String, Int>) {}\n"))
	assert.Empty(t, check(t, rule, "fun h(p: Pair<List<String>, List<Int>>) {}\n"))
}

func TestWithReceiverShouldHaveMultipleActions(t *testing.T) {
	t.Parallel()

	rule := rules.WithReceiverShouldHaveMultipleActions()

	assert.Len(t, check(t, rule, inFunction("with(x) {\n    a()\n  }")), 1)
	assert.Empty(t, check(t, rule, inFunction("with(x) {\n    a()\n    b()\n  }")))
}

func TestPreventBannedImports(t *testing.T) {
	t.Parallel()

	cfg := lint.DefaultRuleConfig()
	cfg.WithAlternatives = map[string]string{"com.google.inject.Singleton": "javax.inject.Singleton"}
	cfg.WithoutAlternatives = []string{"com.faire.madeUp.ForTesting"}

	opt := withConfig("PreventBannedImports", cfg)
	rule := rules.PreventBannedImports()

	findings := check(t, rule, "import com.faire.madeUp.ForTesting\n", opt)
	require.Len(t, findings, 1)
	assert.False(t, findings[0].AutoCorrectable)

	assert.Empty(t, check(t, rule, "import com.faire.madeUp.ForTesting2\n", opt))
	assert.Empty(t, check(t, rule, "import com.faire.madeUp\n", opt))
	assert.Empty(t, check(t, rule, "import com.faire.madeUp.Other\n", opt))
}

func TestPreventBannedImportsRejectsEmptyConfig(t *testing.T) {
	t.Parallel()

	parserFree := lint.DefaultRuleConfig()
	parserFree.WithAlternatives = map[string]string{"com.foo": ""}

	_, err := lint.NewWalker([]lint.Rule{rules.PreventBannedImports()}, lint.WalkerConfig{
		Configs: map[string]lint.RuleConfig{"PreventBannedImports": parserFree},
	})

	require.ErrorIs(t, err, rules.ErrInvalidRuleConfig)
}

func TestSuppressedByAnnotation(t *testing.T) {
	t.Parallel()

	src := "@Suppress(\"UseOfCollectionInsteadOfEmptyCollection\")\nfun test() {\n  val a = emptyList<String>()\n}\n"

	assert.Empty(t, check(t, rules.UseOfCollectionInsteadOfEmptyCollection(), src))
}

func TestLiteralSets(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"1", "1L", "1.0", "1.0f", "1f", "1.0F", "0x1", "0b1", " 1 "} {
		assert.True(t, rules.IsOneLiteral(text), text)
	}

	for _, text := range []string{"0", "0L", "0.0", "0.0f", "0f", "0.0F", "0x0", "0b0"} {
		assert.True(t, rules.IsZeroLiteral(text), text)
	}

	for _, text := range []string{"01", "1+0", "1_0", "+1", "10", "one", ""} {
		assert.False(t, rules.IsOneLiteral(text), text)
	}

	for _, text := range []string{"00", "0+0", "-0", "0.00", "10"} {
		assert.False(t, rules.IsZeroLiteral(text), text)
	}
}
