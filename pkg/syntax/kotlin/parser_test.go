package kotlin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
	"github.com/Sumatoshi-tech/chainlint/pkg/syntax/kotlin"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()

	parser, err := kotlin.NewParser()
	require.NoError(t, err)

	tree, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return tree
}

func findKind(tree *syntax.Tree, kind syntax.NodeKind) []syntax.NodeID {
	return tree.Find(tree.Root(), func(id syntax.NodeID) bool { return tree.Kind(id) == kind })
}

func findText(t *testing.T, tree *syntax.Tree, kind syntax.NodeKind, text string) syntax.NodeID {
	t.Helper()

	for _, id := range findKind(tree, kind) {
		if tree.Text(id) == text {
			return id
		}
	}

	require.Failf(t, "node not found", "%s %q", kind, text)

	return syntax.NoNode
}

func TestParseQualifiedCallChain(t *testing.T) {
	t.Parallel()

	tree := parse(t, "fun f() {\n  assertThat(foo).isEqualTo(true)\n}\n")

	outer := findText(t, tree, syntax.KindDotQualified, "assertThat(foo).isEqualTo(true)")
	require.Len(t, tree.Children(outer), 2)

	receiver, selector := tree.Child(outer, 0), tree.Child(outer, 1)

	assert.Equal(t, ".", tree.Op(outer))
	assert.Equal(t, syntax.KindCall, tree.Kind(receiver))
	assert.Equal(t, "assertThat(foo)", tree.Text(receiver))
	assert.Equal(t, syntax.FieldReceiver, tree.Field(receiver))
	assert.Equal(t, syntax.KindCall, tree.Kind(selector))
	assert.Equal(t, "isEqualTo(true)", tree.Text(selector))
	assert.Equal(t, syntax.FieldSelector, tree.Field(selector))

	callee := tree.Child(selector, 0)
	assert.Equal(t, "isEqualTo", tree.Name(callee))

	args := tree.ChildOfKind(selector, syntax.KindValueArgumentList)
	require.True(t, args.Valid())
	assert.Equal(t, "(true)", tree.Text(args))
}

func TestParseSafeQualified(t *testing.T) {
	t.Parallel()

	tree := parse(t, "val x = foo?.let { it }\n")

	safe := findText(t, tree, syntax.KindSafeQualified, "foo?.let { it }")
	assert.Equal(t, "?.", tree.Op(safe))

	selector := tree.Child(safe, 1)
	assert.Equal(t, syntax.KindCall, tree.Kind(selector))
	assert.Len(t, tree.ChildrenOfKind(selector, syntax.KindLambdaArgument), 1)
}

func TestParsePropertyAccess(t *testing.T) {
	t.Parallel()

	tree := parse(t, "val s = list.size\n")

	access := findText(t, tree, syntax.KindDotQualified, "list.size")
	selector := tree.Child(access, 1)

	assert.Equal(t, syntax.KindIdentifier, tree.Kind(selector))
	assert.Equal(t, "size", tree.Name(selector))
}

func TestParseImportAndPackage(t *testing.T) {
	t.Parallel()

	tree := parse(t, "package com.faire.app\n\nimport com.google.inject.Singleton\n\nclass A\n")

	pkgs := findKind(tree, syntax.KindPackage)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "com.faire.app", tree.Name(pkgs[0]))

	imports := findKind(tree, syntax.KindImport)
	require.Len(t, imports, 1)
	assert.Equal(t, "com.google.inject.Singleton", tree.Name(imports[0]))

	ref := tree.ChildOfKind(imports[0], syntax.KindIdentifier)
	require.True(t, ref.Valid())
	assert.Equal(t, "com.google.inject.Singleton", tree.Text(ref))
}

func TestParseFunctionFields(t *testing.T) {
	t.Parallel()

	tree := parse(t, "fun String?.orBlank(a: Int, cb: (() -> Unit)? = null): String? = this ?: \"\"\n")

	fns := findKind(tree, syntax.KindFunction)
	require.Len(t, fns, 1)

	fn := fns[0]
	assert.Equal(t, "orBlank", tree.Name(fn))
	assert.Equal(t, "=", tree.Op(fn))
	assert.Equal(t, "String?", tree.Text(tree.ChildByField(fn, syntax.FieldReceiver)))
	assert.Equal(t, syntax.KindNullableType, tree.Kind(tree.ChildByField(fn, syntax.FieldReceiver)))
	assert.Equal(t, "String?", tree.Text(tree.ChildByField(fn, syntax.FieldReturnType)))
	assert.Equal(t, `this ?: ""`, tree.Text(tree.ChildByField(fn, syntax.FieldBody)))

	params := tree.ChildrenOfKind(tree.ChildByField(fn, syntax.FieldParameters), syntax.KindParameter)
	require.Len(t, params, 2)
	assert.Equal(t, "a", tree.Name(params[0]))
	assert.Equal(t, "cb", tree.Name(params[1]))
	assert.Equal(t, "null", tree.Text(tree.ChildByField(params[1], syntax.FieldDefault)))

	typ := tree.ChildByField(params[1], syntax.FieldType)
	assert.Equal(t, syntax.KindNullableType, tree.Kind(typ))
	assert.Equal(t, syntax.KindFunctionType, tree.Kind(tree.Child(typ, 0)))
}

func TestParseBlockBody(t *testing.T) {
	t.Parallel()

	tree := parse(t, "fun f() {\n  a()\n  b()\n}\n")

	fn := findKind(tree, syntax.KindFunction)[0]
	body := tree.ChildByField(fn, syntax.FieldBody)

	assert.Empty(t, tree.Op(fn))
	assert.Equal(t, syntax.KindBlock, tree.Kind(body))
	assert.Len(t, tree.Children(body), 2)
}

func TestParseProperty(t *testing.T) {
	t.Parallel()

	tree := parse(t, "private val Int.twice: Int\n  get() = this * 2\n\nvar count: Long = 0L\n")

	props := findKind(tree, syntax.KindProperty)
	require.Len(t, props, 2)

	assert.Equal(t, "twice", tree.Name(props[0]))
	assert.Equal(t, "val", tree.Op(props[0]))
	assert.Equal(t, "Int", tree.Text(tree.ChildByField(props[0], syntax.FieldReceiver)))

	mods := tree.ChildOfKind(props[0], syntax.KindModifierList)
	require.True(t, mods.Valid())
	assert.Equal(t, "private", tree.Name(tree.Child(mods, 0)))

	assert.Equal(t, "count", tree.Name(props[1]))
	assert.Equal(t, "var", tree.Op(props[1]))
	assert.Equal(t, "Long", tree.Text(tree.ChildByField(props[1], syntax.FieldType)))
	assert.Equal(t, "0L", tree.Text(tree.ChildByField(props[1], syntax.FieldInitializer)))
}

func TestParseLambdaBody(t *testing.T) {
	t.Parallel()

	tree := parse(t, "val a = xs.map { x -> x + 1 }\nval b = run { }\n")

	lambdas := findKind(tree, syntax.KindLambda)
	require.Len(t, lambdas, 2)

	body := tree.ChildByField(lambdas[0], syntax.FieldBody)
	assert.Equal(t, syntax.KindBlock, tree.Kind(body))
	assert.Equal(t, "x + 1", tree.Text(body))

	empty := tree.ChildByField(lambdas[1], syntax.FieldBody)
	assert.Equal(t, syntax.KindBlock, tree.Kind(empty))
	assert.Empty(t, tree.Children(empty))
	assert.Empty(t, tree.Text(empty))
}

func TestParseCompanionAndSupertypes(t *testing.T) {
	t.Parallel()

	tree := parse(t, "class Foo : Bar(), List<String> {\n  companion object Factory\n}\n")

	class := findKind(tree, syntax.KindClass)[0]
	assert.Equal(t, "Foo", tree.Name(class))

	var supers []string

	for _, child := range tree.Children(class) {
		if tree.Field(child) == syntax.FieldSupertype {
			supers = append(supers, tree.Name(child))
		}
	}

	assert.Equal(t, []string{"Bar", "List"}, supers)

	companion := findKind(tree, syntax.KindCompanionObject)
	require.Len(t, companion, 1)
	assert.Equal(t, "Factory", tree.Name(companion[0]))
}

func TestParseNamedArgumentAndInfix(t *testing.T) {
	t.Parallel()

	tree := parse(t, "val m = mapOf(1 to \"a\", key = 2)\n")

	args := findKind(tree, syntax.KindValueArgument)
	require.Len(t, args, 2)

	pair := tree.LastChild(args[0])
	assert.Equal(t, syntax.KindBinary, tree.Kind(pair))
	assert.Equal(t, "to", tree.Op(pair))
	assert.Len(t, tree.Children(pair), 2)

	assert.Equal(t, "key", tree.Name(args[1]))
	assert.Equal(t, "2", tree.Text(tree.LastChild(args[1])))
}

func TestParseAnnotationsAndReferences(t *testing.T) {
	t.Parallel()

	tree := parse(t, "@Suppress(\"Rule\")\nfun f() = Foo::javaClass\n")

	anns := findKind(tree, syntax.KindAnnotation)
	require.Len(t, anns, 1)
	assert.Equal(t, "Suppress", tree.Name(anns[0]))

	refs := findKind(tree, syntax.KindCallableReference)
	require.Len(t, refs, 1)
	assert.Equal(t, "javaClass", tree.Name(refs[0]))
}

func TestParseKeepsSourceSpans(t *testing.T) {
	t.Parallel()

	src := "fun f() {\n  // comment\n  x.y(1)\n}\n"
	tree := parse(t, src)

	assert.Equal(t, src, tree.Text(tree.Root()))
	assert.Equal(t, syntax.KindFile, tree.Kind(tree.Root()))

	call := findText(t, tree, syntax.KindDotQualified, "x.y(1)")
	start, _ := tree.Span(call)

	assert.Equal(t, syntax.Position{Line: 3, Column: 3}, tree.Position(start))
}
