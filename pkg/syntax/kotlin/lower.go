package kotlin

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/chainlint/pkg/syntax"
)

// Grammar node types that lower to literals.
var literalTypes = map[string]bool{
	"integer_literal":   true,
	"long_literal":      true,
	"hex_literal":       true,
	"bin_literal":       true,
	"real_literal":      true,
	"boolean_literal":   true,
	"character_literal": true,
	"unsigned_literal":  true,
}

// Grammar node types that lower to binary expressions. The operator is the
// second child.
var binaryTypes = map[string]bool{
	"additive_expression":       true,
	"multiplicative_expression": true,
	"comparison_expression":     true,
	"equality_expression":       true,
	"conjunction_expression":    true,
	"disjunction_expression":    true,
	"elvis_expression":          true,
	"range_expression":          true,
	"check_expression":          true,
	"as_expression":             true,
	"infix_expression":          true,
}

var typeTypes = map[string]bool{
	"user_type":          true,
	"nullable_type":      true,
	"parenthesized_type": true,
	"function_type":      true,
	"not_nullable_type":  true,
}

var commentTypes = map[string]bool{
	"comment":           true,
	"line_comment":      true,
	"multiline_comment": true,
	"block_comment":     true,
	"shebang_line":      true,
}

// lowerer converts one tree-sitter tree into a syntax.Builder arena. Every
// lowering method returns the IDs of the nodes it produced; transparent
// grammar nodes return their children's IDs.
type lowerer struct {
	builder *syntax.Builder
	src     []byte
}

func newLowerer(src []byte) *lowerer {
	return &lowerer{builder: syntax.NewBuilder(src), src: src}
}

func (low *lowerer) span(n sitter.Node) (start, end int) {
	start, end = int(n.StartByte()), int(n.EndByte())
	if end > len(low.src) {
		end = len(low.src)
	}

	if start > end {
		start = end
	}

	return start, end
}

func (low *lowerer) text(n sitter.Node) string {
	start, end := low.span(n)

	return string(low.src[start:end])
}

func children(n sitter.Node) []sitter.Node {
	out := make([]sitter.Node, 0, n.ChildCount())

	for idx := range n.ChildCount() {
		child := n.Child(idx)
		if child.IsNull() || commentTypes[child.Type()] {
			continue
		}

		out = append(out, child)
	}

	return out
}

func childOfType(n sitter.Node, types ...string) (sitter.Node, bool) {
	for _, child := range children(n) {
		for _, typ := range types {
			if child.Type() == typ {
				return child, true
			}
		}
	}

	return sitter.Node{}, false
}

func (low *lowerer) add(kind syntax.NodeKind, n sitter.Node, kids ...syntax.NodeID) syntax.NodeID {
	start, end := low.span(n)

	return low.builder.Add(kind, start, end, kids...)
}

func (low *lowerer) named(kind syntax.NodeKind, n sitter.Node, name string, kids ...syntax.NodeID) syntax.NodeID {
	id := low.add(kind, n, kids...)
	low.builder.SetName(id, name)

	return id
}

func (low *lowerer) withField(field string, ids []syntax.NodeID) []syntax.NodeID {
	for _, id := range ids {
		low.builder.SetField(id, field)
	}

	return ids
}

func (low *lowerer) lowerChildren(n sitter.Node) []syntax.NodeID {
	var out []syntax.NodeID

	for _, child := range children(n) {
		out = append(out, low.lower(child)...)
	}

	return out
}

// lowerOne lowers n into exactly one node, wrapping or synthesising as needed.
func (low *lowerer) lowerOne(n sitter.Node) syntax.NodeID {
	ids := low.lower(n)
	if len(ids) == 1 {
		return ids[0]
	}

	return low.add(syntax.KindOther, n, ids...)
}

func (low *lowerer) file(root sitter.Node) syntax.NodeID {
	return low.builder.Add(syntax.KindFile, 0, len(low.src), low.lowerChildren(root)...)
}

//nolint:gocyclo,cyclop // one case per grammar node type.
func (low *lowerer) lower(n sitter.Node) []syntax.NodeID {
	if n.IsNull() {
		return nil
	}

	typ := n.Type()

	if !n.IsNamed() {
		if typ == "null" {
			return []syntax.NodeID{low.add(syntax.KindLiteral, n)}
		}

		return nil
	}

	switch {
	case commentTypes[typ]:
		return nil
	case literalTypes[typ]:
		return []syntax.NodeID{low.add(syntax.KindLiteral, n)}
	case binaryTypes[typ]:
		return low.binary(n)
	}

	switch typ {
	case "import_list", "parenthesized_type", "type_projection", "interpolated_expression",
		"interpolation", "statements", "delegation_specifiers":
		return low.lowerChildren(n)
	case "type_identifier", "identifier", "use_site_target", "label":
		return nil
	case "package_header":
		return low.packageHeader(n)
	case "import_header":
		return low.importHeader(n)
	case "file_annotation":
		return low.annotation(n, true)
	case "annotation":
		return low.annotation(n, false)
	case "modifiers", "parameter_modifiers":
		return low.modifiers(n)
	case "class_declaration":
		return low.classLike(syntax.KindClass, n)
	case "object_declaration":
		return low.classLike(syntax.KindObject, n)
	case "companion_object":
		return low.classLike(syntax.KindCompanionObject, n)
	case "class_body", "enum_class_body":
		return []syntax.NodeID{low.add(syntax.KindClassBody, n, low.lowerChildren(n)...)}
	case "class_parameter":
		return low.classParameter(n)
	case "function_declaration":
		return low.function(n)
	case "function_value_parameters":
		return low.parameters(n)
	case "function_body":
		ids, _ := low.functionBody(n)

		return ids
	case "parameter":
		return []syntax.NodeID{low.parameter(paramParts{start: n, param: n, hasParam: true})}
	case "property_declaration":
		return low.property(n)
	case "variable_declaration":
		return low.variable(n)
	case "lambda_literal":
		return low.lambda(n)
	case "annotated_lambda":
		return []syntax.NodeID{low.add(syntax.KindLambdaArgument, n, low.lowerChildren(n)...)}
	case "call_expression":
		return low.call(n)
	case "navigation_expression", "directly_assignable_expression":
		return low.navigation(n)
	case "value_arguments":
		return []syntax.NodeID{low.add(syntax.KindValueArgumentList, n, low.lowerChildren(n)...)}
	case "value_argument":
		return low.valueArgument(n)
	case "simple_identifier", "interpolated_identifier":
		return []syntax.NodeID{low.named(syntax.KindIdentifier, n, low.text(n))}
	case "this_expression":
		return []syntax.NodeID{low.add(syntax.KindThis, n)}
	case "string_literal", "line_string_literal", "multiline_string_literal", "multi_line_string_literal":
		return low.stringTemplate(n)
	case "assignment":
		return low.assignment(n)
	case "prefix_expression", "postfix_expression":
		return low.unary(n)
	case "parenthesized_expression":
		return []syntax.NodeID{low.add(syntax.KindParenthesized, n, low.lowerChildren(n)...)}
	case "jump_expression":
		return low.jump(n)
	case "if_expression", "when_expression":
		return []syntax.NodeID{low.add(syntax.KindConditional, n, low.lowerChildren(n)...)}
	case "when_entry":
		return []syntax.NodeID{low.add(syntax.KindWhenEntry, n, low.lowerChildren(n)...)}
	case "control_structure_body":
		if _, braced := childOfType(n, "{"); braced {
			return []syntax.NodeID{low.add(syntax.KindBlock, n, low.lowerChildren(n)...)}
		}

		return low.lowerChildren(n)
	case "callable_reference":
		return low.callableReference(n)
	case "user_type":
		return low.userType(n)
	case "nullable_type":
		return low.nullableType(n)
	case "function_type":
		return []syntax.NodeID{low.add(syntax.KindFunctionType, n, low.lowerChildren(n)...)}
	default:
		return []syntax.NodeID{low.add(syntax.KindOther, n, low.lowerChildren(n)...)}
	}
}

func (low *lowerer) packageHeader(n sitter.Node) []syntax.NodeID {
	name := ""
	if ident, ok := childOfType(n, "identifier", "qualified_identifier", "simple_identifier"); ok {
		name = low.text(ident)
	}

	return []syntax.NodeID{low.named(syntax.KindPackage, n, name)}
}

// importHeader keeps the imported reference as a single identifier child so
// rewrites can replace it without touching the directive around it.
func (low *lowerer) importHeader(n sitter.Node) []syntax.NodeID {
	ident, ok := childOfType(n, "identifier", "qualified_identifier", "simple_identifier")
	if !ok {
		return []syntax.NodeID{low.add(syntax.KindImport, n)}
	}

	name := low.text(ident)
	ref := low.named(syntax.KindIdentifier, ident, name)

	return []syntax.NodeID{low.named(syntax.KindImport, n, name, ref)}
}

func (low *lowerer) annotation(n sitter.Node, file bool) []syntax.NodeID {
	var (
		name string
		kids []syntax.NodeID
	)

	var visit func(sitter.Node)
	visit = func(cur sitter.Node) {
		for _, child := range children(cur) {
			switch child.Type() {
			case "user_type":
				if name == "" {
					name = low.lastTypeIdentifier(child)
				}
			case "constructor_invocation":
				visit(child)
			case "value_arguments":
				kids = append(kids, low.lower(child)...)
			}
		}
	}

	visit(n)

	id := low.named(syntax.KindAnnotation, n, name, kids...)
	if file {
		low.builder.SetOp(id, "file")
	}

	return []syntax.NodeID{id}
}

func (low *lowerer) modifiers(n sitter.Node) []syntax.NodeID {
	var kids []syntax.NodeID

	for _, child := range children(n) {
		if !child.IsNamed() {
			continue
		}

		if child.Type() == "annotation" {
			kids = append(kids, low.lower(child)...)

			continue
		}

		kids = append(kids, low.named(syntax.KindModifier, child, strings.TrimSpace(low.text(child))))
	}

	return []syntax.NodeID{low.add(syntax.KindModifierList, n, kids...)}
}

func (low *lowerer) classLike(kind syntax.NodeKind, n sitter.Node) []syntax.NodeID {
	var (
		name string
		kids []syntax.NodeID
	)

	for _, child := range children(n) {
		switch child.Type() {
		case "type_identifier", "simple_identifier":
			if name == "" {
				name = low.text(child)
			}
		case "delegation_specifier", "delegation_specifiers", "annotated_delegation_specifier":
			kids = append(kids, low.supertypes(child)...)
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	return []syntax.NodeID{low.named(kind, n, name, kids...)}
}

func (low *lowerer) supertypes(n sitter.Node) []syntax.NodeID {
	var out []syntax.NodeID

	for _, child := range children(n) {
		switch child.Type() {
		case "user_type", "nullable_type", "function_type":
			out = append(out, low.withField(syntax.FieldSupertype, low.lower(child))...)
		case "delegation_specifier", "constructor_invocation", "annotated_delegation_specifier":
			out = append(out, low.supertypes(child)...)
		default:
			out = append(out, low.lower(child)...)
		}
	}

	return out
}

// paramParts collects the pieces of one function value parameter, which the
// grammar spreads over sibling nodes.
type paramParts struct {
	start    sitter.Node
	mods     sitter.Node
	param    sitter.Node
	def      sitter.Node
	hasMods  bool
	hasParam bool
	hasDef   bool
	awaitDef bool
}

func (low *lowerer) parameters(n sitter.Node) []syntax.NodeID {
	var (
		params  []syntax.NodeID
		pending *paramParts
	)

	flush := func() {
		if pending != nil && pending.hasParam {
			params = append(params, low.parameter(*pending))
		}

		pending = nil
	}

	for _, child := range children(n) {
		switch child.Type() {
		case "parameter_modifiers":
			flush()

			pending = &paramParts{start: child, mods: child, hasMods: true}
		case "parameter":
			if pending == nil || pending.hasParam {
				flush()

				pending = &paramParts{start: child}
			}

			pending.param = child
			pending.hasParam = true
		case "=":
			if pending != nil {
				pending.awaitDef = true
			}
		case "(", ")", ",":
			flush()
		default:
			if pending != nil && pending.awaitDef && child.IsNamed() {
				pending.def = child
				pending.hasDef = true
				pending.awaitDef = false
			}
		}
	}

	flush()

	id := low.add(syntax.KindOther, n, params...)
	low.builder.SetField(id, syntax.FieldParameters)

	return []syntax.NodeID{id}
}

func (low *lowerer) parameter(parts paramParts) syntax.NodeID {
	var (
		kids []syntax.NodeID
		name string
	)

	if parts.hasMods {
		kids = append(kids, low.lower(parts.mods)...)
	}

	for _, child := range children(parts.param) {
		switch typ := child.Type(); {
		case typ == "simple_identifier" && name == "":
			name = low.text(child)
		case typeTypes[typ]:
			kids = append(kids, low.withField(syntax.FieldType, low.lower(child))...)
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	start, _ := low.span(parts.start)
	_, end := low.span(parts.param)

	if parts.hasDef {
		kids = append(kids, low.withField(syntax.FieldDefault, low.lower(parts.def))...)
		_, end = low.span(parts.def)
	}

	id := low.builder.Add(syntax.KindParameter, start, end, kids...)
	low.builder.SetName(id, name)

	return id
}

func (low *lowerer) classParameter(n sitter.Node) []syntax.NodeID {
	var (
		kids     []syntax.NodeID
		name     string
		op       string
		awaitDef bool
	)

	for _, child := range children(n) {
		switch typ := child.Type(); {
		case typ == "val" || typ == "var" || typ == "binding_pattern_kind":
			op = low.text(child)
		case typ == "simple_identifier" && name == "":
			name = low.text(child)
		case typ == "=":
			awaitDef = true
		case awaitDef && child.IsNamed():
			kids = append(kids, low.withField(syntax.FieldDefault, low.lower(child))...)
			awaitDef = false
		case typeTypes[typ]:
			kids = append(kids, low.withField(syntax.FieldType, low.lower(child))...)
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	id := low.named(syntax.KindParameter, n, name, kids...)
	low.builder.SetOp(id, op)

	return []syntax.NodeID{id}
}

func (low *lowerer) function(n sitter.Node) []syntax.NodeID {
	var (
		kids       []syntax.NodeID
		name       string
		op         string
		seenParams bool
	)

	for _, child := range children(n) {
		switch typ := child.Type(); {
		case typ == "simple_identifier" && name == "":
			name = low.text(child)
		case typ == "function_value_parameters":
			seenParams = true

			kids = append(kids, low.parameters(child)...)
		case typ == "function_body":
			body, expr := low.functionBody(child)
			if expr {
				op = "="
			}

			kids = append(kids, body...)
		case typ == "receiver_type":
			kids = append(kids, low.receiverType(child)...)
		case typeTypes[typ]:
			field := syntax.FieldReceiver
			if seenParams {
				field = syntax.FieldReturnType
			}

			kids = append(kids, low.withField(field, low.lower(child))...)
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	id := low.named(syntax.KindFunction, n, name, kids...)
	low.builder.SetOp(id, op)

	return []syntax.NodeID{id}
}

// functionBody lowers a block body into a Block spanning its braces, or an
// expression body into the expression. expr reports the latter.
func (low *lowerer) functionBody(n sitter.Node) (ids []syntax.NodeID, expr bool) {
	if _, braced := childOfType(n, "{"); braced {
		id := low.add(syntax.KindBlock, n, low.lowerChildren(n)...)
		low.builder.SetField(id, syntax.FieldBody)

		return []syntax.NodeID{id}, false
	}

	return low.withField(syntax.FieldBody, low.lowerChildren(n)), true
}

func (low *lowerer) property(n sitter.Node) []syntax.NodeID {
	var (
		kids      []syntax.NodeID
		name      string
		op        string
		seenVar   bool
		awaitInit bool
		kind      = syntax.KindProperty
	)

	for _, child := range children(n) {
		switch typ := child.Type(); {
		case typ == "val" || typ == "var" || typ == "binding_pattern_kind":
			op = low.text(child)
		case typ == "variable_declaration":
			seenVar = true

			for _, part := range children(child) {
				switch {
				case part.Type() == "simple_identifier" && name == "":
					name = low.text(part)
				case typeTypes[part.Type()]:
					kids = append(kids, low.withField(syntax.FieldType, low.lower(part))...)
				}
			}
		case typ == "multi_variable_declaration":
			seenVar = true
			kind = syntax.KindDestructuring

			kids = append(kids, low.lower(child)...)
		case typ == "=":
			awaitInit = true
		case typ == "receiver_type" && !seenVar:
			kids = append(kids, low.receiverType(child)...)
		case typeTypes[typ] && !seenVar:
			kids = append(kids, low.withField(syntax.FieldReceiver, low.lower(child))...)
		case awaitInit && child.IsNamed():
			kids = append(kids, low.withField(syntax.FieldInitializer, low.lower(child))...)
			awaitInit = false
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	id := low.named(kind, n, name, kids...)
	low.builder.SetOp(id, op)

	return []syntax.NodeID{id}
}

// receiverType lowers the type wrapped by a receiver_type node as the
// declaration's receiver. Type modifiers such as annotations stay plain
// children.
func (low *lowerer) receiverType(n sitter.Node) []syntax.NodeID {
	var kids []syntax.NodeID

	for _, child := range children(n) {
		if typeTypes[child.Type()] {
			kids = append(kids, low.withField(syntax.FieldReceiver, low.lower(child))...)

			continue
		}

		kids = append(kids, low.lower(child)...)
	}

	return kids
}

// variable lowers a declared name outside a property, e.g. a lambda parameter.
// The name is kept on the node instead of as an identifier child.
func (low *lowerer) variable(n sitter.Node) []syntax.NodeID {
	var (
		kids []syntax.NodeID
		name string
	)

	for _, child := range children(n) {
		switch typ := child.Type(); {
		case typ == "simple_identifier" && name == "":
			name = low.text(child)
		case typeTypes[typ]:
			kids = append(kids, low.withField(syntax.FieldType, low.lower(child))...)
		}
	}

	return []syntax.NodeID{low.named(syntax.KindOther, n, name, kids...)}
}

func (low *lowerer) lambda(n sitter.Node) []syntax.NodeID {
	var kids []syntax.NodeID

	body := syntax.NoNode
	_, end := low.span(n)
	closing := max(end-1, 0)

	for _, child := range children(n) {
		switch child.Type() {
		case "statements":
			body = low.add(syntax.KindBlock, child, low.lowerChildren(child)...)
		case "}":
			closing, _ = low.span(child)
		case "{", "->":
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	if !body.Valid() {
		body = low.builder.Add(syntax.KindBlock, closing, closing)
	}

	low.builder.SetField(body, syntax.FieldBody)
	kids = append(kids, body)

	return []syntax.NodeID{low.add(syntax.KindLambda, n, kids...)}
}

// call lowers call_expression. A call on a navigation becomes a qualified
// expression whose selector is the call, so that "a.b(c)" reads as
// DotQualified(a, Call(b, (c))).
func (low *lowerer) call(n sitter.Node) []syntax.NodeID {
	kids := children(n)
	if len(kids) < 2 || kids[len(kids)-1].Type() != "call_suffix" {
		return []syntax.NodeID{low.add(syntax.KindOther, n, low.lowerChildren(n)...)}
	}

	callee, suffix := kids[0], kids[len(kids)-1]
	args := low.lowerChildren(suffix)

	if callee.Type() == "navigation_expression" {
		if recv, navSuffix, ok := navigationParts(callee); ok {
			if ident, found := childOfType(navSuffix, "simple_identifier"); found {
				receiver := low.lowerOne(recv)
				name := low.named(syntax.KindIdentifier, ident, low.text(ident))
				low.builder.SetField(name, syntax.FieldCallee)

				start, _ := low.span(ident)
				_, end := low.span(n)
				selector := low.builder.Add(syntax.KindCall, start, end, append([]syntax.NodeID{name}, args...)...)

				return []syntax.NodeID{low.qualified(n, navSuffix, ident, receiver, selector)}
			}
		}
	}

	calleeIDs := low.withField(syntax.FieldCallee, low.lower(callee))

	return []syntax.NodeID{low.add(syntax.KindCall, n, append(calleeIDs, args...)...)}
}

func navigationParts(n sitter.Node) (receiver, suffix sitter.Node, ok bool) {
	var haveReceiver, haveSuffix bool

	for _, child := range children(n) {
		switch {
		case child.Type() == "navigation_suffix":
			suffix, haveSuffix = child, true
		case child.IsNamed() && !haveReceiver:
			receiver, haveReceiver = child, true
		}
	}

	return receiver, suffix, haveReceiver && haveSuffix
}

func (low *lowerer) navigation(n sitter.Node) []syntax.NodeID {
	recv, suffix, ok := navigationParts(n)
	if !ok {
		return low.lowerChildren(n)
	}

	receiver := low.lowerOne(recv)

	ident, found := childOfType(suffix, "simple_identifier")
	if !found {
		selector := low.add(syntax.KindOther, suffix, low.lowerChildren(suffix)...)

		return []syntax.NodeID{low.qualified(n, suffix, suffix, receiver, selector)}
	}

	selector := low.named(syntax.KindIdentifier, ident, low.text(ident))

	return []syntax.NodeID{low.qualified(n, suffix, ident, receiver, selector)}
}

// qualified builds the member access node. The operator is whatever sits
// between the suffix start and the selector.
func (low *lowerer) qualified(n, suffix, selectorNode sitter.Node, receiver, selector syntax.NodeID) syntax.NodeID {
	opStart, _ := low.span(suffix)
	opEnd, _ := low.span(selectorNode)

	op := "."
	if opEnd > opStart {
		op = strings.Join(strings.Fields(string(low.src[opStart:opEnd])), "")
	}

	kind := syntax.KindDotQualified
	if strings.HasPrefix(op, "?") {
		kind = syntax.KindSafeQualified
	}

	low.builder.SetField(receiver, syntax.FieldReceiver)
	low.builder.SetField(selector, syntax.FieldSelector)

	id := low.add(kind, n, receiver, selector)
	low.builder.SetOp(id, op)

	return id
}

func (low *lowerer) valueArgument(n sitter.Node) []syntax.NodeID {
	kids := children(n)

	var (
		name string
		out  []syntax.NodeID
	)

	for i, child := range kids {
		if child.Type() == "simple_identifier" && i+1 < len(kids) && kids[i+1].Type() == "=" {
			name = low.text(child)

			continue
		}

		out = append(out, low.lower(child)...)
	}

	return []syntax.NodeID{low.named(syntax.KindValueArgument, n, name, out...)}
}

func (low *lowerer) stringTemplate(n sitter.Node) []syntax.NodeID {
	var kids []syntax.NodeID

	for _, child := range children(n) {
		switch child.Type() {
		case "string_content", "character_escape_seq", "escape_sequence", "string_fragment":
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	return []syntax.NodeID{low.add(syntax.KindStringTemplate, n, kids...)}
}

func (low *lowerer) binary(n sitter.Node) []syntax.NodeID {
	kids := children(n)
	if len(kids) < 3 {
		return []syntax.NodeID{low.add(syntax.KindOther, n, low.lowerChildren(n)...)}
	}

	var operands []syntax.NodeID

	for i, child := range kids {
		if i == 1 {
			continue
		}

		operands = append(operands, low.lower(child)...)
	}

	id := low.add(syntax.KindBinary, n, operands...)
	low.builder.SetOp(id, strings.TrimSpace(low.text(kids[1])))

	return []syntax.NodeID{id}
}

func (low *lowerer) assignment(n sitter.Node) []syntax.NodeID {
	var (
		kids []syntax.NodeID
		op   string
	)

	for _, child := range children(n) {
		if !child.IsNamed() {
			op = low.text(child)

			continue
		}

		kids = append(kids, low.lower(child)...)
	}

	id := low.add(syntax.KindAssignment, n, kids...)
	low.builder.SetOp(id, op)

	return []syntax.NodeID{id}
}

func (low *lowerer) unary(n sitter.Node) []syntax.NodeID {
	var (
		kids []syntax.NodeID
		op   string
	)

	for _, child := range children(n) {
		if !child.IsNamed() {
			op += low.text(child)

			continue
		}

		kids = append(kids, low.lower(child)...)
	}

	id := low.add(syntax.KindUnary, n, kids...)
	low.builder.SetOp(id, op)

	return []syntax.NodeID{id}
}

func (low *lowerer) jump(n sitter.Node) []syntax.NodeID {
	kids := children(n)
	if len(kids) == 0 || !strings.HasPrefix(kids[0].Type(), "return") {
		return []syntax.NodeID{low.add(syntax.KindOther, n, low.lowerChildren(n)...)}
	}

	var value []syntax.NodeID
	for _, child := range kids[1:] {
		value = append(value, low.lower(child)...)
	}

	return []syntax.NodeID{low.add(syntax.KindReturn, n, value...)}
}

func (low *lowerer) callableReference(n sitter.Node) []syntax.NodeID {
	var (
		kids []syntax.NodeID
		name string
	)

	for _, child := range children(n) {
		switch typ := child.Type(); {
		case typ == "simple_identifier":
			name = low.text(child)
		case typ == "class":
			name = "class"
		default:
			kids = append(kids, low.lower(child)...)
		}
	}

	return []syntax.NodeID{low.named(syntax.KindCallableReference, n, name, kids...)}
}

func (low *lowerer) lastTypeIdentifier(n sitter.Node) string {
	name := ""

	for _, child := range children(n) {
		if child.Type() == "type_identifier" || child.Type() == "simple_identifier" {
			name = low.text(child)
		}
	}

	return name
}

// userType keeps the type arguments of the last segment as children.
func (low *lowerer) userType(n sitter.Node) []syntax.NodeID {
	var (
		args    sitter.Node
		hasArgs bool
	)

	for _, child := range children(n) {
		switch child.Type() {
		case "type_identifier", "simple_identifier":
			hasArgs = false
		case "type_arguments":
			args, hasArgs = child, true
		}
	}

	var kids []syntax.NodeID

	if hasArgs {
		for _, id := range low.lowerChildren(args) {
			if low.isType(id) {
				kids = append(kids, id)
			}
		}
	}

	return []syntax.NodeID{low.named(syntax.KindUserType, n, low.lastTypeIdentifier(n), kids...)}
}

func (low *lowerer) nullableType(n sitter.Node) []syntax.NodeID {
	var kids []syntax.NodeID

	for _, child := range children(n) {
		for _, id := range low.lower(child) {
			if low.isType(id) && len(kids) == 0 {
				kids = append(kids, id)
			}
		}
	}

	return []syntax.NodeID{low.add(syntax.KindNullableType, n, kids...)}
}

func (low *lowerer) isType(id syntax.NodeID) bool {
	return low.builder.Kind(id).IsType()
}
