package syntax

// NodeKind is the tagged variant of a syntax node.
type NodeKind uint8

// Node kinds. The set follows the shapes lint rules dispatch on; everything a
// frontend does not classify is lowered to KindOther with its children kept.
const (
	KindOther NodeKind = iota
	KindFile
	KindPackage
	KindImport
	KindClass
	KindClassBody
	KindObject
	KindCompanionObject
	KindFunction
	KindParameter
	KindProperty
	KindDestructuring
	KindBlock
	KindLambda
	KindCall
	KindValueArgumentList
	KindValueArgument
	KindLambdaArgument
	KindDotQualified
	KindSafeQualified
	KindCallableReference
	KindIdentifier
	KindThis
	KindLiteral
	KindStringTemplate
	KindBinary
	KindAssignment
	KindUnary
	KindParenthesized
	KindReturn
	KindConditional
	KindWhenEntry
	KindAnnotation
	KindModifierList
	KindModifier
	KindUserType
	KindNullableType
	KindFunctionType

	kindCount
)

var kindNames = [kindCount]string{
	KindOther:             "Other",
	KindFile:              "File",
	KindPackage:           "Package",
	KindImport:            "Import",
	KindClass:             "Class",
	KindClassBody:         "ClassBody",
	KindObject:            "Object",
	KindCompanionObject:   "CompanionObject",
	KindFunction:          "Function",
	KindParameter:         "Parameter",
	KindProperty:          "Property",
	KindDestructuring:     "Destructuring",
	KindBlock:             "Block",
	KindLambda:            "Lambda",
	KindCall:              "Call",
	KindValueArgumentList: "ValueArgumentList",
	KindValueArgument:     "ValueArgument",
	KindLambdaArgument:    "LambdaArgument",
	KindDotQualified:      "DotQualified",
	KindSafeQualified:     "SafeQualified",
	KindCallableReference: "CallableReference",
	KindIdentifier:        "Identifier",
	KindThis:              "This",
	KindLiteral:           "Literal",
	KindStringTemplate:    "StringTemplate",
	KindBinary:            "Binary",
	KindAssignment:        "Assignment",
	KindUnary:             "Unary",
	KindParenthesized:     "Parenthesized",
	KindReturn:            "Return",
	KindConditional:       "Conditional",
	KindWhenEntry:         "WhenEntry",
	KindAnnotation:        "Annotation",
	KindModifierList:      "ModifierList",
	KindModifier:          "Modifier",
	KindUserType:          "UserType",
	KindNullableType:      "NullableType",
	KindFunctionType:      "FunctionType",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if k >= kindCount {
		return "Unknown"
	}

	return kindNames[k]
}

// KindCount is the number of defined kinds; useful for dispatch tables.
const KindCount = int(kindCount)

// IsExpression reports whether nodes of this kind produce a value.
func (k NodeKind) IsExpression() bool {
	switch k {
	case KindCall, KindDotQualified, KindSafeQualified, KindCallableReference,
		KindIdentifier, KindThis, KindLiteral, KindStringTemplate, KindBinary,
		KindUnary, KindParenthesized, KindLambda, KindReturn, KindConditional,
		KindBlock:
		return true
	default:
		return false
	}
}

// IsQualified reports whether the kind is a member access (dot or safe call).
func (k NodeKind) IsQualified() bool {
	return k == KindDotQualified || k == KindSafeQualified
}

// IsType reports whether the kind is a type reference.
func (k NodeKind) IsType() bool {
	return k == KindUserType || k == KindNullableType || k == KindFunctionType
}

// IsDeclaration reports whether the kind can carry annotations.
func (k NodeKind) IsDeclaration() bool {
	switch k {
	case KindFile, KindClass, KindObject, KindCompanionObject, KindFunction,
		KindParameter, KindProperty, KindDestructuring:
		return true
	default:
		return false
	}
}

// Field roles recorded by frontends on Node.Field.
const (
	FieldReceiver    = "receiver"
	FieldSelector    = "selector"
	FieldCallee      = "callee"
	FieldBody        = "body"
	FieldParameters  = "parameters"
	FieldReturnType  = "returnType"
	FieldType        = "type"
	FieldDefault     = "default"
	FieldInitializer = "initializer"
	FieldSupertype   = "supertype"
)
