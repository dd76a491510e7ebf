package ast

// NodeKind identifies the syntactic form of a node. The names follow the
// ESTree / Babel vocabulary so decoded JSON ASTs map onto them directly.
type NodeKind string

const (
	Program NodeKind = "Program"

	// Statements
	BlockStatement      NodeKind = "BlockStatement"
	VariableDeclaration NodeKind = "VariableDeclaration"
	VariableDeclarator  NodeKind = "VariableDeclarator"
	FunctionDeclaration NodeKind = "FunctionDeclaration"
	ClassDeclaration    NodeKind = "ClassDeclaration"
	ClassBody           NodeKind = "ClassBody"
	ClassMethod         NodeKind = "ClassMethod"
	ReturnStatement     NodeKind = "ReturnStatement"
	IfStatement         NodeKind = "IfStatement"
	WhileStatement      NodeKind = "WhileStatement"
	DoWhileStatement    NodeKind = "DoWhileStatement"
	ForStatement        NodeKind = "ForStatement"
	ForInStatement      NodeKind = "ForInStatement"
	ForOfStatement      NodeKind = "ForOfStatement"
	TryStatement        NodeKind = "TryStatement"
	CatchClause         NodeKind = "CatchClause"
	ThrowStatement      NodeKind = "ThrowStatement"
	ExpressionStatement NodeKind = "ExpressionStatement"
	EmptyStatement      NodeKind = "EmptyStatement"

	// Exports
	ExportNamedDeclaration   NodeKind = "ExportNamedDeclaration"
	ExportDefaultDeclaration NodeKind = "ExportDefaultDeclaration"

	// Expressions
	Identifier              NodeKind = "Identifier"
	FunctionExpression      NodeKind = "FunctionExpression"
	ArrowFunctionExpression NodeKind = "ArrowFunctionExpression"
	ClassExpression         NodeKind = "ClassExpression"
	ObjectExpression        NodeKind = "ObjectExpression"
	ObjectProperty          NodeKind = "ObjectProperty"
	ObjectMethod            NodeKind = "ObjectMethod"
	ArrayExpression         NodeKind = "ArrayExpression"
	CallExpression          NodeKind = "CallExpression"
	NewExpression           NodeKind = "NewExpression"
	BinaryExpression        NodeKind = "BinaryExpression"
	LogicalExpression       NodeKind = "LogicalExpression"
	UnaryExpression         NodeKind = "UnaryExpression"
	UpdateExpression        NodeKind = "UpdateExpression"
	AssignmentExpression    NodeKind = "AssignmentExpression"
	MemberExpression        NodeKind = "MemberExpression"
	ConditionalExpression   NodeKind = "ConditionalExpression"
	AssignmentPattern       NodeKind = "AssignmentPattern"

	// Literals
	NumericLiteral  NodeKind = "NumericLiteral"
	StringLiteral   NodeKind = "StringLiteral"
	BooleanLiteral  NodeKind = "BooleanLiteral"
	NullLiteral     NodeKind = "NullLiteral"
	TemplateLiteral NodeKind = "TemplateLiteral"

	// Type annotations (optional-typing sub-language)
	TypeAlias                 NodeKind = "TypeAlias"
	TypeAnnotation            NodeKind = "TypeAnnotation"
	TypeParameter             NodeKind = "TypeParameter"
	NumberTypeAnnotation      NodeKind = "NumberTypeAnnotation"
	StringTypeAnnotation      NodeKind = "StringTypeAnnotation"
	BooleanTypeAnnotation     NodeKind = "BooleanTypeAnnotation"
	NullLiteralTypeAnnotation NodeKind = "NullLiteralTypeAnnotation"
	VoidTypeAnnotation        NodeKind = "VoidTypeAnnotation"
	AnyTypeAnnotation         NodeKind = "AnyTypeAnnotation"
	MixedTypeAnnotation       NodeKind = "MixedTypeAnnotation"
	NullableTypeAnnotation    NodeKind = "NullableTypeAnnotation"
	GenericTypeAnnotation     NodeKind = "GenericTypeAnnotation"
	ObjectTypeAnnotation      NodeKind = "ObjectTypeAnnotation"
	ObjectTypeProperty        NodeKind = "ObjectTypeProperty"
	FunctionTypeAnnotation    NodeKind = "FunctionTypeAnnotation"
	FunctionTypeParam         NodeKind = "FunctionTypeParam"
	UnionTypeAnnotation       NodeKind = "UnionTypeAnnotation"
	StringLiteralTypeAnn      NodeKind = "StringLiteralTypeAnnotation"
	NumberLiteralTypeAnn      NodeKind = "NumberLiteralTypeAnnotation"
	BooleanLiteralTypeAnn     NodeKind = "BooleanLiteralTypeAnnotation"

	// Synthesized by normalization for for-in / for-of loop variables.
	// A PureKey initializer marks "iterate the keys of Right"; a PureValue
	// initializer marks "iterate the values of Right".
	PureKey   NodeKind = "PureKey"
	PureValue NodeKind = "PureValue"
)

// IsScopeCreator reports whether nodes of this kind open a lexical scope.
func (k NodeKind) IsScopeCreator() bool {
	switch k {
	case BlockStatement, FunctionDeclaration, FunctionExpression,
		ArrowFunctionExpression, ClassDeclaration, ClassExpression,
		ObjectExpression, ObjectMethod, ClassMethod:
		return true
	default:
		return false
	}
}

// IsFunctionLike reports whether nodes of this kind declare a callable.
func (k NodeKind) IsFunctionLike() bool {
	switch k {
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression,
		ObjectMethod, ClassMethod:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether nodes of this kind are literal values.
func (k NodeKind) IsLiteral() bool {
	switch k {
	case NumericLiteral, StringLiteral, BooleanLiteral, NullLiteral, TemplateLiteral:
		return true
	default:
		return false
	}
}
