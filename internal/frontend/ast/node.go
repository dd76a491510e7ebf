package ast

import (
	"fmt"

	"hegel/internal/source"
)

// Node is the uniform AST node. Every syntactic form uses the same struct
// with its relevant fields populated; absent children are nil. This mirrors
// the shape of a decoded ESTree document and keeps the tree walker and the
// normalization shims free of per-form types.
type Node struct {
	Type NodeKind
	Loc  source.Location

	// Identifier name, member property name, type parameter name.
	Name string

	// Literal payloads.
	StringValue string
	NumberValue float64
	BoolValue   bool

	// Operator for binary/logical/unary/update/assignment forms,
	// declaration kind ("var", "let", "const") for variable declarations.
	Operator string
	Kind     string

	// List-valued children.
	Body         []*Node // Program, BlockStatement, ClassBody
	Declarations []*Node // VariableDeclaration
	Properties   []*Node // ObjectExpression, ObjectTypeAnnotation
	Params       []*Node // function parameters, FunctionTypeAnnotation params
	Arguments    []*Node // CallExpression, NewExpression
	Elements     []*Node // ArrayExpression
	Types        []*Node // UnionTypeAnnotation members

	// Single-valued children.
	ID          *Node // binding name of declarations and aliases
	Init        *Node // declarator / for-loop initializer
	Test        *Node
	Update      *Node
	BodyNode    *Node // function body, loop body, catch body
	Consequent  *Node
	Alternate   *Node
	Block       *Node // try block
	Handler     *Node // catch clause
	Finalizer   *Node
	Param       *Node // catch parameter
	Argument    *Node // throw/return/unary/update argument
	Declaration *Node // export inner declaration
	Expression  *Node // expression statement payload
	Left        *Node
	Right       *Node
	Object      *Node
	Property    *Node
	Callee      *Node
	Key         *Node // object property key
	Value       *Node // object property value
	Computed    bool

	// Optional typing.
	TypeAnnotation *Node   // annotation attached to an identifier
	ReturnType     *Node   // annotated function return type
	TypeParameters []*Node // declared type parameters or type arguments
	Bound          *Node   // constraint of a type parameter

	// Synthesized by normalization.
	ExportAs   string // export name, "default" for default exports
	CatchBlock *Node  // back-reference from a try block to its handler
}

// Ident builds an identifier node.
func Ident(name string, loc source.Location) *Node {
	return &Node{Type: Identifier, Name: name, Loc: loc}
}

// String renders a compact description for debugging and error messages.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case Identifier:
		return fmt.Sprintf("%s(%s)", n.Type, n.Name)
	case NumericLiteral:
		return fmt.Sprintf("%s(%v)", n.Type, n.NumberValue)
	case StringLiteral:
		return fmt.Sprintf("%s(%q)", n.Type, n.StringValue)
	default:
		return string(n.Type)
	}
}

// ParamName unwraps a parameter node to its binding identifier. Parameters
// with defaults arrive as AssignmentPattern; the binding is its left side.
func (n *Node) ParamName() *Node {
	if n == nil {
		return nil
	}
	if n.Type == AssignmentPattern {
		return n.Left
	}
	if n.Type == Identifier {
		return n
	}
	return nil
}
