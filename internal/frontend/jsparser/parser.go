// Package jsparser parses JavaScript source with tree-sitter and converts
// the concrete syntax tree into the ast.Node shape the builder consumes.
package jsparser

import (
	"context"
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"hegel/internal/frontend/ast"
	"hegel/internal/source"
)

// Parse parses JavaScript source code into a Program node.
func Parse(ctx context.Context, src []byte) (*ast.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsparser: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("jsparser: syntax error in source")
	}

	c := &converter{src: src}
	return c.program(root), nil
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) loc(n *sitter.Node) source.Location {
	return source.NewLocation(
		int(n.StartPoint().Row)+1, int(n.StartPoint().Column),
		int(n.EndPoint().Row)+1, int(n.EndPoint().Column),
	)
}

func (c *converter) program(n *sitter.Node) *ast.Node {
	prog := &ast.Node{Type: ast.Program, Loc: c.loc(n), Body: []*ast.Node{}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if stmt := c.node(n.NamedChild(i)); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	return prog
}

func (c *converter) field(n *sitter.Node, name string) *ast.Node {
	return c.node(n.ChildByFieldName(name))
}

// node converts one tree-sitter node. Unrecognized and trivia nodes
// convert to nil and are dropped by the caller.
func (c *converter) node(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	loc := c.loc(n)

	switch n.Type() {
	case "comment":
		return nil

	case "statement_block":
		block := &ast.Node{Type: ast.BlockStatement, Loc: loc, Body: []*ast.Node{}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if stmt := c.node(n.NamedChild(i)); stmt != nil {
				block.Body = append(block.Body, stmt)
			}
		}
		return block

	case "expression_statement":
		return &ast.Node{Type: ast.ExpressionStatement, Loc: loc, Expression: c.node(n.NamedChild(0))}

	case "variable_declaration", "lexical_declaration":
		kind := "var"
		if n.Type() == "lexical_declaration" {
			kind = c.text(n.Child(0)) // "let" or "const"
		}
		decl := &ast.Node{Type: ast.VariableDeclaration, Loc: loc, Kind: kind, Declarations: []*ast.Node{}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "variable_declarator" {
				decl.Declarations = append(decl.Declarations, c.declarator(child))
			}
		}
		return decl

	case "function_declaration", "generator_function_declaration":
		return &ast.Node{
			Type:     ast.FunctionDeclaration,
			Loc:      loc,
			ID:       c.field(n, "name"),
			Params:   c.params(n.ChildByFieldName("parameters")),
			BodyNode: c.field(n, "body"),
		}

	case "function_expression", "function", "generator_function":
		return &ast.Node{
			Type:     ast.FunctionExpression,
			Loc:      loc,
			ID:       c.field(n, "name"),
			Params:   c.params(n.ChildByFieldName("parameters")),
			BodyNode: c.field(n, "body"),
		}

	case "arrow_function":
		arrow := &ast.Node{
			Type:     ast.ArrowFunctionExpression,
			Loc:      loc,
			BodyNode: c.field(n, "body"),
		}
		if p := n.ChildByFieldName("parameters"); p != nil {
			arrow.Params = c.params(p)
		} else if p := n.ChildByFieldName("parameter"); p != nil {
			arrow.Params = []*ast.Node{c.node(p)}
		}
		return arrow

	case "class_declaration", "class":
		return &ast.Node{
			Type:     ast.ClassDeclaration,
			Loc:      loc,
			ID:       c.field(n, "name"),
			BodyNode: c.classBody(n.ChildByFieldName("body")),
		}

	case "if_statement":
		return &ast.Node{
			Type:       ast.IfStatement,
			Loc:        loc,
			Test:       c.condition(n),
			Consequent: c.field(n, "consequence"),
			Alternate:  c.elseClause(n.ChildByFieldName("alternative")),
		}

	case "while_statement":
		return &ast.Node{
			Type:     ast.WhileStatement,
			Loc:      loc,
			Test:     c.condition(n),
			BodyNode: c.field(n, "body"),
		}

	case "do_statement":
		return &ast.Node{
			Type:     ast.DoWhileStatement,
			Loc:      loc,
			Test:     c.condition(n),
			BodyNode: c.field(n, "body"),
		}

	case "for_statement":
		test := c.field(n, "condition")
		if test != nil && test.Type == ast.ExpressionStatement {
			test = test.Expression
		}
		return &ast.Node{
			Type:     ast.ForStatement,
			Loc:      loc,
			Init:     c.field(n, "initializer"),
			Test:     test,
			Update:   c.field(n, "increment"),
			BodyNode: c.field(n, "body"),
		}

	case "for_in_statement":
		kind := ast.ForInStatement
		if op := n.ChildByFieldName("operator"); op != nil && c.text(op) == "of" {
			kind = ast.ForOfStatement
		}
		// tree-sitter exposes the loop variable as a bare identifier;
		// rebuild the declaration form normalization expects
		left := c.field(n, "left")
		if left != nil && left.Type != ast.VariableDeclaration {
			left = &ast.Node{
				Type:         ast.VariableDeclaration,
				Loc:          left.Loc,
				Kind:         "let",
				Declarations: []*ast.Node{{Type: ast.VariableDeclarator, Loc: left.Loc, ID: left}},
			}
		}
		return &ast.Node{
			Type:     kind,
			Loc:      loc,
			Left:     left,
			Right:    c.field(n, "right"),
			BodyNode: c.field(n, "body"),
		}

	case "return_statement":
		ret := &ast.Node{Type: ast.ReturnStatement, Loc: loc}
		if n.NamedChildCount() > 0 {
			ret.Argument = c.node(n.NamedChild(0))
		}
		return ret

	case "throw_statement":
		return &ast.Node{Type: ast.ThrowStatement, Loc: loc, Argument: c.node(n.NamedChild(0))}

	case "try_statement":
		try := &ast.Node{
			Type:  ast.TryStatement,
			Loc:   loc,
			Block: c.field(n, "body"),
		}
		if handler := n.ChildByFieldName("handler"); handler != nil {
			try.Handler = &ast.Node{
				Type:     ast.CatchClause,
				Loc:      c.loc(handler),
				Param:    c.field(handler, "parameter"),
				BodyNode: c.field(handler, "body"),
			}
		}
		if finalizer := n.ChildByFieldName("finalizer"); finalizer != nil {
			try.Finalizer = c.field(finalizer, "body")
		}
		return try

	case "binary_expression":
		op := c.text(n.ChildByFieldName("operator"))
		kind := ast.BinaryExpression
		if op == "&&" || op == "||" || op == "??" {
			kind = ast.LogicalExpression
		}
		return &ast.Node{
			Type:     kind,
			Loc:      loc,
			Operator: op,
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "unary_expression":
		return &ast.Node{
			Type:     ast.UnaryExpression,
			Loc:      loc,
			Operator: c.text(n.ChildByFieldName("operator")),
			Argument: c.field(n, "argument"),
		}

	case "update_expression":
		return &ast.Node{
			Type:     ast.UpdateExpression,
			Loc:      loc,
			Operator: c.text(n.ChildByFieldName("operator")),
			Argument: c.field(n, "argument"),
		}

	case "assignment_expression":
		return &ast.Node{
			Type:     ast.AssignmentExpression,
			Loc:      loc,
			Operator: "=",
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "augmented_assignment_expression":
		return &ast.Node{
			Type:     ast.AssignmentExpression,
			Loc:      loc,
			Operator: c.text(n.ChildByFieldName("operator")),
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}

	case "ternary_expression":
		return &ast.Node{
			Type:       ast.ConditionalExpression,
			Loc:        loc,
			Test:       c.field(n, "condition"),
			Consequent: c.field(n, "consequence"),
			Alternate:  c.field(n, "alternative"),
		}

	case "call_expression":
		return &ast.Node{
			Type:      ast.CallExpression,
			Loc:       loc,
			Callee:    c.field(n, "function"),
			Arguments: c.args(n.ChildByFieldName("arguments")),
		}

	case "new_expression":
		return &ast.Node{
			Type:      ast.NewExpression,
			Loc:       loc,
			Callee:    c.field(n, "constructor"),
			Arguments: c.args(n.ChildByFieldName("arguments")),
		}

	case "member_expression":
		prop := c.field(n, "property")
		if prop != nil {
			prop.Type = ast.Identifier
		}
		return &ast.Node{
			Type:     ast.MemberExpression,
			Loc:      loc,
			Object:   c.field(n, "object"),
			Property: prop,
		}

	case "subscript_expression":
		return &ast.Node{
			Type:     ast.MemberExpression,
			Loc:      loc,
			Computed: true,
			Object:   c.field(n, "object"),
			Property: c.field(n, "index"),
		}

	case "parenthesized_expression":
		return c.node(n.NamedChild(0))

	case "object":
		obj := &ast.Node{Type: ast.ObjectExpression, Loc: loc, Properties: []*ast.Node{}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "pair":
				obj.Properties = append(obj.Properties, &ast.Node{
					Type:  ast.ObjectProperty,
					Loc:   c.loc(child),
					Key:   c.propertyKey(child.ChildByFieldName("key")),
					Value: c.field(child, "value"),
				})
			case "method_definition":
				obj.Properties = append(obj.Properties, &ast.Node{
					Type:     ast.ObjectMethod,
					Loc:      c.loc(child),
					Key:      c.propertyKey(child.ChildByFieldName("name")),
					Params:   c.params(child.ChildByFieldName("parameters")),
					BodyNode: c.field(child, "body"),
				})
			}
		}
		return obj

	case "array":
		arr := &ast.Node{Type: ast.ArrayExpression, Loc: loc, Elements: []*ast.Node{}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if el := c.node(n.NamedChild(i)); el != nil {
				arr.Elements = append(arr.Elements, el)
			}
		}
		return arr

	case "identifier", "shorthand_property_identifier", "property_identifier":
		return ast.Ident(c.text(n), loc)

	case "number":
		value, _ := strconv.ParseFloat(c.text(n), 64)
		return &ast.Node{Type: ast.NumericLiteral, Loc: loc, NumberValue: value}

	case "string":
		text := c.text(n)
		if len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		return &ast.Node{Type: ast.StringLiteral, Loc: loc, StringValue: text}

	case "template_string":
		return &ast.Node{Type: ast.TemplateLiteral, Loc: loc}

	case "true":
		return &ast.Node{Type: ast.BooleanLiteral, Loc: loc, BoolValue: true}
	case "false":
		return &ast.Node{Type: ast.BooleanLiteral, Loc: loc, BoolValue: false}
	case "null":
		return &ast.Node{Type: ast.NullLiteral, Loc: loc}
	case "undefined":
		return ast.Ident("undefined", loc)

	case "export_statement":
		if decl := c.field(n, "declaration"); decl != nil {
			return &ast.Node{Type: ast.ExportNamedDeclaration, Loc: loc, Declaration: decl}
		}
		return nil

	case "empty_statement":
		return &ast.Node{Type: ast.EmptyStatement, Loc: loc}
	}

	return nil
}

func (c *converter) declarator(n *sitter.Node) *ast.Node {
	return &ast.Node{
		Type: ast.VariableDeclarator,
		Loc:  c.loc(n),
		ID:   c.field(n, "name"),
		Init: c.field(n, "value"),
	}
}

func (c *converter) params(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	out := []*ast.Node{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if p := c.node(n.NamedChild(i)); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c *converter) args(n *sitter.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	out := []*ast.Node{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if a := c.node(n.NamedChild(i)); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// condition resolves the condition of if/while/do; parenthesized
// expressions unwrap during conversion.
func (c *converter) condition(n *sitter.Node) *ast.Node {
	return c.field(n, "condition")
}

func (c *converter) elseClause(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	// else_clause wraps the alternative statement
	if n.Type() == "else_clause" && n.NamedChildCount() > 0 {
		return c.node(n.NamedChild(0))
	}
	return c.node(n)
}

func (c *converter) classBody(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	body := &ast.Node{Type: ast.ClassBody, Loc: c.loc(n), Body: []*ast.Node{}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "method_definition" {
			continue
		}
		body.Body = append(body.Body, &ast.Node{
			Type:     ast.ClassMethod,
			Loc:      c.loc(child),
			Key:      c.propertyKey(child.ChildByFieldName("name")),
			Params:   c.params(child.ChildByFieldName("parameters")),
			BodyNode: c.field(child, "body"),
		})
	}
	return body
}

func (c *converter) propertyKey(n *sitter.Node) *ast.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "property_identifier", "identifier":
		return ast.Ident(c.text(n), c.loc(n))
	case "string":
		key := c.node(n)
		return key
	}
	return c.node(n)
}
