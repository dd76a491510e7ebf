package jsparser

import (
	"context"
	"testing"

	"hegel/internal/frontend/ast"
)

func parseSource(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog, err := Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if prog.Type != ast.Program {
		t.Fatalf("Expected a program, got %s", prog.Type)
	}
	return prog
}

func TestParseDeclaration(t *testing.T) {
	prog := parseSource(t, "const x = 1 + 2;")

	if len(prog.Body) != 1 {
		t.Fatalf("Expected one statement, got %d", len(prog.Body))
	}
	decl := prog.Body[0]
	if decl.Type != ast.VariableDeclaration || decl.Kind != "const" {
		t.Fatalf("Unexpected declaration %s %q", decl.Type, decl.Kind)
	}
	d := decl.Declarations[0]
	if d.ID.Name != "x" {
		t.Errorf("Expected binding x, got %q", d.ID.Name)
	}
	if d.Init.Type != ast.BinaryExpression || d.Init.Operator != "+" {
		t.Errorf("Unexpected initializer %s %q", d.Init.Type, d.Init.Operator)
	}
	if d.Init.Left.NumberValue != 1 || d.Init.Right.NumberValue != 2 {
		t.Error("Numeric operands parsed incorrectly")
	}
}

func TestParseFunction(t *testing.T) {
	prog := parseSource(t, "function f(a) { return a; }")

	fn := prog.Body[0]
	if fn.Type != ast.FunctionDeclaration || fn.ID.Name != "f" {
		t.Fatalf("Unexpected function node %s", fn.Type)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "a" {
		t.Error("Parameters parsed incorrectly")
	}
	if fn.BodyNode == nil || fn.BodyNode.Type != ast.BlockStatement {
		t.Fatal("Function body should be a block")
	}
	ret := fn.BodyNode.Body[0]
	if ret.Type != ast.ReturnStatement || ret.Argument.Name != "a" {
		t.Error("Return statement parsed incorrectly")
	}
}

func TestParseIfWithoutBlock(t *testing.T) {
	prog := parseSource(t, "if (x > 0) y = 1;")

	ifStmt := prog.Body[0]
	if ifStmt.Type != ast.IfStatement {
		t.Fatalf("Expected if statement, got %s", ifStmt.Type)
	}
	if ifStmt.Test.Type != ast.BinaryExpression || ifStmt.Test.Operator != ">" {
		t.Errorf("Condition parsed incorrectly: %s", ifStmt.Test.Type)
	}
	if ifStmt.Consequent.Type != ast.ExpressionStatement {
		t.Errorf("Single-statement branch should stay unwrapped here, got %s", ifStmt.Consequent.Type)
	}
}

func TestParseTryCatch(t *testing.T) {
	prog := parseSource(t, "try { throw \"e\"; } catch (e) { e; }")

	try := prog.Body[0]
	if try.Type != ast.TryStatement || try.Block == nil {
		t.Fatalf("Try statement parsed incorrectly: %s", try.Type)
	}
	throw := try.Block.Body[0]
	if throw.Type != ast.ThrowStatement || throw.Argument.StringValue != "e" {
		t.Error("Throw statement parsed incorrectly")
	}
	if try.Handler == nil || try.Handler.Param.Name != "e" {
		t.Fatal("Catch clause parsed incorrectly")
	}
	if try.Handler.BodyNode == nil {
		t.Error("Catch body missing")
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parseSource(t, "for (let i = 0; i < n; i++) { s += i; }")

	loop := prog.Body[0]
	if loop.Type != ast.ForStatement {
		t.Fatalf("Expected for statement, got %s", loop.Type)
	}
	if loop.Init == nil || loop.Init.Type != ast.VariableDeclaration {
		t.Error("Loop initializer parsed incorrectly")
	}
	if loop.Test == nil || loop.Test.Operator != "<" {
		t.Errorf("Loop condition parsed incorrectly: %v", loop.Test)
	}
	if loop.Update == nil || loop.Update.Type != ast.UpdateExpression {
		t.Error("Loop update parsed incorrectly")
	}
}

func TestParseMemberAndCall(t *testing.T) {
	prog := parseSource(t, "o.m(1);")

	call := prog.Body[0].Expression
	if call.Type != ast.CallExpression {
		t.Fatalf("Expected call, got %s", call.Type)
	}
	member := call.Callee
	if member.Type != ast.MemberExpression || member.Object.Name != "o" || member.Property.Name != "m" {
		t.Error("Member callee parsed incorrectly")
	}
	if len(call.Arguments) != 1 || call.Arguments[0].NumberValue != 1 {
		t.Error("Call arguments parsed incorrectly")
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse(context.Background(), []byte("function (")); err == nil {
		t.Error("Malformed source should fail to parse")
	}
}

func TestParseLocations(t *testing.T) {
	prog := parseSource(t, "let a = 1;\nlet b = 2;")

	if len(prog.Body) != 2 {
		t.Fatalf("Expected two statements, got %d", len(prog.Body))
	}
	if prog.Body[0].Loc.Start.Line != 1 || prog.Body[1].Loc.Start.Line != 2 {
		t.Errorf("Line numbers should be 1-based: %s, %s", prog.Body[0].Loc, prog.Body[1].Loc)
	}
}
