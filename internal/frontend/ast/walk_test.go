package ast

import (
	"testing"

	"hegel/internal/source"
)

func TestWalkVisitOrder(t *testing.T) {
	inner := &Node{Type: NumericLiteral, Loc: testLoc(2), NumberValue: 1}
	stmt := &Node{Type: ExpressionStatement, Loc: testLoc(2), Expression: inner}
	prog := &Node{Type: Program, Loc: testLoc(1), Body: []*Node{stmt}}

	var pre, post []NodeKind
	Walk(prog, Handlers{
		Pre: func(n, parent *Node) bool {
			pre = append(pre, n.Type)
			return true
		},
		Post: func(n, parent *Node) {
			post = append(post, n.Type)
		},
	})

	wantPre := []NodeKind{Program, ExpressionStatement, NumericLiteral}
	for i, k := range wantPre {
		if i >= len(pre) || pre[i] != k {
			t.Fatalf("Pre order mismatch: got %v, want %v", pre, wantPre)
		}
	}
	if post[len(post)-1] != Program {
		t.Errorf("Post should visit the program last, got %v", post)
	}
}

func TestWalkPrunesOnFalse(t *testing.T) {
	inner := &Node{Type: NumericLiteral, Loc: testLoc(2)}
	stmt := &Node{Type: ExpressionStatement, Loc: testLoc(2), Expression: inner}
	prog := &Node{Type: Program, Loc: testLoc(1), Body: []*Node{stmt}}

	visited := 0
	Walk(prog, Handlers{
		Pre: func(n, parent *Node) bool {
			visited++
			return n.Type != ExpressionStatement
		},
	})

	if visited != 2 {
		t.Errorf("Expected pruning after the statement, visited %d nodes", visited)
	}
}

func TestWalkParentIsScopeCreator(t *testing.T) {
	decl := &Node{
		Type: VariableDeclaration,
		Loc:  testLoc(2),
		Kind: "let",
		Declarations: []*Node{{
			Type: VariableDeclarator, Loc: testLoc(2), ID: Ident("x", testLoc(2)),
		}},
	}
	body := &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{decl}}
	fn := &Node{
		Type:     FunctionDeclaration,
		Loc:      testLoc(1),
		ID:       Ident("f", testLoc(1)),
		BodyNode: body,
	}

	parents := map[NodeKind]*Node{}
	Walk(fn, Handlers{
		Pre: func(n, parent *Node) bool {
			parents[n.Type] = parent
			return true
		},
	})

	if parents[BlockStatement] != fn {
		t.Error("Function body should see the function as its effective parent")
	}
	if parents[VariableDeclaration] != body {
		t.Error("Statements should see the body block as their effective parent")
	}
	if parents[VariableDeclarator] != body {
		t.Error("Declarators should inherit the block as effective parent")
	}
}

func TestWalkUnreachableAfterThrow(t *testing.T) {
	throw := &Node{
		Type:     ThrowStatement,
		Loc:      testLoc(1),
		Argument: &Node{Type: StringLiteral, Loc: testLoc(1), StringValue: "e"},
	}
	after := &Node{Type: ExpressionStatement, Loc: testLoc(2), Expression: Ident("x", testLoc(2))}
	prog := &Node{Type: Program, Loc: testLoc(1), Body: []*Node{throw, after}}

	var reported []source.Location
	Walk(prog, Handlers{
		Post: func(n, parent *Node) {},
		OnUnreachable: func(loc source.Location) {
			reported = append(reported, loc)
		},
	})

	if len(reported) != 1 {
		t.Fatalf("Expected exactly one unreachable report, got %d", len(reported))
	}
	if reported[0] != after.Loc {
		t.Errorf("Report should carry the following statement's location, got %s", reported[0])
	}
}

func TestWalkNoUnreachableWhenLast(t *testing.T) {
	throw := &Node{
		Type:     ThrowStatement,
		Loc:      testLoc(1),
		Argument: &Node{Type: StringLiteral, StringValue: "e"},
	}
	prog := &Node{Type: Program, Loc: testLoc(1), Body: []*Node{throw}}

	reported := 0
	Walk(prog, Handlers{
		OnUnreachable: func(loc source.Location) { reported++ },
	})

	if reported != 0 {
		t.Errorf("A terminal throw should not be reported, got %d reports", reported)
	}
}
