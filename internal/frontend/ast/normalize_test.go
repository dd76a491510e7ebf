package ast

import (
	"testing"

	"github.com/go-test/deep"

	"hegel/internal/source"
)

func testLoc(line int) source.Location {
	return source.NewLocation(line, 0, line, 10)
}

func TestArrowBodyLift(t *testing.T) {
	expr := &Node{Type: NumericLiteral, Loc: testLoc(1), NumberValue: 1}
	arrow := &Node{Type: ArrowFunctionExpression, Loc: testLoc(1), BodyNode: expr}

	Normalize(arrow)

	if arrow.BodyNode.Type != BlockStatement {
		t.Fatalf("Expected block body, got %s", arrow.BodyNode.Type)
	}
	if len(arrow.BodyNode.Body) != 1 {
		t.Fatalf("Expected one statement in lifted body, got %d", len(arrow.BodyNode.Body))
	}
	ret := arrow.BodyNode.Body[0]
	if ret.Type != ReturnStatement {
		t.Errorf("Expected return statement, got %s", ret.Type)
	}
	if ret.Argument != expr {
		t.Error("Return argument should be the original expression")
	}
	if ret.Loc != expr.Loc {
		t.Error("Lifted return should carry the expression's location")
	}
}

func TestBranchBodyWrap(t *testing.T) {
	stmt := &Node{Type: ExpressionStatement, Loc: testLoc(2)}
	ifStmt := &Node{
		Type:       IfStatement,
		Loc:        testLoc(1),
		Test:       &Node{Type: BooleanLiteral, BoolValue: true},
		Consequent: stmt,
		Alternate:  &Node{Type: ExpressionStatement, Loc: testLoc(3)},
	}

	Normalize(ifStmt)

	if ifStmt.Consequent.Type != BlockStatement {
		t.Errorf("Expected consequent wrapped in block, got %s", ifStmt.Consequent.Type)
	}
	if ifStmt.Consequent.Body[0] != stmt {
		t.Error("Wrapped block should contain the original statement")
	}
	if ifStmt.Alternate.Type != BlockStatement {
		t.Errorf("Expected alternate wrapped in block, got %s", ifStmt.Alternate.Type)
	}
}

func TestElseIfNotWrapped(t *testing.T) {
	nested := &Node{Type: IfStatement, Loc: testLoc(2), Consequent: &Node{Type: BlockStatement, Body: []*Node{}}}
	ifStmt := &Node{
		Type:       IfStatement,
		Loc:        testLoc(1),
		Consequent: &Node{Type: BlockStatement, Body: []*Node{}},
		Alternate:  nested,
	}

	Normalize(ifStmt)

	if ifStmt.Alternate != nested {
		t.Error("An else-if chain should not be wrapped in a block")
	}
}

func TestTryCatchLink(t *testing.T) {
	block := &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{}}
	handler := &Node{Type: CatchClause, Loc: testLoc(2)}
	try := &Node{Type: TryStatement, Loc: testLoc(1), Block: block, Handler: handler}

	Normalize(try)

	if block.CatchBlock != handler {
		t.Error("Try block should back-reference its catch handler")
	}
}

func TestExportUnwrap(t *testing.T) {
	fn := &Node{Type: FunctionDeclaration, Loc: testLoc(1), ID: Ident("f", testLoc(1))}
	export := &Node{Type: ExportNamedDeclaration, Loc: testLoc(1), Declaration: fn}

	got := Normalize(export)

	if got != fn {
		t.Fatal("Export should unwrap to the inner declaration")
	}
	if got.ExportAs != "f" {
		t.Errorf("Expected exportAs %q, got %q", "f", got.ExportAs)
	}
}

func TestExportDefaultUnwrap(t *testing.T) {
	fn := &Node{Type: FunctionDeclaration, Loc: testLoc(1), ID: Ident("f", testLoc(1))}
	export := &Node{Type: ExportDefaultDeclaration, Loc: testLoc(1), Declaration: fn}

	got := Normalize(export)

	if got != fn || got.ExportAs != "default" {
		t.Errorf("Expected default export annotation, got %q", got.ExportAs)
	}
}

func TestExportVariableDeclaration(t *testing.T) {
	decl := &Node{
		Type: VariableDeclaration,
		Loc:  testLoc(1),
		Kind: "const",
		Declarations: []*Node{
			{Type: VariableDeclarator, Loc: testLoc(1), ID: Ident("a", testLoc(1))},
			{Type: VariableDeclarator, Loc: testLoc(1), ID: Ident("b", testLoc(1))},
		},
	}
	export := &Node{Type: ExportNamedDeclaration, Loc: testLoc(1), Declaration: decl}

	got := Normalize(export)

	if got != decl {
		t.Fatal("Export should unwrap to the variable declaration")
	}
	if decl.Declarations[0].ExportAs != "a" || decl.Declarations[1].ExportAs != "b" {
		t.Error("Each declarator should carry its own export name")
	}
}

func TestForInitHoist(t *testing.T) {
	init := &Node{
		Type: VariableDeclaration,
		Loc:  testLoc(1),
		Kind: "let",
		Declarations: []*Node{{
			Type: VariableDeclarator,
			Loc:  testLoc(1),
			ID:   Ident("i", testLoc(1)),
			Init: &Node{Type: NumericLiteral, NumberValue: 0},
		}},
	}
	body := &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{{Type: ExpressionStatement, Loc: testLoc(2)}}}
	forStmt := &Node{Type: ForStatement, Loc: testLoc(1), Init: init, BodyNode: body}

	Normalize(forStmt)

	if forStmt.Init != nil {
		t.Error("Loop init should be cleared after hoisting")
	}
	if len(body.Body) != 2 || body.Body[0] != init {
		t.Fatal("Declaration should be hoisted as the first body statement")
	}
}

func TestForOfHoistSynthesizesPureValue(t *testing.T) {
	right := Ident("items", testLoc(1))
	left := &Node{
		Type:         VariableDeclaration,
		Loc:          testLoc(1),
		Kind:         "const",
		Declarations: []*Node{{Type: VariableDeclarator, Loc: testLoc(1), ID: Ident("v", testLoc(1))}},
	}
	body := &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{}}
	forOf := &Node{Type: ForOfStatement, Loc: testLoc(1), Left: left, Right: right, BodyNode: body}

	Normalize(forOf)

	if forOf.Left != nil {
		t.Error("Loop left should be cleared after hoisting")
	}
	init := left.Declarations[0].Init
	if init == nil || init.Type != PureValue {
		t.Fatalf("Expected PureValue initializer, got %v", init)
	}
	if init.Argument != right {
		t.Error("Marker should reference the iterated expression")
	}
}

func TestForInHoistSynthesizesPureKey(t *testing.T) {
	left := &Node{
		Type:         VariableDeclaration,
		Loc:          testLoc(1),
		Kind:         "const",
		Declarations: []*Node{{Type: VariableDeclarator, Loc: testLoc(1), ID: Ident("k", testLoc(1))}},
	}
	body := &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{}}
	forIn := &Node{Type: ForInStatement, Loc: testLoc(1), Left: left, Right: Ident("o", testLoc(1)), BodyNode: body}

	Normalize(forIn)

	init := left.Declarations[0].Init
	if init == nil || init.Type != PureKey {
		t.Fatalf("Expected PureKey initializer, got %v", init)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	build := func() *Node {
		return &Node{
			Type: Program,
			Loc:  testLoc(1),
			Body: []*Node{
				{
					Type: ForStatement,
					Loc:  testLoc(1),
					Init: &Node{
						Type:         VariableDeclaration,
						Kind:         "let",
						Loc:          testLoc(1),
						Declarations: []*Node{{Type: VariableDeclarator, Loc: testLoc(1), ID: Ident("i", testLoc(1))}},
					},
					BodyNode: &Node{Type: BlockStatement, Loc: testLoc(1), Body: []*Node{}},
				},
				{
					Type:       IfStatement,
					Loc:        testLoc(2),
					Test:       &Node{Type: BooleanLiteral, BoolValue: true},
					Consequent: &Node{Type: ExpressionStatement, Loc: testLoc(2)},
				},
			},
		}
	}

	once := build()
	for _, stmt := range once.Body {
		Normalize(stmt)
	}
	twice := build()
	for _, stmt := range twice.Body {
		Normalize(stmt)
		Normalize(stmt)
	}

	if diff := deep.Equal(once, twice); diff != nil {
		t.Errorf("Normalization is not idempotent: %v", diff)
	}
}
