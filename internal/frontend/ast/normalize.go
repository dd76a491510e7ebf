package ast

// Normalize applies the node rewrite pipeline and returns the node the
// walker should visit in place of the original. All rewrites are pure with
// respect to semantics and idempotent: running Normalize on its own output
// changes nothing.
//
// Pipeline order matters; later rewrites see earlier output.
func Normalize(node *Node) *Node {
	if node == nil {
		return nil
	}
	node = unwrapExport(node)
	liftArrowBody(node)
	wrapBranchBodies(node)
	linkCatchBlock(node)
	hoistForInit(node)
	return node
}

// unwrapExport replaces an export declaration with its inner declaration,
// annotated with the name it is exported under.
func unwrapExport(node *Node) *Node {
	switch node.Type {
	case ExportNamedDeclaration:
		decl := node.Declaration
		if decl == nil {
			return node
		}
		switch decl.Type {
		case VariableDeclaration:
			for _, d := range decl.Declarations {
				if d.ID != nil {
					d.ExportAs = d.ID.Name
				}
			}
		default:
			if decl.ID != nil {
				decl.ExportAs = decl.ID.Name
			}
		}
		return decl
	case ExportDefaultDeclaration:
		decl := node.Declaration
		if decl == nil {
			return node
		}
		decl.ExportAs = "default"
		return decl
	}
	return node
}

// liftArrowBody rewrites an arrow function whose body is a bare expression
// into block form: E becomes { return E; } at E's location.
func liftArrowBody(node *Node) {
	if node.Type != ArrowFunctionExpression || node.BodyNode == nil {
		return
	}
	if node.BodyNode.Type == BlockStatement {
		return
	}
	expr := node.BodyNode
	node.BodyNode = &Node{
		Type: BlockStatement,
		Loc:  expr.Loc,
		Body: []*Node{{
			Type:     ReturnStatement,
			Loc:      expr.Loc,
			Argument: expr,
		}},
	}
}

// wrapBranchBodies wraps single-statement branch and loop bodies in blocks
// so that scope creation is uniform.
func wrapBranchBodies(node *Node) {
	switch node.Type {
	case IfStatement:
		node.Consequent = wrapInBlock(node.Consequent)
		if node.Alternate != nil && node.Alternate.Type != IfStatement {
			node.Alternate = wrapInBlock(node.Alternate)
		}
	case WhileStatement, DoWhileStatement, ForStatement, ForInStatement, ForOfStatement:
		node.BodyNode = wrapInBlock(node.BodyNode)
	}
}

func wrapInBlock(stmt *Node) *Node {
	if stmt == nil || stmt.Type == BlockStatement {
		return stmt
	}
	return &Node{
		Type: BlockStatement,
		Loc:  stmt.Loc,
		Body: []*Node{stmt},
	}
}

// linkCatchBlock gives a try statement's block a back-reference to the
// catch handler, so the error type of the block can be resolved later.
func linkCatchBlock(node *Node) {
	if node.Type != TryStatement || node.Block == nil {
		return
	}
	node.Block.CatchBlock = node.Handler
}

// hoistForInit moves a for-loop's variable declaration into the loop body,
// so the loop variable lives in the body scope. For for-in and for-of the
// declarator's initializer is synthesized as a PureKey or PureValue marker
// referencing the iterated expression.
func hoistForInit(node *Node) {
	switch node.Type {
	case ForStatement:
		if node.Init == nil || node.Init.Type != VariableDeclaration || node.BodyNode == nil {
			return
		}
		node.BodyNode.Body = append([]*Node{node.Init}, node.BodyNode.Body...)
		node.Init = nil
	case ForInStatement, ForOfStatement:
		if node.Left == nil || node.Left.Type != VariableDeclaration || node.BodyNode == nil {
			return
		}
		marker := PureKey
		if node.Type == ForOfStatement {
			marker = PureValue
		}
		for _, d := range node.Left.Declarations {
			if d.Init == nil {
				d.Init = &Node{Type: marker, Loc: d.Loc, Argument: node.Right}
			}
		}
		node.BodyNode.Body = append([]*Node{node.Left}, node.BodyNode.Body...)
		node.Left = nil
	}
}
