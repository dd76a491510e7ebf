package semantics

import (
	"fmt"

	"hegel/internal/diagnostics"
	"hegel/internal/frontend/ast"
	"hegel/internal/types"
)

// fill is the Pass 1 visitor. It materializes scopes, registers variable
// declarators, function declarations, and type aliases, and binds function
// parameters, so that Pass 2 can resolve every reference it reduces.
func (b *builder) fill(node, parent *ast.Node) bool {
	switch node.Type {
	case ast.TypeAlias:
		b.fillTypeAlias(node, parent)
	case ast.VariableDeclarator:
		b.fillDeclarator(node, parent)
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression,
		ast.ObjectMethod, ast.ClassMethod, ast.ClassDeclaration, ast.ClassExpression:
		b.fillFunction(node, parent)
	case ast.ObjectExpression:
		b.fillObject(node, parent)
	case ast.BlockStatement:
		b.fillBlock(node, parent)
	case ast.TryStatement:
		b.fillTry(node, parent)
	}
	return true
}

// fillTypeAlias resolves a type alias's right-hand side and registers it
// in the enclosing type scope. An alias with type parameters binds them as
// type variables in a fresh local type scope and wraps the body in a
// generic type.
func (b *builder) fillTypeAlias(node, parent *ast.Node) {
	if node.ID == nil {
		return
	}
	name := node.ID.Name
	ts := b.scopeOf(parent).TypeScope()

	var alias types.SemType
	if len(node.TypeParameters) > 0 {
		local := types.NewTypeScope(ts)
		params := make([]*types.TypeVar, 0, len(node.TypeParameters))
		for _, p := range node.TypeParameters {
			var constraint types.SemType
			if p.Bound != nil {
				constraint = b.typeFromAnnotation(p.Bound, local)
			}
			tv := types.NewTypeVar(p.Name, constraint)
			if err := local.Bind(p.Name, tv); err != nil {
				b.bag.Add(diagnostics.Errorf(p.Loc, "Type parameter %q is already declared", p.Name))
				continue
			}
			params = append(params, tv)
		}
		body := b.typeFromAnnotation(node.Right, local)
		alias = types.NewGeneric(name, params, local, body)
	} else {
		alias = b.typeFromAnnotation(node.Right, ts)
	}

	if err := ts.Bind(name, alias); err != nil {
		b.bag.Add(diagnostics.Errorf(node.Loc, "Type %q is already declared", name))
	}
}

// fillDeclarator registers a variable binding with its annotated type, or
// the undefined sentinel when the declaration carries no annotation.
func (b *builder) fillDeclarator(node, parent *ast.Node) {
	if node.ID == nil {
		return
	}
	scope := b.scopeOf(parent)
	declared := types.SemType(types.Undefined)
	if node.ID.TypeAnnotation != nil {
		declared = b.typeFromAnnotation(node.ID.TypeAnnotation, scope.TypeScope())
	}
	vi := &VariableInfo{Type: declared, Parent: scope, Meta: node.Loc}
	if err := scope.Declare(node.ID.Name, vi); err != nil {
		b.bag.Add(diagnostics.Errorf(node.Loc, "Variable %q is already declared in this scope", node.ID.Name))
	}
}

// fillFunction registers a function-like declaration (functions, arrows,
// object and class methods, classes) and opens its scope. Parameters are
// bound to the corresponding argument types of the computed signature.
func (b *builder) fillFunction(node, parent *ast.Node) {
	parentScope := b.scopeOf(parent)

	name := ""
	switch {
	case node.ID != nil:
		name = node.ID.Name
	case node.Key != nil:
		name = node.Key.Name
	default:
		name = AnonymousKey(node)
	}

	var signature types.SemType
	if node.Type == ast.ClassDeclaration || node.Type == ast.ClassExpression {
		instance := parentScope.TypeScope().Intern(types.NewObject(name, nil))
		signature = types.NewFunction(nil, instance)
	} else {
		signature = b.inferenceTypeForNode(node, parentScope.TypeScope(), parentScope)
	}
	vi := &VariableInfo{Type: signature, Parent: parentScope, Meta: node.Loc}
	if err := parentScope.Declare(name, vi); err != nil {
		b.bag.Add(diagnostics.Errorf(node.Loc, "Variable %q is already declared in this scope", name))
	}

	kind := KindFunction
	if node.Type == ast.ClassDeclaration || node.Type == ast.ClassExpression {
		kind = KindClass
	}
	scope := NewScope(kind, parentScope)
	scope.Declaration = vi
	scope.MarkCatchable()
	if generic, ok := signature.(*types.GenericType); ok {
		scope.SetTypeScope(generic.LocalTypeScope)
	}

	argTypes := signatureArguments(signature)
	for i, p := range node.Params {
		ident := p.ParamName()
		if ident == nil {
			b.bag.Add(diagnostics.Errorf(p.Loc, "Unsupported pattern in function parameter"))
			continue
		}
		argType := types.SemType(types.Mixed)
		if i < len(argTypes) {
			argType = argTypes[i]
		}
		param := &VariableInfo{Type: argType, Parent: scope, Meta: ident.Loc}
		if err := scope.Declare(ident.Name, param); err != nil {
			b.bag.Add(diagnostics.Errorf(ident.Loc, "Variable %q is already declared in this scope", ident.Name))
		}
	}

	b.registerScope(node, scope, parentScope)
	if node.BodyNode != nil {
		b.nodeScopes[node.BodyNode] = scope
	}
	b.functionScopes = append(b.functionScopes, scope)
}

// fillObject opens an OBJECT scope for an object expression. Functions
// given as property values register there; object methods are scope
// creators themselves, so the walker passes them the enclosing parent and
// they register in the enclosing scope.
func (b *builder) fillObject(node, parent *ast.Node) {
	if _, done := b.nodeScopes[node]; done {
		return
	}
	parentScope := b.scopeOf(parent)
	scope := NewScope(KindObject, parentScope)
	b.registerScope(node, scope, parentScope)
}

// fillBlock opens a BLOCK scope for a bare block. Function bodies are
// already claimed by their declaration and alias to the function scope.
func (b *builder) fillBlock(node, parent *ast.Node) {
	if _, done := b.nodeScopes[node]; done {
		return
	}
	parentScope := b.scopeOf(parent)
	scope := NewScope(KindBlock, parentScope)
	b.registerScope(node, scope, parentScope)
}

// fillTry opens the scopes of a try statement: a catchable BLOCK scope for
// the try block and a BLOCK scope for the handler body with the catch
// parameter registered in it. The parameter's type is resolved in Pass 2.
func (b *builder) fillTry(node, parent *ast.Node) {
	parentScope := b.scopeOf(parent)

	if node.Block != nil {
		tryScope := NewScope(KindBlock, parentScope)
		tryScope.MarkCatchable()
		b.registerScope(node.Block, tryScope, parentScope)
	}

	handler := node.Handler
	if handler == nil || handler.BodyNode == nil {
		return
	}
	handlerScope := NewScope(KindBlock, parentScope)
	b.registerScope(handler.BodyNode, handlerScope, parentScope)

	if handler.Param == nil {
		return
	}
	if handler.Param.Type != ast.Identifier {
		b.bag.Add(diagnostics.Errorf(handler.Param.Loc, "Unsupported pattern in catch parameter"))
		return
	}
	vi := &VariableInfo{Type: types.Undefined, Parent: handlerScope, Meta: handler.Param.Loc}
	if err := handlerScope.Declare(handler.Param.Name, vi); err != nil {
		b.bag.Add(diagnostics.Errorf(handler.Param.Loc, "Variable %q is already declared in this scope", handler.Param.Name))
	}
}

// registerScope indexes a scope by its node, declares it in the parent
// scope's body under the location-derived key, and mirrors it into the
// module scope body so any pass can retrieve a scope from its node.
func (b *builder) registerScope(node *ast.Node, scope *Scope, parentScope *Scope) {
	b.nodeScopes[node] = scope
	key := ScopeKey(node)
	_ = parentScope.Declare(key, scope)
	if parentScope != &b.module.Scope {
		_ = b.module.Declare(key, scope)
	}
}

// scopeOf resolves the scope a node's contents belong to from the node's
// effective parent. A nil parent means the module scope.
func (b *builder) scopeOf(parent *ast.Node) *Scope {
	if parent == nil {
		return &b.module.Scope
	}
	if scope, ok := b.nodeScopes[parent]; ok {
		return scope
	}
	panic(fmt.Errorf("semantics: no scope recorded for %s at %s", parent.Type, parent.Loc))
}

// signatureArguments extracts the argument types of a plain or generic
// function signature.
func signatureArguments(signature types.SemType) []types.SemType {
	switch t := signature.(type) {
	case *types.FunctionType:
		return t.Arguments
	case *types.GenericType:
		if fn, ok := t.Subordinate.(*types.FunctionType); ok {
			return fn.Arguments
		}
	}
	return nil
}
