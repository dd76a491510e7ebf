package semantics

import (
	"hegel/internal/diagnostics"
	"hegel/internal/frontend/ast"
	"hegel/internal/types"
)

// reduceResult is what reducing a node yields: a variable binding when the
// node resolves to one, otherwise a bare type.
type reduceResult struct {
	vi  *VariableInfo
	typ types.SemType
}

func (r reduceResult) Type() types.SemType {
	if r.vi != nil {
		return r.vi.Type
	}
	if r.typ != nil {
		return r.typ
	}
	return types.Undefined
}

func (r reduceResult) argument() Argument {
	if r.vi != nil {
		return r.vi
	}
	return TypeArg{T: r.Type()}
}

// infer is the Pass 2 visitor, run post-order. Statements reduce to calls
// against operator and built-in targets; declarations get their late
// operations (initializer typing, catch-parameter typing, generic
// refinement, per-function call checking).
func (b *builder) infer(node, parent *ast.Node) {
	scope := b.scopeOf(parent)
	switch node.Type {
	case ast.VariableDeclarator:
		b.reduceDeclarator(node, scope)
	case ast.ExpressionStatement:
		if node.Expression != nil {
			b.reduce(node.Expression, scope)
		}
	case ast.CallExpression, ast.NewExpression:
		b.reduce(node, scope)
	case ast.ReturnStatement:
		b.reduceReturn(node, scope)
	case ast.ThrowStatement:
		b.reduceThrow(node, scope)
	case ast.IfStatement:
		b.reduceConditionStatement(node, "if", scope)
	case ast.WhileStatement:
		b.reduceConditionStatement(node, "while", scope)
	case ast.DoWhileStatement:
		b.reduceConditionStatement(node, "do-while", scope)
	case ast.ForStatement, ast.ForInStatement, ast.ForOfStatement:
		b.reduceFor(node, scope)
	case ast.TryStatement:
		b.resolveCatchParameter(node)
	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression,
		ast.ObjectMethod, ast.ClassMethod, ast.ClassDeclaration, ast.ClassExpression:
		b.finishFunction(node)
	}
}

// reduce maps an expression to a resolved binding or type, recording the
// calls it implies. Results are memoized per node so a form reached both
// directly and through a parent reduction records its calls once.
func (b *builder) reduce(node *ast.Node, scope *Scope) reduceResult {
	if r, ok := b.results[node]; ok {
		return r
	}
	r := b.reduceNode(node, scope)
	b.results[node] = r
	return r
}

func (b *builder) reduceNode(node *ast.Node, scope *Scope) reduceResult {
	switch node.Type {
	case ast.Identifier:
		if vi, ok := scope.LookupVariable(node.Name); ok {
			return reduceResult{vi: vi}
		}
		b.bag.Add(diagnostics.Errorf(node.Loc, "Variable %q is not defined", node.Name))
		return reduceResult{typ: types.Undefined}

	case ast.NumericLiteral:
		return reduceResult{typ: types.Number}
	case ast.StringLiteral, ast.TemplateLiteral:
		return reduceResult{typ: types.String}
	case ast.BooleanLiteral:
		return reduceResult{typ: types.Boolean}
	case ast.NullLiteral:
		return reduceResult{typ: types.Null}

	case ast.BinaryExpression, ast.LogicalExpression:
		left := b.reduce(node.Left, scope)
		right := b.reduce(node.Right, scope)
		return b.recordOperatorCall(node, scope, node.Operator, left, right)

	case ast.UnaryExpression, ast.UpdateExpression:
		arg := b.reduce(node.Argument, scope)
		return b.recordOperatorCall(node, scope, node.Operator, arg)

	case ast.AssignmentExpression:
		left := b.reduce(node.Left, scope)
		right := b.reduce(node.Right, scope)
		return b.recordOperatorCall(node, scope, node.Operator, left, right)

	case ast.MemberExpression:
		return b.reduceMember(node, scope)

	case ast.ConditionalExpression:
		test := b.reduce(node.Test, scope)
		cons := b.reduce(node.Consequent, scope)
		alt := b.reduce(node.Alternate, scope)
		return b.recordOperatorCall(node, scope, "?:", test, cons, alt)

	case ast.CallExpression:
		return b.reduceCall(node, scope)

	case ast.NewExpression:
		return b.reduceNew(node, scope)

	case ast.FunctionExpression, ast.ArrowFunctionExpression, ast.ClassExpression:
		if fnScope, ok := b.nodeScopes[node]; ok && fnScope.Declaration != nil {
			return reduceResult{vi: fnScope.Declaration}
		}
		return reduceResult{typ: b.inferenceTypeForNode(node, scope.TypeScope(), scope)}

	case ast.ObjectExpression:
		return reduceResult{typ: b.objectTypeOf(node, scope.TypeScope(), scope)}

	case ast.PureKey:
		return reduceResult{typ: types.String}
	case ast.PureValue:
		return reduceResult{typ: b.elementTypeOf(node.Argument, scope.TypeScope(), scope)}
	}

	return reduceResult{typ: b.inferenceTypeForNode(node, scope.TypeScope(), scope)}
}

// recordOperatorCall records a call against a seeded operator variable in
// the nearest function scope and returns the invocation result.
func (b *builder) recordOperatorCall(node *ast.Node, scope *Scope, label string, args ...reduceResult) reduceResult {
	target, ok := scope.LookupVariable(label)
	if !ok {
		b.bag.Add(diagnostics.Errorf(node.Loc, "Operator %q is not supported", label))
		return reduceResult{typ: types.Mixed}
	}
	callArgs := make([]Argument, len(args))
	argTypes := make([]types.SemType, len(args))
	for i, a := range args {
		callArgs[i] = a.argument()
		argTypes[i] = a.Type()
	}
	scope.NearestFunction().RecordCall(&CallMeta{
		Target:    target,
		Arguments: callArgs,
		Loc:       node.Loc,
		Label:     label,
	})
	return reduceResult{typ: getInvocationType(target.Type, argTypes)}
}

// reduceMember reduces property access to a "." call. A static access, or a
// computed access whose index is a string literal, carries the property name
// as a string literal type; any other computed access carries the reduced
// index type. When a property name is known, projection out of a known
// object type refines the result.
func (b *builder) reduceMember(node *ast.Node, scope *Scope) reduceResult {
	object := b.reduce(node.Object, scope)

	var property reduceResult
	propName := ""
	if !node.Computed && node.Property != nil && node.Property.Type == ast.Identifier {
		propName = node.Property.Name
		property = reduceResult{typ: types.NewLiteral("'"+propName+"'", "string")}
	} else if node.Property != nil && node.Property.Type == ast.StringLiteral {
		propName = node.Property.StringValue
		property = reduceResult{typ: types.NewLiteral("'"+propName+"'", "string")}
	} else {
		property = b.reduce(node.Property, scope)
	}

	result := b.recordOperatorCall(node, scope, ".", object, property)

	if obj, ok := object.Type().(*types.ObjectType); ok && propName != "" {
		if propType, found := obj.PropertyType(propName); found {
			return reduceResult{typ: propType}
		}
		b.bag.Add(diagnostics.Errorf(node.Loc,
			"Property %q does not exist on type %q", propName, obj.Name()))
		return reduceResult{typ: types.Undefined}
	}
	return result
}

// reduceCall records a user call: the callee must resolve to a binding
// whose type is callable.
func (b *builder) reduceCall(node *ast.Node, scope *Scope) reduceResult {
	callee := b.reduce(node.Callee, scope)
	target := callee.vi
	if target == nil {
		target = &VariableInfo{Type: callee.Type(), Parent: scope, Meta: node.Callee.Loc}
	}

	if !isCallable(target.Type) {
		b.bag.Add(diagnostics.Errorf(node.Loc, "The type %q is not callable", target.Type.Name()))
		return reduceResult{typ: types.Undefined}
	}

	callArgs := make([]Argument, 0, len(node.Arguments))
	argTypes := make([]types.SemType, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		r := b.reduce(a, scope)
		callArgs = append(callArgs, r.argument())
		argTypes = append(argTypes, r.Type())
	}

	label := "call"
	if node.Callee.Type == ast.Identifier {
		label = node.Callee.Name
	}
	scope.NearestFunction().RecordCall(&CallMeta{
		Target:    target,
		Arguments: callArgs,
		Loc:       node.Loc,
		Label:     label,
	})

	if target.Throwable != nil {
		if catcher := scope.NearestCatchable(); catcher != nil {
			catcher.AddThrowable(target.Throwable...)
		}
	}

	return reduceResult{typ: getInvocationType(target.Type, argTypes)}
}

// reduceNew invokes the callee to obtain the constructed object type and
// records a "new" call carrying it. A non-object invocation result falls
// back to a fresh empty object.
func (b *builder) reduceNew(node *ast.Node, scope *Scope) reduceResult {
	callee := b.reduce(node.Callee, scope)

	argTypes := make([]types.SemType, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		argTypes = append(argTypes, b.reduce(a, scope).Type())
	}

	var constructed types.SemType
	if isCallable(callee.Type()) {
		if obj, ok := getInvocationType(callee.Type(), argTypes).(*types.ObjectType); ok {
			constructed = obj
		}
	}
	if constructed == nil {
		constructed = scope.TypeScope().Intern(types.NewObject("", nil))
	}

	return b.recordOperatorCall(node, scope, "new", reduceResult{typ: constructed})
}

// reduceDeclarator records the declarator's "=" call and, when the
// declaration carried no annotation, replaces the undefined sentinel with
// the initializer's type.
func (b *builder) reduceDeclarator(node *ast.Node, scope *Scope) {
	if node.ID == nil || node.Init == nil {
		return
	}
	vi, ok := scope.LookupVariable(node.ID.Name)
	if !ok {
		return
	}
	init := b.reduce(node.Init, scope)
	b.recordOperatorCall(node, scope, "=", reduceResult{vi: vi}, init)
	if types.IsUndefined(vi.Type) {
		if t := init.Type(); t != nil && !types.IsUndefined(t) {
			vi.Type = t
		}
	}
}

func (b *builder) reduceReturn(node *ast.Node, scope *Scope) {
	arg := reduceResult{typ: types.Undefined}
	if node.Argument != nil {
		arg = b.reduce(node.Argument, scope)
	}
	b.recordOperatorCall(node, scope, "return", arg)
}

// reduceThrow records the "throw" call and appends the thrown type to the
// nearest scope with a throwable list.
func (b *builder) reduceThrow(node *ast.Node, scope *Scope) {
	if node.Argument == nil {
		return
	}
	arg := b.reduce(node.Argument, scope)
	b.recordOperatorCall(node, scope, "throw", arg)
	if catcher := scope.NearestCatchable(); catcher != nil {
		catcher.AddThrowable(arg.Type())
	}
}

func (b *builder) reduceConditionStatement(node *ast.Node, label string, scope *Scope) {
	test := b.reduce(node.Test, scope)
	b.recordOperatorCall(node, scope, label, test)
}

// reduceFor records the "for" pseudo-call. The test and update clauses
// are reduced inside the loop-body scope, where the hoisted loop variable
// lives.
func (b *builder) reduceFor(node *ast.Node, scope *Scope) {
	bodyScope := scope
	if node.BodyNode != nil {
		if s, ok := b.nodeScopes[node.BodyNode]; ok {
			bodyScope = s
		}
	}

	test := reduceResult{typ: types.Undefined}
	if node.Test != nil {
		test = b.reduce(node.Test, bodyScope)
	}
	if node.Update != nil {
		b.reduce(node.Update, bodyScope)
	}
	if node.Right != nil {
		b.reduce(node.Right, scope)
	}

	b.recordOperatorCall(node, scope, "for",
		reduceResult{typ: types.Mixed}, test, reduceResult{typ: types.Mixed})
}

// resolveCatchParameter types the catch parameter from the error type of
// the try block.
func (b *builder) resolveCatchParameter(node *ast.Node) {
	handler := node.Handler
	if handler == nil || handler.Param == nil || handler.Param.Type != ast.Identifier {
		return
	}
	handlerScope, ok := b.nodeScopes[handler.BodyNode]
	if !ok {
		return
	}
	vi, ok := handlerScope.LookupVariable(handler.Param.Name)
	if !ok {
		return
	}
	if types.IsUndefined(vi.Type) {
		vi.Type = b.inferenceErrorType(node)
	}
}

// finishFunction runs a function declaration's late operations: generic
// refinement from body evidence, call checking of the function scope, and
// throwable aggregation onto the declaration.
func (b *builder) finishFunction(node *ast.Node) {
	fnScope, ok := b.nodeScopes[node]
	if !ok || fnScope.Declaration == nil {
		return
	}
	if _, generic := fnScope.Declaration.Type.(*types.GenericType); generic {
		b.inferenceFunctionTypeByScope(fnScope)
	}
	b.checkCalls(fnScope)
	if throwable := fnScope.Throwable(); len(throwable) > 0 {
		fnScope.Declaration.Throwable = throwable
	}
}

func isCallable(t types.SemType) bool {
	switch t := t.(type) {
	case *types.FunctionType:
		return true
	case *types.GenericType:
		_, ok := t.Subordinate.(*types.FunctionType)
		return ok
	}
	return false
}
