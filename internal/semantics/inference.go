package semantics

import (
	"fmt"
	"strconv"

	"hegel/internal/diagnostics"
	"hegel/internal/frontend/ast"
	"hegel/internal/types"
)

// inferenceTypeForNode computes the type of a node given the current type
// scope and value scope. Literals resolve to their base primitives,
// identifiers through the scope chain, annotations through the annotation
// sub-language, and function forms to (possibly generic) signatures.
func (b *builder) inferenceTypeForNode(node *ast.Node, ts *types.TypeScope, scope *Scope) types.SemType {
	if node == nil {
		return types.Undefined
	}
	switch node.Type {
	case ast.NumericLiteral:
		return types.Number
	case ast.StringLiteral, ast.TemplateLiteral:
		return types.String
	case ast.BooleanLiteral:
		return types.Boolean
	case ast.NullLiteral:
		return types.Null

	case ast.Identifier:
		if vi, ok := scope.LookupVariable(node.Name); ok {
			return vi.Type
		}
		return types.Undefined

	case ast.FunctionDeclaration, ast.FunctionExpression, ast.ArrowFunctionExpression,
		ast.ObjectMethod, ast.ClassMethod, ast.ClassDeclaration, ast.ClassExpression:
		return b.functionSignature(node, ts)

	case ast.ObjectExpression:
		return b.objectTypeOf(node, ts, scope)

	case ast.ArrayExpression:
		return types.Mixed

	case ast.PureKey:
		return types.String
	case ast.PureValue:
		return b.elementTypeOf(node.Argument, ts, scope)
	}

	if isAnnotation(node.Type) {
		return b.typeFromAnnotation(node, ts)
	}
	return types.Mixed
}

// functionSignature computes the declared signature of a function-like
// node. Unannotated parameters and return types become fresh type
// variables, making the signature generic until late inference refines it.
func (b *builder) functionSignature(node *ast.Node, ts *types.TypeScope) types.SemType {
	local := types.NewTypeScope(ts)
	var params []*types.TypeVar
	nextVar := 0

	freshVar := func() *types.TypeVar {
		nextVar++
		name := "T"
		if nextVar > 1 {
			name = "T" + strconv.Itoa(nextVar)
		}
		tv := types.NewTypeVar(name, nil)
		_ = local.Bind(name, tv)
		params = append(params, tv)
		return tv
	}

	for _, p := range node.TypeParameters {
		var constraint types.SemType
		if p.Bound != nil {
			constraint = b.typeFromAnnotation(p.Bound, local)
		}
		tv := types.NewTypeVar(p.Name, constraint)
		_ = local.Bind(p.Name, tv)
		params = append(params, tv)
	}

	args := make([]types.SemType, 0, len(node.Params))
	for _, p := range node.Params {
		ident := p.ParamName()
		if ident != nil && ident.TypeAnnotation != nil {
			args = append(args, b.typeFromAnnotation(ident.TypeAnnotation, local))
			continue
		}
		args = append(args, freshVar())
	}

	var ret types.SemType
	if node.ReturnType != nil {
		ret = b.typeFromAnnotation(node.ReturnType, local)
	} else {
		tv := types.NewTypeVar("R", nil)
		_ = local.Bind("R", tv)
		params = append(params, tv)
		ret = tv
	}

	fn := types.NewFunction(args, ret)
	if len(params) == 0 {
		return fn
	}
	return types.NewGeneric("", params, local, fn)
}

// objectTypeOf builds the object type of an object expression, interned
// in the given type scope.
func (b *builder) objectTypeOf(node *ast.Node, ts *types.TypeScope, scope *Scope) types.SemType {
	props := make([]types.Property, 0, len(node.Properties))
	for _, p := range node.Properties {
		name := propertyKeyName(p)
		if name == "" {
			continue
		}
		var propType types.SemType = types.Mixed
		switch {
		case p.Type == ast.ObjectMethod:
			propType = b.inferenceTypeForNode(p, ts, scope)
		case p.Value != nil:
			propType = b.inferenceTypeForNode(p.Value, ts, scope)
		}
		props = append(props, types.Property{Name: name, Type: propType})
	}
	return ts.Intern(types.NewObject("", props))
}

func propertyKeyName(p *ast.Node) string {
	if p.Key == nil {
		return ""
	}
	switch p.Key.Type {
	case ast.Identifier:
		return p.Key.Name
	case ast.StringLiteral:
		return p.Key.StringValue
	case ast.NumericLiteral:
		return strconv.FormatFloat(p.Key.NumberValue, 'f', -1, 64)
	}
	return ""
}

// elementTypeOf computes the type produced by iterating the values of an
// expression: the union of property types for object types, mixed
// otherwise.
func (b *builder) elementTypeOf(node *ast.Node, ts *types.TypeScope, scope *Scope) types.SemType {
	if node == nil {
		return types.Mixed
	}
	t := b.inferenceTypeForNode(node, ts, scope)
	if obj, ok := t.(*types.ObjectType); ok {
		variants := make([]types.SemType, 0, len(obj.Properties))
		for _, p := range obj.Properties {
			variants = append(variants, p.Type)
		}
		if len(variants) > 0 {
			return types.NewUnion(variants...)
		}
	}
	return types.Mixed
}

// typeFromAnnotation materializes a type from an annotation tree inside
// the given type scope.
func (b *builder) typeFromAnnotation(node *ast.Node, ts *types.TypeScope) types.SemType {
	if node == nil {
		return types.Undefined
	}
	switch node.Type {
	case ast.NumberTypeAnnotation:
		return types.Number
	case ast.StringTypeAnnotation:
		return types.String
	case ast.BooleanTypeAnnotation:
		return types.Boolean
	case ast.NullLiteralTypeAnnotation:
		return types.Null
	case ast.VoidTypeAnnotation:
		return types.Undefined
	case ast.AnyTypeAnnotation, ast.MixedTypeAnnotation:
		return types.Mixed

	case ast.StringLiteralTypeAnn:
		return ts.Intern(types.NewLiteral("'"+node.StringValue+"'", "string"))
	case ast.NumberLiteralTypeAnn:
		return ts.Intern(types.NewLiteral(strconv.FormatFloat(node.NumberValue, 'f', -1, 64), "number"))
	case ast.BooleanLiteralTypeAnn:
		return ts.Intern(types.NewLiteral(strconv.FormatBool(node.BoolValue), "boolean"))

	case ast.NullableTypeAnnotation:
		inner := b.typeFromAnnotation(node.TypeAnnotation, ts)
		return ts.Intern(types.NewUnion(inner, types.Null, types.Undefined))

	case ast.UnionTypeAnnotation:
		variants := make([]types.SemType, 0, len(node.Types))
		for _, v := range node.Types {
			variants = append(variants, b.typeFromAnnotation(v, ts))
		}
		return ts.Intern(types.NewUnion(variants...))

	case ast.ObjectTypeAnnotation:
		props := make([]types.Property, 0, len(node.Properties))
		for _, p := range node.Properties {
			name := propertyKeyName(p)
			if name == "" {
				continue
			}
			props = append(props, types.Property{
				Name: name,
				Type: b.typeFromAnnotation(p.Value, ts),
			})
		}
		return ts.Intern(types.NewObject("", props))

	case ast.FunctionTypeAnnotation:
		args := make([]types.SemType, 0, len(node.Params))
		for _, p := range node.Params {
			args = append(args, b.typeFromAnnotation(p.TypeAnnotation, ts))
		}
		ret := b.typeFromAnnotation(node.ReturnType, ts)
		return ts.Intern(types.NewFunction(args, ret))

	case ast.GenericTypeAnnotation:
		return b.typeReference(node, ts)
	}

	b.bag.Add(diagnostics.Errorf(node.Loc, "Unsupported type annotation %q", string(node.Type)))
	return types.Mixed
}

// typeReference resolves a named type reference, instantiating generics
// when type arguments are supplied.
func (b *builder) typeReference(node *ast.Node, ts *types.TypeScope) types.SemType {
	if node.ID == nil {
		return types.Mixed
	}
	name := node.ID.Name
	found, ok := ts.Lookup(name)
	if !ok {
		switch name {
		case "number":
			return types.Number
		case "string":
			return types.String
		case "boolean":
			return types.Boolean
		case "mixed":
			return types.Mixed
		case "void", "undefined":
			return types.Undefined
		case "null":
			return types.Null
		}
		b.bag.Add(diagnostics.Errorf(node.Loc, "Type %q is not defined", name))
		return types.Mixed
	}
	if len(node.TypeParameters) == 0 {
		return found
	}
	generic, ok := found.(*types.GenericType)
	if !ok {
		b.bag.Add(diagnostics.Errorf(node.Loc, "Type %q does not take type arguments", name))
		return found
	}
	if len(node.TypeParameters) != len(generic.TypeParameters) {
		b.bag.Add(diagnostics.Errorf(node.Loc,
			"Type %q expects %d type argument(s), but %d given",
			name, len(generic.TypeParameters), len(node.TypeParameters)))
		return found
	}
	bindings := make(map[string]types.SemType, len(generic.TypeParameters))
	for i, p := range generic.TypeParameters {
		bindings[p.Name()] = b.typeFromAnnotation(node.TypeParameters[i], ts)
	}
	return ts.Intern(types.Substitute(generic.Subordinate, bindings))
}

func isAnnotation(k ast.NodeKind) bool {
	switch k {
	case ast.NumberTypeAnnotation, ast.StringTypeAnnotation, ast.BooleanTypeAnnotation,
		ast.NullLiteralTypeAnnotation, ast.VoidTypeAnnotation, ast.AnyTypeAnnotation,
		ast.MixedTypeAnnotation, ast.NullableTypeAnnotation, ast.GenericTypeAnnotation,
		ast.ObjectTypeAnnotation, ast.FunctionTypeAnnotation, ast.UnionTypeAnnotation,
		ast.StringLiteralTypeAnn, ast.NumberLiteralTypeAnn, ast.BooleanLiteralTypeAnn:
		return true
	}
	return false
}

// getInvocationType simulates applying a callable type to a sequence of
// argument types. Generic callables bind their type variables against the
// arguments and substitute in the return type; overloaded callables
// select the first signature accepting the arguments.
func getInvocationType(callable types.SemType, args []types.SemType) types.SemType {
	switch t := callable.(type) {
	case *types.FunctionType:
		for _, candidate := range append([]*types.FunctionType{t}, t.Overloads...) {
			if len(candidate.Arguments) != len(args) {
				continue
			}
			if argumentsCompatible(candidate.Arguments, args) {
				return candidate.Return
			}
		}
		return t.Return
	case *types.GenericType:
		fn, ok := t.Subordinate.(*types.FunctionType)
		if !ok {
			return types.Mixed
		}
		bindings := make(map[string]types.SemType)
		unifyArguments(fn.Arguments, args, bindings)
		return types.Substitute(fn.Return, bindings)
	}
	return types.Undefined
}

func argumentsCompatible(params, args []types.SemType) bool {
	for i := range params {
		if !isCompatible(params[i], args[i]) {
			return false
		}
	}
	return true
}

// unifyArguments binds type variables occurring in params against the
// corresponding argument types. The first occurrence of a variable wins.
func unifyArguments(params, args []types.SemType, bindings map[string]types.SemType) {
	for i := range params {
		if i >= len(args) {
			return
		}
		unify(params[i], args[i], bindings)
	}
}

func unify(param, arg types.SemType, bindings map[string]types.SemType) {
	if param == nil || arg == nil {
		return
	}
	switch p := param.(type) {
	case *types.TypeVar:
		if _, bound := bindings[p.Name()]; !bound {
			bindings[p.Name()] = arg
		}
	case *types.FunctionType:
		if a, ok := arg.(*types.FunctionType); ok {
			unifyArguments(p.Arguments, a.Arguments, bindings)
			unify(p.Return, a.Return, bindings)
		}
	case *types.ObjectType:
		if a, ok := arg.(*types.ObjectType); ok {
			for _, prop := range p.Properties {
				if at, ok := a.PropertyType(prop.Name); ok {
					unify(prop.Type, at, bindings)
				}
			}
		}
	}
}

// inferenceErrorType computes the type of values thrown inside a try
// block: the union of the block's throwable list.
func (b *builder) inferenceErrorType(tryNode *ast.Node) types.SemType {
	if tryNode.Block == nil {
		return types.Undefined
	}
	tryScope, ok := b.nodeScopes[tryNode.Block]
	if !ok {
		panic(fmt.Errorf("semantics: no scope recorded for try block at %s", tryNode.Block.Loc))
	}
	return types.NewUnion(tryScope.Throwable()...)
}

// inferenceFunctionTypeByScope refines a generic function signature from
// body evidence and, for parameters still unconstrained, from a single
// call site. Once every type variable is bound the declaration's type
// becomes a plain function type.
func (b *builder) inferenceFunctionTypeByScope(fnScope *Scope) {
	decl := fnScope.Declaration
	if decl == nil {
		return
	}
	generic, ok := decl.Type.(*types.GenericType)
	if !ok {
		return
	}
	fn, ok := generic.Subordinate.(*types.FunctionType)
	if !ok {
		return
	}

	bindings := make(map[string]types.SemType)

	// Body evidence: return calls pin the return type variable.
	if ret, ok := fn.Return.(*types.TypeVar); ok {
		var returned []types.SemType
		for _, call := range fnScope.Calls {
			if call.Label != "return" || len(call.Arguments) == 0 {
				continue
			}
			if t := call.Arguments[0].ArgType(); t != nil {
				returned = append(returned, t)
			}
		}
		if len(returned) > 0 {
			united := types.NewUnion(returned...)
			// A return of a bare parameter variable carries no new
			// information beyond tying the return to that variable.
			if _, isVar := united.(*types.TypeVar); !isVar || united != ret {
				bindings[ret.Name()] = united
			}
		} else {
			bindings[ret.Name()] = types.Undefined
		}
	}

	// Call-site evidence: a single recorded invocation specializes the
	// remaining parameter variables.
	if site := b.singleCallSite(decl); site != nil {
		args := make([]types.SemType, 0, len(site.Arguments))
		for _, a := range site.Arguments {
			args = append(args, a.ArgType())
		}
		unifyArguments(fn.Arguments, args, bindings)
	}

	refined, ok := types.Substitute(fn, bindings).(*types.FunctionType)
	if !ok {
		return
	}
	remaining := freeTypeVars(refined)
	if len(remaining) == 0 {
		decl.Type = refined
	} else if !refined.Equals(fn) {
		decl.Type = types.NewGeneric("", remaining, generic.LocalTypeScope, refined)
	}

	// Parameters bound during refinement take their concrete types.
	for _, name := range fnScope.Names() {
		entry, _ := fnScope.Entry(name)
		vi, ok := entry.(*VariableInfo)
		if !ok {
			continue
		}
		if tv, ok := vi.Type.(*types.TypeVar); ok {
			if bound, exists := bindings[tv.Name()]; exists {
				vi.Type = bound
			}
		}
	}
}

// singleCallSite returns the only call in the module graph targeting the
// declaration, or nil when there are none or several.
func (b *builder) singleCallSite(decl *VariableInfo) *CallMeta {
	var found *CallMeta
	visited := make(map[*Scope]bool)
	var visit func(s *Scope) bool
	visit = func(s *Scope) bool {
		if visited[s] {
			return true
		}
		visited[s] = true
		for _, call := range s.Calls {
			if call.Target != decl {
				continue
			}
			if found != nil {
				return false
			}
			found = call
		}
		for _, name := range s.Names() {
			entry, _ := s.Entry(name)
			if child, ok := entry.(*Scope); ok {
				if !visit(child) {
					return false
				}
			}
		}
		return true
	}
	if !visit(&b.module.Scope) {
		return nil
	}
	return found
}

func freeTypeVars(t types.SemType) []*types.TypeVar {
	seen := make(map[string]bool)
	var out []*types.TypeVar
	var walk func(t types.SemType)
	walk = func(t types.SemType) {
		switch t := t.(type) {
		case *types.TypeVar:
			if !seen[t.Name()] {
				seen[t.Name()] = true
				out = append(out, t)
			}
		case *types.FunctionType:
			for _, a := range t.Arguments {
				walk(a)
			}
			walk(t.Return)
		case *types.ObjectType:
			for _, p := range t.Properties {
				walk(p.Type)
			}
		case *types.UnionType:
			for _, v := range t.Variants {
				walk(v)
			}
		}
	}
	walk(t)
	return out
}
