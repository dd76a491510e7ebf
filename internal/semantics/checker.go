package semantics

import (
	"hegel/internal/diagnostics"
	"hegel/internal/types"
)

// checkCalls validates every call recorded in the scope against its
// target's type, appending a diagnostic for each arity or argument
// mismatch. Overloaded operators pass when any signature accepts the
// arguments; generic targets check arguments against the subordinate
// signature, with unbound type variables accepting anything their
// constraint allows.
func (b *builder) checkCalls(scope *Scope) {
	for _, call := range scope.Calls {
		b.checkCall(call)
	}
}

func (b *builder) checkCall(call *CallMeta) {
	args := make([]types.SemType, len(call.Arguments))
	for i, a := range call.Arguments {
		args[i] = a.ArgType()
	}

	var fn *types.FunctionType
	switch t := call.Target.Type.(type) {
	case *types.FunctionType:
		fn = t
	case *types.GenericType:
		sub, ok := t.Subordinate.(*types.FunctionType)
		if !ok {
			return
		}
		b.checkGenericCall(call, sub, args)
		return
	default:
		return
	}

	candidates := append([]*types.FunctionType{fn}, fn.Overloads...)
	arityMatched := false
	for _, candidate := range candidates {
		if len(candidate.Arguments) != len(args) {
			continue
		}
		arityMatched = true
		if argumentsCompatible(candidate.Arguments, args) {
			return
		}
	}

	if !arityMatched {
		b.bag.Add(diagnostics.Errorf(call.Loc,
			"%d argument(s) expected, but %d given", len(fn.Arguments), len(args)))
		return
	}

	for i := range fn.Arguments {
		if i < len(args) && !isCompatible(fn.Arguments[i], args[i]) {
			b.bag.Add(diagnostics.Errorf(call.Loc,
				"Type %q is incompatible with type %q", args[i].Name(), fn.Arguments[i].Name()))
			return
		}
	}
}

// checkGenericCall validates a call against a generic signature by
// unifying left to right: the first argument hitting a type variable
// binds it, later arguments must agree with the binding.
func (b *builder) checkGenericCall(call *CallMeta, fn *types.FunctionType, args []types.SemType) {
	if len(fn.Arguments) != len(args) {
		b.bag.Add(diagnostics.Errorf(call.Loc,
			"%d argument(s) expected, but %d given", len(fn.Arguments), len(args)))
		return
	}
	bindings := make(map[string]types.SemType)
	for i, param := range fn.Arguments {
		arg := args[i]
		tv, isVar := param.(*types.TypeVar)
		if !isVar {
			if !isCompatible(param, arg) {
				b.bag.Add(diagnostics.Errorf(call.Loc,
					"Type %q is incompatible with type %q", arg.Name(), param.Name()))
				return
			}
			continue
		}
		if tv.Constraint != nil && !isCompatible(tv.Constraint, arg) {
			b.bag.Add(diagnostics.Errorf(call.Loc,
				"Type %q is incompatible with type %q", arg.Name(), tv.Constraint.Name()))
			return
		}
		bound, seen := bindings[tv.Name()]
		if !seen {
			bindings[tv.Name()] = arg
			continue
		}
		if !isCompatible(bound, arg) && !isCompatible(arg, bound) {
			b.bag.Add(diagnostics.Errorf(call.Loc,
				"Type %q is incompatible with type %q", arg.Name(), bound.Name()))
			return
		}
	}
}

// isCompatible reports whether an argument of type arg is acceptable
// where param is expected.
func isCompatible(param, arg types.SemType) bool {
	if param == nil || arg == nil {
		return true
	}
	if types.IsMixed(param) {
		return true
	}
	if param.Equals(arg) {
		return true
	}

	switch p := param.(type) {
	case *types.TypeVar:
		if p.Constraint != nil {
			return isCompatible(p.Constraint, arg)
		}
		return true
	case *types.UnionType:
		for _, v := range p.Variants {
			if isCompatible(v, arg) {
				return true
			}
		}
		return unionArgCompatible(param, arg)
	case *types.PrimitiveType:
		return primitiveCompatible(p, arg)
	case *types.ObjectType:
		if a, ok := arg.(*types.ObjectType); ok {
			for _, prop := range p.Properties {
				at, found := a.PropertyType(prop.Name)
				if !found || !isCompatible(prop.Type, at) {
					return false
				}
			}
			return true
		}
	case *types.FunctionType:
		if a, ok := arg.(*types.FunctionType); ok {
			if len(p.Arguments) != len(a.Arguments) {
				return false
			}
			for i := range p.Arguments {
				if !isCompatible(a.Arguments[i], p.Arguments[i]) {
					return false
				}
			}
			return isCompatible(p.Return, a.Return)
		}
	}

	return unionArgCompatible(param, arg)
}

// primitiveCompatible widens literal arguments to their base primitive
// and lets type variables through.
func primitiveCompatible(param *types.PrimitiveType, arg types.SemType) bool {
	switch a := arg.(type) {
	case *types.PrimitiveType:
		if a.IsLiteral() && !param.IsLiteral() {
			return a.Base() == param.Name()
		}
		return false
	case *types.TypeVar:
		return true
	case *types.UnionType:
		return unionArgCompatible(param, arg)
	}
	return false
}

// unionArgCompatible accepts a union argument only when every variant is
// individually acceptable; a type variable argument is always acceptable.
func unionArgCompatible(param, arg types.SemType) bool {
	switch a := arg.(type) {
	case *types.TypeVar:
		return true
	case *types.UnionType:
		for _, v := range a.Variants {
			if !isCompatible(param, v) {
				return false
			}
		}
		return true
	}
	return false
}
