package semantics

import (
	"hegel/internal/types"
)

// MixBaseGlobals populates the module scope with the global value
// bindings every module sees.
func MixBaseGlobals(module *ModuleScope) {
	globals := []struct {
		name string
		typ  types.SemType
	}{
		{"undefined", types.Undefined},
		{"null", types.Null},
		{"NaN", types.Number},
		{"Infinity", types.Number},
		{"isNaN", types.NewFunction([]types.SemType{types.Mixed}, types.Boolean)},
		{"isFinite", types.NewFunction([]types.SemType{types.Mixed}, types.Boolean)},
		{"parseInt", types.NewFunction([]types.SemType{types.String}, types.Number)},
		{"parseFloat", types.NewFunction([]types.SemType{types.String}, types.Number)},
		{"String", types.NewFunction([]types.SemType{types.Mixed}, types.String)},
		{"Number", types.NewFunction([]types.SemType{types.Mixed}, types.Number)},
		{"Boolean", types.NewFunction([]types.SemType{types.Mixed}, types.Boolean)},
		{"Error", types.NewFunction(
			[]types.SemType{types.String},
			types.NewObject("Error", []types.Property{{Name: "message", Type: types.String}}),
		)},
	}
	for _, g := range globals {
		_ = module.Declare(g.name, &VariableInfo{Type: g.typ, Parent: &module.Scope})
	}
}

// MixBaseOperators populates the module scope with one variable per
// operator label, each typed as a function encoding the operator's
// semantics. Every label reduceToCall can emit must be seeded here.
func MixBaseOperators(module *ModuleScope) {
	ts := module.TypeScope()

	num2 := []types.SemType{types.Number, types.Number}
	str2 := []types.SemType{types.String, types.String}
	mixed2 := []types.SemType{types.Mixed, types.Mixed}

	arith := types.NewFunction(num2, types.Number)
	numCmp := types.NewFunction(num2, types.Boolean).
		WithOverloads(types.NewFunction(str2, types.Boolean))
	equality := types.NewFunction(mixed2, types.Boolean)
	logical := types.NewFunction(mixed2, types.Mixed)
	numUnary := types.NewFunction([]types.SemType{types.Number}, types.Number)

	// Generic identity-shaped operators; each gets its own local type
	// scope binding T.
	identity := func(label string) types.SemType {
		local := types.NewTypeScope(ts)
		tv := types.NewTypeVar("T", nil)
		_ = local.Bind("T", tv)
		return types.NewGeneric(label, []*types.TypeVar{tv}, local,
			types.NewFunction([]types.SemType{tv}, tv))
	}
	assign := func(label string) types.SemType {
		local := types.NewTypeScope(ts)
		tv := types.NewTypeVar("T", nil)
		_ = local.Bind("T", tv)
		return types.NewGeneric(label, []*types.TypeVar{tv}, local,
			types.NewFunction([]types.SemType{tv, tv}, tv))
	}

	conditionalScope := types.NewTypeScope(ts)
	conditionalVar := types.NewTypeVar("T", nil)
	_ = conditionalScope.Bind("T", conditionalVar)
	conditional := types.NewGeneric("?:", []*types.TypeVar{conditionalVar}, conditionalScope,
		types.NewFunction([]types.SemType{types.Boolean, conditionalVar, conditionalVar}, conditionalVar))

	operators := []struct {
		label string
		typ   types.SemType
	}{
		// arithmetic; "+" also concatenates and has a unary numeric form
		{"+", types.NewFunction(num2, types.Number).WithOverloads(
			types.NewFunction(str2, types.String),
			types.NewFunction([]types.SemType{types.Number}, types.Number),
		)},
		{"-", types.NewFunction(num2, types.Number).WithOverloads(numUnary)},
		{"*", arith},
		{"/", arith},
		{"%", arith},
		{"**", arith},

		// bitwise
		{"&", arith},
		{"|", arith},
		{"^", arith},
		{"<<", arith},
		{">>", arith},
		{">>>", arith},
		{"~", numUnary},

		// comparison
		{"<", numCmp},
		{"<=", numCmp},
		{">", numCmp},
		{">=", numCmp},
		{"==", equality},
		{"!=", equality},
		{"===", equality},
		{"!==", equality},
		{"in", types.NewFunction([]types.SemType{types.String, types.Mixed}, types.Boolean)},
		{"instanceof", types.NewFunction(mixed2, types.Boolean)},

		// logical and unary
		{"&&", logical},
		{"||", logical},
		{"??", logical},
		{"!", types.NewFunction([]types.SemType{types.Mixed}, types.Boolean)},
		{"typeof", types.NewFunction([]types.SemType{types.Mixed}, types.String)},
		{"void", types.NewFunction([]types.SemType{types.Mixed}, types.Undefined)},
		{"delete", types.NewFunction([]types.SemType{types.Mixed}, types.Boolean)},

		// update
		{"++", numUnary},
		{"--", numUnary},

		// assignment
		{"=", assign("=")},
		{"+=", types.NewFunction(num2, types.Number).WithOverloads(
			types.NewFunction(str2, types.String),
		)},
		{"-=", arith},
		{"*=", arith},
		{"/=", arith},
		{"%=", arith},

		// member access; projection out of object types is done by the
		// member reduction (reduceMember), not by the invocation simulation
		{".", types.NewFunction([]types.SemType{types.Mixed, types.Mixed}, types.Mixed)},

		// control-flow pseudo-operators
		{"if", types.NewFunction([]types.SemType{types.Boolean}, types.Undefined)},
		{"while", types.NewFunction([]types.SemType{types.Boolean}, types.Undefined)},
		{"do-while", types.NewFunction([]types.SemType{types.Boolean}, types.Undefined)},
		{"for", types.NewFunction([]types.SemType{types.Mixed, types.Mixed, types.Mixed}, types.Undefined)},
		{"throw", types.NewFunction([]types.SemType{types.Mixed}, types.Undefined)},
		{"return", identity("return")},
		{"?:", conditional},
		{"new", identity("new")},
	}
	for _, op := range operators {
		_ = module.Declare(op.label, &VariableInfo{Type: op.typ, Parent: &module.Scope})
	}
}
