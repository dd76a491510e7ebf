package semantics

import (
	"testing"

	"hegel/internal/types"
)

func TestCompatibilityMixedAcceptsAll(t *testing.T) {
	for _, arg := range []types.SemType{types.Number, types.String, types.Null,
		types.NewObject("", nil), types.NewFunction(nil, types.Undefined)} {
		if !isCompatible(types.Mixed, arg) {
			t.Errorf("mixed should accept %s", arg.Name())
		}
	}
}

func TestCompatibilityPrimitives(t *testing.T) {
	if !isCompatible(types.Number, types.Number) {
		t.Error("number should accept number")
	}
	if isCompatible(types.Number, types.String) {
		t.Error("number should reject string")
	}
}

func TestCompatibilityLiteralWidens(t *testing.T) {
	lit := types.NewLiteral("'e'", "string")
	if !isCompatible(types.String, lit) {
		t.Error("string should accept a string literal type")
	}
	if isCompatible(types.Number, lit) {
		t.Error("number should reject a string literal type")
	}
}

func TestCompatibilityUnionParameter(t *testing.T) {
	u := types.NewUnion(types.Number, types.String)
	if !isCompatible(u, types.Number) || !isCompatible(u, types.String) {
		t.Error("A union parameter should accept its variants")
	}
	if isCompatible(u, types.Boolean) {
		t.Error("A union parameter should reject outside types")
	}
}

func TestCompatibilityUnionArgument(t *testing.T) {
	u := types.NewUnion(types.Number, types.String)
	if isCompatible(types.Number, u) {
		t.Error("number should reject a wider union argument")
	}
	if !isCompatible(types.NewUnion(types.Number, types.String, types.Boolean), u) {
		t.Error("A wider union parameter should accept a narrower union")
	}
}

func TestCompatibilityTypeVar(t *testing.T) {
	tv := types.NewTypeVar("T", nil)
	if !isCompatible(tv, types.Number) {
		t.Error("An unconstrained variable should accept anything")
	}
	constrained := types.NewTypeVar("N", types.Number)
	if !isCompatible(constrained, types.Number) || isCompatible(constrained, types.String) {
		t.Error("A constrained variable should enforce its constraint")
	}
	if !isCompatible(types.Number, tv) {
		t.Error("A variable argument should be accepted anywhere")
	}
}

func TestCompatibilityObjects(t *testing.T) {
	want := types.NewObject("", []types.Property{{Name: "v", Type: types.Number}})
	wider := types.NewObject("", []types.Property{
		{Name: "v", Type: types.Number},
		{Name: "w", Type: types.String},
	})
	if !isCompatible(want, wider) {
		t.Error("Structural subtyping should accept extra properties")
	}
	if isCompatible(wider, want) {
		t.Error("Missing properties should be rejected")
	}
}

func TestCompatibilityFunctions(t *testing.T) {
	a := types.NewFunction([]types.SemType{types.Number}, types.String)
	b := types.NewFunction([]types.SemType{types.Number}, types.String)
	c := types.NewFunction([]types.SemType{types.String}, types.String)
	if !isCompatible(a, b) {
		t.Error("Equal signatures should be compatible")
	}
	if isCompatible(a, c) {
		t.Error("Different parameter types should be rejected")
	}
}

func TestInvocationOverloadSelection(t *testing.T) {
	plus := types.NewFunction([]types.SemType{types.Number, types.Number}, types.Number).
		WithOverloads(
			types.NewFunction([]types.SemType{types.String, types.String}, types.String),
			types.NewFunction([]types.SemType{types.Number}, types.Number),
		)

	if got := getInvocationType(plus, []types.SemType{types.Number, types.Number}); got.Name() != "number" {
		t.Errorf("numeric addition should yield number, got %s", got.Name())
	}
	if got := getInvocationType(plus, []types.SemType{types.String, types.String}); got.Name() != "string" {
		t.Errorf("concatenation should yield string, got %s", got.Name())
	}
	if got := getInvocationType(plus, []types.SemType{types.Number}); got.Name() != "number" {
		t.Errorf("unary overload should yield number, got %s", got.Name())
	}
}

func TestInvocationGenericSpecialization(t *testing.T) {
	local := types.NewTypeScope(nil)
	tv := types.NewTypeVar("T", nil)
	_ = local.Bind("T", tv)
	identity := types.NewGeneric("", []*types.TypeVar{tv}, local,
		types.NewFunction([]types.SemType{tv}, tv))

	got := getInvocationType(identity, []types.SemType{types.String})
	if got.Name() != "string" {
		t.Errorf("Generic application should specialize, got %s", got.Name())
	}
}
