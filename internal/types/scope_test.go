package types

import "testing"

func TestTypeScopeBindAndLookup(t *testing.T) {
	ts := NewTypeScope(nil)
	if err := ts.Bind("A", Number); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	got, ok := ts.Lookup("A")
	if !ok || !got.Equals(Number) {
		t.Error("Lookup should find the bound type")
	}
	if err := ts.Bind("A", String); err == nil {
		t.Error("Rebinding the same name should fail")
	}
}

func TestTypeScopeChainLookup(t *testing.T) {
	parent := NewTypeScope(nil)
	_ = parent.Bind("A", Number)
	child := NewTypeScope(parent)

	if _, ok := child.Lookup("A"); !ok {
		t.Error("Lookup should walk the parent chain")
	}
	if _, ok := child.LookupLocal("A"); ok {
		t.Error("LookupLocal should not walk the parent chain")
	}
}

func TestTypeScopeIntern(t *testing.T) {
	ts := NewTypeScope(nil)
	a := NewObject("", []Property{{Name: "v", Type: Number}})
	b := NewObject("", []Property{{Name: "v", Type: Number}})

	first := ts.Intern(a)
	second := ts.Intern(b)
	if first != second {
		t.Error("Interning an equally named type should yield the existing instance")
	}
}

func TestTypeScopeInternIgnoresParent(t *testing.T) {
	parent := NewTypeScope(nil)
	obj := NewObject("", nil)
	parent.Intern(obj)

	child := NewTypeScope(parent)
	other := NewObject("", nil)
	// interning targets the receiving scope, not an ancestor
	if got := child.Intern(other); got != other {
		t.Error("Intern should only consult the target scope")
	}
}
