package types

import "fmt"

// TypeScope holds named types: aliases, interned structural types, and the
// type variables of a generic. Type scopes form their own parent chain, parallel to the
// value-scope chain; looking up a type walks this chain.
type TypeScope struct {
	parent *TypeScope
	names  []string // insertion order, for stable iteration
	types  map[string]SemType
}

// NewTypeScope creates a new type scope with an optional parent.
func NewTypeScope(parent *TypeScope) *TypeScope {
	return &TypeScope{
		parent: parent,
		types:  make(map[string]SemType),
	}
}

// Parent returns the enclosing type scope, nil at the module root.
func (ts *TypeScope) Parent() *TypeScope { return ts.parent }

// Bind registers a type under the given name in this scope.
// Returns an error if the name is already bound here.
func (ts *TypeScope) Bind(name string, t SemType) error {
	if _, exists := ts.types[name]; exists {
		return fmt.Errorf("type '%s' already declared in this scope", name)
	}
	ts.names = append(ts.names, name)
	ts.types[name] = t
	return nil
}

// Lookup finds a type by name, walking up the scope chain.
func (ts *TypeScope) Lookup(name string) (SemType, bool) {
	if t, ok := ts.types[name]; ok {
		return t, true
	}
	if ts.parent != nil {
		return ts.parent.Lookup(name)
	}
	return nil, false
}

// LookupLocal finds a type only in this scope, without walking parents.
func (ts *TypeScope) LookupLocal(name string) (SemType, bool) {
	t, ok := ts.types[name]
	return t, ok
}

// Intern returns the canonical instance for t inside this scope: if a type
// with the same canonical name is already bound here, that instance wins;
// otherwise t is bound and returned.
func (ts *TypeScope) Intern(t SemType) SemType {
	name := t.Name()
	if existing, ok := ts.types[name]; ok {
		return existing
	}
	ts.names = append(ts.names, name)
	ts.types[name] = t
	return t
}

// Names returns the bound names in insertion order.
func (ts *TypeScope) Names() []string {
	out := make([]string, len(ts.names))
	copy(out, ts.names)
	return out
}
