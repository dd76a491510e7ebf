package semantics

import (
	"fmt"

	"hegel/internal/frontend/ast"
	"hegel/internal/source"
	"hegel/internal/types"
)

// ScopeKind represents the kind of lexical scope.
type ScopeKind int

const (
	KindBlock ScopeKind = iota
	KindFunction
	KindObject
	KindClass
	KindModule
)

func (sk ScopeKind) String() string {
	switch sk {
	case KindBlock:
		return "block"
	case KindFunction:
		return "function"
	case KindObject:
		return "object"
	case KindClass:
		return "class"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// TypeScopeKey is the reserved body key under which a scope stores its
// type scope. The bracketed form cannot collide with a user identifier.
const TypeScopeKey = "[[TypeScope]]"

// Entry is anything a scope body can hold: a variable binding, a child
// scope, or the reserved type scope.
type Entry interface {
	scopeEntry()
}

// VariableInfo is a binding record: the (mutable during inference) type,
// the owning scope, the declaration location, and the set of types the
// binding may throw when invoked.
type VariableInfo struct {
	Type      types.SemType
	Parent    *Scope
	Meta      source.Location
	Throwable []types.SemType
}

func (*VariableInfo) scopeEntry() {}

// Argument is a recorded call argument: either a variable binding or a
// bare type.
type Argument interface {
	ArgType() types.SemType
}

// ArgType lifts a VariableInfo argument to its current type.
func (v *VariableInfo) ArgType() types.SemType { return v.Type }

// TypeArg wraps a bare type as a call argument.
type TypeArg struct {
	T types.SemType
}

func (t TypeArg) ArgType() types.SemType { return t.T }

// CallMeta records one invocation: the target binding, the arguments in
// order, the source location, and the operator label it was recorded under.
type CallMeta struct {
	Target    *VariableInfo
	Arguments []Argument
	Loc       source.Location
	Label     string
}

// Scope is a lexical scope: a body of named entries, an optional owning
// declaration, the calls recorded inside it, and an optional throwable
// effect list.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope

	// Declaration is the binding whose definition opened this scope,
	// set for function and class scopes.
	Declaration *VariableInfo

	Calls []*CallMeta

	names []string
	body  map[string]Entry

	typeScope *types.TypeScope

	throwable []types.SemType
	catchable bool
}

func (*Scope) scopeEntry() {}

// NewScope creates a new scope with the given parent.
func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Kind:   kind,
		Parent: parent,
		body:   make(map[string]Entry),
	}
}

// Declare adds an entry to the scope body.
// Returns an error if the name is already taken in this scope.
func (s *Scope) Declare(name string, entry Entry) error {
	if _, exists := s.body[name]; exists {
		return fmt.Errorf("variable '%s' already declared in this scope", name)
	}
	s.names = append(s.names, name)
	s.body[name] = entry
	return nil
}

// Entry finds an entry by name in this scope only.
func (s *Scope) Entry(name string) (Entry, bool) {
	e, ok := s.body[name]
	return e, ok
}

// Names returns the body keys in insertion order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// LookupVariable finds a variable binding by name, walking up the scope
// chain. Child scopes stored in bodies are not considered.
func (s *Scope) LookupVariable(name string) (*VariableInfo, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.body[name].(*VariableInfo); ok {
			return v, true
		}
	}
	return nil, false
}

// SetTypeScope attaches a type scope to this scope and exposes it in the
// body under the reserved key.
func (s *Scope) SetTypeScope(ts *types.TypeScope) {
	s.typeScope = ts
	if _, exists := s.body[TypeScopeKey]; !exists {
		s.names = append(s.names, TypeScopeKey)
		s.body[TypeScopeKey] = typeScopeEntry{ts}
	}
}

// TypeScope resolves the nearest type scope by walking the value-scope
// ancestors. Every scope reachable from a module resolves one.
func (s *Scope) TypeScope() *types.TypeScope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.typeScope != nil {
			return cur.typeScope
		}
	}
	return nil
}

type typeScopeEntry struct {
	*types.TypeScope
}

func (typeScopeEntry) scopeEntry() {}

// MarkCatchable gives the scope a throwable list, making it the catcher
// for throws reaching it. Scopes without one let throws propagate past.
func (s *Scope) MarkCatchable() {
	s.catchable = true
	if s.throwable == nil {
		s.throwable = []types.SemType{}
	}
}

// Catchable reports whether the scope accumulates thrown types.
func (s *Scope) Catchable() bool { return s.catchable }

// Throwable returns the types recorded as escaping into this scope.
func (s *Scope) Throwable() []types.SemType { return s.throwable }

// AddThrowable appends thrown types to this scope's throwable list.
func (s *Scope) AddThrowable(ts ...types.SemType) {
	s.throwable = append(s.throwable, ts...)
}

// RecordCall appends a call to this scope's call list.
func (s *Scope) RecordCall(call *CallMeta) {
	s.Calls = append(s.Calls, call)
}

// NearestFunction returns the closest enclosing function scope, or the
// module scope when the call site is at the top level.
func (s *Scope) NearestFunction() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == KindFunction || cur.Kind == KindModule {
			return cur
		}
	}
	return s
}

// NearestCatchable returns the closest enclosing scope with a throwable
// list: a try block, a function scope, or the module scope. Nil when
// nothing catches.
func (s *Scope) NearestCatchable() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.catchable {
			return cur
		}
	}
	return nil
}

// ModuleScope is the root scope of a module. Its body holds the global
// and operator bindings, the module type scope under TypeScopeKey, and
// every inner scope under its location-derived key.
type ModuleScope struct {
	Scope
}

// NewModuleScope creates an empty module scope with a fresh type scope.
func NewModuleScope() *ModuleScope {
	m := &ModuleScope{
		Scope: Scope{
			Kind: KindModule,
			body: make(map[string]Entry),
		},
	}
	m.SetTypeScope(types.NewTypeScope(nil))
	m.MarkCatchable()
	return m
}

// ScopeKey derives the stable body key for the scope opened by a node.
func ScopeKey(node *ast.Node) string {
	return fmt.Sprintf("[[Scope %d:%d-%d:%d]]",
		node.Loc.Start.Line, node.Loc.Start.Column,
		node.Loc.End.Line, node.Loc.End.Column)
}

// AnonymousKey derives a body key for an unnamed function or class.
func AnonymousKey(node *ast.Node) string {
	return fmt.Sprintf("[[Anonymous %d:%d]]", node.Loc.Start.Line, node.Loc.Start.Column)
}
