package types

import (
	"fmt"
	"sort"
	"strings"
)

// SemType is the semantic representation of types in the inferred module.
//
// Design principles:
//   - Types are immutable after creation
//   - Equality is structural (deep comparison)
//   - Every type has a stable canonical name; types are interned by that
//     name inside their owning type scope
type SemType interface {
	// Name returns the canonical string encoding of the type.
	Name() string

	// Equals checks structural equality with another type.
	Equals(other SemType) bool

	// isType is a marker method to prevent external implementation.
	isType()
}

// Primitive Types

// PrimitiveType represents base scalar types (number, string, boolean,
// undefined, null, mixed) and literal types ("a", 1, true).
type PrimitiveType struct {
	name    string
	base    string // base type name for literal types
	literal bool
}

func NewPrimitive(name string) *PrimitiveType {
	return &PrimitiveType{name: name}
}

// NewLiteral creates a literal type whose name is the literal's rendering
// and whose base is the primitive it narrows.
func NewLiteral(name, base string) *PrimitiveType {
	return &PrimitiveType{name: name, base: base, literal: true}
}

func (p *PrimitiveType) Name() string { return p.name }
func (p *PrimitiveType) IsLiteral() bool {
	return p.literal
}

// Base returns the name of the primitive a literal type narrows; for
// non-literal primitives it is the type's own name.
func (p *PrimitiveType) Base() string {
	if p.literal {
		return p.base
	}
	return p.name
}
func (p *PrimitiveType) isType() {}
func (p *PrimitiveType) Equals(other SemType) bool {
	if o, ok := other.(*PrimitiveType); ok {
		return p.name == o.name && p.literal == o.literal
	}
	return false
}

// Type Variables

// TypeVar represents a type variable bound in a generic's local type scope.
type TypeVar struct {
	name       string
	Constraint SemType // nil when unconstrained
}

func NewTypeVar(name string, constraint SemType) *TypeVar {
	return &TypeVar{name: name, Constraint: constraint}
}

func (v *TypeVar) Name() string { return v.name }
func (v *TypeVar) isType()      {}
func (v *TypeVar) Equals(other SemType) bool {
	if o, ok := other.(*TypeVar); ok {
		if v.name != o.name {
			return false
		}
		if v.Constraint == nil || o.Constraint == nil {
			return v.Constraint == nil && o.Constraint == nil
		}
		return v.Constraint.Equals(o.Constraint)
	}
	return false
}

// Object Types

// Property is a named member of an object type, in declaration order.
type Property struct {
	Name string
	Type SemType
}

// ObjectType represents structural object types.
type ObjectType struct {
	name       string
	Properties []Property
}

// NewObject creates an object type. An empty name derives the canonical
// structural name from the properties.
func NewObject(name string, props []Property) *ObjectType {
	o := &ObjectType{name: name, Properties: props}
	if o.name == "" {
		o.name = objectName(props)
	}
	return o
}

func objectName(props []Property) string {
	if len(props) == 0 {
		return "{ }"
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type.Name())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (o *ObjectType) Name() string { return o.name }
func (o *ObjectType) isType()      {}

// PropertyType returns the type of the named property.
func (o *ObjectType) PropertyType(name string) (SemType, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Type, true
		}
	}
	return nil, false
}

func (o *ObjectType) Equals(other SemType) bool {
	ot, ok := other.(*ObjectType)
	if !ok || len(o.Properties) != len(ot.Properties) {
		return false
	}
	for i := range o.Properties {
		if o.Properties[i].Name != ot.Properties[i].Name {
			return false
		}
		if !o.Properties[i].Type.Equals(ot.Properties[i].Type) {
			return false
		}
	}
	return true
}

// Function Types

// FunctionType represents callable signatures: (T1, T2) => R. Operators
// with several meanings carry the alternatives as an overload set; the
// call checker and invocation simulation select among them.
type FunctionType struct {
	Arguments []SemType
	Return    SemType
	Throwable []SemType       // types escaping the callee, nil when none
	Overloads []*FunctionType // alternative signatures, primary excluded
}

func NewFunction(args []SemType, ret SemType) *FunctionType {
	return &FunctionType{Arguments: args, Return: ret}
}

// WithOverloads attaches alternative signatures to a function type.
func (f *FunctionType) WithOverloads(overloads ...*FunctionType) *FunctionType {
	f.Overloads = overloads
	return f
}

func (f *FunctionType) Name() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.Name()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(args, ", "), f.Return.Name())
}

func (f *FunctionType) isType() {}

func (f *FunctionType) Equals(other SemType) bool {
	ft, ok := other.(*FunctionType)
	if !ok || len(f.Arguments) != len(ft.Arguments) {
		return false
	}
	if !f.Return.Equals(ft.Return) {
		return false
	}
	for i := range f.Arguments {
		if !f.Arguments[i].Equals(ft.Arguments[i]) {
			return false
		}
	}
	return true
}

// Union Types

// UnionType represents the union of several types. Variants are kept
// sorted by name and deduplicated, so the canonical name is stable.
type UnionType struct {
	Variants []SemType
}

// NewUnion builds the union of the given types, flattening nested unions.
// A union of one type collapses to that type.
func NewUnion(variants ...SemType) SemType {
	flat := make([]SemType, 0, len(variants))
	for _, v := range variants {
		if u, ok := v.(*UnionType); ok {
			flat = append(flat, u.Variants...)
			continue
		}
		if v != nil {
			flat = append(flat, v)
		}
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].Name() < flat[j].Name() })
	dedup := flat[:0]
	for i, v := range flat {
		if i == 0 || v.Name() != flat[i-1].Name() {
			dedup = append(dedup, v)
		}
	}
	switch len(dedup) {
	case 0:
		return Undefined
	case 1:
		return dedup[0]
	}
	return &UnionType{Variants: dedup}
}

func (u *UnionType) Name() string {
	parts := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		parts[i] = v.Name()
	}
	return strings.Join(parts, " | ")
}

func (u *UnionType) isType() {}

// Contains reports whether the union has a variant equal to t.
func (u *UnionType) Contains(t SemType) bool {
	for _, v := range u.Variants {
		if v.Equals(t) {
			return true
		}
	}
	return false
}

func (u *UnionType) Equals(other SemType) bool {
	ut, ok := other.(*UnionType)
	if !ok || len(u.Variants) != len(ut.Variants) {
		return false
	}
	for i := range u.Variants {
		if !u.Variants[i].Equals(ut.Variants[i]) {
			return false
		}
	}
	return true
}

// Generic Types

// GenericType wraps a function or object type parameterized over type
// variables bound in its own local type scope.
type GenericType struct {
	name           string
	TypeParameters []*TypeVar
	LocalTypeScope *TypeScope
	Subordinate    SemType
}

// NewGeneric creates a generic type. An empty name derives the canonical
// encoding <T1, T2>S from the parameters and subordinate type.
func NewGeneric(name string, params []*TypeVar, local *TypeScope, subordinate SemType) *GenericType {
	g := &GenericType{
		name:           name,
		TypeParameters: params,
		LocalTypeScope: local,
		Subordinate:    subordinate,
	}
	if g.name == "" {
		names := make([]string, len(params))
		for i, p := range params {
			names[i] = p.Name()
		}
		g.name = fmt.Sprintf("<%s>%s", strings.Join(names, ", "), subordinate.Name())
	}
	return g
}

func (g *GenericType) Name() string { return g.name }
func (g *GenericType) isType()      {}

func (g *GenericType) Equals(other SemType) bool {
	gt, ok := other.(*GenericType)
	if !ok || g.name != gt.name || len(g.TypeParameters) != len(gt.TypeParameters) {
		return false
	}
	return g.Subordinate.Equals(gt.Subordinate)
}

// Substitute rewrites t with every type variable replaced by its binding.
// Unbound variables are left in place.
func Substitute(t SemType, bindings map[string]SemType) SemType {
	switch t := t.(type) {
	case *TypeVar:
		if bound, ok := bindings[t.Name()]; ok {
			return bound
		}
		return t
	case *FunctionType:
		args := make([]SemType, len(t.Arguments))
		changed := false
		for i, a := range t.Arguments {
			args[i] = Substitute(a, bindings)
			changed = changed || args[i] != a
		}
		ret := Substitute(t.Return, bindings)
		if !changed && ret == t.Return {
			return t
		}
		out := NewFunction(args, ret)
		out.Throwable = t.Throwable
		out.Overloads = t.Overloads
		return out
	case *ObjectType:
		props := make([]Property, len(t.Properties))
		changed := false
		for i, p := range t.Properties {
			props[i] = Property{Name: p.Name, Type: Substitute(p.Type, bindings)}
			changed = changed || props[i].Type != p.Type
		}
		if !changed {
			return t
		}
		return NewObject("", props)
	case *UnionType:
		variants := make([]SemType, len(t.Variants))
		for i, v := range t.Variants {
			variants[i] = Substitute(v, bindings)
		}
		return NewUnion(variants...)
	default:
		return t
	}
}

// Commonly used types
var (
	Number    = NewPrimitive("number")
	String    = NewPrimitive("string")
	Boolean   = NewPrimitive("boolean")
	Null      = NewPrimitive("null")
	Undefined = NewPrimitive("undefined")
	Mixed     = NewPrimitive("mixed")
)

// IsUndefined reports whether t is the undefined sentinel, the type a
// declaration holds before anything is inferred for it.
func IsUndefined(t SemType) bool {
	return t != nil && t.Name() == Undefined.Name()
}

// IsMixed reports whether t is the top type.
func IsMixed(t SemType) bool {
	return t != nil && t.Name() == Mixed.Name()
}
