package semantics

import (
	"hegel/internal/diagnostics"
	"hegel/internal/frontend/ast"
	"hegel/internal/source"
)

// builder holds the state of one module build: the module scope under
// construction, the diagnostic bag, the node-to-scope registry, and the
// memoized reduction results.
type builder struct {
	module         *ModuleScope
	bag            *diagnostics.Bag
	nodeScopes     map[*ast.Node]*Scope
	results        map[*ast.Node]reduceResult
	functionScopes []*Scope
}

// BuildModuleScope constructs the type graph of a parsed module: it seeds
// the module scope with globals and operators, fills declarations and
// scopes in a first traversal, reduces every statement to calls and infers
// types in a second, runs the final whole-module call check, and returns
// the module scope together with the collected diagnostics.
//
// The module scope is always returned, possibly incomplete when the build
// could not finish.
func BuildModuleScope(program *ast.Node) (module *ModuleScope, errs []*diagnostics.HegelError) {
	b := &builder{
		module:     NewModuleScope(),
		bag:        diagnostics.NewBag(),
		nodeScopes: make(map[*ast.Node]*Scope),
		results:    make(map[*ast.Node]reduceResult),
	}

	defer func() {
		if r := recover(); r != nil {
			hegelErr, ok := r.(*diagnostics.HegelError)
			if !ok {
				panic(r)
			}
			b.bag.Add(hegelErr)
			module = b.module
			errs = b.bag.Errors()
		}
	}()

	MixBaseGlobals(b.module)
	MixBaseOperators(b.module)

	if program != nil {
		ast.Walk(program, ast.Handlers{Pre: b.fill})
		ast.Walk(program, ast.Handlers{
			Post: b.infer,
			OnUnreachable: func(loc source.Location) {
				b.bag.Add(diagnostics.NewError("Unreachable code after this line", loc))
			},
		})
	}

	// Late refinement: generic signatures that stayed generic through
	// their own post-visit pick up call-site evidence recorded after it.
	for _, fnScope := range b.functionScopes {
		b.inferenceFunctionTypeByScope(fnScope)
	}

	b.checkCalls(&b.module.Scope)

	return b.module, b.bag.Errors()
}
