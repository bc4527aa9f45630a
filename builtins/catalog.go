// Package builtins is Kuiper's built-in function catalog: a fixed registry
// of named functions, each with positional arity bounds, an optional
// required trailing lambda, a determinism flag, and an evaluator closure.
// The exec-tree builder (package compiler) resolves Call names against
// this catalog; the evaluator never looks functions up by name again once
// a Call node holds a resolved *exec.BuiltinEntry.
package builtins

import "github.com/kuiper-lang/kuiper/exec"

var catalog map[string]*exec.BuiltinEntry

func register(e *exec.BuiltinEntry) {
	if catalog == nil {
		catalog = map[string]*exec.BuiltinEntry{}
	}
	if _, exists := catalog[e.Name]; exists {
		panic("builtins: duplicate registration for " + e.Name)
	}
	catalog[e.Name] = e
}

// Lookup returns the catalog entry for name, or nil if unknown.
func Lookup(name string) *exec.BuiltinEntry {
	return catalog[name]
}

// Names returns every registered builtin name, in no particular order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	return names
}

// All returns the full catalog, for tooling (modgen, docs) that needs to
// walk every entry.
func All() map[string]*exec.BuiltinEntry {
	return catalog
}

func init() {
	registerMath()
	registerConversions()
	registerCollections()
	registerStrings()
	registerRegex()
	registerTime()
	registerControl()
	registerHashing()
	registerJSON()
}
