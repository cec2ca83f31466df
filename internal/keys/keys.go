package keys

import (
	"sort"
	"strings"
)

// GlobalScope is the scope of keys that don't belong to any named scope
const GlobalScope = "__global"

// Document is a decoded translation tree
type Document = map[string]any

// Flat maps dot-joined key paths to their leaf values
type Flat map[string]any

// Expected maps a scope name to every key extraction found for it
type Expected map[string]Document

// Has reports whether the scope has any expected keys
func (e Expected) Has(scope string) bool {
	doc, ok := e[scope]
	return ok && doc != nil
}

// Scopes returns the scope names in sorted order
func (e Expected) Scopes() []string {
	scopes := make([]string, 0, len(e))
	for scope := range e {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

// Set stores value at the dotted path inside the scope's document,
// creating the scope and intermediate objects as needed. A non-empty object
// already at the path is kept, so a key never hides the keys nested under it.
func (e Expected) Set(scope, path string, value any) {
	doc, ok := e[scope]
	if !ok || doc == nil {
		doc = Document{}
		e[scope] = doc
	}
	node := doc
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	leaf := parts[len(parts)-1]
	if existing, ok := node[leaf].(map[string]any); ok && len(existing) > 0 {
		return
	}
	node[leaf] = value
}

// Paths returns the sorted key paths of f
func (f Flat) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
