package keys

// Flatten converts a nested document into dot-joined key paths.
//
// Only non-empty objects are descended into. Scalars, nulls, arrays and
// empty objects are leaves, so any shape yields a stable key set. A root
// that isn't an object has no keys.
func Flatten(doc any) Flat {
	var root map[string]any
	switch d := doc.(type) {
	case map[string]any:
		root = d
	case Flat:
		root = d
	}
	out := make(Flat, len(root))
	for k, v := range root {
		flattenInto(out, k, v)
	}
	return out
}

func flattenInto(out Flat, path string, v any) {
	node, ok := v.(map[string]any)
	if !ok || len(node) == 0 {
		out[path] = v
		return
	}
	for k, child := range node {
		flattenInto(out, path+"."+k, child)
	}
}
