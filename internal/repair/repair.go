package repair

import (
	"context"
	"errors"
	"strings"

	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/pandodao/i18n-keys/internal/keys"
)

// ValueSource decides the value written for a missing key
type ValueSource interface {
	Value(ctx context.Context, d diff.Diff, lang string) (any, error)
}

// Defaults writes the expected value as-is
type Defaults struct{}

// Value returns the diff's expected value
func (Defaults) Value(_ context.Context, d diff.Diff, _ string) (any, error) {
	return d.Value, nil
}

// Result describes what Apply changed
type Result struct {
	Added     []string
	Conflicts []string
}

// Changed reports whether the document was modified
func (r Result) Changed() bool {
	return len(r.Added) > 0
}

// Apply inserts every New diff into doc at its nested path. Deleted diffs
// are left alone; extra keys are only ever reported. A path that runs into
// an existing non-object value is recorded as a conflict and skipped.
func Apply(ctx context.Context, doc keys.Document, diffs []diff.Diff, values ValueSource, lang string) (Result, error) {
	var res Result
	if doc == nil {
		return res, errors.New("repair: nil document")
	}
	if values == nil {
		values = Defaults{}
	}

	for _, d := range diffs {
		if d.Kind != diff.New {
			continue
		}

		parent, leaf, ok := walk(doc, d.Path)
		if !ok {
			res.Conflicts = append(res.Conflicts, d.Path)
			continue
		}

		value, err := values.Value(ctx, d, lang)
		if err != nil {
			return res, err
		}
		parent[leaf] = value
		res.Added = append(res.Added, d.Path)
	}

	return res, nil
}

// walk returns the object that should hold the last path segment, creating
// missing intermediate objects on the way.
func walk(doc keys.Document, path string) (map[string]any, string, bool) {
	parts := strings.Split(path, ".")
	node := map[string]any(doc)
	for _, part := range parts[:len(parts)-1] {
		next, exists := node[part]
		if !exists {
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, "", false
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	if existing, ok := node[leaf].(map[string]any); ok && len(existing) > 0 {
		return nil, "", false
	}
	return node, leaf, true
}
