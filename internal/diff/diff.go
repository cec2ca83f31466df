package diff

import (
	"sort"

	"github.com/pandodao/i18n-keys/internal/keys"
)

// Kind tags a difference between a translation file and the expected keys
type Kind string

const (
	// New marks a key that is expected but absent from the file (missing)
	New Kind = "N"
	// Deleted marks a key that is in the file but not expected (extra)
	Deleted Kind = "D"
)

// Diff is a single key-level difference
type Diff struct {
	Kind  Kind   `json:"kind"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Compute compares the key sets of actual and expected. It returns nil when
// both sides hold the same key paths; leaf values are never compared.
func Compute(actual, expected keys.Flat) []Diff {
	var diffs []Diff
	for path, value := range expected {
		if _, ok := actual[path]; !ok {
			diffs = append(diffs, Diff{Kind: New, Path: path, Value: value})
		}
	}
	for path, value := range actual {
		if _, ok := expected[path]; !ok {
			diffs = append(diffs, Diff{Kind: Deleted, Path: path, Value: value})
		}
	}
	if len(diffs) == 0 {
		return nil
	}

	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].Path != diffs[j].Path {
			return diffs[i].Path < diffs[j].Path
		}
		return diffs[i].Kind > diffs[j].Kind
	})
	return diffs
}

// Missing returns the New diffs
func Missing(diffs []Diff) []Diff {
	return filter(diffs, New)
}

// Extra returns the Deleted diffs
func Extra(diffs []Diff) []Diff {
	return filter(diffs, Deleted)
}

func filter(diffs []Diff, kind Kind) []Diff {
	out := []Diff{}
	for _, d := range diffs {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
