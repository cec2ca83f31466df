package repair

import (
	"context"
	"errors"
	"testing"

	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInsertsNestedKeys(t *testing.T) {
	doc := keys.Document{
		"greeting": "Bonjour",
		"nested":   map[string]any{"welcome": "Bienvenue"},
		"old":      "stale",
	}
	diffs := []diff.Diff{
		{Kind: diff.New, Path: "farewell", Value: "Goodbye"},
		{Kind: diff.New, Path: "nested.thanks", Value: "Thank you"},
		{Kind: diff.New, Path: "deep.a.b", Value: "x"},
		{Kind: diff.Deleted, Path: "old", Value: "stale"},
	}

	res, err := Apply(context.Background(), doc, diffs, nil, "fr")
	require.NoError(t, err)

	assert.True(t, res.Changed())
	assert.Equal(t, []string{"farewell", "nested.thanks", "deep.a.b"}, res.Added)
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, keys.Document{
		"greeting": "Bonjour",
		"farewell": "Goodbye",
		"nested":   map[string]any{"welcome": "Bienvenue", "thanks": "Thank you"},
		"deep":     map[string]any{"a": map[string]any{"b": "x"}},
		"old":      "stale",
	}, doc)
}

func TestApplyReachesFixedPoint(t *testing.T) {
	expected := keys.Document{
		"home": map[string]any{"title": "Home", "nav": map[string]any{"back": "Back"}},
		"cta":  "Go",
		"list": []any{"a", "b"},
	}
	doc := keys.Document{"home": map[string]any{"title": "Accueil"}, "empty": map[string]any{}}

	diffs := diff.Compute(keys.Flatten(doc), keys.Flatten(expected))
	require.NotEmpty(t, diff.Missing(diffs))

	_, err := Apply(context.Background(), doc, diffs, Defaults{}, "fr")
	require.NoError(t, err)

	again := diff.Compute(keys.Flatten(doc), keys.Flatten(expected))
	assert.Empty(t, diff.Missing(again))
	assert.Equal(t, []diff.Diff{{Kind: diff.Deleted, Path: "empty", Value: map[string]any{}}}, diff.Extra(again))
	assert.Equal(t, "Accueil", doc["home"].(map[string]any)["title"])
}

func TestApplyDescendsIntoEmptyObject(t *testing.T) {
	doc := keys.Document{"a": map[string]any{}}
	diffs := diff.Compute(keys.Flatten(doc), keys.Flat{"a.b": "x"})

	res, err := Apply(context.Background(), doc, diffs, nil, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.b"}, res.Added)
	assert.Nil(t, diff.Compute(keys.Flatten(doc), keys.Flat{"a.b": "x"}))
}

func TestApplyReportsConflicts(t *testing.T) {
	doc := keys.Document{
		"a":      "leaf",
		"n":      nil,
		"parent": map[string]any{"child": "x"},
	}
	diffs := []diff.Diff{
		{Kind: diff.New, Path: "a.b", Value: "x"},
		{Kind: diff.New, Path: "n.b", Value: "x"},
		{Kind: diff.New, Path: "parent", Value: "x"},
	}

	res, err := Apply(context.Background(), doc, diffs, nil, "en")
	require.NoError(t, err)

	assert.False(t, res.Changed())
	assert.Equal(t, []string{"a.b", "n.b", "parent"}, res.Conflicts)
	assert.Equal(t, "leaf", doc["a"])
	assert.Equal(t, map[string]any{"child": "x"}, doc["parent"])
}

func TestApplyNilDocument(t *testing.T) {
	_, err := Apply(context.Background(), nil, nil, nil, "en")
	assert.Error(t, err)
}

type fakeTranslator struct {
	calls []string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text string, lang string) (string, error) {
	f.calls = append(f.calls, lang+":"+text)
	if f.err != nil {
		return "", f.err
	}
	return "[" + lang + "] " + text, nil
}

func TestTranslatedValues(t *testing.T) {
	tr := &fakeTranslator{}
	values := Translated{Translator: tr, SourceLang: "en"}
	doc := keys.Document{}
	diffs := []diff.Diff{
		{Kind: diff.New, Path: "greeting", Value: "Hello"},
		{Kind: diff.New, Path: "count", Value: float64(3)},
	}

	_, err := Apply(context.Background(), doc, diffs, values, "de")
	require.NoError(t, err)

	assert.Equal(t, "[de] Hello", doc["greeting"])
	assert.Equal(t, float64(3), doc["count"])
	assert.Equal(t, []string{"de:Hello"}, tr.calls)

	source := keys.Document{}
	_, err = Apply(context.Background(), source, diffs[:1], values, "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", source["greeting"])
	assert.Len(t, tr.calls, 1)
}

func TestTranslatedValuesError(t *testing.T) {
	values := Translated{Translator: &fakeTranslator{err: errors.New("boom")}, SourceLang: "en"}
	doc := keys.Document{}

	_, err := Apply(context.Background(), doc, []diff.Diff{{Kind: diff.New, Path: "a", Value: "A"}}, values, "fr")
	assert.ErrorContains(t, err, "boom")
	assert.NotContains(t, doc, "a")
}
