package repair

import (
	"context"
	"fmt"

	"github.com/pandodao/i18n-keys/internal/diff"
)

// Translator turns text into the given language
type Translator interface {
	Translate(ctx context.Context, text string, lang string) (string, error)
}

// Translated fills missing string values by translating the expected value
// into the file's language. The source language keeps the expected value.
type Translated struct {
	Translator Translator
	SourceLang string
}

// Value translates string values for non-source languages
func (t Translated) Value(ctx context.Context, d diff.Diff, lang string) (any, error) {
	text, ok := d.Value.(string)
	if !ok || text == "" || lang == t.SourceLang {
		return d.Value, nil
	}

	result, err := t.Translator.Translate(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("translate %s to %s: %w", d.Path, lang, err)
	}
	return result, nil
}
