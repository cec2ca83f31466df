package locale

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pandodao/i18n-keys/internal/keys"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// FileLocale is the scope and language encoded in a translation file path
type FileLocale struct {
	Scope string
	Lang  string
}

// IsGlobal reports whether the file belongs to the global scope
func (l FileLocale) IsGlobal() bool {
	return l.Scope == "" || l.Scope == keys.GlobalScope
}

// Key returns the report key for the file: "scope/lang", or just "lang"
// for global files.
func (l FileLocale) Key() string {
	if l.IsGlobal() {
		return l.Lang
	}
	return l.Scope + "/" + l.Lang
}

// Parse derives the scope and language of filePath from its position under
// root. "<root>/en.json" is global English, "<root>/billing/en.json" is
// English in the billing scope. Other depths are rejected.
func Parse(filePath, root string) (FileLocale, error) {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		return FileLocale{}, fmt.Errorf("%s is not under %s: %w", filePath, root, err)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if parts[0] == ".." {
		return FileLocale{}, fmt.Errorf("%s is not under %s", filePath, root)
	}

	switch len(parts) {
	case 1:
		return FileLocale{Scope: keys.GlobalScope, Lang: trimExt(parts[0])}, nil
	case 2:
		return FileLocale{Scope: parts[0], Lang: trimExt(parts[1])}, nil
	default:
		return FileLocale{}, fmt.Errorf("unexpected translation file depth: %s", rel)
	}
}

// Dir returns the directory holding a scope's files under root
func Dir(root, scope string) string {
	if scope == "" || scope == keys.GlobalScope {
		return root
	}
	return filepath.Join(root, scope)
}

// DisplayName returns the language's name in its own language, or the
// code itself when it isn't a valid language tag.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.Self.Name(tag)
	if name == "" {
		return code
	}
	return name
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
