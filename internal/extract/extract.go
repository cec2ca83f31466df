package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/pandodao/i18n-keys/internal/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// SourcePattern matches the files searched for translation keys
const SourcePattern = "**/*.{ts,js,html,vue,tsx,jsx}"

var skipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	".git":         true,
}

// Patterns for translation key usages
var (
	// t('...'), translate('...'), selectTranslate('...'), also this.t(...) and $t(...)
	callPattern = regexp.MustCompile(`(?:^|[^a-zA-Z0-9_])(?:t|translate|selectTranslate)\(\s*['"\x60]([a-zA-Z0-9_.\-]+)['"\x60]`)
	// {{ 'key' | transloco }}
	pipePattern = regexp.MustCompile(`['"]([a-zA-Z0-9_.\-]+)['"]\s*\|\s*transloco\b`)
	// <span transloco="key">
	attrPattern = regexp.MustCompile(`\btransloco="([a-zA-Z0-9_.\-]+)"`)
)

// FindKeys returns every translation key used in src, sorted and unique
func FindKeys(src string) []string {
	set := make(map[string]struct{})
	for _, pat := range []*regexp.Regexp{callPattern, pipePattern, attrPattern} {
		for _, m := range pat.FindAllStringSubmatch(src, -1) {
			if key := m[1]; validKey(key) {
				set[key] = struct{}{}
			}
		}
	}

	found := make([]string, 0, len(set))
	for key := range set {
		found = append(found, key)
	}
	sort.Strings(found)
	return found
}

// Extractor collects the translation keys used under an input directory
type Extractor struct {
	fs           afero.Fs
	scopes       map[string]bool
	defaultValue string
	log          logrus.FieldLogger
}

// New returns an extractor. Keys whose first segment is one of scopes
// belong to that scope; the rest are global.
func New(fs afero.Fs, scopes []string, defaultValue string, log logrus.FieldLogger) *Extractor {
	known := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		known[s] = true
	}
	return &Extractor{
		fs:           fs,
		scopes:       known,
		defaultValue: defaultValue,
		log:          log,
	}
}

// Extract scans the source files under input and returns the expected keys
// per scope.
func (x *Extractor) Extract(input string) (keys.Expected, error) {
	files, err := scanner.Glob(x.fs, input, SourcePattern)
	if err != nil {
		return nil, fmt.Errorf("list source files in %s: %w", input, err)
	}

	used := make(map[string]struct{})
	for _, file := range files {
		if skipped(input, file) {
			continue
		}
		data, err := afero.ReadFile(x.fs, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		found := FindKeys(string(data))
		if len(found) > 0 {
			x.log.WithField("file", file).Debugf("found %d keys", len(found))
		}
		for _, key := range found {
			used[key] = struct{}{}
		}
	}

	// sorted so a prefix key is set before the keys nested under it
	all := make([]string, 0, len(used))
	for key := range used {
		all = append(all, key)
	}
	sort.Strings(all)

	expected := keys.Expected{}
	for _, key := range all {
		x.add(expected, key)
	}
	return expected, nil
}

func (x *Extractor) add(expected keys.Expected, key string) {
	scope, path := keys.GlobalScope, key
	if i := strings.Index(key, "."); i > 0 && x.scopes[key[:i]] {
		scope, path = key[:i], key[i+1:]
	}
	expected.Set(scope, path, x.value(key))
}

func (x *Extractor) value(key string) string {
	if x.defaultValue != "" {
		return x.defaultValue
	}
	return fmt.Sprintf("Missing value for '%s'", key)
}

// validKey rejects keys with an empty segment such as "a..b" or ".a"
func validKey(key string) bool {
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func skipped(root, file string) bool {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skipDirs[part] {
			return true
		}
	}
	return false
}
