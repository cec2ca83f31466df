package config

import (
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Commands that change how the configuration is validated
const (
	CommandFind    = "find"
	CommandExtract = "extract"
)

// Config is the resolved configuration of a run. It is built once by
// Resolver.Resolve and only read afterwards.
type Config struct {
	// Directory scanned for translation key usages
	Input string

	// Directory extracted translation files are written to
	Output string

	// Root directory of the existing translation files
	TranslationsPath string

	// Value used for extracted keys (empty means a "Missing value" message)
	DefaultValue string

	// Languages to write when extracting
	Langs []string

	// Language whose values are never machine translated
	SourceLang string

	// Explicit translation directory per scope
	ScopePathMap map[string]string

	// Every known scope name, sorted
	Scopes []string

	// Write missing keys back to the translation files
	AddMissingKeys bool

	// Fail the run when a translation file has keys that aren't used
	EmitErrorOnExtraKeys bool

	// The command being run
	Command string
}

// DefaultConfig returns the built-in configuration. Paths are relative to
// the project base path.
func DefaultConfig() *Config {
	return &Config{
		Input:            "app",
		Output:           "assets/i18n",
		TranslationsPath: "assets/i18n",
		SourceLang:       "en",
		ScopePathMap:     map[string]string{},
	}
}

// RequiresTranslations reports whether a command reads existing translation
// files, in which case the translations path has to exist.
func RequiresTranslations(command string) bool {
	return command == CommandFind
}

// Inline holds overrides supplied by the caller, usually from flags. Empty
// strings and nil pointers are unset.
type Inline struct {
	Input                string
	Output               string
	TranslationsPath     string
	DefaultValue         string
	SourceLang           string
	AddMissingKeys       *bool
	EmitErrorOnExtraKeys *bool
	Command              string
}

// Merge combines the defaults, the project configuration and the inline
// overrides, in increasing priority. Each field has its own merge rule.
// Paths are left as configured.
func Merge(def *Config, project ProjectConfig, inline Inline) *Config {
	return &Config{
		Input:                mergeInput(def, project, inline),
		Output:               mergeOutput(def, project, inline),
		TranslationsPath:     mergeTranslationsPath(def, project, inline),
		DefaultValue:         mergeDefaultValue(def, project, inline),
		Langs:                mergeLangs(def, project),
		SourceLang:           mergeSourceLang(def, project, inline),
		ScopePathMap:         mergeScopePathMap(def, project),
		AddMissingKeys:       mergeFlag(def.AddMissingKeys, project.KeysManager.AddMissingKeys, inline.AddMissingKeys),
		EmitErrorOnExtraKeys: mergeFlag(def.EmitErrorOnExtraKeys, project.KeysManager.EmitErrorOnExtraKeys, inline.EmitErrorOnExtraKeys),
		Command:              inline.Command,
	}
}

func mergeInput(def *Config, p ProjectConfig, in Inline) string {
	return firstSet(in.Input, p.KeysManager.Input, def.Input)
}

func mergeOutput(def *Config, p ProjectConfig, in Inline) string {
	return firstSet(in.Output, p.KeysManager.Output, def.Output)
}

func mergeTranslationsPath(def *Config, p ProjectConfig, in Inline) string {
	return firstSet(in.TranslationsPath, p.RootTranslationsPath, def.TranslationsPath)
}

func mergeDefaultValue(def *Config, p ProjectConfig, in Inline) string {
	return firstSet(in.DefaultValue, p.KeysManager.DefaultValue, def.DefaultValue)
}

func mergeSourceLang(def *Config, p ProjectConfig, in Inline) string {
	return firstSet(in.SourceLang, p.KeysManager.SourceLang, def.SourceLang)
}

// mergeLangs replaces the whole list; lists are never merged element-wise.
func mergeLangs(def *Config, p ProjectConfig) []string {
	if len(p.Langs) > 0 {
		return append([]string(nil), p.Langs...)
	}
	return append([]string(nil), def.Langs...)
}

func mergeScopePathMap(def *Config, p ProjectConfig) map[string]string {
	src := def.ScopePathMap
	if len(p.ScopePathMap) > 0 {
		src = p.ScopePathMap
	}
	out := make(map[string]string, len(src))
	for scope, dir := range src {
		out[scope] = dir
	}
	return out
}

func mergeFlag(def bool, project, inline *bool) bool {
	if inline != nil {
		return *inline
	}
	if project != nil {
		return *project
	}
	return def
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ResolvePath joins cwd, the project base path and p. An absolute p is kept
// as-is and an absolute base replaces cwd.
func ResolvePath(cwd, base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if filepath.IsAbs(base) {
		return filepath.Join(base, p)
	}
	return filepath.Join(cwd, base, p)
}

func (c *Config) resolvePaths(cwd, base string) {
	c.Input = ResolvePath(cwd, base, c.Input)
	c.Output = ResolvePath(cwd, base, c.Output)
	c.TranslationsPath = ResolvePath(cwd, base, c.TranslationsPath)

	// scope directories are relative to the working directory, not the base path
	for scope, dir := range c.ScopePathMap {
		c.ScopePathMap[scope] = ResolvePath(cwd, "", dir)
	}
}

// discoverScopes returns the scopes named in the scope path map plus the
// directories directly under the translations path.
func discoverScopes(fs afero.Fs, c *Config) []string {
	set := make(map[string]struct{})
	for scope := range c.ScopePathMap {
		set[scope] = struct{}{}
	}
	if entries, err := afero.ReadDir(fs, c.TranslationsPath); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				set[e.Name()] = struct{}{}
			}
		}
	}

	scopes := lo.Keys(set)
	sort.Strings(scopes)
	return scopes
}
