package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the project configuration file name, without extension
const DefaultConfigName = "i18n-keys.config"

// ProjectConfig is the project-level i18n configuration
type ProjectConfig struct {
	RootTranslationsPath string            `mapstructure:"rootTranslationsPath" json:"rootTranslationsPath,omitempty"`
	Langs                []string          `mapstructure:"langs" json:"langs,omitempty"`
	KeysManager          KeysManagerConfig `mapstructure:"keysManager" json:"keysManager"`
	ScopePathMap         map[string]string `mapstructure:"scopePathMap" json:"scopePathMap,omitempty"`
}

// KeysManagerConfig holds the project overrides specific to this tool
type KeysManagerConfig struct {
	Input                string `mapstructure:"input" json:"input,omitempty"`
	Output               string `mapstructure:"output" json:"output,omitempty"`
	DefaultValue         string `mapstructure:"defaultValue" json:"defaultValue,omitempty"`
	SourceLang           string `mapstructure:"sourceLang" json:"sourceLang,omitempty"`
	AddMissingKeys       *bool  `mapstructure:"addMissingKeys" json:"addMissingKeys,omitempty"`
	EmitErrorOnExtraKeys *bool  `mapstructure:"emitErrorOnExtraKeys" json:"emitErrorOnExtraKeys,omitempty"`
}

// ProjectSource provides the project configuration
type ProjectSource interface {
	Load() (ProjectConfig, error)
}

// StaticSource is a fixed project configuration
type StaticSource ProjectConfig

// Load returns the configuration itself
func (s StaticSource) Load() (ProjectConfig, error) {
	return ProjectConfig(s), nil
}

// FileSource reads the project configuration from a JSON, YAML or TOML file
type FileSource struct {
	Fs afero.Fs

	// Explicit file; when empty DefaultConfigName is searched in SearchDirs
	Path       string
	SearchDirs []string
}

// Load reads the configuration file. A searched-for file that doesn't exist
// gives an empty configuration; an explicit file has to exist.
func (s *FileSource) Load() (ProjectConfig, error) {
	var pc ProjectConfig

	v := viper.New()
	v.SetFs(s.Fs)
	if s.Path != "" {
		v.SetConfigFile(s.Path)
	} else {
		v.SetConfigName(DefaultConfigName)
		for _, dir := range s.SearchDirs {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && s.Path == "" {
			return pc, nil
		}
		return pc, fmt.Errorf("read project config: %w", err)
	}

	if err := v.Unmarshal(&pc); err != nil {
		return pc, fmt.Errorf("parse project config %s: %w", v.ConfigFileUsed(), err)
	}

	// viper folds keys to lower case, scope names have to keep theirs
	scopes, err := readScopePathMap(s.Fs, v.ConfigFileUsed())
	if err != nil {
		return pc, fmt.Errorf("parse scopePathMap in %s: %w", v.ConfigFileUsed(), err)
	}
	if scopes != nil {
		pc.ScopePathMap = scopes
	}
	return pc, nil
}

func readScopePathMap(fs afero.Fs, path string) (map[string]string, error) {
	var raw struct {
		ScopePathMap map[string]string `json:"scopePathMap" yaml:"scopePathMap"`
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	return raw.ScopePathMap, nil
}

// DefaultProjectConfig returns the configuration written by "init"
func DefaultProjectConfig() ProjectConfig {
	def := DefaultConfig()
	return ProjectConfig{
		RootTranslationsPath: def.TranslationsPath,
		Langs:                []string{def.SourceLang},
		KeysManager: KeysManagerConfig{
			Input:      def.Input,
			Output:     def.Output,
			SourceLang: def.SourceLang,
		},
		ScopePathMap: map[string]string{},
	}
}

// SaveProjectConfig writes a project configuration file as JSON
func SaveProjectConfig(fs afero.Fs, pc ProjectConfig, path string) error {
	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0644)
}

// DiscoverBasePath finds the project's source root relative to cwd: the
// sourceRoot of the default project in angular.json, else "src" when that
// directory exists, else the working directory itself.
func DiscoverBasePath(fs afero.Fs, cwd string) string {
	if data, err := afero.ReadFile(fs, filepath.Join(cwd, "angular.json")); err == nil {
		var workspace struct {
			DefaultProject string `json:"defaultProject"`
			Projects       map[string]struct {
				SourceRoot string `json:"sourceRoot"`
			} `json:"projects"`
		}
		if json.Unmarshal(data, &workspace) == nil {
			if p, ok := workspace.Projects[workspace.DefaultProject]; ok && p.SourceRoot != "" {
				return p.SourceRoot
			}
			if len(workspace.Projects) == 1 {
				for _, p := range workspace.Projects {
					if p.SourceRoot != "" {
						return p.SourceRoot
					}
				}
			}
		}
	}

	if ok, _ := afero.DirExists(fs, filepath.Join(cwd, "src")); ok {
		return "src"
	}
	return ""
}
