package config

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
)

// Validation failure reasons
const (
	ReasonNotExist = "doesn't exist"
	ReasonNotDir   = "is not a directory"
)

// ValidationError is a resolved path that can't be used
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Validate checks the resolved directories. The translations path is only
// checked for commands that read it.
func Validate(fs afero.Fs, c *Config) []*ValidationError {
	var errs []*ValidationError
	if err := checkDir(fs, "Input", c.Input); err != nil {
		errs = append(errs, err)
	}
	if RequiresTranslations(c.Command) {
		if err := checkDir(fs, "Translations path", c.TranslationsPath); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func checkDir(fs afero.Fs, field, path string) *ValidationError {
	info, err := fs.Stat(path)
	if err != nil {
		return &ValidationError{Field: field, Reason: ReasonNotExist}
	}
	if !info.IsDir() {
		return &ValidationError{Field: field, Reason: ReasonNotDir}
	}
	return nil
}

// Resolver builds the run configuration
type Resolver struct {
	Fs      afero.Fs
	Project ProjectSource

	// Working directory and project base path used for path resolution
	WorkDir  string
	BasePath string

	// Validation messages go to Out, followed by Exit(1)
	Out  io.Writer
	Exit func(code int)
}

// NewResolver returns a resolver rooted at the process working directory
func NewResolver(fs afero.Fs, project ProjectSource) (*Resolver, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return &Resolver{
		Fs:       fs,
		Project:  project,
		WorkDir:  cwd,
		BasePath: DiscoverBasePath(fs, cwd),
		Out:      os.Stdout,
		Exit:     os.Exit,
	}, nil
}

// Resolve merges, resolves and validates the configuration. Invalid
// configuration is fatal: the problems are printed and Exit(1) is called.
func (r *Resolver) Resolve(inline Inline) *Config {
	project, err := r.Project.Load()
	if err != nil {
		r.fail(err.Error())
	}

	cfg := Merge(DefaultConfig(), project, inline)
	cfg.resolvePaths(r.WorkDir, r.BasePath)
	cfg.Scopes = discoverScopes(r.Fs, cfg)

	if errs := Validate(r.Fs, cfg); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		r.fail(msgs...)
	}
	return cfg
}

func (r *Resolver) fail(msgs ...string) {
	highlight := color.New(color.BgRed, color.FgBlack)
	for _, msg := range msgs {
		highlight.Fprintln(r.Out, msg)
	}
	r.Exit(1)
}
