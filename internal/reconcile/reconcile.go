package reconcile

import (
	"context"
	"fmt"
	"io"

	"github.com/pandodao/i18n-keys/internal/config"
	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/pandodao/i18n-keys/internal/locale"
	"github.com/pandodao/i18n-keys/internal/logging"
	"github.com/pandodao/i18n-keys/internal/parser"
	"github.com/pandodao/i18n-keys/internal/repair"
	"github.com/pandodao/i18n-keys/internal/report"
	"github.com/pandodao/i18n-keys/internal/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const progressMessage = "Checking for missing keys"

// Engine compares the expected keys with the translation files on disk
type Engine struct {
	fs     afero.Fs
	log    logrus.FieldLogger
	values repair.ValueSource

	progress    io.Writer
	interactive bool
}

// Option configures an Engine
type Option func(*Engine)

// WithValues sets where repaired values come from. The default writes the
// expected value.
func WithValues(values repair.ValueSource) Option {
	return func(e *Engine) {
		e.values = values
	}
}

// WithProgress shows a spinner on out while files are checked
func WithProgress(out io.Writer, enabled bool) Option {
	return func(e *Engine) {
		e.progress = out
		e.interactive = enabled
	}
}

// New returns an engine working on fs
func New(fs afero.Fs, log logrus.FieldLogger, opts ...Option) *Engine {
	e := &Engine{
		fs:     fs,
		log:    log,
		values: repair.Defaults{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run checks every translation file of every scope with expected keys and
// returns the aggregated report. Missing keys are written back when
// cfg.AddMissingKeys is set.
func (e *Engine) Run(ctx context.Context, cfg *config.Config, expected keys.Expected) (*report.Report, error) {
	rep := report.New()
	spinner := logging.StartSpinner(e.progress, progressMessage, e.interactive)

	jobs, err := scanner.Locate(e.fs, cfg.ScopePathMap, expected, cfg.TranslationsPath, e.log)
	if err != nil {
		return nil, fmt.Errorf("locate translation files: %w", err)
	}

	for _, job := range jobs {
		want := keys.Flatten(expected[job.Scope])
		for _, file := range job.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := e.reconcileFile(ctx, cfg, rep, job, file, want); err != nil {
				return nil, err
			}
			spinner.Tick()
		}
	}

	spinner.Success(progressMessage)
	return rep, nil
}

func (e *Engine) reconcileFile(ctx context.Context, cfg *config.Config, rep *report.Report, job scanner.Job, file string, want keys.Flat) error {
	parsed, err := locale.Parse(file, job.Root)
	if err != nil {
		e.log.WithField("file", file).Warnf("skipping translation file: %v", err)
		return nil
	}
	loc := locale.FileLocale{Scope: job.Scope, Lang: parsed.Lang}
	log := e.log.WithFields(logrus.Fields{"file": file, "lang": loc.Key()})

	tf, err := parser.Load(e.fs, file)
	if err != nil {
		return err
	}
	if tf.Malformed {
		log.Warnf("can't parse translation file, comparing it as empty: %v", tf.ParseErr)
	}

	diffs := diff.Compute(keys.Flatten(tf.Document), want)
	rep.Add(loc.Key(), diffs)
	log.Debugf("%d differences", len(diffs))

	if !cfg.AddMissingKeys || len(diff.Missing(diffs)) == 0 {
		return nil
	}
	if tf.Malformed {
		log.Warn("not adding missing keys to a file that can't be parsed")
		return nil
	}

	res, err := repair.Apply(ctx, tf.Document, diffs, e.values, loc.Lang)
	if err != nil {
		return fmt.Errorf("repair %s: %w", file, err)
	}
	for _, path := range res.Conflicts {
		log.WithField("key", path).Warn("key is blocked by an existing value, not added")
	}
	if !res.Changed() {
		return nil
	}

	if err := tf.Save(e.fs); err != nil {
		return err
	}
	rep.AddRepaired(len(res.Added))
	log.Debugf("added %d missing keys", len(res.Added))
	return nil
}
