package cmd

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/pandodao/i18n-keys/internal/config"
	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/pandodao/i18n-keys/internal/locale"
	"github.com/pandodao/i18n-keys/internal/parser"
	"github.com/pandodao/i18n-keys/internal/repair"
	"github.com/pandodao/i18n-keys/internal/scanner"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract translation keys into translation files",
	Long:  `Scan the source code for translation keys and write them into a translation file per language and scope under the output directory. Existing values are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, config.CommandExtract)
		if err != nil {
			return err
		}
		return runExtract(cmd.Context(), s)
	},
}

func runExtract(ctx context.Context, s *session) error {
	expected, err := s.expectedKeys("")
	if err != nil {
		return err
	}

	langs, err := outputLangs(s)
	if err != nil {
		return err
	}
	s.printf("🌍 Languages: %v\n", langs)

	written := 0
	for _, scope := range expected.Scopes() {
		want := keys.Flatten(expected[scope])
		dir := scopeOutputDir(s.cfg, scope)
		for _, p := range want.Paths() {
			s.log.WithField("scope", scope).Debug(p)
		}

		for _, lang := range langs {
			path := filepath.Join(dir, lang+".json")
			tf, err := parser.LoadOrEmpty(s.fs, path)
			if err != nil {
				return err
			}
			if tf.Malformed {
				s.log.WithField("file", path).Warnf("can't parse translation file, leaving it alone: %v", tf.ParseErr)
				continue
			}

			exists, err := afero.Exists(s.fs, path)
			if err != nil {
				return err
			}

			res, err := repair.Apply(ctx, tf.Document, diff.Missing(diff.Compute(keys.Flatten(tf.Document), want)), nil, lang)
			if err != nil {
				return err
			}
			for _, p := range res.Conflicts {
				s.log.WithFields(logrus.Fields{"file": path, "key": p}).Warn("key is blocked by an existing value, not added")
			}
			if exists && !res.Changed() {
				continue
			}

			if err := tf.Save(s.fs); err != nil {
				return err
			}
			written++
			s.log.WithField("file", path).Debugf("added %d keys", len(res.Added))
		}
	}

	s.printf("✅ Extracted %d keys, %d files written to %s\n", countKeys(expected), written, s.cfg.Output)
	return nil
}

// outputLangs returns the configured languages, else the languages of the
// files already in the output directory, else the source language.
func outputLangs(s *session) ([]string, error) {
	if len(s.cfg.Langs) > 0 {
		return s.cfg.Langs, nil
	}

	files, err := scanner.Glob(s.fs, s.cfg.Output, "*.json")
	if err != nil {
		return nil, err
	}
	langs := lo.Uniq(lo.FilterMap(files, func(file string, _ int) (string, bool) {
		loc, err := locale.Parse(file, s.cfg.Output)
		return loc.Lang, err == nil
	}))
	if len(langs) == 0 {
		return []string{s.cfg.SourceLang}, nil
	}
	sort.Strings(langs)
	return langs, nil
}

func scopeOutputDir(cfg *config.Config, scope string) string {
	if dir, ok := cfg.ScopePathMap[scope]; ok {
		return dir
	}
	return locale.Dir(cfg.Output, scope)
}

func countKeys(expected keys.Expected) int {
	return lo.SumBy(expected.Scopes(), func(scope string) int {
		return len(keys.Flatten(expected[scope]))
	})
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
