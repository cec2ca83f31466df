package scanner

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/pandodao/i18n-keys/internal/locale"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Job is a scope together with the translation files that must hold its keys.
// Root is the directory the files' languages are parsed against.
type Job struct {
	Scope string
	Root  string
	Files []string
}

// Locate returns one job per scope that has expected keys.
//
// Scopes with an explicit directory in scopePaths are resolved first and
// count as covered. The rest of the scopes are discovered by walking every
// JSON file under root; the first file seen for a scope decides it, so each
// scope is globbed at most once.
func Locate(fs afero.Fs, scopePaths map[string]string, expected keys.Expected, root string, log logrus.FieldLogger) ([]Job, error) {
	var jobs []Job
	covered := make(map[string]bool)

	explicit := make([]string, 0, len(scopePaths))
	for scope := range scopePaths {
		explicit = append(explicit, scope)
	}
	sort.Strings(explicit)

	for _, scope := range explicit {
		if !expected.Has(scope) {
			continue
		}
		dir := scopePaths[scope]
		files, err := Glob(fs, dir, "*.json")
		if err != nil {
			return nil, err
		}
		covered[scope] = true
		jobs = append(jobs, Job{Scope: scope, Root: dir, Files: files})
	}

	all, err := Glob(fs, root, "**/*.json")
	if err != nil {
		return nil, err
	}

	for _, file := range all {
		loc, err := locale.Parse(file, root)
		if err != nil {
			log.WithField("file", file).Warnf("skipping translation file: %v", err)
			continue
		}
		if covered[loc.Scope] {
			continue
		}
		covered[loc.Scope] = true

		if !expected.Has(loc.Scope) {
			log.WithField("scope", loc.Scope).Debug("no expected keys for scope")
			continue
		}

		files, err := Glob(fs, locale.Dir(root, loc.Scope), "*.json")
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{Scope: loc.Scope, Root: root, Files: files})
	}

	return jobs, nil
}

// Glob matches pattern inside dir and returns sorted absolute paths. A
// directory that doesn't exist matches nothing.
func Glob(fs afero.Fs, dir, pattern string) ([]string, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil || !exists {
		return nil, err
	}

	matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(fs, dir)), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	sort.Strings(files)
	return files, nil
}
