package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pandodao/i18n-keys/internal/diff"
	"github.com/pandodao/i18n-keys/internal/locale"
	"github.com/samber/lo"
)

// Entry holds the discrepancies found for one language key
type Entry struct {
	Missing []diff.Diff `json:"missing"`
	Extra   []diff.Diff `json:"extra"`
}

// Empty reports whether the entry has no discrepancies
func (e *Entry) Empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0
}

// Report aggregates diffs per language key ("en", "billing/en")
type Report struct {
	entries map[string]*Entry
	added   int
}

// New returns an empty report
func New() *Report {
	return &Report{entries: make(map[string]*Entry)}
}

// Add merges a file's diffs into the entry for langKey
func (r *Report) Add(langKey string, diffs []diff.Diff) {
	e, ok := r.entries[langKey]
	if !ok {
		e = &Entry{Missing: []diff.Diff{}, Extra: []diff.Diff{}}
		r.entries[langKey] = e
	}
	e.Missing = append(e.Missing, diff.Missing(diffs)...)
	e.Extra = append(e.Extra, diff.Extra(diffs)...)
}

// AddRepaired records that n missing keys were written to disk
func (r *Report) AddRepaired(n int) {
	r.added += n
}

// Added returns the number of missing keys written to disk
func (r *Report) Added() int {
	return r.added
}

// Repaired reports whether missing keys were written to disk
func (r *Report) Repaired() bool {
	return r.added > 0
}

// Languages returns the language keys with discrepancies, sorted
func (r *Report) Languages() []string {
	langs := lo.Filter(lo.Keys(r.entries), func(lang string, _ int) bool {
		return !r.entries[lang].Empty()
	})
	sort.Strings(langs)
	return langs
}

// Entry returns the entry for a language key
func (r *Report) Entry(lang string) (Entry, bool) {
	e, ok := r.entries[lang]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Totals returns the missing and extra counts across all languages
func (r *Report) Totals() (missing, extra int) {
	for _, e := range r.entries {
		missing += len(e.Missing)
		extra += len(e.Extra)
	}
	return missing, extra
}

// HasExtra reports whether any language has extra keys
func (r *Report) HasExtra() bool {
	_, extra := r.Totals()
	return extra > 0
}

// Failed decides whether the run fails. Only extra keys can fail a run,
// and only when emitErrorOnExtraKeys is set.
func (r *Report) Failed(emitErrorOnExtraKeys bool) bool {
	return emitErrorOnExtraKeys && r.HasExtra()
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// WriteTable renders the report as a table of missing/extra counts per
// language, followed by a summary line. With verbose set every key is listed
// under its language.
func (r *Report) WriteTable(w io.Writer, verbose bool) error {
	langs := r.Languages()
	if len(langs) == 0 {
		_, err := fmt.Fprintln(w, green("🎉 No missing or extra keys"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Language\tName\tMissing\tExtra")
	fmt.Fprintln(tw, "--------\t----\t-------\t-----")
	for _, lang := range langs {
		e := r.entries[lang]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", lang, displayName(lang), len(e.Missing), len(e.Extra))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if verbose {
		for _, lang := range langs {
			e := r.entries[lang]
			fmt.Fprintf(w, "\n### %s\n", lang)
			for _, d := range e.Missing {
				fmt.Fprintf(w, "  %s %s\n", yellow("missing"), d.Path)
			}
			for _, d := range e.Extra {
				fmt.Fprintf(w, "  %s %s\n", red("extra"), d.Path)
			}
		}
	}

	missing, extra := r.Totals()
	fmt.Fprintln(w)
	if r.added > 0 {
		fmt.Fprintf(w, "✅ Added %d missing keys\n", r.added)
	}
	// conflicting paths stay missing after a repair
	if left := missing - r.added; left > 0 {
		fmt.Fprintf(w, "%s %d missing keys\n", yellow("⚠️"), left)
	}
	if extra > 0 {
		_, err := fmt.Fprintf(w, "%s %d extra keys\n", red("❌"), extra)
		return err
	}
	return nil
}

type jsonReport struct {
	Languages map[string]Entry `json:"languages"`
	Missing   int              `json:"missing"`
	Extra     int              `json:"extra"`
	Repaired  bool             `json:"repaired"`
	Added     int              `json:"added"`
}

// WriteJSON renders the languages with discrepancies as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{Languages: make(map[string]Entry), Repaired: r.Repaired(), Added: r.added}
	for _, lang := range r.Languages() {
		out.Languages[lang] = *r.entries[lang]
	}
	out.Missing, out.Extra = r.Totals()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func displayName(langKey string) string {
	lang := langKey
	if i := strings.LastIndex(langKey, "/"); i >= 0 {
		lang = langKey[i+1:]
	}
	return locale.DisplayName(lang)
}
