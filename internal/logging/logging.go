package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out. Verbose enables debug output; quiet
// keeps only errors.
func New(out io.Writer, verbose, quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	switch {
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// Interactive reports whether progress output should be shown. Setting
// PRODUCTION in the environment turns it off, as does quiet mode.
func Interactive(quiet bool) bool {
	return !quiet && os.Getenv("PRODUCTION") == ""
}

// Spinner shows progress while the translation files are scanned
type Spinner struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// StartSpinner starts a spinner with msg. A disabled spinner prints nothing.
func StartSpinner(out io.Writer, msg string, enabled bool) *Spinner {
	if !enabled {
		return &Spinner{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(msg),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Spinner{out: out, bar: bar}
}

// Tick advances the spinner by one processed item
func (s *Spinner) Tick() {
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// Success stops the spinner and prints msg
func (s *Spinner) Success(msg string) {
	if s.bar == nil {
		return
	}
	_ = s.bar.Finish()
	fmt.Fprintf(s.out, "✔ %s\n", msg)
}
