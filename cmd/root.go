package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pandodao/i18n-keys/internal/config"
	"github.com/pandodao/i18n-keys/internal/extract"
	"github.com/pandodao/i18n-keys/internal/gpt"
	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/pandodao/i18n-keys/internal/logging"
	"github.com/pandodao/i18n-keys/internal/parser"
	"github.com/pandodao/i18n-keys/internal/repair"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	appFs afero.Fs = afero.NewOsFs()
	exit           = os.Exit
)

var rootCmd = &cobra.Command{
	Use:           "i18n-keys",
	Short:         "Keep translation files in sync with the keys your app uses",
	Long:          `Extract the translation keys used in the source code, find the ones missing from (or no longer used in) the JSON translation files, and optionally add the missing ones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with 1 on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		exit(1)
	}
}

func init() {
	registerConfigFlags(rootCmd.PersistentFlags())
}

func registerConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to the project configuration file (default: ./"+config.DefaultConfigName+".json)")
	flags.String("input", "", "Directory scanned for translation keys")
	flags.String("output", "", "Directory extracted translation files are written to")
	flags.String("translations-path", "", "Root directory of the translation files")
	flags.String("default-value", "", "Value used for extracted keys")
	flags.String("source-lang", "", "Source language code")
	flags.BoolP("verbose", "v", false, "Print debug output and every missing/extra key")
	flags.BoolP("quiet", "q", false, "Only print errors and the report")
}

func registerRepairFlags(flags *pflag.FlagSet) {
	flags.Bool("add-missing-keys", false, "Add missing keys to the translation files")
	flags.Bool("emit-error-on-extra-keys", false, "Exit with 1 when translation files have extra keys")
}

// inlineFromFlags turns the flags the user set into configuration overrides
func inlineFromFlags(flags *pflag.FlagSet, command string) config.Inline {
	in := config.Inline{Command: command}
	in.Input, _ = flags.GetString("input")
	in.Output, _ = flags.GetString("output")
	in.TranslationsPath, _ = flags.GetString("translations-path")
	in.DefaultValue, _ = flags.GetString("default-value")
	in.SourceLang, _ = flags.GetString("source-lang")

	if flags.Changed("add-missing-keys") {
		v, _ := flags.GetBool("add-missing-keys")
		in.AddMissingKeys = &v
	}
	if flags.Changed("emit-error-on-extra-keys") {
		v, _ := flags.GetBool("emit-error-on-extra-keys")
		in.EmitErrorOnExtraKeys = &v
	}
	return in
}

// session is what a command needs after the configuration is resolved
type session struct {
	fs      afero.Fs
	cfg     *config.Config
	log     logrus.FieldLogger
	out     io.Writer
	errOut  io.Writer
	status  io.Writer
	verbose bool
	quiet   bool
}

func newSession(cmd *cobra.Command, command string) (*session, error) {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool("verbose")
	quiet, _ := flags.GetBool("quiet")
	configPath, _ := flags.GetString("config")

	resolver, err := config.NewResolver(appFs, nil)
	if err != nil {
		return nil, err
	}
	resolver.Project = projectSource(configPath, resolver.WorkDir)
	resolver.Out = cmd.OutOrStdout()
	resolver.Exit = exit

	return &session{
		fs:      appFs,
		cfg:     resolver.Resolve(inlineFromFlags(flags, command)),
		log:     logging.New(cmd.ErrOrStderr(), verbose, quiet),
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		verbose: verbose,
		quiet:   quiet,
	}, nil
}

func projectSource(path, workDir string) config.ProjectSource {
	if path != "" {
		return &config.FileSource{Fs: appFs, Path: path}
	}
	return &config.FileSource{Fs: appFs, SearchDirs: []string{workDir}}
}

// printf prints a progress line to the status writer, or to out when no
// status writer is set.
func (s *session) printf(format string, a ...any) {
	if s.quiet {
		return
	}
	w := s.out
	if s.status != nil {
		w = s.status
	}
	fmt.Fprintf(w, format, a...)
}

// expectedKeys reads the keys from keysFile, or extracts them from the
// input directory when no file is given.
func (s *session) expectedKeys(keysFile string) (keys.Expected, error) {
	if keysFile != "" {
		s.printf("📝 Loading keys from %s\n", keysFile)
		return parser.LoadExpected(s.fs, keysFile)
	}

	s.printf("🔍 Extracting keys from %s\n", s.cfg.Input)
	expected, err := extract.New(s.fs, s.cfg.Scopes, s.cfg.DefaultValue, s.log).Extract(s.cfg.Input)
	if err != nil {
		return nil, err
	}
	return expected, nil
}

// translatedValues returns a value source that machine translates repaired
// values. OPENAI_API_KEY may hold several comma separated keys.
func (s *session) translatedValues() (repair.ValueSource, error) {
	var apiKeys []string
	for _, k := range strings.Split(os.Getenv("OPENAI_API_KEY"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			apiKeys = append(apiKeys, k)
		}
	}

	handler, err := gpt.New(gpt.Config{
		Keys:    apiKeys,
		Timeout: 60 * time.Second,
		Model:   os.Getenv("OPENAI_MODEL"),
	}, s.log)
	if err != nil {
		return nil, fmt.Errorf("--translate needs OPENAI_API_KEY: %w", err)
	}
	return repair.Translated{Translator: handler, SourceLang: s.cfg.SourceLang}, nil
}
