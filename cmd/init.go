package cmd

import (
	"fmt"
	"io"

	"github.com/pandodao/i18n-keys/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a project configuration file with default settings that you can customize.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOptions{}
		opts.path, _ = cmd.Flags().GetString("config")
		opts.force, _ = cmd.Flags().GetBool("force")
		opts.langs, _ = cmd.Flags().GetStringSlice("langs")
		opts.sourceLang, _ = cmd.Flags().GetString("source-lang")
		return runInit(appFs, cmd.OutOrStdout(), opts)
	},
}

type initOptions struct {
	path       string
	force      bool
	langs      []string
	sourceLang string
}

func runInit(fs afero.Fs, out io.Writer, opts initOptions) error {
	if opts.path == "" {
		opts.path = config.DefaultConfigName + ".json"
	}

	// Check if file already exists
	exists, err := afero.Exists(fs, opts.path)
	if err != nil {
		return err
	}
	if exists {
		if !opts.force {
			fmt.Fprintf(out, "⚠️ Configuration file %s already exists. Use --force to override.\n", opts.path)
			return nil
		}
		fmt.Fprintf(out, "⚠️ Overriding existing configuration file %s\n", opts.path)
	}

	pc := config.DefaultProjectConfig()
	if opts.sourceLang != "" {
		pc.KeysManager.SourceLang = opts.sourceLang
		pc.Langs = []string{opts.sourceLang}
	}
	if len(opts.langs) > 0 {
		pc.Langs = opts.langs
	}

	if err := config.SaveProjectConfig(fs, pc, opts.path); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at %s\n", opts.path)
	fmt.Fprintln(out, "📝 Edit this file to customize the input, output and translation paths")
	fmt.Fprintln(out, "💡 You can now run:")
	fmt.Fprintln(out, "   i18n-keys find --add-missing-keys")
	return nil
}

func init() {
	initCmd.Flags().Bool("force", false, "Override existing configuration file")
	initCmd.Flags().StringSlice("langs", []string{}, "Language codes (comma-separated)")

	rootCmd.AddCommand(initCmd)
}
