package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pandodao/i18n-keys/internal/config"
	"github.com/pandodao/i18n-keys/internal/logging"
	"github.com/pandodao/i18n-keys/internal/reconcile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find missing and extra keys",
	Long:  `Compare the translation keys used in the source code with the translation files of every language and scope, and report the missing and extra keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, config.CommandFind)
		if err != nil {
			return err
		}

		opts := findOptions{}
		opts.keysFile, _ = cmd.Flags().GetString("keys")
		opts.format, _ = cmd.Flags().GetString("format")
		opts.reportPath, _ = cmd.Flags().GetString("report")
		opts.translate, _ = cmd.Flags().GetBool("translate")

		failed, err := runFind(cmd.Context(), s, opts)
		if err != nil {
			return err
		}
		if failed {
			exit(1)
		}
		return nil
	},
}

type findOptions struct {
	keysFile   string
	format     string
	reportPath string
	translate  bool
}

// runFind reconciles the translation files and prints the report. It
// returns true when the run should fail.
func runFind(ctx context.Context, s *session, opts findOptions) (bool, error) {
	if opts.format != "" && opts.format != "table" && opts.format != "json" {
		return false, fmt.Errorf("unknown report format %q", opts.format)
	}
	if opts.format == "json" {
		// stdout carries only the JSON document
		s.status = s.errOut
	}

	expected, err := s.expectedKeys(opts.keysFile)
	if err != nil {
		return false, err
	}
	s.printf("📄 Found keys for %d scopes\n", len(expected))

	engineOpts := []reconcile.Option{
		reconcile.WithProgress(s.errOut, logging.Interactive(s.quiet)),
	}
	if opts.translate && s.cfg.AddMissingKeys {
		values, err := s.translatedValues()
		if err != nil {
			return false, err
		}
		engineOpts = append(engineOpts, reconcile.WithValues(values))
	}

	rep, err := reconcile.New(s.fs, s.log, engineOpts...).Run(ctx, s.cfg, expected)
	if err != nil {
		return false, err
	}

	if opts.format == "json" {
		err = rep.WriteJSON(s.out)
	} else {
		err = rep.WriteTable(s.out, s.verbose)
	}
	if err != nil {
		return false, err
	}

	if opts.reportPath != "" {
		var buf bytes.Buffer
		if err := rep.WriteJSON(&buf); err != nil {
			return false, err
		}
		if err := afero.WriteFile(s.fs, opts.reportPath, buf.Bytes(), 0644); err != nil {
			return false, fmt.Errorf("write report: %w", err)
		}
		s.printf("✅ Report saved to %s\n", opts.reportPath)
	}

	return rep.Failed(s.cfg.EmitErrorOnExtraKeys), nil
}

func init() {
	registerRepairFlags(findCmd.Flags())
	findCmd.Flags().String("keys", "", "Read the expected keys from a JSON file instead of the source code")
	findCmd.Flags().String("format", "table", "Report format: 'table' or 'json'")
	findCmd.Flags().String("report", "", "Also save the report to a file (JSON)")
	findCmd.Flags().Bool("translate", false, "Machine translate added values with OpenAI (needs OPENAI_API_KEY)")

	rootCmd.AddCommand(findCmd)
}
