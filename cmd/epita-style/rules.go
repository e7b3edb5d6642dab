package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/epitastyle/internal/lint"
	"github.com/dusk-indust/epitastyle/internal/report"
)

func newRulesCmd(stdout io.Writer) *cobra.Command {
	var (
		outFormat string
		language  string
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the style rules",
		Example: `  # All rules as a table
  epita-style rules

  # C++ rules as JSON
  epita-style rules --language cxx --format json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(outFormat)
			if err != nil {
				return err
			}
			rules, err := lint.ForLanguage(language)
			if err != nil {
				return err
			}
			return report.Rules(stdout, f, rules)
		},
	}
	cmd.Flags().StringVarP(&outFormat, "format", "f", string(report.FormatText), "output format: text, json, yaml")
	cmd.Flags().StringVarP(&language, "language", "l", "", "only rules for this language: c or cxx")
	_ = cmd.RegisterFlagCompletionFunc("language", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"c", "cxx"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
