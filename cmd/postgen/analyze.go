// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postgen/internal/style"
	"github.com/pdiddy/postgen/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a style guide and sample articles",
	Long: `Analyze extracts the style guide rules and a writing-style profile from
the sample articles without generating anything. The profile is written as
YAML (or JSON when --out ends in .json), or printed when --out is omitted.`,
	RunE: runAnalyze,
}

// analysisReport is what analyze prints.
type analysisReport struct {
	Guide    *types.StyleGuideData `json:"guide,omitempty" yaml:"guide,omitempty"`
	Articles style.BatchSummary    `json:"articles" yaml:"articles"`
	Profile  types.StyleProfile    `json:"profile" yaml:"profile"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	guidePath, _ := cmd.Flags().GetString("styleguide")
	articlesDir, _ := cmd.Flags().GetString("articles")
	out, _ := cmd.Flags().GetString("out")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if articlesDir == "" {
		return fmt.Errorf("%w: --articles is required", style.ErrInputMissing)
	}

	lex, err := loadLexicon()
	if err != nil {
		return err
	}
	analyzer := style.New(lex, logger)

	var report analysisReport
	if guidePath != "" {
		guide, err := analyzer.LoadStyleGuide(guidePath)
		if err != nil {
			return err
		}
		report.Guide = &guide
	}

	articles, summary, err := analyzer.AnalyzeDir(articlesDir)
	if err != nil {
		return err
	}
	report.Articles = summary
	report.Profile = style.Synthesize(articles)

	if out != "" {
		if err := style.SaveProfile(out, report.Profile); err != nil {
			return err
		}
		fmt.Printf("Analyzed %d article(s), %d failed. Profile written to %s\n", summary.Analyzed, summary.Failed, out)
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func init() {
	analyzeCmd.Flags().String("styleguide", "", "path to the style guide Markdown file")
	analyzeCmd.Flags().String("articles", "", "directory of sample articles")
	analyzeCmd.Flags().String("out", "", "write the style profile to this file (.yaml or .json)")
	analyzeCmd.Flags().Bool("json", false, "print the report as JSON instead of YAML")

	rootCmd.AddCommand(analyzeCmd)
}
