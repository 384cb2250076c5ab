// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/postgen/internal/format"
	"github.com/pdiddy/postgen/internal/generate"
	"github.com/pdiddy/postgen/internal/history"
	"github.com/pdiddy/postgen/internal/pipeline"
	"github.com/pdiddy/postgen/internal/style"
	"github.com/pdiddy/postgen/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate posts for every platform from a topic",
	Long: `Generate analyzes the style guide and sample articles, drafts the topic
for each platform, formats and validates the drafts, and writes them to the
output directory:

  long_form.md            long-form article
  professional_post.txt   professional network post
  short_form_thread.txt   short-form thread

When the configured backend has no credentials or keeps failing, built-in
templates are used instead. Only missing inputs stop a run.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if !slices.Contains(types.BackendKinds, cfg.Generation.Backend) {
		return fmt.Errorf("unknown backend %q: use one of %v", cfg.Generation.Backend, types.BackendKinds)
	}
	lex, err := loadLexicon()
	if err != nil {
		return err
	}

	in := pipeline.Inputs{OutputDir: cfg.OutputDir}
	in.StyleGuide, _ = cmd.Flags().GetString("styleguide")
	in.ArticlesDir, _ = cmd.Flags().GetString("articles")
	in.TopicFile, _ = cmd.Flags().GetString("topic")
	in.Workflow, _ = cmd.Flags().GetString("workflow")
	in.Segments, _ = cmd.Flags().GetInt("segments")

	// Fail before any backend is built.
	if err := pipeline.CheckInputs(in); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := generate.New(cfg.Generation, generate.CredentialsFromSecrets(loadedSecrets), lex, logger)
	defer gen.Close()

	deps := pipeline.Deps{
		Analyzer:  style.New(lex, logger),
		Generator: gen,
		Formatter: format.New(lex),
		Log:       logger,
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory && cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			logger.WithError(err).Warn("history disabled")
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	res, err := pipeline.Run(ctx, in, deps, os.Stdout)
	if err != nil {
		if errors.Is(err, style.ErrInputMissing) {
			return err
		}
		return fmt.Errorf("generate: %w", err)
	}

	invalid := 0
	for _, a := range res.Artifacts {
		if !a.Valid() {
			invalid++
		}
	}
	fmt.Printf("\n%d artifact(s) written to %s", len(res.Artifacts), in.OutputDir)
	if res.RunID != "" {
		fmt.Printf(" (history run %s)", res.RunID)
	}
	fmt.Println()
	if invalid > 0 {
		fmt.Printf("%d artifact(s) exceed a platform limit\n", invalid)
	}
	if res.Backend == types.BackendTemplate {
		fmt.Println("note: template output was used; configure a backend for generated text")
	}
	return nil
}

func init() {
	generateCmd.Flags().String("styleguide", "", "path to the style guide Markdown file (required)")
	generateCmd.Flags().String("articles", "", "directory of sample articles (required)")
	generateCmd.Flags().String("topic", "", "file containing the topic (required)")
	generateCmd.Flags().String("workflow", "", "optional posting-workflow document added to the style context")
	generateCmd.Flags().String("output", "", "output directory (default from config, \"output\")")
	generateCmd.Flags().Int("segments", generate.DefaultThreadSegments, "number of short-form thread segments")
	generateCmd.Flags().String("backend", "", "generation backend: openrouter, claude, openai, gemini, local, template")
	generateCmd.Flags().String("model", "", "model identifier for the backend")
	generateCmd.Flags().Bool("no-history", false, "do not record the run in the history database")

	viper.BindPFlag("output.dir", generateCmd.Flags().Lookup("output"))
	viper.BindPFlag("generation.backend", generateCmd.Flags().Lookup("backend"))
	viper.BindPFlag("generation.model", generateCmd.Flags().Lookup("model"))

	rootCmd.AddCommand(generateCmd)
}
