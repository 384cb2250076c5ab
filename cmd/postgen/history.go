// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/postgen/internal/format"
	"github.com/pdiddy/postgen/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past generation runs (list, search, export)",
	Long: `History reads the SQLite database where generate records every run.
Use subcommands to list recent runs, search post text, or export everything.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-10s  %s\n", "Run", "Created", "Backend", "Topic")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-10s  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Backend, format.Truncate(r.Topic, 30))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Full-text search over recorded posts",
	Long: `Search finds recorded posts containing QUERY. Matching is by substring,
so it works for Japanese text, but the query needs at least three characters.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	query := strings.Join(args, " ")
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 3 {
		return fmt.Errorf("search query %q is too short: use at least 3 characters", query)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	matches, err := store.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(matches)
	}
	if len(matches) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-12s  %-16s  %-30s  %s\n", "Rank", "Platform", "Created", "Topic", "Content")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for i, m := range matches {
		content := strings.Join(strings.Fields(m.Content), " ")
		fmt.Fprintf(os.Stdout, "%-4d  %-12s  %-16s  %-30s  %s\n",
			i+1, m.Platform, m.CreatedAt.Local().Format("2006-01-02 15:04"),
			format.Truncate(m.Topic, 30), format.Truncate(content, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(matches))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every recorded run to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	exportFormat, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	switch exportFormat {
	case "yaml", "":
		if out == "" {
			out = "history.yaml"
		}
		err = store.ExportYAML(context.Background(), out)
	case "json":
		if out == "" {
			out = "history.json"
		}
		err = store.ExportJSON(context.Background(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", exportFormat)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", out)
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	path := viper.GetString("history.db")
	if path == "" {
		return nil, fmt.Errorf("history database not configured (history.db)")
	}
	return history.Open(path)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.PersistentFlags().String("db", "", "history database path (default from config, output/history.db)")
	viper.BindPFlag("history.db", historyCmd.PersistentFlags().Lookup("db"))

	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd} {
		c.Flags().Int("limit", history.DefaultLimit, "maximum results")
		c.Flags().Bool("json", false, "output results as JSON")
	}

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "export file (default history.yaml or history.json)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
