// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/postgen/internal/format"
	"github.com/pdiddy/postgen/pkg/types"
)

// --- format subcommand ---

var formatCmd = &cobra.Command{
	Use:   "format FILE",
	Short: "Apply a platform's formatting rules to existing text",
	Long: `Format reads FILE (or standard input when FILE is "-"), applies the
platform's formatting rules, and prints the result. Short-form input is read
as one thread segment per line; segment labels are ignored, so a thread
written by generate formats to itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	platform, err := platformFlag(cmd)
	if err != nil {
		return err
	}
	content, err := readInput(args[0])
	if err != nil {
		return err
	}
	f, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	out, err := f.Format(content, platform)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// --- validate subcommand ---

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check text against a platform's length limits",
	Long: `Validate reports the character count and any warnings for FILE (or
standard input when FILE is "-"). Short-form input is checked per segment.
The command exits non-zero only when a hard platform limit is exceeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	platform, err := platformFlag(cmd)
	if err != nil {
		return err
	}
	content, err := readInput(args[0])
	if err != nil {
		return err
	}

	var results []types.ValidationResult
	if platform == types.PlatformShortForm {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		results = format.ValidateThread(f.ParseThread(content))
	} else {
		results = []types.ValidationResult{format.Validate(strings.TrimSpace(content), platform)}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printValidation(results)
	}

	for _, r := range results {
		if !r.Valid {
			return fmt.Errorf("%s content exceeds the platform limit", platform)
		}
	}
	return nil
}

func printValidation(results []types.ValidationResult) {
	for i, r := range results {
		status := "ok"
		if !r.Valid {
			status = "INVALID"
		}
		label := string(r.Platform)
		if len(results) > 1 {
			label = fmt.Sprintf("%s segment %d", r.Platform, i+1)
		}
		fmt.Printf("%-24s  %-7s  %5d chars\n", label, status, r.Length)
		for _, w := range r.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}

// --- shared helpers ---

func platformFlag(cmd *cobra.Command) (types.Platform, error) {
	name, _ := cmd.Flags().GetString("platform")
	p := types.Platform(name)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q: use one of %v", name, types.Platforms)
	}
	return p, nil
}

func newFormatter(cmd *cobra.Command) (*format.Formatter, error) {
	lex, err := loadLexicon()
	if err != nil {
		return nil, err
	}
	noLabels, _ := cmd.Flags().GetBool("no-labels")
	return format.New(lex, format.WithSegmentLabels(!noLabels)), nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func init() {
	for _, c := range []*cobra.Command{formatCmd, validateCmd} {
		c.Flags().String("platform", "", "target platform: long-form, professional, short-form")
		c.MarkFlagRequired("platform")
	}
	formatCmd.Flags().Bool("no-labels", false, "omit segment labels from short-form output")
	validateCmd.Flags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(validateCmd)
}
