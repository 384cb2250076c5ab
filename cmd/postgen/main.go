// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the postgen CLI.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/postgen/internal/lexicon"
	"github.com/pdiddy/postgen/internal/secrets"
	"github.com/pdiddy/postgen/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys from .secrets/ merged with the environment.
var loadedSecrets map[string]string

// envKeyReplacer maps nested keys to POSTGEN_GENERATION_BACKEND style names.
var envKeyReplacer = strings.NewReplacer(".", "_")

// logger is shared by every subcommand; its level is set from --verbose.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// rootCmd is the base command for the postgen CLI.
var rootCmd = &cobra.Command{
	Use:   "postgen",
	Short: "Generate platform-tailored posts in your own writing style",
	Long: `postgen learns a writing style from a style guide and sample articles,
then drafts one topic as a long-form article, a professional network post,
and a short-form thread. Each draft is formatted and validated against the
platform's limits before it is written to the output directory.

Generation uses a hosted or local language model when one is configured and
falls back to built-in templates otherwise, so a run always produces output.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		// A missing .env file is normal.
		_ = godotenv.Load()

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = secrets.MergeEnv(s, os.LookupEnv)
		if len(loadedSecrets) > 0 {
			keys := make([]string, 0, len(loadedSecrets))
			for k := range loadedSecrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./postgen.yaml or ~/.config/postgen/postgen.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("lexicon", "", "lexicon YAML overriding the built-in Japanese vocabulary")
	viper.BindPFlag("lexicon", rootCmd.PersistentFlags().Lookup("lexicon"))

	viper.SetDefault("secrets_dir", ".secrets/")
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("history.db", filepath.Join("output", "history.db"))
	viper.SetDefault("generation.backend", string(types.BackendOpenRouter))
	viper.SetDefault("generation.temperature", types.DefaultTemperature)
	viper.SetDefault("generation.max_output_tokens", types.DefaultMaxOutputTokens)
	viper.SetDefault("generation.retry_attempts", types.DefaultRetryAttempts)
	viper.SetDefault("generation.retry_delay", types.DefaultRetryDelay)
	viper.SetDefault("generation.timeout", types.DefaultTimeout)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("postgen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "postgen"))
		}
	}

	viper.SetEnvPrefix("POSTGEN")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// pipelineConfig assembles the run settings from config file, environment,
// and bound flags.
//
// Keys are read one by one because viper.UnmarshalKey ignores environment
// overrides for nested keys.
func pipelineConfig() types.PipelineConfig {
	temperature := viper.GetFloat64("generation.temperature")
	return types.PipelineConfig{
		Generation: types.GenerationConfig{
			Backend:         types.BackendKind(viper.GetString("generation.backend")),
			Model:           viper.GetString("generation.model"),
			Temperature:     &temperature,
			MaxOutputTokens: viper.GetInt("generation.max_output_tokens"),
			RetryAttempts:   viper.GetInt("generation.retry_attempts"),
			RetryDelay:      viper.GetDuration("generation.retry_delay"),
			Timeout:         viper.GetDuration("generation.timeout"),
			BaseURL:         viper.GetString("generation.base_url"),
			LocalImage:      viper.GetString("generation.local_image"),
		},
		Lexicon:   viper.GetString("lexicon"),
		OutputDir: viper.GetString("output.dir"),
		HistoryDB: viper.GetString("history.db"),
	}
}

// loadLexicon returns the configured lexicon or the built-in one.
func loadLexicon() (*lexicon.Lexicon, error) {
	return lexicon.Load(viper.GetString("lexicon"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
