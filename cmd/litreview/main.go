// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litreview CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/secrets"
	"github.com/pdiddy/litreview/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the litreview CLI.
var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "Search, triage, and organize academic papers for a literature review",
	Long: `litreview searches academic APIs (OpenAlex, Semantic Scholar, arXiv) or a
local JSON corpus for candidate papers, then helps triage them: AI-assisted
relevance ranking, thematic clustering, summaries, a reading list, per-paper
feedback, and JSON/CSV export.

Session state lives in memory for the duration of one invocation. The
--session flag names a YAML bookmark file that commands read on start and
write on exit, so a review can span multiple invocations; browse runs a
whole review interactively in one process.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litreview.yaml or ~/.config/litreview/config.yaml)")
	rootCmd.PersistentFlags().String("session", "litreview-session.yaml", "session bookmark file")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litreview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litreview"))
		}
	}

	viper.SetEnvPrefix("LITREVIEW")
	viper.AutomaticEnv()

	viper.SetDefault("source.provider", "openalex")
	viper.SetDefault("source.max_results", 20)
	viper.SetDefault("source.user_agent", "litreview/"+version)
	viper.SetDefault("assist.model", "gemini-2.5-flash")
	viper.SetDefault("assist.max_output_tokens", 2048)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// sourceConfig assembles the source adapter settings from config and secrets.
func sourceConfig() types.SourceConfig {
	cfg := types.SourceConfig{
		MaxResults:            viper.GetInt("source.max_results"),
		LocalPath:             viper.GetString("source.local_path"),
		OpenAlexEmail:         viper.GetString("source.openalex_email"),
		SemanticScholarAPIKey: viper.GetString("source.semantic_scholar_api_key"),
	}
	cfg.Timeout = viper.GetDuration("source.timeout")
	cfg.UserAgent = viper.GetString("source.user_agent")

	if cfg.OpenAlexEmail == "" {
		cfg.OpenAlexEmail = loadedSecrets["openalex-email"]
	}
	if cfg.SemanticScholarAPIKey == "" {
		cfg.SemanticScholarAPIKey = loadedSecrets["semantic-scholar-api-key"]
	}
	return cfg
}

// assistConfig assembles the AI service settings from config and secrets.
func assistConfig() types.AssistConfig {
	return types.AssistConfig{
		Model:           viper.GetString("assist.model"),
		APIKeys:         secrets.GeminiKeys(loadedSecrets),
		MaxOutputTokens: viper.GetInt("assist.max_output_tokens"),
		Timeout:         viper.GetDuration("assist.timeout"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
