// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-citations CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/floryhyy/scholar-citations/internal/secrets"
	"github.com/floryhyy/scholar-citations/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scholar-citations CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-citations",
	Short: "Harvest citation data and author affiliations for a researcher",
	Long: `scholar-citations harvests the papers citing each of a researcher's
publications from their Scholar profile, then enriches the citing papers'
authors with institutional affiliations from CrossRef, OpenAlex, and
Semantic Scholar.

The two passes are separate subcommands: citations writes the citation
table, affiliations consumes that table's title column and writes the
enriched table, checkpointing after every paper so an interrupted run can
resume.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-citations.yaml or ~/.config/scholar-citations/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-citations")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-citations"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_CITATIONS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig returns the defaults overridden by any config file or
// environment settings, with secrets filling unset API credentials.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Scholar:     types.DefaultScholarConfig(),
		Affiliation: types.DefaultAffiliationConfig(),
	}

	if v := viper.GetDuration("scholar.timeout"); v > 0 {
		cfg.Scholar.Timeout = v
	}
	if v := viper.GetInt("scholar.max_attempts"); v > 0 {
		cfg.Scholar.MaxAttempts = v
	}
	if v := viper.GetInt("scholar.page_size"); v > 0 {
		cfg.Scholar.PageSize = v
	}
	if v := viper.GetInt("scholar.min_year"); v > 0 {
		cfg.Scholar.MinYear = v
	}
	if v := viper.GetString("scholar.output_dir"); v != "" {
		cfg.Scholar.OutputDir = v
	}

	if v := viper.GetDuration("affiliation.timeout"); v > 0 {
		cfg.Affiliation.Timeout = v
	}
	if v := viper.GetDuration("affiliation.paper_delay"); v > 0 {
		cfg.Affiliation.PaperDelay = v
	}
	cfg.Affiliation.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key",
		viper.GetString("affiliation.semantic_scholar_api_key"))
	cfg.Affiliation.ContactEmail = secretDefault("contact-email",
		viper.GetString("affiliation.contact_email"))

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
