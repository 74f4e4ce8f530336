// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the semantic-corpus CLI, which
// creates and manages personal research-paper corpora backed by archival
// packages.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/semantic-corpus/internal/secrets"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds contact addresses and API keys loaded from
// .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the semantic-corpus CLI.
var rootCmd = &cobra.Command{
	Use:   "semantic-corpus",
	Short: "Create and manage personal scientific paper corpora",
	Long: `semantic-corpus manages personal research-paper corpora. Papers are
fetched from external repositories (Europe PMC, arXiv), normalized onto a
canonical metadata schema, and stored in a checksummed archival package
that can be listed, searched, and validated at any time.

Each operation is a subcommand: create, search, download, ingest, corpus,
and index.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./semantic-corpus.yaml or ~/.config/semantic-corpus/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("semantic-corpus")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "semantic-corpus"))
		}
	}

	viper.SetEnvPrefix("SEMANTIC_CORPUS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves all stage settings: built-in defaults, overridden
// by the config file and environment, with contact addresses falling back
// to loaded secrets.
func loadConfig() types.Config {
	cfg := types.Config{
		Corpus: types.CorpusConfig{
			Packaged:     true,
			DownloadsDir: "downloads",
		},
		Repository: types.RepositoryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "semantic-corpus/" + version,
			},
			MaxResults:   10,
			RequestDelay: time.Second,
		},
		Ingest: types.IngestConfig{},
		Index:  types.IndexConfig{MaxResults: 20},
	}

	if viper.IsSet("corpus.packaged") {
		cfg.Corpus.Packaged = viper.GetBool("corpus.packaged")
	}
	if v := viper.GetString("corpus.root"); v != "" {
		cfg.Corpus.Root = v
	}
	if v := viper.GetString("corpus.downloads_dir"); v != "" {
		cfg.Corpus.DownloadsDir = v
	}

	if v := viper.GetDuration("repository.timeout"); v > 0 {
		cfg.Repository.Timeout = v
	}
	if v := viper.GetString("repository.user_agent"); v != "" {
		cfg.Repository.UserAgent = v
	}
	if v := viper.GetInt("repository.max_results"); v > 0 {
		cfg.Repository.MaxResults = v
	}
	if v := viper.GetDuration("repository.request_delay"); v > 0 {
		cfg.Repository.RequestDelay = v
	}
	cfg.Repository.ContactEmail = secretDefault("europe-pmc-email", viper.GetString("repository.contact_email"))

	cfg.Ingest.ExportDir = viper.GetString("ingest.export_dir")
	cfg.Ingest.IDPrefix = viper.GetString("ingest.id_prefix")

	if v := viper.GetInt("index.max_results"); v > 0 {
		cfg.Index.MaxResults = v
	}

	return cfg
}

// httpClient builds the shared HTTP client for repository adapters.
func httpClient(cfg types.RepositoryConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
