// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semantic-corpus/internal/repository"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Search a repository and download the matching papers",
	Long: `Download searches an external repository and downloads each matching
paper's files into the output directory. Individual download failures are
reported and skipped; the batch continues.`,
	RunE: runDownload,
}

func runDownload(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	repoName, _ := cmd.Flags().GetString("repository")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")
	formatsArg, _ := cmd.Flags().GetString("formats")

	var formats []string
	for _, f := range strings.Split(formatsArg, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}

	cfg := loadConfig()
	if output == "" {
		output = cfg.Corpus.DownloadsDir
	}

	repo, err := repository.New(repoName, httpClient(cfg.Repository), cfg.Repository)
	if err != nil {
		return err
	}

	ctx := context.Background()
	results, err := repo.Search(ctx, query, repository.SearchOptions{Limit: limit})
	if err != nil {
		return err
	}
	fmt.Printf("Found %d papers, starting download...\n", len(results))

	downloaded := 0
	for i, paper := range results {
		paperID := firstNonEmpty(
			paper.String("pmcid"),
			paper.String("arxiv_id"),
			paper.String("pmid"),
		)
		if paperID == "" {
			continue
		}

		if i > 0 && cfg.Repository.RequestDelay > 0 {
			time.Sleep(cfg.Repository.RequestDelay)
		}

		result, err := repo.Download(ctx, paperID, output, formats)
		if err != nil {
			fmt.Printf("Failed to download %s: %v\n", paperID, err)
			continue
		}
		if result.Success {
			downloaded++
			fmt.Printf("Downloaded %s\n", paperID)
		}
	}

	fmt.Printf("Downloaded %d papers to %s\n", downloaded, output)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	downloadCmd.Flags().StringP("query", "q", "", "search query")
	downloadCmd.Flags().StringP("repository", "r", "europe_pmc", "repository to search")
	downloadCmd.Flags().IntP("limit", "l", 10, "maximum number of results")
	downloadCmd.Flags().StringP("output", "o", "", "output directory (default: corpus.downloads_dir from config)")
	downloadCmd.Flags().StringP("formats", "f", "xml,pdf", "comma-separated file formats to download")
	downloadCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(downloadCmd)
}
