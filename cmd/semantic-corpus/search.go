// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semantic-corpus/internal/repository"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for papers in an external repository",
	Long: `Search queries an external paper repository (europe_pmc or arxiv) and
prints the matching titles. With --output the raw results are also saved
to search_results.json in that directory.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	repoName, _ := cmd.Flags().GetString("repository")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")
	startDate, _ := cmd.Flags().GetString("start-date")
	endDate, _ := cmd.Flags().GetString("end-date")

	cfg := loadConfig().Repository
	repo, err := repository.New(repoName, httpClient(cfg), cfg)
	if err != nil {
		return err
	}

	results, err := repo.Search(context.Background(), query, repository.SearchOptions{
		Limit:     limit,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d papers\n", len(results))
	for i, paper := range results {
		title := paper.String(types.FieldTitle)
		if title == "" {
			title = "No title"
		}
		fmt.Printf("%d. %s\n", i+1, title)
	}

	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		resultsFile := filepath.Join(output, "search_results.json")
		if err := writeResultsJSON(resultsFile, results); err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", resultsFile)
	}
	return nil
}

func writeResultsJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func init() {
	searchCmd.Flags().StringP("query", "q", "", "search query")
	searchCmd.Flags().StringP("repository", "r", "europe_pmc", "repository to search")
	searchCmd.Flags().IntP("limit", "l", 10, "maximum number of results")
	searchCmd.Flags().StringP("output", "o", "", "directory to save raw results")
	searchCmd.Flags().String("start-date", "", "first publication date lower bound (YYYY-MM-DD)")
	searchCmd.Flags().String("end-date", "", "first publication date upper bound (YYYY-MM-DD)")
	searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}
