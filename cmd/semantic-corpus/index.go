// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semantic-corpus/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and query the corpus full-text index",
	Long: `Index maintains a SQLite full-text index over the corpus metadata,
stored inside the package payload. Build rebuilds it from scratch; query
runs a ranked full-text search over titles and abstracts.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the index from every paper in the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		exportPath, _ := cmd.Flags().GetString("export")

		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		s, err := index.Open(c, loadConfig().Index)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if _, err := s.Build(ctx, c, os.Stdout); err != nil {
			s.Close()
			return err
		}

		if exportPath != "" {
			if err := s.ExportYAML(ctx, exportPath); err != nil {
				s.Close()
				return err
			}
			fmt.Printf("index exported to %s\n", exportPath)
		}

		// Close first so the WAL checkpoints; the database lives in the
		// payload and the manifest must hash its final bytes.
		if err := s.Close(); err != nil {
			return err
		}
		return c.UpdateManifest()
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <terms>",
	Short: "Run a full-text query over titles and abstracts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		s, err := index.Open(c, loadConfig().Index)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.Query(context.Background(), args[0], limit)
		if err != nil {
			return err
		}

		for i, r := range results {
			fmt.Printf("%d. %s\n   %s (%s) %s\n", i+1, r.Title, r.Authors, r.PublicationDate, r.PaperID)
		}
		fmt.Printf("\n%d result(s)\n", len(results))
		return nil
	},
}

func init() {
	indexCmd.PersistentFlags().StringP("corpus", "c", "", "corpus directory (default: corpus.root from config)")

	indexBuildCmd.Flags().String("export", "", "also export the indexed entries to a YAML file")
	indexQueryCmd.Flags().IntP("limit", "l", 0, "maximum number of results (default from config)")

	indexCmd.AddCommand(indexBuildCmd, indexQueryCmd)
	rootCmd.AddCommand(indexCmd)
}
