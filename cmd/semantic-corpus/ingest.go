// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semantic-corpus/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Bulk-ingest a pygetpapers export into a corpus",
	Long: `Ingest replays a pygetpapers export directory into a packaged corpus.
Each PMC* folder containing raw Europe PMC metadata becomes one corpus
paper; fulltext XML and PDF files are copied alongside. The run stops at
the first unreadable input; papers already written stay in the corpus
with a current manifest.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	exportDir, _ := cmd.Flags().GetString("dir")
	prefix, _ := cmd.Flags().GetString("prefix")

	cfg := loadConfig().Ingest
	if prefix == "" {
		prefix = cfg.IDPrefix
	}
	if exportDir == "" {
		exportDir = cfg.ExportDir
	}
	if exportDir == "" {
		return fmt.Errorf("no export directory: pass --dir or set ingest.export_dir")
	}

	c, err := openCorpus(cmd)
	if err != nil {
		return err
	}

	added, err := ingest.Ingest(exportDir, c, prefix, os.Stdout)
	if err != nil {
		if len(added) > 0 {
			fmt.Printf("ingestion stopped after %d paper(s)\n", len(added))
		}
		return err
	}
	return nil
}

func init() {
	ingestCmd.Flags().StringP("dir", "d", "", "pygetpapers export directory (default: ingest.export_dir from config)")
	ingestCmd.Flags().StringP("corpus", "c", "", "corpus directory (default: corpus.root from config)")
	ingestCmd.Flags().String("prefix", "", "prefix for generated paper IDs (default \""+ingest.DefaultIDPrefix+"\")")

	rootCmd.AddCommand(ingestCmd)
}
