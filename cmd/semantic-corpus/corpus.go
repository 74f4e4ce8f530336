// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/semantic-corpus/internal/bagit"
	"github.com/pdiddy/semantic-corpus/internal/corpus"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and query a local corpus",
	Long: `Corpus operates on an existing local corpus directory. The layout
(packaged or legacy flat) is detected from the directory itself.`,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the IDs of every paper in the corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		ids, err := c.ListPapers()
		if err != nil {
			return err
		}
		sort.Strings(ids)

		for _, id := range ids {
			fmt.Println(id)
		}
		fmt.Printf("\n%d paper(s)\n", len(ids))
		return nil
	},
}

var corpusGetCmd = &cobra.Command{
	Use:   "get <paper-id>",
	Short: "Print the stored metadata for one paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		m, err := c.PaperMetadata(args[0])
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var corpusSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored paper metadata by field",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		field, _ := cmd.Flags().GetString("field")

		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		ids, err := c.SearchPapers(query, field)
		if err != nil {
			return err
		}
		sort.Strings(ids)

		for _, id := range ids {
			fmt.Println(id)
		}
		fmt.Printf("\n%d match(es)\n", len(ids))
		return nil
	},
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		stats, err := c.Statistics()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(stats)
		if err != nil {
			return fmt.Errorf("marshaling statistics: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var corpusValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the corpus package against its fixity manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}

		if !c.Packaged() {
			return fmt.Errorf("corpus at %s is not packaged; nothing to validate", c.Root())
		}
		if !c.Validate() {
			return fmt.Errorf("corpus at %s failed validation", c.Root())
		}
		fmt.Println("Corpus is valid")
		return nil
	},
}

// openCorpus opens the corpus named by the shared --corpus flag, falling
// back to corpus.root from the config. The packaged layout is detected
// from the directory markers.
func openCorpus(cmd *cobra.Command) (*corpus.Manager, error) {
	root, _ := cmd.Flags().GetString("corpus")
	if root == "" {
		root = loadConfig().Corpus.Root
	}
	if root == "" {
		return nil, &corpus.StorageError{Message: "no corpus directory: pass --corpus or set corpus.root"}
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, &corpus.StorageError{Message: fmt.Sprintf("corpus directory does not exist: %s", root), NotFound: true}
	}

	packaged := bagit.New(root).IsBag()
	return corpus.New(root, packaged, nil)
}

func init() {
	corpusCmd.PersistentFlags().StringP("corpus", "c", "", "corpus directory (default: corpus.root from config)")

	corpusSearchCmd.Flags().StringP("query", "q", "", "substring to match")
	corpusSearchCmd.Flags().StringP("field", "f", types.FieldTitle, "metadata field to search")
	corpusSearchCmd.MarkFlagRequired("query")

	corpusCmd.AddCommand(corpusListCmd, corpusGetCmd, corpusSearchCmd, corpusStatsCmd, corpusValidateCmd)
	rootCmd.AddCommand(corpusCmd)
}
