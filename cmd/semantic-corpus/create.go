// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/semantic-corpus/internal/corpus"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new corpus",
	Long: `Create initializes a corpus directory. By default the corpus is a
packaged archive with a fixity manifest and the structured payload layout;
--packaged=false creates a legacy flat corpus instead.`,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	path, _ := cmd.Flags().GetString("path")
	packaged, _ := cmd.Flags().GetBool("packaged")
	if !cmd.Flags().Changed("packaged") {
		packaged = loadConfig().Corpus.Packaged
	}
	organization, _ := cmd.Flags().GetString("organization")

	root := name
	if path != "" {
		root = filepath.Join(path, name)
	}

	info := map[string]string{}
	if organization != "" {
		info["Source-Organization"] = organization
	}
	if contact := secretDefault("contact-email", ""); contact != "" {
		info["Contact-Email"] = contact
	}

	c, err := corpus.New(root, packaged, info)
	if err != nil {
		return err
	}
	if packaged {
		if err := c.CreateStructuredDirectories(); err != nil {
			return err
		}
		if err := c.UpdateManifest(); err != nil {
			return err
		}
	}

	fmt.Printf("Corpus %q created successfully at %s\n", name, root)
	return nil
}

func init() {
	createCmd.Flags().StringP("name", "n", "", "corpus name")
	createCmd.Flags().StringP("path", "p", "", "parent directory for the corpus (default: current directory)")
	createCmd.Flags().Bool("packaged", true, "create an archival package with a fixity manifest")
	createCmd.Flags().String("organization", "", "organization recorded in the package metadata")
	createCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(createCmd)
}
