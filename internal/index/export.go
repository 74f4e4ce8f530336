// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one paper in an index export.
type ExportEntry struct {
	PaperID         string `json:"paper_id" yaml:"paper_id"`
	Title           string `json:"title" yaml:"title"`
	Abstract        string `json:"abstract" yaml:"abstract"`
	DOI             string `json:"doi" yaml:"doi"`
	Authors         string `json:"authors" yaml:"authors"`
	PublicationDate string `json:"publication_date" yaml:"publication_date"`
	Journal         string `json:"journal" yaml:"journal"`
}

// ExportYAML writes every indexed paper to path as YAML, ordered by
// paper ID.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, abstract, doi, authors, publication_date, journal
		 FROM papers ORDER BY id`)
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	defer rows.Close()

	var entries []ExportEntry
	for rows.Next() {
		var e ExportEntry
		if err := rows.Scan(&e.PaperID, &e.Title, &e.Abstract, &e.DOI, &e.Authors, &e.PublicationDate, &e.Journal); err != nil {
			return fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
