// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a SQLite full-text search index over corpus
// paper metadata, stored inside the package payload under data/indices/.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/semantic-corpus/internal/corpus"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

const dbFile = "corpus.db"

// Store manages the corpus search index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the search index for the corpus, creating the
// schema on first use. The database lives inside the payload, so callers
// must update the manifest after mutating the index.
func Open(c *corpus.Manager, cfg types.IndexConfig) (*Store, error) {
	dir, err := c.IndexDir()
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			abstract TEXT,
			doi TEXT,
			authors TEXT,
			publication_date TEXT,
			journal TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Summary holds counts from an index build.
type Summary struct {
	Indexed int
	Failed  int
}

// Build rebuilds the index from every paper in the corpus inside one
// transaction. Unreadable records are counted and skipped. Per-paper
// progress lines go to w. Callers update the corpus manifest afterwards.
func (s *Store) Build(ctx context.Context, c *corpus.Manager, w io.Writer) (Summary, error) {
	ids, err := c.ListPapers()
	if err != nil {
		return Summary{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers`); err != nil {
		return Summary{}, fmt.Errorf("clearing index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, abstract, doi, authors, publication_date, journal)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Summary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary Summary
	for _, id := range ids {
		m, err := c.PaperMetadata(id)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		_, err = stmt.ExecContext(ctx,
			id,
			m.String(types.FieldTitle),
			m.String(types.FieldAbstract),
			m.String(types.FieldDOI),
			strings.Join(m.Strings(types.FieldAuthors), "; "),
			m.String(types.FieldPublicationDate),
			m.String(types.FieldJournal),
		)
		if err != nil {
			return summary, fmt.Errorf("indexing paper %s: %w", id, err)
		}

		fmt.Fprintf(w, "indexed %s\n", id)
		summary.Indexed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing index: %w", err)
	}

	fmt.Fprintf(w, "\nindexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

// Result is one search index hit.
type Result struct {
	PaperID         string `json:"paper_id" yaml:"paper_id"`
	Title           string `json:"title" yaml:"title"`
	Authors         string `json:"authors" yaml:"authors"`
	PublicationDate string `json:"publication_date" yaml:"publication_date"`
	Journal         string `json:"journal" yaml:"journal"`
}

// Query runs an FTS5 full-text query over titles and abstracts, ranked by
// bm25. A limit of 0 uses the store default.
func (s *Store) Query(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.authors, p.publication_date, p.journal
		 FROM papers_fts f
		 JOIN papers p ON p.rowid = f.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY bm25(papers_fts)
		 LIMIT ?`,
		query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.PaperID, &r.Title, &r.Authors, &r.PublicationDate, &r.Journal); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
