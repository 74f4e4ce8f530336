// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package repository provides uniform search/fetch/download access to
// external paper sources. Concrete adapters register themselves in a
// name-keyed registry; the rest of the system only sees the Repository
// interface and raw metadata records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// RepositoryError reports an adapter failure: a failed search, metadata,
// or download call, or an unknown adapter name. NotFound is set when the
// requested paper does not exist at the source.
type RepositoryError struct {
	Message  string
	NotFound bool
	Err      error
}

func (e *RepositoryError) Error() string { return e.Message }

func (e *RepositoryError) Unwrap() error { return e.Err }

func repoErrorf(err error, format string, args ...any) *RepositoryError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &RepositoryError{Message: msg, Err: err}
}

// IsNotFound reports whether err is a RepositoryError for a missing paper.
func IsNotFound(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re) && re.NotFound
}

// SearchOptions narrows a repository search.
type SearchOptions struct {
	// Limit caps the number of results; adapters also apply their own
	// per-query maximum.
	Limit int

	// StartDate and EndDate bound the first publication date (YYYY-MM-DD).
	StartDate string
	EndDate   string

	// Categories filters arXiv results by subject category; ignored by
	// sources without categories.
	Categories []string
}

// DownloadResult reports the files a Download call produced.
type DownloadResult struct {
	Success bool     `json:"success"`
	PaperID string   `json:"paper_id"`
	Files   []string `json:"files"`
}

// Info describes a repository for display and client configuration.
type Info struct {
	Name             string   `json:"name"`
	BaseURL          string   `json:"base_url"`
	Description      string   `json:"description"`
	SupportedFormats []string `json:"supported_formats"`
	MaxResults       int      `json:"max_results_per_query"`
	DocsURL          string   `json:"api_documentation"`
}

// Repository is the capability set every paper source exposes. All
// returned metadata is raw vendor shape; callers run it through
// metadata.Normalize before storing it.
type Repository interface {
	// Search returns raw metadata for papers matching query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]types.Metadata, error)

	// Metadata returns the raw metadata for one paper, or a NotFound
	// error when the source does not know the ID.
	Metadata(ctx context.Context, paperID string) (types.Metadata, error)

	// Download fetches the paper's files in the requested formats into
	// outputDir.
	Download(ctx context.Context, paperID, outputDir string, formats []string) (DownloadResult, error)

	// Info describes the repository.
	Info() Info
}

// Constructor builds an adapter from an HTTP client and shared settings.
type Constructor func(client *http.Client, cfg types.RepositoryConfig) Repository

var registry = map[string]Constructor{}

// Register adds an adapter constructor under name, replacing any previous
// registration.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// New constructs the adapter registered under name.
func New(name string, client *http.Client, cfg types.RepositoryConfig) (Repository, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, repoErrorf(nil, "repository %q not found (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	return ctor(client, cfg), nil
}

// Names returns the registered adapter names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
