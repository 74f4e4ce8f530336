// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "semantic-corpus/0.1 (mailto:user@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RepositoryConfig holds settings shared by the repository adapters.
type RepositoryConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the number of search results per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// RequestDelay is the pause between consecutive downloads (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// ContactEmail is sent to APIs that ask for a contact address
	// (Europe PMC polite pool). Loaded from .secrets/europe-pmc-email
	// when not set here.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// CorpusConfig holds settings for corpus storage. Directories are resolved
// once by the caller (CLI or test harness), never derived from the source
// tree location.
type CorpusConfig struct {
	// Root is the corpus package directory.
	Root string `json:"root" yaml:"root"`

	// Packaged selects the archival package layout with a fixity manifest.
	// When false the legacy flat papers/ layout is used.
	Packaged bool `json:"packaged" yaml:"packaged"`

	// DownloadsDir is where repository downloads land before ingestion.
	DownloadsDir string `json:"downloads_dir" yaml:"downloads_dir"`
}

// IngestConfig holds settings for bulk ingestion of pygetpapers exports.
type IngestConfig struct {
	// ExportDir is the pygetpapers output directory to replay.
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	// IDPrefix is prepended to vendor IDs to form corpus paper IDs
	// (default "europe_pmc_").
	IDPrefix string `json:"id_prefix" yaml:"id_prefix"`
}

// IndexConfig holds settings for the corpus search index.
type IndexConfig struct {
	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus"`
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Ingest     IngestConfig     `json:"ingest" yaml:"ingest"`
	Index      IndexConfig      `json:"index" yaml:"index"`
}
