// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/semantic-corpus/internal/httputil"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// arXiv endpoints. Declared as vars so tests can substitute httptest
// servers.
var (
	arxivAPIBase      = "https://export.arxiv.org/api/query"
	arxivDownloadBase = "https://arxiv.org"
)

const arxivMax = 2000

func init() {
	Register("arxiv", func(client *http.Client, cfg types.RepositoryConfig) Repository {
		return &Arxiv{client: client, cfg: cfg}
	})
}

// Arxiv adapts the arXiv Atom API.
type Arxiv struct {
	client *http.Client
	cfg    types.RepositoryConfig
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"primary_category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// Search queries the arXiv API, optionally restricted to subject
// categories.
func (r *Arxiv) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Metadata, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.MaxResults
	}
	if limit <= 0 || limit > arxivMax {
		limit = arxivMax
	}

	q := query
	if len(opts.Categories) > 0 {
		cats := make([]string, len(opts.Categories))
		for i, c := range opts.Categories {
			cats[i] = "cat:" + c
		}
		q = fmt.Sprintf("(%s) AND (%s)", query, strings.Join(cats, " OR "))
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	feed, err := r.getFeed(ctx, arxivAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, repoErrorf(err, "arXiv search failed")
	}

	results := make([]types.Metadata, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		results = append(results, rawArxivEntry(entry))
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// Metadata looks up one paper by arXiv ID (e.g. "2301.07041").
func (r *Arxiv) Metadata(ctx context.Context, paperID string) (types.Metadata, error) {
	params := url.Values{
		"id_list":     {paperID},
		"max_results": {"1"},
	}

	feed, err := r.getFeed(ctx, arxivAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, repoErrorf(err, "failed to get metadata for %s", paperID)
	}

	// The API answers an unknown ID with a feed whose single entry has
	// no usable identifier.
	if len(feed.Entries) == 0 || extractArxivID(feed.Entries[0].ID) == "" {
		return nil, &RepositoryError{
			Message:  fmt.Sprintf("paper %s not found", paperID),
			NotFound: true,
		}
	}
	return rawArxivEntry(feed.Entries[0]), nil
}

// Download fetches the paper's files into outputDir. Supported formats:
// pdf, source (LaTeX tarball). A nil format list defaults to pdf.
func (r *Arxiv) Download(ctx context.Context, paperID, outputDir string, formats []string) (DownloadResult, error) {
	if len(formats) == 0 {
		formats = []string{"pdf"}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return DownloadResult{}, repoErrorf(err, "creating output directory")
	}

	var files []string
	for _, format := range formats {
		var endpoint, dest string
		switch format {
		case "pdf":
			endpoint = fmt.Sprintf("%s/pdf/%s.pdf", arxivDownloadBase, paperID)
			dest = filepath.Join(outputDir, paperID+".pdf")
		case "source":
			endpoint = fmt.Sprintf("%s/src/%s", arxivDownloadBase, paperID)
			dest = filepath.Join(outputDir, paperID+".tar.gz")
		default:
			continue
		}

		if err := r.fetchFile(ctx, endpoint, dest); err != nil {
			return DownloadResult{}, repoErrorf(err, "failed to download %s", paperID)
		}
		files = append(files, dest)
	}

	return DownloadResult{Success: true, PaperID: paperID, Files: files}, nil
}

// Info describes the arXiv repository.
func (r *Arxiv) Info() Info {
	return Info{
		Name:             "arXiv",
		BaseURL:          arxivAPIBase,
		Description:      "arXiv is a free distribution service and an open-access archive for scholarly articles",
		SupportedFormats: []string{"pdf", "source"},
		MaxResults:       arxivMax,
		DocsURL:          "https://arxiv.org/help/api",
	}
}

// rawArxivEntry reshapes an Atom entry into the raw metadata record the
// normalizer expects.
func rawArxivEntry(entry arxivEntry) types.Metadata {
	authors := make([]string, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, c := range entry.Categories {
		categories = append(categories, c.Term)
	}

	return types.Metadata{
		"arxiv_id":             extractArxivID(entry.ID),
		"Title":                strings.TrimSpace(entry.Title),
		"Abstract":             strings.TrimSpace(entry.Summary),
		"AuthorList":           authors,
		"firstPublicationDate": entry.Published,
		"categories":           categories,
	}
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041v1").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}

func (r *Arxiv) getFeed(ctx context.Context, rawURL string) (*arxivFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

func (r *Arxiv) fetchFile(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return writeBody(resp, dest)
}
