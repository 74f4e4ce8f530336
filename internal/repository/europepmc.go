// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pdiddy/semantic-corpus/internal/httputil"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// europePMCBase is the Europe PMC REST endpoint. Declared as a var so
// tests can substitute an httptest server.
var europePMCBase = "https://www.ebi.ac.uk/europepmc/webservices/rest"

const europePMCMax = 1000

func init() {
	Register("europe_pmc", func(client *http.Client, cfg types.RepositoryConfig) Repository {
		return &EuropePMC{client: client, cfg: cfg}
	})
}

// EuropePMC adapts the Europe PMC REST API.
type EuropePMC struct {
	client *http.Client
	cfg    types.RepositoryConfig
}

// Europe PMC JSON response structures. Raw result objects are decoded
// into generic maps so every vendor field survives for normalization.
type eupmcSearchResponse struct {
	ResultList struct {
		Result []map[string]any `json:"result"`
	} `json:"resultList"`
}

// Search queries the Europe PMC search endpoint. Date bounds are folded
// into the query as a FIRST_PDATE range.
func (r *EuropePMC) Search(ctx context.Context, query string, opts SearchOptions) ([]types.Metadata, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = r.cfg.MaxResults
	}
	if limit <= 0 || limit > europePMCMax {
		limit = europePMCMax
	}

	q := query
	switch {
	case opts.StartDate != "" && opts.EndDate != "":
		q = fmt.Sprintf("(%s) AND (FIRST_PDATE:[%s TO %s])", query, opts.StartDate, opts.EndDate)
	case opts.EndDate != "":
		q = fmt.Sprintf("(%s) AND (FIRST_PDATE:[TO %s])", query, opts.EndDate)
	}

	params := url.Values{
		"query":      {q},
		"format":     {"json"},
		"pageSize":   {fmt.Sprintf("%d", limit)},
		"resultType": {"core"},
	}
	if r.cfg.ContactEmail != "" {
		params.Set("email", r.cfg.ContactEmail)
	}

	var resp eupmcSearchResponse
	if err := r.getJSON(ctx, europePMCBase+"/search?"+params.Encode(), &resp); err != nil {
		return nil, repoErrorf(err, "Europe PMC search failed")
	}

	results := make([]types.Metadata, 0, len(resp.ResultList.Result))
	for _, raw := range resp.ResultList.Result {
		results = append(results, rawEuropePMCResult(raw))
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// Metadata looks up one paper by PMC ID or PMID.
func (r *EuropePMC) Metadata(ctx context.Context, paperID string) (types.Metadata, error) {
	params := url.Values{
		"format": {"json"},
		"id":     {paperID},
	}

	var resp eupmcSearchResponse
	if err := r.getJSON(ctx, europePMCBase+"/articles?"+params.Encode(), &resp); err != nil {
		return nil, repoErrorf(err, "failed to get metadata for %s", paperID)
	}

	if len(resp.ResultList.Result) == 0 {
		return nil, &RepositoryError{
			Message:  fmt.Sprintf("paper %s not found", paperID),
			NotFound: true,
		}
	}
	return rawEuropePMCResult(resp.ResultList.Result[0]), nil
}

// Download fetches fulltext files for paperID into outputDir. Supported
// formats: xml, pdf. A nil format list defaults to xml.
func (r *EuropePMC) Download(ctx context.Context, paperID, outputDir string, formats []string) (DownloadResult, error) {
	if len(formats) == 0 {
		formats = []string{"xml"}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return DownloadResult{}, repoErrorf(err, "creating output directory")
	}

	var files []string
	for _, format := range formats {
		var endpoint string
		switch format {
		case "xml":
			endpoint = fmt.Sprintf("%s/articles/%s/fullTextXML", europePMCBase, paperID)
		case "pdf":
			endpoint = fmt.Sprintf("%s/articles/%s/fullTextPDF", europePMCBase, paperID)
		default:
			continue
		}

		dest := filepath.Join(outputDir, paperID+"."+format)
		if err := r.fetchFile(ctx, endpoint, dest); err != nil {
			return DownloadResult{}, repoErrorf(err, "failed to download %s", paperID)
		}
		files = append(files, dest)
	}

	return DownloadResult{Success: true, PaperID: paperID, Files: files}, nil
}

// Info describes the Europe PMC repository.
func (r *EuropePMC) Info() Info {
	return Info{
		Name:             "Europe PMC",
		BaseURL:          europePMCBase,
		Description:      "Europe PMC is an open science platform that enables access to a world of biomedical literature",
		SupportedFormats: []string{"xml", "pdf"},
		MaxResults:       europePMCMax,
		DocsURL:          "https://europepmc.org/Help",
	}
}

// rawEuropePMCResult reshapes a result object into the raw metadata
// record the normalizer expects. Vendor keys are kept verbatim.
func rawEuropePMCResult(raw map[string]any) types.Metadata {
	m := types.Metadata{
		"pmcid":                stringOr(raw, "pmcid"),
		"pmid":                 stringOr(raw, "pmid"),
		"title":                stringOr(raw, "title"),
		"abstractText":         stringOr(raw, "abstractText"),
		"doi":                  stringOr(raw, "doi"),
		"firstPublicationDate": stringOr(raw, "firstPublicationDate"),
		"journalTitle":         stringOr(raw, "journalTitle"),
	}

	if list, ok := raw["authorList"].(map[string]any); ok {
		if authors, ok := list["author"].([]any); ok {
			names := make([]string, 0, len(authors))
			for _, a := range authors {
				if rec, ok := a.(map[string]any); ok {
					if name, ok := rec["fullName"].(string); ok && name != "" {
						names = append(names, name)
					}
				}
			}
			m["AuthorList"] = names
		}
	}
	return m
}

func stringOr(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func (r *EuropePMC) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.client, req, 0)
	if err != nil {
		return fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Europe PMC returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing Europe PMC response: %w", err)
	}
	return nil
}

func (r *EuropePMC) fetchFile(ctx context.Context, rawURL, dest string) error {
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
