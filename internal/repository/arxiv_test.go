// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const arxivFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention Is Not Enough</title>
    <summary>
      We revisit attention mechanisms.
    </summary>
    <published>2023-01-17T18:59:59Z</published>
    <author><name>Smith, J.</name></author>
    <author><name>Doe, A.</name></author>
    <primary_category term="cs.LG"/>
  </entry>
</feed>`

const arxivEmptyFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

// withArxivServer points both arXiv endpoints at a local server.
func withArxivServer(t *testing.T, handler http.HandlerFunc) *Arxiv {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	origAPI, origDL := arxivAPIBase, arxivDownloadBase
	arxivAPIBase = ts.URL + "/api/query"
	arxivDownloadBase = ts.URL
	t.Cleanup(func() {
		arxivAPIBase = origAPI
		arxivDownloadBase = origDL
	})

	return &Arxiv{client: ts.Client(), cfg: testConfig()}
}

func TestArxivSearch(t *testing.T) {
	var gotQuery string
	repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(arxivFeedBody))
	})

	results, err := repo.Search(context.Background(), "attention", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery != "attention" {
		t.Errorf("search_query = %q", gotQuery)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	m := results[0]
	if m.String("arxiv_id") != "2301.07041v1" {
		t.Errorf("arxiv_id = %q", m.String("arxiv_id"))
	}
	if m.String("Title") != "Attention Is Not Enough" {
		t.Errorf("Title = %q", m.String("Title"))
	}
	if m.String("Abstract") != "We revisit attention mechanisms." {
		t.Errorf("Abstract = %q", m.String("Abstract"))
	}
	if got := m.Strings("AuthorList"); !reflect.DeepEqual(got, []string{"Smith, J.", "Doe, A."}) {
		t.Errorf("AuthorList = %v", got)
	}
	if got := m.Strings("categories"); !reflect.DeepEqual(got, []string{"cs.LG"}) {
		t.Errorf("categories = %v", got)
	}
}

func TestArxivSearchCategories(t *testing.T) {
	var gotQuery string
	repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(arxivEmptyFeedBody))
	})

	_, err := repo.Search(context.Background(), "attention", SearchOptions{
		Limit:      5,
		Categories: []string{"cs.LG", "stat.ML"},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "(attention) AND (cat:cs.LG OR cat:stat.ML)"
	if gotQuery != want {
		t.Errorf("search_query = %q, want %q", gotQuery, want)
	}
}

func TestArxivMetadata(t *testing.T) {
	var gotIDList string
	repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotIDList = r.URL.Query().Get("id_list")
		w.Write([]byte(arxivFeedBody))
	})

	m, err := repo.Metadata(context.Background(), "2301.07041")
	if err != nil {
		t.Fatal(err)
	}
	if gotIDList != "2301.07041" {
		t.Errorf("id_list = %q", gotIDList)
	}
	if m.String("arxiv_id") != "2301.07041v1" {
		t.Errorf("arxiv_id = %q", m.String("arxiv_id"))
	}
}

func TestArxivMetadataNotFound(t *testing.T) {
	t.Run("empty feed", func(t *testing.T) {
		repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(arxivEmptyFeedBody))
		})

		_, err := repo.Metadata(context.Background(), "0000.00000")
		if !IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false", err)
		}
	})

	t.Run("entry without usable id", func(t *testing.T) {
		// Unknown IDs come back as a feed whose entry has an error URL
		// instead of an /abs/ identifier.
		body := `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id</id>
    <title>Error</title>
  </entry>
</feed>`
		repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		_, err := repo.Metadata(context.Background(), "bogus")
		if !IsNotFound(err) {
			t.Errorf("IsNotFound(%v) = false", err)
		}
	})
}

func TestArxivDownload(t *testing.T) {
	repo := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pdf/2301.07041.pdf":
			w.Write([]byte("%PDF-1.4 arxiv"))
		case "/src/2301.07041":
			w.Write([]byte("tarball bytes"))
		default:
			http.NotFound(w, r)
		}
	})

	outDir := filepath.Join(t.TempDir(), "downloads")
	result, err := repo.Download(context.Background(), "2301.07041", outDir, []string{"pdf", "source"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("Files = %v", result.Files)
	}

	if _, err := os.Stat(filepath.Join(outDir, "2301.07041.pdf")); err != nil {
		t.Errorf("missing pdf: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "2301.07041.tar.gz")); err != nil {
		t.Errorf("missing source tarball: %v", err)
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		idURL string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/quant-ph/0201082", "quant-ph/0201082"},
		{"http://arxiv.org/api/errors#incorrect_id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractArxivID(tt.idURL); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.idURL, got, tt.want)
		}
	}
}
