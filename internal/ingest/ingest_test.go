// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/semantic-corpus/internal/corpus"
)

func newTestCorpus(t *testing.T) *corpus.Manager {
	t.Helper()
	c, err := corpus.New(filepath.Join(t.TempDir(), "corpus"), true, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// writeExportFolder lays down one pygetpapers paper folder.
func writeExportFolder(t *testing.T, exportDir, pmcid string, result map[string]any, fulltext map[string]string) {
	t.Helper()
	folder := filepath.Join(exportDir, pmcid)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, rawMetadataFile), data, 0o644); err != nil {
		t.Fatal(err)
	}

	for name, content := range fulltext {
		if err := os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func sampleResult(pmcid, title string) map[string]any {
	return map[string]any{
		"pmcid":                pmcid,
		"title":                title,
		"abstractText":         "We measured things carefully over many months.",
		"doi":                  "10.1234/" + pmcid,
		"authorString":         "Smith J, Doe A.",
		"firstPublicationDate": "2024-02-10",
		"journalInfo": map[string]any{
			"journal": map[string]any{"title": "Genome Biology"},
		},
	}
}

func TestDiscover(t *testing.T) {
	exportDir := t.TempDir()
	writeExportFolder(t, exportDir, "PMC222", sampleResult("PMC222", "Second"), nil)
	writeExportFolder(t, exportDir, "PMC111", sampleResult("PMC111", "First"), nil)

	// Folders without the raw metadata file, non-PMC folders, and plain
	// files are all skipped.
	if err := os.MkdirAll(filepath.Join(exportDir, "PMC999"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(exportDir, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(exportDir, "PMC000"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	folders, err := Discover(exportDir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(exportDir, "PMC111"),
		filepath.Join(exportDir, "PMC222"),
	}
	if !reflect.DeepEqual(folders, want) {
		t.Errorf("Discover() = %v, want %v", folders, want)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	folders, err := Discover(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if folders != nil {
		t.Errorf("Discover() = %v, want nil", folders)
	}
}

func TestIngest(t *testing.T) {
	exportDir := t.TempDir()
	writeExportFolder(t, exportDir, "PMC111", sampleResult("PMC111", "First Paper"), map[string]string{
		"fulltext.xml": "<article>one</article>",
		"fulltext.pdf": "%PDF-1.4 one",
	})
	writeExportFolder(t, exportDir, "PMC222", sampleResult("PMC222", "Second Paper"), nil)

	c := newTestCorpus(t)
	added, err := Ingest(exportDir, c, "", io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"europe_pmc_PMC111", "europe_pmc_PMC222"}
	if !reflect.DeepEqual(added, want) {
		t.Fatalf("added = %v, want %v", added, want)
	}

	// Metadata landed normalized.
	m, err := c.PaperMetadata("europe_pmc_PMC111")
	if err != nil {
		t.Fatal(err)
	}
	if m.String("title") != "First Paper" {
		t.Errorf("title = %q", m.String("title"))
	}
	if m.String("journal") != "Genome Biology" {
		t.Errorf("journal = %q", m.String("journal"))
	}
	if got := m.Strings("authors"); !reflect.DeepEqual(got, []string{"Smith J", "Doe A"}) {
		t.Errorf("authors = %v", got)
	}

	// Fulltext files were copied into the documents tree.
	xmlPath := filepath.Join(c.Root(), "data", "documents", "xml", "europe_pmc_PMC111.xml")
	if _, err := os.Stat(xmlPath); err != nil {
		t.Errorf("missing ingested xml: %v", err)
	}
	pdfPath := filepath.Join(c.Root(), "data", "documents", "pdf", "europe_pmc_PMC111.pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		t.Errorf("missing ingested pdf: %v", err)
	}

	// The manifest is current after the run.
	if !c.Validate() {
		t.Error("corpus invalid after ingestion")
	}

	// One provenance record for the run, listing the ingested IDs.
	entries, err := os.ReadDir(filepath.Join(c.Root(), "provenance"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "ingest-") {
		t.Fatalf("provenance entries = %v", entries)
	}

	data, err := os.ReadFile(filepath.Join(c.Root(), "provenance", entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(record.PaperIDs, want) {
		t.Errorf("record.PaperIDs = %v, want %v", record.PaperIDs, want)
	}
	if record.RunID == "" || record.Source != exportDir {
		t.Errorf("record = %+v", record)
	}
}

func TestIngestCustomPrefix(t *testing.T) {
	exportDir := t.TempDir()
	writeExportFolder(t, exportDir, "PMC111", sampleResult("PMC111", "Prefixed"), nil)

	c := newTestCorpus(t)
	added, err := Ingest(exportDir, c, "epmc-", io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 1 || added[0] != "epmc-PMC111" {
		t.Errorf("added = %v", added)
	}
}

func TestIngestStopsAtFirstBadInput(t *testing.T) {
	exportDir := t.TempDir()
	writeExportFolder(t, exportDir, "PMC111", sampleResult("PMC111", "Good"), nil)

	// PMC222 sorts after PMC111 and carries corrupt metadata.
	folder := filepath.Join(exportDir, "PMC222")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(folder, rawMetadataFile), []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCorpus(t)
	added, err := Ingest(exportDir, c, "", io.Discard)
	if err == nil {
		t.Fatal("expected error for corrupt metadata")
	}

	// The good paper before the failure stayed in the corpus, with a
	// manifest covering it.
	if len(added) != 1 || added[0] != "europe_pmc_PMC111" {
		t.Errorf("added = %v", added)
	}
	if _, err := c.PaperMetadata("europe_pmc_PMC111"); err != nil {
		t.Errorf("pre-failure paper missing: %v", err)
	}
	if !c.Validate() {
		t.Error("corpus invalid after aborted ingestion")
	}
}

func TestIngestRejectsLegacyCorpus(t *testing.T) {
	c, err := corpus.New(filepath.Join(t.TempDir(), "flat"), false, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Ingest(t.TempDir(), c, "", io.Discard)
	if err == nil {
		t.Fatal("expected error for legacy corpus")
	}
}

func TestIngestMissingExportDir(t *testing.T) {
	c := newTestCorpus(t)
	_, err := Ingest(filepath.Join(t.TempDir(), "absent"), c, "", io.Discard)
	if err == nil {
		t.Fatal("expected error for missing export directory")
	}
}

func TestRawFromEuropePMCDateFallback(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "first publication date wins",
			data: map[string]any{"firstPublicationDate": "2024-02-10", "dateOfCreation": "2024-01-01", "pubYear": "2024"},
			want: "2024-02-10",
		},
		{
			name: "falls back to creation date",
			data: map[string]any{"dateOfCreation": "2024-01-01", "pubYear": "2024"},
			want: "2024-01-01",
		},
		{
			name: "falls back to bare year",
			data: map[string]any{"pubYear": "2024"},
			want: "2024",
		},
		{
			name: "nothing available",
			data: map[string]any{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawFromEuropePMC(tt.data)
			if got := raw.String("publication_date"); got != tt.want {
				t.Errorf("publication_date = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawFromEuropePMCAuthorSplit(t *testing.T) {
	raw := rawFromEuropePMC(map[string]any{"authorString": "Smith J, Doe A, van der Berg C."})
	want := []string{"Smith J", "Doe A", "van der Berg C"}
	if got := raw.Strings("authors"); !reflect.DeepEqual(got, want) {
		t.Errorf("authors = %v, want %v", got, want)
	}
}
