// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest replays a pygetpapers export directory (one folder per
// paper with raw Europe PMC JSON and optional fulltext) into a packaged
// corpus.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/semantic-corpus/internal/corpus"
	"github.com/pdiddy/semantic-corpus/internal/metadata"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

const (
	// rawMetadataFile is the per-paper raw metadata filename pygetpapers
	// writes.
	rawMetadataFile = "eupmc_result.json"

	// folderPrefix is the vendor ID convention for paper folders.
	folderPrefix = "PMC"

	// DefaultIDPrefix is prepended to vendor IDs to form corpus paper IDs.
	DefaultIDPrefix = "europe_pmc_"
)

// fulltext files copied into the corpus when present, by document format.
var fulltextFiles = map[string]string{
	"xml": "fulltext.xml",
	"pdf": "fulltext.pdf",
}

// Record is the provenance record written for each ingestion run.
type Record struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	IDPrefix  string    `json:"id_prefix"`
	PaperIDs  []string  `json:"paper_ids"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Discover returns the per-paper folders under exportDir: immediate
// subdirectories named PMC* that contain the raw metadata file, sorted
// lexicographically for deterministic replay.
func Discover(exportDir string) ([]string, error) {
	entries, err := os.ReadDir(exportDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading export directory %s: %w", exportDir, err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), folderPrefix) {
			continue
		}
		folder := filepath.Join(exportDir, entry.Name())
		if _, err := os.Stat(filepath.Join(folder, rawMetadataFile)); err != nil {
			continue
		}
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders, nil
}

// Ingest replays exportDir into the corpus, one paper per discovered
// folder: parse the raw metadata, normalize, write through the facade,
// copy fulltext files, update the manifest. The first unreadable input
// fails the whole run; papers already written stay on disk with a current
// manifest (no rollback). Returns the corpus IDs written, and writes a
// provenance record for the run. Progress lines go to w.
func Ingest(exportDir string, c *corpus.Manager, idPrefix string, w io.Writer) ([]string, error) {
	info, err := os.Stat(exportDir)
	if err != nil {
		return nil, &corpus.StorageError{Message: fmt.Sprintf("export directory does not exist: %s", exportDir), Err: err}
	}
	if !info.IsDir() {
		return nil, &corpus.StorageError{Message: fmt.Sprintf("not a directory: %s", exportDir)}
	}
	if !c.Packaged() {
		return nil, &corpus.StorageError{Message: "bulk ingestion requires a packaged corpus"}
	}
	if idPrefix == "" {
		idPrefix = DefaultIDPrefix
	}

	folders, err := Discover(exportDir)
	if err != nil {
		return nil, &corpus.StorageError{Message: err.Error(), Err: err}
	}

	startedAt := time.Now().UTC()
	var added []string

	for _, folder := range folders {
		vendorID := filepath.Base(folder)
		corpusID := idPrefix + vendorID

		raw, err := readRawMetadata(filepath.Join(folder, rawMetadataFile))
		if err != nil {
			return added, err
		}

		if err := c.AddPaper(corpusID, metadata.Normalize(raw)); err != nil {
			return added, err
		}

		for format, name := range fulltextFiles {
			src := filepath.Join(folder, name)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := c.AddDocument(corpusID, format, src); err != nil {
				return added, err
			}
		}

		fmt.Fprintf(w, "ingested %s\n", corpusID)
		added = append(added, corpusID)
	}

	record := Record{
		RunID:     uuid.NewString(),
		Source:    exportDir,
		IDPrefix:  idPrefix,
		PaperIDs:  added,
		StartedAt: startedAt,
		EndedAt:   time.Now().UTC(),
	}
	if err := c.WriteProvenance("ingest-"+record.RunID+".json", record); err != nil {
		return added, err
	}

	fmt.Fprintf(w, "\ningested %d paper(s)\n", len(added))
	return added, nil
}

// readRawMetadata parses one eupmc_result.json into the raw metadata
// shape the normalizer expects.
func readRawMetadata(path string) (types.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &corpus.StorageError{Message: fmt.Sprintf("cannot read %s: %v", path, err), Err: err}
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &corpus.StorageError{Message: fmt.Sprintf("cannot read %s: %v", path, err), Err: err}
	}
	return rawFromEuropePMC(result), nil
}

// rawFromEuropePMC maps the Europe PMC result fields onto the raw shape
// fed to the normalizer. The author string is split on commas;
// publication date falls back from firstPublicationDate to dateOfCreation
// to the bare year.
func rawFromEuropePMC(data map[string]any) types.Metadata {
	raw := types.Metadata{
		"title":    stringField(data, "title"),
		"abstract": stringField(data, "abstractText"),
		"doi":      stringField(data, "doi"),
		"pmcid":    stringField(data, "pmcid"),
		"pmid":     stringField(data, "pmid"),
	}

	var authors []string
	for _, part := range strings.Split(stringField(data, "authorString"), ",") {
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "."))
		if name != "" {
			authors = append(authors, name)
		}
	}
	raw["authors"] = authors

	date := stringField(data, "firstPublicationDate")
	if date == "" {
		date = stringField(data, "dateOfCreation")
	}
	if date == "" {
		if year, ok := data["pubYear"]; ok && year != nil {
			date = fmt.Sprintf("%v", year)
		}
	}
	raw["publication_date"] = date

	raw["journal"] = ""
	if ji, ok := data["journalInfo"].(map[string]any); ok {
		if j, ok := ji["journal"].(map[string]any); ok {
			raw["journal"] = stringField(j, "title")
		}
	}
	return raw
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
