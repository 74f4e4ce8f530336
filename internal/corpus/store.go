// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/semantic-corpus/internal/bagit"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// paperStore is the storage strategy behind a Manager. The two
// implementations differ only in where paper records live; the strategy is
// fixed when the Manager is constructed.
type paperStore interface {
	// writePaper persists the record for id, replacing any prior record.
	writePaper(id string, m types.Metadata) error

	// readPaper loads the record for id. Missing or unparseable records
	// yield a not-found StorageError.
	readPaper(id string) (types.Metadata, error)

	// listPapers recomputes the set of stored paper IDs from the
	// filesystem. Order is unspecified.
	listPapers() ([]string, error)

	// paperSize sums the bytes of every file associated with id.
	paperSize(id string) (int64, error)
}

const metadataSuffix = "_metadata.json"

// bagStore keeps paper records inside a bag payload:
// data/metadata/<id>_metadata.json, with fulltext under data/documents/.
type bagStore struct {
	bag *bagit.Bag
}

func (s *bagStore) metadataPath(id string) string {
	return filepath.Join(s.bag.PayloadPath(), "metadata", id+metadataSuffix)
}

func (s *bagStore) documentPath(id, format string) string {
	return filepath.Join(s.bag.PayloadPath(), "documents", format, id+"."+format)
}

func (s *bagStore) writePaper(id string, m types.Metadata) error {
	path := s.metadataPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return storageErrorf(err, "creating metadata directory")
	}
	if err := writeJSON(path, m); err != nil {
		return storageErrorf(err, "cannot add paper %s", id)
	}
	return nil
}

func (s *bagStore) readPaper(id string) (types.Metadata, error) {
	return readPaperFile(s.metadataPath(id), id)
}

func (s *bagStore) listPapers() ([]string, error) {
	dir := filepath.Join(s.bag.PayloadPath(), "metadata")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageErrorf(err, "listing metadata directory")
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, metadataSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, metadataSuffix))
	}
	return ids, nil
}

func (s *bagStore) paperSize(id string) (int64, error) {
	var total int64

	if info, err := os.Stat(s.metadataPath(id)); err == nil {
		total += info.Size()
	}

	// Fulltext files are named <id>.<format> under documents/<format>/.
	for _, format := range []string{"pdf", "xml", "html"} {
		if info, err := os.Stat(s.documentPath(id, format)); err == nil {
			total += info.Size()
		}
	}
	return total, nil
}

// flatStore is the legacy layout: papers/<id>/metadata.json, no manifest
// and no fixity guarantee. Kept for corpora created before packaging.
type flatStore struct {
	root string
}

func (s *flatStore) paperDir(id string) string {
	return filepath.Join(s.root, "papers", id)
}

func (s *flatStore) writePaper(id string, m types.Metadata) error {
	dir := s.paperDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageErrorf(err, "cannot add paper %s", id)
	}
	if err := writeJSON(filepath.Join(dir, "metadata.json"), m); err != nil {
		return storageErrorf(err, "cannot add paper %s", id)
	}
	return nil
}

func (s *flatStore) readPaper(id string) (types.Metadata, error) {
	return readPaperFile(filepath.Join(s.paperDir(id), "metadata.json"), id)
}

func (s *flatStore) listPapers() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "papers"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageErrorf(err, "listing papers directory")
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

func (s *flatStore) paperSize(id string) (int64, error) {
	var total int64
	err := filepath.WalkDir(s.paperDir(id), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, storageErrorf(err, "sizing paper %s", id)
	}
	return total, nil
}

// readPaperFile loads and parses one metadata file. Both a missing file
// and unparseable content surface as a not-found StorageError: either way
// there is no usable record for the ID.
func readPaperFile(path, id string) (types.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFoundErrorf("paper %s not found", id)
		}
		return nil, storageErrorf(err, "cannot read metadata for paper %s", id)
	}

	var m types.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &StorageError{
			Message:  "cannot read metadata for paper " + id + ": " + err.Error(),
			NotFound: true,
			Err:      err,
		}
	}
	return m, nil
}

// writeJSON writes v as pretty-printed UTF-8 JSON: 2-space indent, HTML
// escaping off so non-ASCII and markup characters are preserved literally.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
