// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus manages personal research-paper corpora. A Manager wraps
// one corpus directory in either the packaged layout (a BagIt-style bag
// with a fixity manifest) or the legacy flat layout, selected once at
// construction.
package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/semantic-corpus/internal/bagit"
	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// Manager is the paper-level facade over one corpus directory. Callers
// never construct paths inside the corpus themselves; placement is owned
// here and by the storage strategy.
type Manager struct {
	root     string
	packaged bool
	store    paperStore
	bag      *bagit.Bag // nil in legacy mode
}

// New opens or creates the corpus at root. When packaged is true the
// directory is initialized as a bag with the given bag-info metadata and
// every payload mutation triggers a manifest update; otherwise the legacy
// flat layout is used and info is ignored. The mode is fixed for the
// lifetime of the Manager.
func New(root string, packaged bool, info map[string]string) (*Manager, error) {
	parent := filepath.Dir(filepath.Clean(root))
	if _, err := os.Stat(parent); err != nil {
		return nil, storageErrorf(nil, "parent directory does not exist: %s", parent)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, storageErrorf(err, "cannot create corpus directory")
	}

	m := &Manager{root: root, packaged: packaged}
	if packaged {
		m.bag = bagit.New(root)
		if err := m.bag.Create(info); err != nil {
			return nil, storageErrorf(err, "cannot create corpus package")
		}
		m.store = &bagStore{bag: m.bag}
	} else {
		m.store = &flatStore{root: root}
	}
	return m, nil
}

// Root returns the corpus directory.
func (m *Manager) Root() string { return m.root }

// Packaged reports whether the corpus uses the packaged layout.
func (m *Manager) Packaged() bool { return m.packaged }

// CreateStructuredDirectories creates the corpus directory layout
// (documents/{pdf,xml,html}, semantic, metadata, keyphrases, indices
// inside the payload; relations, analysis, provenance beside it).
// Re-creating an existing structure is a no-op.
func (m *Manager) CreateStructuredDirectories() error {
	if !m.packaged {
		return storageErrorf(nil, "structured directories require a packaged corpus")
	}
	if err := m.bag.CreateStructuredDirectories(); err != nil {
		return storageErrorf(err, "cannot create structured directories")
	}
	return nil
}

// AddPaper stores the metadata record for id, replacing any prior record,
// and refreshes the fixity manifest in packaged mode.
func (m *Manager) AddPaper(id string, metadata types.Metadata) error {
	if err := m.store.writePaper(id, metadata); err != nil {
		return err
	}
	if m.packaged {
		if err := m.bag.UpdateManifest(); err != nil {
			return storageErrorf(err, "cannot update manifest after adding paper %s", id)
		}
	}
	return nil
}

// PaperMetadata returns the stored record for id. A missing or
// unparseable record yields a not-found StorageError.
func (m *Manager) PaperMetadata(id string) (types.Metadata, error) {
	return m.store.readPaper(id)
}

// ListPapers returns the IDs of every stored paper, recomputed from the
// filesystem. Order is unspecified.
func (m *Manager) ListPapers() ([]string, error) {
	return m.store.listPapers()
}

// SearchPapers returns the IDs of papers whose field value contains query,
// case-insensitively. Papers with an unreadable record or without the
// field are skipped, not errors.
func (m *Manager) SearchPapers(query, field string) ([]string, error) {
	ids, err := m.store.listPapers()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var matches []string
	for _, id := range ids {
		metadata, err := m.store.readPaper(id)
		if err != nil {
			continue
		}
		if _, ok := metadata[field]; !ok {
			continue
		}
		if strings.Contains(strings.ToLower(metadata.String(field)), needle) {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

// Stats summarizes a corpus at a point in time.
type Stats struct {
	TotalPapers int       `json:"total_papers" yaml:"total_papers"`
	SizeBytes   int64     `json:"size_bytes" yaml:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Statistics returns the paper count and the byte-sum of all
// paper-associated files under the current mode's layout.
func (m *Manager) Statistics() (Stats, error) {
	ids, err := m.store.listPapers()
	if err != nil {
		return Stats{}, err
	}

	var size int64
	for _, id := range ids {
		n, err := m.store.paperSize(id)
		if err != nil {
			return Stats{}, err
		}
		size += n
	}

	return Stats{
		TotalPapers: len(ids),
		SizeBytes:   size,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Validate reports whether the package is intact: every manifest entry
// matches its file, no payload file is unlisted, none is missing. A legacy
// corpus has no fixity guarantee and always reports false.
func (m *Manager) Validate() bool {
	if !m.packaged {
		return false
	}
	return m.bag.Validate()
}

// UpdateManifest rehashes the payload and rewrites the fixity manifest.
func (m *Manager) UpdateManifest() error {
	if !m.packaged {
		return storageErrorf(nil, "manifest update requires a packaged corpus")
	}
	if err := m.bag.UpdateManifest(); err != nil {
		return storageErrorf(err, "cannot update manifest")
	}
	return nil
}

// Info returns the package's free-form metadata (bag-info), or an empty
// map for a legacy corpus or an unreadable package.
func (m *Manager) Info() map[string]string {
	if !m.packaged {
		return map[string]string{}
	}
	return m.bag.Info()
}

// AddDocument copies a fulltext file into the corpus as the document of
// the given format (pdf, xml, html) for paper id, then refreshes the
// manifest. Packaged mode only.
func (m *Manager) AddDocument(id, format, srcPath string) error {
	if !m.packaged {
		return storageErrorf(nil, "documents require a packaged corpus")
	}

	bs := m.store.(*bagStore)
	dst := bs.documentPath(id, format)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return storageErrorf(err, "creating documents directory")
	}
	if err := copyFile(srcPath, dst); err != nil {
		return storageErrorf(err, "cannot add %s document for paper %s", format, id)
	}
	if err := m.bag.UpdateManifest(); err != nil {
		return storageErrorf(err, "cannot update manifest after adding document for %s", id)
	}
	return nil
}

// IndexDir returns the payload directory reserved for search indices,
// creating it if needed. Packaged mode only.
func (m *Manager) IndexDir() (string, error) {
	if !m.packaged {
		return "", storageErrorf(nil, "search indices require a packaged corpus")
	}
	dir := filepath.Join(m.bag.PayloadPath(), "indices")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", storageErrorf(err, "creating indices directory")
	}
	return dir, nil
}

// WriteProvenance writes a JSON record under the package-level
// provenance/ directory, which is outside the fixity-checked payload.
func (m *Manager) WriteProvenance(name string, v any) error {
	if !m.packaged {
		return storageErrorf(nil, "provenance records require a packaged corpus")
	}

	dir := filepath.Join(m.root, "provenance")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return storageErrorf(err, "creating provenance directory")
	}
	if err := writeJSON(filepath.Join(dir, name), v); err != nil {
		return storageErrorf(err, "cannot write provenance record %s", name)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
