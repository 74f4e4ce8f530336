// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bagit maintains a directory tree as a BagIt-style archival
// package: a declaration file, free-form bag metadata, and a SHA-256
// fixity manifest over the data/ payload.
package bagit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// DeclarationFile marks a directory as a bag.
	DeclarationFile = "bagit.txt"

	// InfoFile carries free-form key/value bag metadata.
	InfoFile = "bag-info.txt"

	// ManifestFile records the SHA-256 checksum of every payload file.
	ManifestFile = "manifest-sha256.txt"

	// PayloadDir is the fixity-checked payload root.
	PayloadDir = "data"

	// placeholder keeps the payload non-empty; BagIt tooling rejects
	// bags with an empty payload.
	placeholder = ".keep"
)

const declaration = "BagIt-Version: 0.97\nTag-File-Character-Encoding: UTF-8\n"

// Bag is a handle on one bag directory. Methods re-read the filesystem on
// every call; the handle itself holds no mutable state.
type Bag struct {
	root string
}

// New returns a handle on the bag rooted at root. The directory need not
// exist yet; call Create to lay down the bag structure.
func New(root string) *Bag {
	return &Bag{root: root}
}

// Root returns the bag directory.
func (b *Bag) Root() string { return b.root }

// PayloadPath returns the payload root directory.
func (b *Bag) PayloadPath() string { return filepath.Join(b.root, PayloadDir) }

// IsBag reports whether the declaration file is present.
func (b *Bag) IsBag() bool {
	_, err := os.Stat(filepath.Join(b.root, DeclarationFile))
	return err == nil
}

// Create lays down the bag structure: the payload directory (with a
// placeholder when empty), the declaration, bag-info with the given
// metadata, and an initial manifest. Creating over an existing bag is a
// no-op that preserves the bag as-is.
func (b *Bag) Create(info map[string]string) error {
	if b.IsBag() {
		return nil
	}

	payload := b.PayloadPath()
	if err := os.MkdirAll(payload, 0o755); err != nil {
		return fmt.Errorf("creating payload directory: %w", err)
	}

	empty, err := isEmptyDir(payload)
	if err != nil {
		return fmt.Errorf("checking payload directory: %w", err)
	}
	if empty {
		if err := os.WriteFile(filepath.Join(payload, placeholder), nil, 0o644); err != nil {
			return fmt.Errorf("creating payload placeholder: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(b.root, DeclarationFile), []byte(declaration), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", DeclarationFile, err)
	}
	if err := b.writeInfo(info, "0.0"); err != nil {
		return err
	}
	return b.UpdateManifest()
}

// CreateStructuredDirectories creates the corpus directory layout inside
// and beside the payload. All directories are idempotently creatable.
func (b *Bag) CreateStructuredDirectories() error {
	payload := b.PayloadPath()
	dirs := []string{
		filepath.Join(payload, "documents", "pdf"),
		filepath.Join(payload, "documents", "xml"),
		filepath.Join(payload, "documents", "html"),
		filepath.Join(payload, "semantic"),
		filepath.Join(payload, "metadata"),
		filepath.Join(payload, "keyphrases"),
		filepath.Join(payload, "indices"),
		// Package-level directories, outside the fixity-checked payload.
		filepath.Join(b.root, "relations"),
		filepath.Join(b.root, "analysis"),
		filepath.Join(b.root, "provenance"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// UpdateManifest rehashes the full payload tree and rewrites the manifest
// and the Payload-Oxum entry in bag-info. It fails when the bag markers
// are missing.
func (b *Bag) UpdateManifest() error {
	if _, err := os.Stat(filepath.Join(b.root, DeclarationFile)); err != nil {
		return fmt.Errorf("not a bag: missing %s in %s", DeclarationFile, b.root)
	}

	paths, err := b.payloadFiles()
	if err != nil {
		return fmt.Errorf("walking payload: %w", err)
	}

	var sb strings.Builder
	var totalBytes int64
	for _, rel := range paths {
		sum, n, err := hashFile(filepath.Join(b.root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("hashing %s: %w", rel, err)
		}
		totalBytes += n
		fmt.Fprintf(&sb, "%s  %s\n", sum, rel)
	}

	if err := os.WriteFile(filepath.Join(b.root, ManifestFile), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	oxum := fmt.Sprintf("%d.%d", totalBytes, len(paths))
	return b.writeInfo(b.Info(), oxum)
}

// Validate reports whether the bag is intact: markers present, every
// manifest entry exists with a matching checksum, and no payload file is
// unlisted. It is a predicate and never returns an error.
func (b *Bag) Validate() bool {
	if !b.IsBag() {
		return false
	}

	manifest, err := b.readManifest()
	if err != nil {
		return false
	}

	paths, err := b.payloadFiles()
	if err != nil {
		return false
	}
	if len(paths) != len(manifest) {
		return false
	}

	for _, rel := range paths {
		want, listed := manifest[rel]
		if !listed {
			return false
		}
		got, _, err := hashFile(filepath.Join(b.root, filepath.FromSlash(rel)))
		if err != nil || got != want {
			return false
		}
	}
	return true
}

// Info returns the bag-info metadata, or an empty map when the file is
// missing or unreadable.
func (b *Bag) Info() map[string]string {
	f, err := os.Open(filepath.Join(b.root, InfoFile))
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()

	info := make(map[string]string)
	var lastKey string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		// Indented lines continue the previous value.
		if (line[0] == ' ' || line[0] == '\t') && lastKey != "" {
			info[lastKey] += " " + strings.TrimSpace(line)
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		lastKey = strings.TrimSpace(key)
		info[lastKey] = strings.TrimSpace(value)
	}
	return info
}

// writeInfo rewrites bag-info.txt with the given metadata plus the
// generated Bagging-Date and Payload-Oxum entries. Keys are written in
// sorted order for deterministic output.
func (b *Bag) writeInfo(info map[string]string, oxum string) error {
	merged := make(map[string]string, len(info)+2)
	for k, v := range info {
		merged[k] = v
	}
	if _, ok := merged["Bagging-Date"]; !ok {
		merged["Bagging-Date"] = time.Now().UTC().Format("2006-01-02")
	}
	merged["Payload-Oxum"] = oxum

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s\n", k, merged[k])
	}
	if err := os.WriteFile(filepath.Join(b.root, InfoFile), []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", InfoFile, err)
	}
	return nil
}

// payloadFiles returns the slash-separated relative paths (rooted at the
// bag, so "data/...") of every payload file, sorted.
func (b *Bag) payloadFiles() ([]string, error) {
	var paths []string
	payload := b.PayloadPath()
	err := filepath.WalkDir(payload, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// readManifest parses the manifest into a map of relative path to checksum.
func (b *Bag) readManifest() (map[string]string, error) {
	f, err := os.Open(filepath.Join(b.root, ManifestFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	manifest := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sum, rel, found := strings.Cut(line, "  ")
		if !found {
			return nil, fmt.Errorf("malformed manifest line: %q", line)
		}
		manifest[strings.TrimSpace(rel)] = sum
	}
	return manifest, scanner.Err()
}

// hashFile returns the hex SHA-256 of the file and its size in bytes.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
