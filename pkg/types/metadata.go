// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures and configuration for
// the semantic-corpus stages.
package types

import "fmt"

// Canonical metadata field names. Every repository adapter and file
// extractor maps its vendor-specific keys onto these before anything is
// written to a corpus.
const (
	FieldTitle           = "title"
	FieldAbstract        = "abstract"
	FieldDOI             = "doi"
	FieldAuthors         = "authors"
	FieldPublicationDate = "publication_date"
	FieldJournal         = "journal"
)

// Metadata is a paper metadata record. Keys are canonical field names
// after normalization; values keep whatever shape the source provided
// (strings, string slices, nested maps from JSON).
type Metadata map[string]any

// String returns the string form of the value stored under key, or ""
// when the key is absent.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Strings returns the value under key as a string slice. It accepts both
// []string and the []any produced by JSON decoding; anything else yields nil.
func (m Metadata) Strings(key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy of the record.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
