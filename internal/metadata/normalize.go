// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata normalizes heterogeneous paper metadata onto the
// canonical schema and validates field formats.
package metadata

import (
	"strings"

	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// fieldAliases maps vendor-specific key names onto canonical field names.
// Lookup is case-sensitive; keys without an entry fall back to their
// lower-cased form.
var fieldAliases = map[string]string{
	"Title":                types.FieldTitle,
	"title":                types.FieldTitle,
	"Abstract":             types.FieldAbstract,
	"abstract":             types.FieldAbstract,
	"AbstractText":         types.FieldAbstract,
	"abstractText":         types.FieldAbstract,
	"DOI":                  types.FieldDOI,
	"doi":                  types.FieldDOI,
	"Authors":              types.FieldAuthors,
	"authors":              types.FieldAuthors,
	"AuthorList":           types.FieldAuthors,
	"Publication_Date":     types.FieldPublicationDate,
	"publication_date":     types.FieldPublicationDate,
	"firstPublicationDate": types.FieldPublicationDate,
	"Journal":              types.FieldJournal,
	"journal":              types.FieldJournal,
	"journalTitle":         types.FieldJournal,
}

// requiredFields are the canonical fields a complete record must carry.
var requiredFields = []string{
	types.FieldTitle,
	types.FieldAbstract,
	types.FieldDOI,
	types.FieldAuthors,
	types.FieldPublicationDate,
}

// Normalize maps the keys of a raw metadata record onto canonical field
// names. Values pass through unmodified. Normalize never fails; keys the
// alias table does not know survive lower-cased, so a malformed input
// yields a record with unexpected keys rather than an error.
func Normalize(raw types.Metadata) types.Metadata {
	normalized := make(types.Metadata, len(raw))
	for key, value := range raw {
		canonical, ok := fieldAliases[key]
		if !ok {
			canonical = strings.ToLower(key)
		}
		normalized[canonical] = value
	}
	return normalized
}

// ValidateCompleteness reports whether all required canonical fields are
// present and non-empty.
func ValidateCompleteness(m types.Metadata) bool {
	for _, field := range requiredFields {
		if !truthy(m[field]) {
			return false
		}
	}
	return true
}

// truthy reports whether a metadata value counts as present: a non-empty
// string, or a non-empty sequence.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}
