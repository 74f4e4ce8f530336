// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// doiPattern is the accepted DOI shape: "10." followed by a registrant
// code of four or more digits, a slash, and a non-blank suffix.
var doiPattern = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// ValidateDOI reports whether doi is a well-formed DOI.
func ValidateDOI(doi string) bool {
	return doiPattern.MatchString(strings.TrimSpace(doi))
}

// ValidatePublicationDate reports whether date parses as YYYY-MM-DD.
func ValidatePublicationDate(date string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	return err == nil
}

// ValidateTitle reports whether title is 10 to 500 characters after trimming.
func ValidateTitle(title string) bool {
	n := len(strings.TrimSpace(title))
	return n >= 10 && n <= 500
}

// ValidateAbstract reports whether abstract is at least 50 characters after trimming.
func ValidateAbstract(abstract string) bool {
	return len(strings.TrimSpace(abstract)) >= 50
}

// ValidateAuthors reports whether authors is a non-empty list of non-blank names.
func ValidateAuthors(authors []string) bool {
	if len(authors) == 0 {
		return false
	}
	for _, a := range authors {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}

// ValidateRequiredFields reports whether every required canonical field is
// present and non-empty. Equivalent to ValidateCompleteness; kept as the
// validator-side name.
func ValidateRequiredFields(m types.Metadata) bool {
	return ValidateCompleteness(m)
}

// Completeness returns a per-field report: "<field>_present" for each
// required field, and "<field>_valid" format checks for the fields the
// record carries.
func Completeness(m types.Metadata) map[string]bool {
	results := make(map[string]bool)

	for _, field := range requiredFields {
		results[field+"_present"] = truthy(m[field])
	}

	if _, ok := m[types.FieldDOI]; ok {
		results["doi_valid"] = ValidateDOI(m.String(types.FieldDOI))
	}
	if _, ok := m[types.FieldPublicationDate]; ok {
		results["publication_date_valid"] = ValidatePublicationDate(m.String(types.FieldPublicationDate))
	}
	if _, ok := m[types.FieldAuthors]; ok {
		results["authors_valid"] = ValidateAuthors(m.Strings(types.FieldAuthors))
	}
	if _, ok := m[types.FieldTitle]; ok {
		results["title_valid"] = ValidateTitle(m.String(types.FieldTitle))
	}
	if _, ok := m[types.FieldAbstract]; ok {
		results["abstract_valid"] = ValidateAbstract(m.String(types.FieldAbstract))
	}

	return results
}
