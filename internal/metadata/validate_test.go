// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"strings"
	"testing"

	"github.com/pdiddy/semantic-corpus/pkg/types"
)

func TestValidateDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1234/abc.def", true},
		{"10.48550/arXiv.2301.07041", true},
		{"  10.1234/abc  ", true},
		{"10.123/abc", false},
		{"11.1234/abc", false},
		{"10.1234/", false},
		{"10.1234/with space", false},
		{"doi:10.1234/abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateDOI(tt.doi); got != tt.want {
			t.Errorf("ValidateDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestValidatePublicationDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-01-15", true},
		{" 2024-01-15 ", true},
		{"2024-02-30", false},
		{"2024-1-15", false},
		{"15-01-2024", false},
		{"2024", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidatePublicationDate(tt.date); got != tt.want {
			t.Errorf("ValidatePublicationDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"typical title", "A Study of Protein Folding", true},
		{"exactly ten characters", "abcdefghij", true},
		{"nine characters", "abcdefghi", false},
		{"maximum length", strings.Repeat("a", 500), true},
		{"over maximum", strings.Repeat("a", 501), false},
		{"whitespace only", "         ", false},
		{"padded short title", "   short   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTitle(tt.title); got != tt.want {
				t.Errorf("ValidateTitle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateAbstract(t *testing.T) {
	if ValidateAbstract(strings.Repeat("a", 49)) {
		t.Error("abstract of 49 characters should be invalid")
	}
	if !ValidateAbstract(strings.Repeat("a", 50)) {
		t.Error("abstract of 50 characters should be valid")
	}
}

func TestValidateAuthors(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		want    bool
	}{
		{"single author", []string{"Smith J"}, true},
		{"several authors", []string{"Smith J", "Doe A"}, true},
		{"empty list", []string{}, false},
		{"nil list", nil, false},
		{"blank name", []string{"Smith J", "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAuthors(tt.authors); got != tt.want {
				t.Errorf("ValidateAuthors(%v) = %v, want %v", tt.authors, got, tt.want)
			}
		})
	}
}

func TestCompleteness(t *testing.T) {
	m := types.Metadata{
		"title":            "A Study of Protein Folding",
		"abstract":         strings.Repeat("Protein folding is studied here. ", 3),
		"doi":              "not-a-doi",
		"authors":          []string{"Smith J"},
		"publication_date": "2024-01-15",
	}

	report := Completeness(m)

	for _, key := range []string{
		"title_present", "abstract_present", "doi_present",
		"authors_present", "publication_date_present",
	} {
		if !report[key] {
			t.Errorf("%s = false, want true", key)
		}
	}

	if report["doi_valid"] {
		t.Error("doi_valid = true for a malformed DOI")
	}
	if !report["title_valid"] {
		t.Error("title_valid = false, want true")
	}
	if !report["publication_date_valid"] {
		t.Error("publication_date_valid = false, want true")
	}
	if !report["authors_valid"] {
		t.Error("authors_valid = false, want true")
	}
}

func TestCompletenessSkipsAbsentFields(t *testing.T) {
	report := Completeness(types.Metadata{"title": "A Study of Protein Folding"})

	if report["title_present"] != true {
		t.Error("title_present = false, want true")
	}
	if report["doi_present"] {
		t.Error("doi_present = true, want false")
	}
	if _, ok := report["doi_valid"]; ok {
		t.Error("doi_valid reported for a record without a doi")
	}
}
