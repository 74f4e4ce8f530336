// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/semantic-corpus/pkg/types"
)

// FromFile extracts raw metadata from a file, dispatching on extension.
// Supported formats: .xml, .pdf, .json.
func FromFile(path string) (types.Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, metadataErrorf(err, "file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FromXML(path)
	case ".pdf":
		result, err := FromPDF(path)
		if err != nil {
			return nil, err
		}
		return result.Fields(), nil
	case ".json":
		return FromJSON(path)
	default:
		return nil, metadataErrorf(nil, "unsupported file format: %s", filepath.Ext(path))
	}
}

// FromJSON reads a metadata record from a JSON file.
func FromJSON(path string) (types.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, metadataErrorf(err, "reading %s", path)
	}
	var m types.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, metadataErrorf(err, "parsing JSON metadata %s", path)
	}
	return m, nil
}

// FromXML extracts title, abstract, doi, and authors from an XML document.
// Elements are matched by local name anywhere in the tree, which covers
// both JATS fulltext and the minimal test fixtures.
func FromXML(path string) (types.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, metadataErrorf(err, "reading %s", path)
	}
	defer f.Close()

	m := types.Metadata{}
	var authors []string

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, metadataErrorf(err, "parsing XML metadata %s", path)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "title":
			if _, seen := m[types.FieldTitle]; !seen {
				m[types.FieldTitle] = elementText(dec, &start)
			}
		case "abstract":
			if _, seen := m[types.FieldAbstract]; !seen {
				m[types.FieldAbstract] = elementText(dec, &start)
			}
		case "doi":
			if _, seen := m[types.FieldDOI]; !seen {
				m[types.FieldDOI] = elementText(dec, &start)
			}
		case "author":
			if name := elementText(dec, &start); name != "" {
				authors = append(authors, name)
			}
		}
	}

	m[types.FieldAuthors] = authors
	return m, nil
}

// elementText decodes the element that begins at start and returns its
// character data, trimmed, with nested markup flattened.
func elementText(dec *xml.Decoder, start *xml.StartElement) string {
	var buf struct {
		Text string `xml:",chardata"`
	}
	if err := dec.DecodeElement(&buf, start); err != nil {
		return ""
	}
	return strings.Join(strings.Fields(buf.Text), " ")
}

// PDFResult is the outcome of PDF metadata extraction. Basic file-level
// fields are always populated; Extended carries title and authors from the
// document Info dictionary only when the scan found them. A PDF without a
// readable Info dictionary is a normal outcome, not an error.
type PDFResult struct {
	Basic    types.Metadata
	Extended types.Metadata
}

// HasExtended reports whether the Info-dictionary scan produced anything.
func (r PDFResult) HasExtended() bool { return len(r.Extended) > 0 }

// Fields merges basic and extended fields into one record, extended
// fields winning.
func (r PDFResult) Fields() types.Metadata {
	m := r.Basic.Clone()
	for k, v := range r.Extended {
		m[k] = v
	}
	return m
}

// FromPDF extracts file-level metadata from a PDF, plus title and author
// from the Info dictionary when they are stored as plain literal strings.
// Encrypted or object-stream Info dictionaries simply yield no extended
// fields.
func FromPDF(path string) (PDFResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PDFResult{}, metadataErrorf(err, "reading %s", path)
	}

	result := PDFResult{
		Basic: types.Metadata{
			"file_path": path,
			"file_type": "pdf",
			"file_size": info.Size(),
		},
		Extended: types.Metadata{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PDFResult{}, metadataErrorf(err, "reading %s", path)
	}

	if title := pdfInfoString(data, "/Title"); title != "" {
		result.Extended[types.FieldTitle] = title
	}
	if author := pdfInfoString(data, "/Author"); author != "" {
		result.Extended[types.FieldAuthors] = []string{author}
	}
	if creator := pdfInfoString(data, "/Creator"); creator != "" {
		result.Extended["creator"] = creator
	}

	return result, nil
}

// pdfInfoString scans raw PDF bytes for `key (literal)` and returns the
// literal string value, or "" when the key is absent or not a plain
// literal.
func pdfInfoString(data []byte, key string) string {
	idx := bytes.Index(data, []byte(key))
	if idx < 0 {
		return ""
	}
	rest := data[idx+len(key):]

	// Skip whitespace between key and value.
	i := 0
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\r' || rest[i] == '\n' || rest[i] == '\t') {
		i++
	}
	if i >= len(rest) || rest[i] != '(' {
		return ""
	}

	var b strings.Builder
	depth := 1
	for j := i + 1; j < len(rest); j++ {
		switch rest[j] {
		case '\\':
			if j+1 < len(rest) {
				b.WriteByte(rest[j+1])
				j++
			}
		case '(':
			depth++
			b.WriteByte('(')
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(b.String())
			}
			b.WriteByte(')')
		default:
			b.WriteByte(rest[j])
		}
	}
	return ""
}
