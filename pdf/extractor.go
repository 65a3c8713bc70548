// Package pdf implements docsnare.PDFExtractor using the ledongthuc/pdf
// library. It classifies payloads by signature and pulls plain text out of
// resolved document downloads.
package pdf

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"docsnare"
)

// Ensure Extractor implements docsnare.PDFExtractor at compile time.
var _ docsnare.PDFExtractor = (*Extractor)(nil)

// Extractor detects and extracts text from PDF payloads.
// A MaxPages of 0 means no limit.
type Extractor struct {
	MaxPages int
}

// NewExtractor creates a new Extractor with no page limit.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// IsPDF reports whether data carries a PDF signature.
func (e *Extractor) IsPDF(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "%PDF"
}

// ExtractText returns the plain text of a PDF document, pages separated by
// blank lines. Pages that fail to decode are skipped; scanned documents with
// no text layer yield an empty string.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	if !e.IsPDF(data) {
		return "", docsnare.Errorf(docsnare.EINVALID, "payload is not a PDF")
	}

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", docsnare.Errorf(docsnare.EINVALID, "parsing PDF: %v", err)
	}

	var b strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		if e.MaxPages > 0 && i > e.MaxPages {
			break
		}

		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String()), nil
}
