// Package fs persists resolved documents to disk. HTML documents are written
// as Markdown with YAML frontmatter; file payloads are written verbatim.
// Writes are atomic: content lands in a temp file first and is renamed into
// place, so readers never see a partial document.
package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docsnare"
)

// DocumentPath derives a relative file path for a resolved document.
// HTML documents get a .md extension; PDFs keep or gain .pdf.
// Example: https://example.gov/docs/permits/ → docs/permits/index.md
func DocumentPath(result *docsnare.DocumentResult) (string, error) {
	u, err := url.Parse(result.URL)
	if err != nil {
		return "", docsnare.Errorf(docsnare.EINVALID, "invalid document url %q: %v", result.URL, err)
	}

	path := strings.TrimPrefix(u.Path, "/")

	ext := ".md"
	if result.IsPDF {
		ext = ".pdf"
	}

	switch {
	case path == "" || strings.HasSuffix(path, "/"):
		path += "index" + ext
	case strings.EqualFold(filepath.Ext(path), ext):
		// Already carries the right extension.
	default:
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}

	return path, nil
}

// Writer writes resolved documents under a base directory.
type Writer struct {
	baseDir string

	// now is swappable for tests.
	now func() time.Time
}

// NewWriter creates a Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

// Write persists result and returns the full path of the written file.
func (w *Writer) Write(result *docsnare.DocumentResult) (string, error) {
	relPath, err := DocumentPath(result)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", relPath, err)
	}

	var content []byte
	if result.IsPDF && len(result.FileBytes) > 0 {
		content = result.FileBytes
	} else {
		content = []byte(w.formatMarkdown(result))
	}

	if err := writeAtomic(fullPath, content); err != nil {
		return "", fmt.Errorf("writing %s: %w", relPath, err)
	}
	return fullPath, nil
}

// formatMarkdown renders the document text with YAML frontmatter.
func (w *Writer) formatMarkdown(result *docsnare.DocumentResult) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(result.URL)
	if result.Pattern != docsnare.PatternNone {
		b.WriteString("\npattern: ")
		b.WriteString(string(result.Pattern))
	}
	b.WriteString("\nretrieved: ")
	b.WriteString(w.now().Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(result.Text)
	return b.String()
}

// writeAtomic writes content to path via a temp file and rename.
func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
