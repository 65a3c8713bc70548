package docsnare

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Used to produce the text of a resolved HTML document.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// The title comes from page metadata (meta tags, JSON+LD, etc.).
	// The content HTML has boilerplate removed but preserves structure.
	Extract(html string) (*ExtractResult, error)
}

// PDFExtractor detects and extracts text from PDF payloads.
type PDFExtractor interface {
	// IsPDF reports whether data carries a PDF signature.
	IsPDF(data []byte) bool

	// ExtractText returns the plain text of a PDF document.
	ExtractText(data []byte) (string, error)
}
