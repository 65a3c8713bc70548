package mock

import "docsnare"

var _ docsnare.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docsnare.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(html string) (*docsnare.LinkSet, error)
}

func (e *LinkExtractor) Extract(html string) (*docsnare.LinkSet, error) {
	return e.ExtractFn(html)
}

var _ docsnare.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docsnare.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docsnare.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docsnare.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docsnare.Converter = (*Converter)(nil)

// Converter is a mock implementation of docsnare.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docsnare.PDFExtractor = (*PDFExtractor)(nil)

// PDFExtractor is a mock implementation of docsnare.PDFExtractor.
type PDFExtractor struct {
	IsPDFFn       func(data []byte) bool
	ExtractTextFn func(data []byte) (string, error)
}

func (p *PDFExtractor) IsPDF(data []byte) bool {
	return p.IsPDFFn(data)
}

func (p *PDFExtractor) ExtractText(data []byte) (string, error) {
	return p.ExtractTextFn(data)
}
