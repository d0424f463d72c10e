package mock

import "github.com/fwojciec/deepcrawl"

// Compile-time interface verification.
var (
	_ deepcrawl.Extractor     = (*Extractor)(nil)
	_ deepcrawl.Converter     = (*Converter)(nil)
	_ deepcrawl.LinkExtractor = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of deepcrawl.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*deepcrawl.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*deepcrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of deepcrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// LinkExtractor is a mock implementation of deepcrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) (deepcrawl.Links, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) (deepcrawl.Links, error) {
	return e.ExtractLinksFn(html, baseURL)
}
