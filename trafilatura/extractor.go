// Package trafilatura extracts the main content of a page with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/deepcrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ deepcrawl.Extractor = (*Extractor)(nil)

// Extractor removes boilerplate with trafilatura, falling back to its
// readability and dom-distiller heuristics when the main pass finds little.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main content as HTML.
// Returns EINVALID for blank input.
func (e *Extractor) Extract(rawHTML string) (*deepcrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{EnableFallback: true})
	if err != nil {
		return nil, err
	}

	out := &deepcrawl.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, deepcrawl.Errorf(deepcrawl.EINTERNAL, "render content: %v", err)
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
