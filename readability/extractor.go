// Package readability extracts the main content of a page with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/deepcrawl"
	"github.com/go-shiori/go-readability"
)

var _ deepcrawl.Extractor = (*Extractor)(nil)

// Extractor removes boilerplate with Mozilla's Readability algorithm.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content as HTML.
// Returns EINVALID for blank input.
func (e *Extractor) Extract(rawHTML string) (*deepcrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "readability: %v", err)
	}

	return &deepcrawl.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
