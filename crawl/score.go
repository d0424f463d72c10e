package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/deepcrawl"
)

// Compile-time interface verification.
var (
	_ deepcrawl.URLScorer = (*KeywordScorer)(nil)
	_ deepcrawl.URLScorer = (*PathDepthScorer)(nil)
	_ deepcrawl.URLScorer = (*CompositeScorer)(nil)
)

// DefaultKeywordWeight is the weight applied to keyword matches when none is given.
const DefaultKeywordWeight = 0.7

// KeywordScorer scores a URL by the fraction of keywords it contains.
// Matching is a case-insensitive substring test against the whole URL.
type KeywordScorer struct {
	keywords []string
	weight   float64
}

// NewKeywordScorer creates a KeywordScorer. Empty keywords are ignored.
func NewKeywordScorer(keywords []string, weight float64) *KeywordScorer {
	kw := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	return &KeywordScorer{keywords: kw, weight: weight}
}

// Score returns weight * matched / len(keywords), or 0 with no keywords.
func (s *KeywordScorer) Score(rawURL string) float64 {
	if len(s.keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(rawURL)
	matched := 0
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			matched++
		}
	}
	return s.weight * float64(matched) / float64(len(s.keywords))
}

// PathDepthScorer favours URLs with fewer path segments.
type PathDepthScorer struct {
	weight float64
}

// NewPathDepthScorer creates a PathDepthScorer.
func NewPathDepthScorer(weight float64) *PathDepthScorer {
	return &PathDepthScorer{weight: weight}
}

// Score returns weight / (1 + segments). The site root scores weight and
// an unparseable URL scores 0.
func (s *PathDepthScorer) Score(rawURL string) float64 {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	segments := 0
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments++
		}
	}
	return s.weight / float64(1+segments)
}

// CompositeScorer sums the scores of its children.
type CompositeScorer struct {
	scorers []deepcrawl.URLScorer
}

// NewCompositeScorer creates a CompositeScorer. Nil children contribute 0.
func NewCompositeScorer(scorers ...deepcrawl.URLScorer) *CompositeScorer {
	return &CompositeScorer{scorers: scorers}
}

// Score returns the sum of all child scores.
func (s *CompositeScorer) Score(rawURL string) float64 {
	var total float64
	for _, child := range s.scorers {
		total += deepcrawl.ScoreURL(child, rawURL)
	}
	return total
}
