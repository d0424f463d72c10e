package deepcrawl

// URLScorer maps a URL to a relevance score. Higher scores are fetched
// earlier. Implementations must be deterministic and safe for concurrent use.
type URLScorer interface {
	Score(url string) float64
}

// ScorerFunc adapts an ordinary function to the URLScorer interface.
type ScorerFunc func(url string) float64

// Score calls f(url).
func (f ScorerFunc) Score(url string) float64 {
	return f(url)
}

// ScoreURL returns the score of url under s, or 0 if s is nil.
func ScoreURL(s URLScorer, url string) float64 {
	if s == nil {
		return 0
	}
	return s.Score(url)
}
