package crawl

import "github.com/fwojciec/deepcrawl/bloom"

// Visited set sizing for the Bloom filter in front of the exact set.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// VisitedSet records URLs claimed for fetching during one traversal run.
//
// Membership is exact. A Bloom filter answers most negative lookups without
// touching the map; a positive Bloom answer is confirmed against the map, so
// false positives never hide an unvisited URL.
// VisitedSet is not safe for concurrent use.
type VisitedSet struct {
	filter *bloom.Set
	urls   map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		filter: bloom.New(visitedExpectedURLs, visitedFalsePositiveRate),
		urls:   make(map[string]struct{}),
	}
}

// Contains reports whether the URL has been claimed.
func (v *VisitedSet) Contains(url string) bool {
	if !v.filter.MayContain(url) {
		return false
	}
	_, ok := v.urls[url]
	return ok
}

// Claim marks the URL as visited.
// Returns false if it had already been claimed.
func (v *VisitedSet) Claim(url string) bool {
	if v.Contains(url) {
		return false
	}
	v.filter.Insert(url)
	v.urls[url] = struct{}{}
	return true
}

// Len returns the number of claimed URLs.
func (v *VisitedSet) Len() int {
	return len(v.urls)
}
