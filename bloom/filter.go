// Package bloom is the probabilistic first stage of visited-URL lookups.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set answers "definitely not seen" for URLs in constant space.
// A true answer from MayContain must be confirmed elsewhere.
// Set is not safe for concurrent use.
type Set struct {
	f        *bloom.BloomFilter
	inserted uint
}

// New creates a Set sized for expectedURLs at the given false positive rate.
func New(expectedURLs uint, falsePositiveRate float64) *Set {
	return &Set{f: bloom.NewWithEstimates(expectedURLs, falsePositiveRate)}
}

// Insert records url.
func (s *Set) Insert(url string) {
	s.f.AddString(url)
	s.inserted++
}

// MayContain reports whether url may have been inserted.
// It never returns false for an inserted URL.
func (s *Set) MayContain(url string) bool {
	return s.f.TestString(url)
}

// Inserted returns the number of Insert calls.
func (s *Set) Inserted() uint {
	return s.inserted
}

// Bits returns the size of the underlying bit array.
func (s *Set) Bits() uint {
	return s.f.Cap()
}
