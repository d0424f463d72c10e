package deepcrawl

import "regexp"

// Filter is a policy predicate applied to discovered URLs.
type Filter interface {
	// Allow returns true if the URL may be crawled.
	Allow(url string) bool
}

// FilterFunc adapts an ordinary function to the Filter interface.
type FilterFunc func(url string) bool

// Allow calls f(url).
func (f FilterFunc) Allow(url string) bool {
	return f(url)
}

// FilterChain is an ordered list of filters. A URL passes the chain if it
// passes every filter; evaluation stops at the first rejection.
type FilterChain []Filter

// Allow returns true if every filter in the chain allows the URL.
// An empty chain allows everything.
func (c FilterChain) Allow(url string) bool {
	for _, f := range c {
		if !f.Allow(url) {
			return false
		}
	}
	return true
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// Allow implements Filter.
func (f *URLFilter) Allow(url string) bool {
	return f.Match(url)
}

// CompileURLFilter builds a URLFilter from include and exclude patterns.
// Returns EINVALID if any pattern fails to compile.
func CompileURLFilter(include, exclude []string) (*URLFilter, error) {
	f := &URLFilter{}
	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}
