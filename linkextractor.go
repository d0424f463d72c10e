package deepcrawl

// LinkExtractor finds the links of a rendered page.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns its links, resolved against
	// baseURL and split into links on the same host (internal) and links
	// to other hosts (external). Document order is preserved and each URL
	// appears at most once.
	ExtractLinks(html string, baseURL string) (Links, error)
}
