package deepcrawl

// Link is a hyperlink found on a fetched page.
type Link struct {
	Href string
	Text string
}

// Links groups the links of a page by whether they stay on the page's host.
type Links struct {
	Internal []Link
	External []Link
}

// Metadata holds the scheduling information the traversal engine attaches
// to every result before emitting it.
type Metadata struct {
	Depth     int
	ParentURL string // empty for the seed URL
	Score     float64
}

// CrawlResult is the outcome of fetching and extracting a single URL.
//
// The fetch collaborator fills in everything except Metadata, which is set
// by the traversal engine. A failed fetch has Success false and the cause in
// Err; it carries no content and no links.
type CrawlResult struct {
	URL         string
	Success     bool
	Err         error
	Title       string
	Content     string // Markdown
	ContentHash string
	Links       Links
	Metadata    Metadata
}

// DiscoveredLink is a URL accepted by link discovery together with the page
// it was found on.
type DiscoveredLink struct {
	URL       string
	ParentURL string
}
