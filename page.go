package deepcrawl

import "context"

// Page is an exported crawl result: a URL and its markdown content.
type Page struct {
	URL     string
	Title   string
	Content string // Markdown
	Depth   int
	Score   float64
}

// NewPage builds an exportable page from a successful crawl result.
func NewPage(r *CrawlResult) *Page {
	return &Page{
		URL:     r.URL,
		Title:   r.Title,
		Content: r.Content,
		Depth:   r.Metadata.Depth,
		Score:   r.Metadata.Score,
	}
}

// PageStore persists pages to storage with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}
