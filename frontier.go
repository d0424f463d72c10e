package deepcrawl

// FrontierEntry is a pending URL in the crawl frontier.
//
// Priority is the negated relevance score: entries with a lower Priority are
// dequeued first, so higher relevance means earlier fetch.
type FrontierEntry struct {
	Priority  float64
	Depth     int
	URL       string
	ParentURL string // empty for the seed URL
}

// URLFrontier holds discovered-but-not-yet-fetched URLs ordered by priority.
// Duplicates are allowed; callers discard already visited URLs when popping.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	Push(entry FrontierEntry)

	// PopBatch removes and returns up to n entries in priority order.
	// It never blocks and returns an empty slice if the frontier is empty.
	PopBatch(n int) []FrontierEntry

	// Len returns the number of entries in the frontier.
	Len() int

	// IsEmpty reports whether the frontier has no entries.
	IsEmpty() bool
}
