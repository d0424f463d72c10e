package deepcrawl

import (
	"context"
	"iter"
)

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// BatchFetcher fetches and extracts a batch of URLs concurrently.
//
// FetchMany streams one CrawlResult per URL in completion order. A URL that
// could not be fetched is reported as a result with Success false, not as an
// error. A non-nil error means the whole batch failed; it is the last value
// yielded. Stopping the iteration early lets in-flight fetches finish but
// discards their results.
type BatchFetcher interface {
	FetchMany(ctx context.Context, urls []string) iter.Seq2[*CrawlResult, error]
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
