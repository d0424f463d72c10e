package crawl

import (
	"context"
	"iter"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/deepcrawl"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ deepcrawl.BatchFetcher = (*PageFetcher)(nil)

// PageFetcher is the fetch and extract collaborator of a traversal. For each
// URL it renders the page, extracts the main content, converts it to
// Markdown and collects the page's links.
type PageFetcher struct {
	fetcher     deepcrawl.Fetcher
	extractor   deepcrawl.Extractor
	converter   deepcrawl.Converter
	links       deepcrawl.LinkExtractor
	limiter     deepcrawl.DomainLimiter
	retryDelays []time.Duration
	concurrency int
	logger      *slog.Logger

	mu          sync.Mutex
	initialHTML map[string]string
}

// PageFetcherOption configures a PageFetcher.
type PageFetcherOption func(*PageFetcher)

// WithRateLimiter limits request rate per host.
func WithRateLimiter(l deepcrawl.DomainLimiter) PageFetcherOption {
	return func(p *PageFetcher) {
		p.limiter = l
	}
}

// WithRetryDelays sets the backoff delays between fetch attempts.
// An empty slice disables retries.
func WithRetryDelays(delays []time.Duration) PageFetcherOption {
	return func(p *PageFetcher) {
		p.retryDelays = delays
	}
}

// WithConcurrency caps the number of concurrent fetches within a batch.
// By default every URL of a batch is fetched at once.
func WithConcurrency(n int) PageFetcherOption {
	return func(p *PageFetcher) {
		p.concurrency = n
	}
}

// WithInitialHTML supplies already rendered HTML for a URL, typically the
// seed. The first request for that URL uses it instead of rendering again;
// later requests render normally.
func WithInitialHTML(rawURL, html string) PageFetcherOption {
	return func(p *PageFetcher) {
		p.initialHTML[rawURL] = html
	}
}

// WithPageLogger sets the logger used for retries and link extraction failures.
func WithPageLogger(l *slog.Logger) PageFetcherOption {
	return func(p *PageFetcher) {
		p.logger = l
	}
}

// NewPageFetcher creates a PageFetcher from its collaborators.
func NewPageFetcher(
	fetcher deepcrawl.Fetcher,
	extractor deepcrawl.Extractor,
	converter deepcrawl.Converter,
	links deepcrawl.LinkExtractor,
	opts ...PageFetcherOption,
) *PageFetcher {
	p := &PageFetcher{
		fetcher:     fetcher,
		extractor:   extractor,
		converter:   converter,
		links:       links,
		retryDelays: DefaultRetryDelays(),
		initialHTML: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = loggerOrDiscard(p.logger)
	return p
}

// FetchMany fetches urls concurrently and yields one result per URL as each
// completes. Per-URL failures are results with Success false. The only
// batch-level error is a context that is already done before dispatch.
// If the consumer stops early, URLs not yet started are skipped and the
// iterator returns once in-flight fetches have finished.
func (p *PageFetcher) FetchMany(ctx context.Context, urls []string) iter.Seq2[*deepcrawl.CrawlResult, error] {
	return func(yield func(*deepcrawl.CrawlResult, error) bool) {
		if len(urls) == 0 {
			return
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		limit := p.concurrency
		if limit <= 0 || limit > len(urls) {
			limit = len(urls)
		}

		// Buffered for the whole batch so workers never block on a
		// consumer that has stopped reading.
		resultCh := make(chan *deepcrawl.CrawlResult, len(urls))
		var stopped atomic.Bool

		var g errgroup.Group
		g.SetLimit(limit)
		go func() {
			for _, u := range urls {
				g.Go(func() error {
					if stopped.Load() {
						return nil
					}
					resultCh <- p.fetchOne(ctx, u)
					return nil
				})
			}
			_ = g.Wait()
			close(resultCh)
		}()

		for result := range resultCh {
			if !yield(result, nil) {
				stopped.Store(true)
				for range resultCh {
				}
				return
			}
		}
	}
}

// fetchOne renders, extracts and converts a single page.
func (p *PageFetcher) fetchOne(ctx context.Context, rawURL string) *deepcrawl.CrawlResult {
	html, err := p.render(ctx, rawURL)
	if err != nil {
		return &deepcrawl.CrawlResult{URL: rawURL, Err: err}
	}

	extracted, err := p.extractor.Extract(html)
	if err != nil {
		return &deepcrawl.CrawlResult{URL: rawURL, Err: err}
	}

	markdown, err := p.converter.Convert(extracted.ContentHTML)
	if err != nil {
		return &deepcrawl.CrawlResult{URL: rawURL, Err: err}
	}

	links, err := p.links.ExtractLinks(html, rawURL)
	if err != nil {
		p.logger.Warn("link extraction failed", "url", rawURL, "err", err)
		links = deepcrawl.Links{}
	}

	return &deepcrawl.CrawlResult{
		URL:         rawURL,
		Success:     true,
		Title:       extracted.Title,
		Content:     markdown,
		ContentHash: ComputeHash(markdown),
		Links:       links,
	}
}

// render returns the page HTML, from the initial HTML if one was supplied
// and otherwise from the fetcher under rate limiting and retry.
func (p *PageFetcher) render(ctx context.Context, rawURL string) (string, error) {
	if html, ok := p.takeInitialHTML(rawURL); ok {
		return html, nil
	}

	if p.limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", deepcrawl.Errorf(deepcrawl.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := p.limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	return FetchWithRetry(ctx, rawURL, p.fetcher.Fetch, p.logger, p.retryDelays)
}

// takeInitialHTML returns and forgets the initial HTML for rawURL.
func (p *PageFetcher) takeInitialHTML(rawURL string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	html, ok := p.initialHTML[rawURL]
	if ok {
		delete(p.initialHTML, rawURL)
	}
	return html, ok
}
