package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/deepcrawl"
)

// Compile-time interface verification.
var (
	_ deepcrawl.Fetcher       = (*Fetcher)(nil)
	_ deepcrawl.BatchFetcher  = (*BatchFetcher)(nil)
	_ deepcrawl.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of deepcrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// BatchFetcher is a mock implementation of deepcrawl.BatchFetcher.
type BatchFetcher struct {
	FetchManyFn func(ctx context.Context, urls []string) iter.Seq2[*deepcrawl.CrawlResult, error]
}

func (f *BatchFetcher) FetchMany(ctx context.Context, urls []string) iter.Seq2[*deepcrawl.CrawlResult, error] {
	return f.FetchManyFn(ctx, urls)
}

// DomainLimiter is a mock implementation of deepcrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
