// Package slog provides decorators that log calls to deepcrawl services.
package slog

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/fwojciec/deepcrawl"
)

// Compile-time interface verification.
var (
	_ deepcrawl.Fetcher      = (*LoggingFetcher)(nil)
	_ deepcrawl.BatchFetcher = (*LoggingBatchFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher and logs every fetch.
type LoggingFetcher struct {
	next   deepcrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next deepcrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs url, size and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingBatchFetcher wraps a BatchFetcher, logging each result and a
// summary once the batch is done.
type LoggingBatchFetcher struct {
	next   deepcrawl.BatchFetcher
	logger *slog.Logger
}

// NewLoggingBatchFetcher creates a new LoggingBatchFetcher.
func NewLoggingBatchFetcher(next deepcrawl.BatchFetcher, logger *slog.Logger) *LoggingBatchFetcher {
	return &LoggingBatchFetcher{next: next, logger: logger}
}

// FetchMany delegates to the wrapped fetcher, passing results through unchanged.
func (f *LoggingBatchFetcher) FetchMany(ctx context.Context, urls []string) iter.Seq2[*deepcrawl.CrawlResult, error] {
	return func(yield func(*deepcrawl.CrawlResult, error) bool) {
		var (
			results, failed int
			batchErr        error
		)
		defer func(begin time.Time) {
			f.logger.Info("batch",
				"size", len(urls),
				"results", results,
				"failed", failed,
				"duration", time.Since(begin),
				"err", batchErr,
			)
		}(time.Now())

		for r, err := range f.next.FetchMany(ctx, urls) {
			if err != nil {
				batchErr = err
			} else {
				results++
				if !r.Success {
					failed++
					f.logger.Warn("page failed", "url", r.URL, "err", r.Err)
				}
			}
			if !yield(r, err) {
				return
			}
		}
	}
}
