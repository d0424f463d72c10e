package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/deepcrawl"
)

var _ deepcrawl.LinkExtractor = (*LoggingLinkExtractor)(nil)

// LoggingLinkExtractor wraps a LinkExtractor and logs link counts per page.
type LoggingLinkExtractor struct {
	next   deepcrawl.LinkExtractor
	logger *slog.Logger
}

// NewLoggingLinkExtractor creates a new LoggingLinkExtractor.
func NewLoggingLinkExtractor(next deepcrawl.LinkExtractor, logger *slog.Logger) *LoggingLinkExtractor {
	return &LoggingLinkExtractor{next: next, logger: logger}
}

// ExtractLinks delegates to the wrapped extractor.
func (e *LoggingLinkExtractor) ExtractLinks(html string, baseURL string) (links deepcrawl.Links, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("link extraction",
			"url", baseURL,
			"internal", len(links.Internal),
			"external", len(links.External),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractLinks(html, baseURL)
}
