package crawl

import (
	"log/slog"

	"github.com/fwojciec/deepcrawl"
)

// LinkDiscoverer turns the links of a fetched page into the URLs that may be
// enqueued next. It enforces the depth limit, the remaining page budget and
// the validator, and records the depth at which each URL was first seen.
type LinkDiscoverer struct {
	maxDepth        int
	includeExternal bool
	validator       *Validator
	stats           *deepcrawl.TraversalStats
	logger          *slog.Logger
}

// NewLinkDiscoverer creates a LinkDiscoverer. Rejected URLs are counted on
// stats; a nil stats disables counting and a nil logger discards output.
func NewLinkDiscoverer(maxDepth int, includeExternal bool, validator *Validator, stats *deepcrawl.TraversalStats, logger *slog.Logger) *LinkDiscoverer {
	return &LinkDiscoverer{
		maxDepth:        maxDepth,
		includeExternal: includeExternal,
		validator:       validator,
		stats:           stats,
		logger:          loggerOrDiscard(logger),
	}
}

// Discover returns the links of result that should be enqueued at
// currentDepth+1. URLs already in visited are ignored silently, URLs the
// validator rejects are counted as skipped. At most remainingCapacity links
// are returned, in the order they appear on the page. Every returned URL
// not yet in depths is recorded there at the new depth; existing entries
// are never overwritten.
func (d *LinkDiscoverer) Discover(
	result *deepcrawl.CrawlResult,
	sourceURL string,
	currentDepth int,
	visited *VisitedSet,
	depths map[string]int,
	remainingCapacity int,
) []deepcrawl.DiscoveredLink {
	newDepth := currentDepth + 1
	if newDepth > d.maxDepth {
		return nil
	}
	if remainingCapacity <= 0 {
		d.logger.Info("page budget exhausted, not discovering links", "url", sourceURL)
		return nil
	}

	candidates := result.Links.Internal
	if d.includeExternal {
		candidates = append(candidates[:len(candidates):len(candidates)], result.Links.External...)
	}

	var accepted []deepcrawl.DiscoveredLink
	for _, link := range candidates {
		if visited.Contains(link.Href) {
			continue
		}
		if !d.validator.CanProcess(link.Href, newDepth) {
			if d.stats != nil {
				d.stats.Skip()
			}
			continue
		}
		accepted = append(accepted, deepcrawl.DiscoveredLink{URL: link.Href, ParentURL: sourceURL})
	}

	if len(accepted) > remainingCapacity {
		d.logger.Info("truncating discovered links to page budget",
			"url", sourceURL,
			"found", len(accepted),
			"kept", remainingCapacity)
		accepted = accepted[:remainingCapacity]
	}

	for _, link := range accepted {
		if _, ok := depths[link.URL]; !ok {
			depths[link.URL] = newDepth
		}
	}

	return accepted
}
