package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/config"
	"github.com/fwojciec/deepcrawl/crawl"
	dcslog "github.com/fwojciec/deepcrawl/slog"
)

// defaultRateLimit is requests per second per host when neither flag nor
// config sets one.
const defaultRateLimit = 1.0

// crawlSettings are the flag and config file values merged together.
type crawlSettings struct {
	cfg         crawl.Config
	keywords    []string
	weight      float64
	shallow     float64
	renderer    string
	extractor   string
	concurrency int
	rateLimit   float64
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	settings, err := c.settings(deps.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	extractor, ok := deps.Extractors[settings.extractor]
	if !ok {
		err := deepcrawl.Errorf(deepcrawl.EINVALID, "unknown extractor %q", settings.extractor)
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rendering, err := SelectRenderer(deps.Ctx, c.URL, settings.renderer, deps.HTTP, deps.NewBrowser, extractor, logger)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for browser rendering")
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}
	if rendering.Browser {
		defer rendering.Fetcher.Close()
	}

	pageOpts := []crawl.PageFetcherOption{
		crawl.WithRateLimiter(crawl.NewDomainLimiter(settings.rateLimit)),
		crawl.WithRetryDelays(deps.RetryDelays),
		crawl.WithPageLogger(logger),
	}
	if settings.concurrency > 0 {
		pageOpts = append(pageOpts, crawl.WithConcurrency(settings.concurrency))
	}
	if rendering.SeedHTML != "" {
		pageOpts = append(pageOpts, crawl.WithInitialHTML(c.URL, rendering.SeedHTML))
	}
	pages := crawl.NewPageFetcher(
		dcslog.NewLoggingFetcher(rendering.Fetcher, logger),
		extractor,
		deps.Converter,
		dcslog.NewLoggingLinkExtractor(deps.Links, logger),
		pageOpts...,
	)

	travOpts := []crawl.Option{crawl.WithLogger(logger)}
	if scorer := settings.scorer(); scorer != nil {
		travOpts = append(travOpts, crawl.WithScorer(scorer))
	}
	traverser, err := crawl.NewTraverser(dcslog.NewLoggingBatchFetcher(pages, logger), settings.cfg, travOpts...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	// Persistence outlives an interrupted crawl so partial runs are recorded.
	storeCtx := context.WithoutCancel(deps.Ctx)

	run := &deepcrawl.Run{
		SeedURL:  c.URL,
		MaxDepth: settings.cfg.MaxDepth,
		MaxPages: settings.cfg.MaxPages,
	}
	if err := deps.Runs.CreateRun(storeCtx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		return err
	}

	var store deepcrawl.PageStore
	if c.Name != "" {
		store = deps.NewStore(c.Path, c.Name)
	}

	crawlErr := c.traverse(deps, traverser, run.ID, store, storeCtx)

	stats := traverser.Stats()
	upd := deepcrawl.RunUpdate{
		Status:       deepcrawl.RunStatusCompleted,
		PagesCrawled: stats.PagesCrawled,
		URLsSkipped:  stats.URLsSkipped,
	}
	switch {
	case crawlErr != nil:
		upd.Status = deepcrawl.RunStatusFailed
		upd.Error = crawlErr.Error()
	case deps.Ctx.Err() != nil:
		upd.Status = deepcrawl.RunStatusCancelled
	}
	if _, err := deps.Runs.FinishRun(storeCtx, run.ID, upd); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(err))
		if crawlErr == nil {
			crawlErr = err
		}
	}

	if store != nil {
		if crawlErr != nil {
			_ = store.Abort()
		} else if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
			return err
		}
	}

	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deepcrawl.ErrorMessage(crawlErr))
		return crawlErr
	}

	fmt.Fprintf(deps.Stdout, "Run %s %s: %d pages crawled, %d URLs skipped in %s\n",
		run.ID, upd.Status, stats.PagesCrawled, stats.URLsSkipped, crawl.FormatDuration(stats.Duration()))
	return nil
}

// traverse consumes the traversal, recording and printing each result.
func (c *CrawlCmd) traverse(deps *Dependencies, traverser *crawl.Traverser, runID string, store deepcrawl.PageStore, storeCtx context.Context) error {
	traversal, err := traverser.Traverse(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	position := 0
	for r, err := range traversal.All() {
		if err != nil {
			return err
		}

		if err := deps.Runs.CreateResult(storeCtx, deepcrawl.NewStoredResult(runID, position, r)); err != nil {
			traverser.Shutdown()
			return err
		}
		position++

		printResult(deps, r)

		if store != nil && r.Success {
			if err := store.Save(storeCtx, deepcrawl.NewPage(r)); err != nil {
				traverser.Shutdown()
				return fmt.Errorf("save %s: %w", r.URL, err)
			}
		}
	}
	return nil
}

func printResult(deps *Dependencies, r *deepcrawl.CrawlResult) {
	if !r.Success {
		fmt.Fprintf(deps.Stdout, "%d  %s  %s  failed: %v\n", r.Metadata.Depth, crawl.FormatScore(r.Metadata.Score), r.URL, r.Err)
		return
	}
	fmt.Fprintf(deps.Stdout, "%d  %s  %s  %s\n",
		r.Metadata.Depth, crawl.FormatScore(r.Metadata.Score), r.URL, crawl.FormatBytes(len(r.Content)))
}

// scorer combines the keyword and path depth scorers that are enabled.
// It returns nil when neither is, leaving discovery order.
func (s *crawlSettings) scorer() deepcrawl.URLScorer {
	var scorers []deepcrawl.URLScorer
	if len(s.keywords) > 0 {
		scorers = append(scorers, crawl.NewKeywordScorer(s.keywords, s.weight))
	}
	if s.shallow > 0 {
		scorers = append(scorers, crawl.NewPathDepthScorer(s.shallow))
	}
	switch len(scorers) {
	case 0:
		return nil
	case 1:
		return scorers[0]
	}
	return crawl.NewCompositeScorer(scorers...)
}

// settings merges flags over the config file over built-in defaults.
func (c *CrawlCmd) settings(file *config.File) (*crawlSettings, error) {
	if file == nil {
		file = &config.File{}
	}

	s := &crawlSettings{
		cfg:       crawl.DefaultConfig(),
		weight:    crawl.DefaultKeywordWeight,
		renderer:  config.RendererAuto,
		extractor: config.ExtractorTrafilatura,
		rateLimit: defaultRateLimit,
	}
	if err := file.ApplyTo(&s.cfg); err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "config: %v", err)
	}

	if c.Depth != nil {
		s.cfg.MaxDepth = *c.Depth
	}
	if c.MaxPages != nil {
		s.cfg.MaxPages = *c.MaxPages
	}
	if c.BatchSize != nil {
		s.cfg.BatchSize = *c.BatchSize
	}
	if c.IncludeExternal != nil {
		s.cfg.IncludeExternal = *c.IncludeExternal
	}
	s.cfg.Stream = c.Stream
	if err := s.cfg.Validate(); err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "%v", err)
	}

	s.keywords = firstNonEmpty(c.Keyword, file.Crawl.Keywords)
	switch {
	case c.Weight != nil:
		s.weight = *c.Weight
	case file.Crawl.Weight != nil:
		s.weight = *file.Crawl.Weight
	}

	switch {
	case c.ShallowWeight != nil:
		s.shallow = *c.ShallowWeight
	case file.Crawl.ShallowWeight != nil:
		s.shallow = *file.Crawl.ShallowWeight
	}
	if s.shallow < 0 {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "shallow weight must not be negative")
	}

	s.renderer = firstString(c.Renderer, file.Fetch.Renderer, s.renderer)
	s.extractor = firstString(c.Extractor, file.Fetch.Extractor, s.extractor)

	switch {
	case c.Concurrency != nil:
		s.concurrency = *c.Concurrency
	case file.Fetch.Concurrency != nil:
		s.concurrency = *file.Fetch.Concurrency
	}
	switch {
	case c.RateLimit != nil:
		s.rateLimit = *c.RateLimit
	case file.Fetch.RateLimit != nil:
		s.rateLimit = *file.Fetch.RateLimit
	}
	if s.concurrency < 0 {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "concurrency must not be negative")
	}

	filters, err := c.filters(file)
	if err != nil {
		return nil, err
	}
	s.cfg.Filters = filters
	return s, nil
}

// filters builds the URL filter chain applied below the seed.
func (c *CrawlCmd) filters(file *config.File) (deepcrawl.FilterChain, error) {
	chain := deepcrawl.FilterChain{crawl.NewExtensionFilter(crawl.DefaultBlockedExtensions)}

	include := firstNonEmpty(c.Include, file.Crawl.Include)
	exclude := firstNonEmpty(c.Exclude, file.Crawl.Exclude)
	if len(include) > 0 || len(exclude) > 0 {
		f, err := deepcrawl.CompileURLFilter(include, exclude)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}

	allowed := firstNonEmpty(c.AllowDomain, file.Crawl.AllowedDomains)
	blocked := firstNonEmpty(c.BlockDomain, file.Crawl.BlockedDomains)
	if len(allowed) > 0 || len(blocked) > 0 {
		chain = append(chain, crawl.NewDomainFilter(allowed, blocked))
	}

	if c.SameSite {
		f, err := crawl.NewSiteFilter(c.URL)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	if c.Scope {
		f, err := crawl.NewScopeFilter(c.URL)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	return chain, nil
}

func firstNonEmpty(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
