// Package crawl implements best-first web traversal: a priority frontier of
// discovered URLs, link discovery under depth and page budgets, and the
// traversal loop that drives a batch fetcher.
package crawl

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/deepcrawl"
)

// Traverser runs one best-first traversal from a seed URL.
//
// Each iteration pops the highest scoring unvisited URLs from the frontier,
// fetches them as a batch, emits every result with its depth, parent and
// score attached, and enqueues the links of successful pages. A Traverser
// is single use; Shutdown, Stats and State may be called from any goroutine.
type Traverser struct {
	cfg       Config
	fetcher   deepcrawl.BatchFetcher
	scorer    deepcrawl.URLScorer
	logger    *slog.Logger
	validator *Validator
	now       func() time.Time

	mu        sync.Mutex
	state     deepcrawl.TraversalState
	started   bool
	cancelled bool

	stats deepcrawl.TraversalStats
}

// Option configures a Traverser.
type Option func(*Traverser)

// WithScorer sets the scorer that orders the frontier.
// Without one every URL scores 0 and URLs are fetched in discovery order.
func WithScorer(s deepcrawl.URLScorer) Option {
	return func(t *Traverser) {
		t.scorer = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Traverser) {
		t.logger = l
	}
}

// WithClock sets the time source used for run statistics.
func WithClock(now func() time.Time) Option {
	return func(t *Traverser) {
		t.now = now
	}
}

// NewTraverser creates a Traverser. Returns EINVALID if cfg is invalid.
func NewTraverser(fetcher deepcrawl.BatchFetcher, cfg Config, opts ...Option) (*Traverser, error) {
	if fetcher == nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "batch fetcher required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "invalid traversal config: %v", err)
	}

	t := &Traverser{
		cfg:     cfg,
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = loggerOrDiscard(t.logger)
	t.validator = NewValidator(cfg.Filters, t.logger)
	return t, nil
}

// Run traverses from seedURL and returns every emitted result in emission
// order. A batch-level fetch failure stops the run and is returned as a
// *deepcrawl.TraversalError. Cancellation through ctx or Shutdown is not an
// error: the results emitted so far are returned.
func (t *Traverser) Run(ctx context.Context, seedURL string) ([]*deepcrawl.CrawlResult, error) {
	var results []*deepcrawl.CrawlResult
	err := t.traverse(ctx, seedURL, func(r *deepcrawl.CrawlResult) bool {
		results = append(results, r)
		return true
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Stream traverses from seedURL lazily, producing results as each batch
// completes. A terminating error is the last value yielded. Stopping the
// iteration stops further batches from being dispatched; fetches already in
// flight are left to finish. The sequence can be ranged over once.
func (t *Traverser) Stream(ctx context.Context, seedURL string) iter.Seq2[*deepcrawl.CrawlResult, error] {
	return func(yield func(*deepcrawl.CrawlResult, error) bool) {
		err := t.traverse(ctx, seedURL, func(r *deepcrawl.CrawlResult) bool {
			return yield(r, nil)
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

// Traverse runs Run or Stream depending on the Stream setting of the config.
func (t *Traverser) Traverse(ctx context.Context, seedURL string) (*deepcrawl.Traversal, error) {
	if t.cfg.Stream {
		return &deepcrawl.Traversal{Seq: t.Stream(ctx, seedURL)}, nil
	}
	results, err := t.Run(ctx, seedURL)
	if err != nil {
		return nil, err
	}
	return &deepcrawl.Traversal{Results: results}, nil
}

// Shutdown requests cancellation. The loop stops before dispatching its next
// batch. The end time is recorded on the first call; later calls do nothing.
func (t *Traverser) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled {
		return
	}
	t.cancelled = true
	t.stats.Finish(t.now())
	if t.state != deepcrawl.StateTerminated {
		t.state = deepcrawl.StateCancelled
	}
}

// Stats returns a snapshot of the run statistics.
func (t *Traverser) Stats() deepcrawl.StatsSnapshot {
	return t.stats.Snapshot()
}

// State returns the current lifecycle state.
func (t *Traverser) State() deepcrawl.TraversalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// traverse is the traversal loop. emit returns false when the consumer stops.
func (t *Traverser) traverse(ctx context.Context, seedURL string, emit func(*deepcrawl.CrawlResult) bool) error {
	if err := t.begin(); err != nil {
		return err
	}
	defer t.end()

	if !t.validator.CanProcess(seedURL, 0) {
		t.stats.Skip()
		t.setState(deepcrawl.StateDraining)
		return nil
	}

	var frontier deepcrawl.URLFrontier = NewFrontier()
	visited := NewVisitedSet()
	depths := map[string]int{seedURL: 0}
	discoverer := NewLinkDiscoverer(t.cfg.MaxDepth, t.cfg.IncludeExternal, t.validator, &t.stats, t.logger)
	pagesCrawled := 0

	frontier.Push(deepcrawl.FrontierEntry{
		Priority: -deepcrawl.ScoreURL(t.scorer, seedURL),
		URL:      seedURL,
	})

	for {
		if frontier.IsEmpty() {
			t.setState(deepcrawl.StateDraining)
			return nil
		}
		if t.isCancelled() || ctx.Err() != nil {
			t.logger.Info("traversal cancelled", "seed", seedURL, "pages", pagesCrawled)
			t.setState(deepcrawl.StateCancelled)
			return nil
		}
		if t.cfg.MaxPages != deepcrawl.Unlimited && pagesCrawled >= t.cfg.MaxPages {
			t.logger.Info("page budget reached", "seed", seedURL, "pages", pagesCrawled)
			t.setState(deepcrawl.StateDraining)
			return nil
		}

		// Never dispatch more URLs than the budget can still absorb.
		batch := t.claimBatch(frontier, visited, min(t.cfg.BatchSize, t.cfg.remaining(pagesCrawled)))
		if len(batch) == 0 {
			continue
		}

		urls := make([]string, len(batch))
		pending := make(map[string]deepcrawl.FrontierEntry, len(batch))
		for i, entry := range batch {
			urls[i] = entry.URL
			pending[entry.URL] = entry
		}

		for result, err := range t.fetcher.FetchMany(ctx, urls) {
			if err != nil {
				if ctx.Err() != nil {
					t.setState(deepcrawl.StateCancelled)
					return nil
				}
				return &deepcrawl.TraversalError{SeedURL: seedURL, Err: err}
			}

			entry, ok := pending[result.URL]
			if !ok {
				t.logger.Debug("ignoring result for unrequested URL", "url", result.URL)
				continue
			}
			delete(pending, result.URL)

			result.Metadata = deepcrawl.Metadata{
				Depth:     entry.Depth,
				ParentURL: entry.ParentURL,
				Score:     -entry.Priority,
			}
			if result.Success {
				pagesCrawled++
				t.stats.SetPagesCrawled(pagesCrawled)
			}

			if !emit(result) {
				t.setState(deepcrawl.StateCancelled)
				return nil
			}

			if !result.Success {
				continue
			}
			links := discoverer.Discover(result, result.URL, entry.Depth, visited, depths, t.cfg.remaining(pagesCrawled))
			for _, link := range links {
				frontier.Push(deepcrawl.FrontierEntry{
					Priority:  -deepcrawl.ScoreURL(t.scorer, link.URL),
					Depth:     depths[link.URL],
					URL:       link.URL,
					ParentURL: link.ParentURL,
				})
			}
		}
	}
}

// claimBatch pops entries until it holds size unvisited URLs or the
// frontier runs dry. Each returned URL is claimed in visited.
func (t *Traverser) claimBatch(frontier deepcrawl.URLFrontier, visited *VisitedSet, size int) []deepcrawl.FrontierEntry {
	batch := make([]deepcrawl.FrontierEntry, 0, min(size, frontier.Len()))
	for len(batch) < size {
		popped := frontier.PopBatch(1)
		if len(popped) == 0 {
			break
		}
		if !visited.Claim(popped[0].URL) {
			continue
		}
		batch = append(batch, popped[0])
	}
	return batch
}

func (t *Traverser) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return deepcrawl.Errorf(deepcrawl.EINVALID, "traversal already started")
	}
	t.started = true
	if !t.cancelled {
		t.stats.Start(t.now())
		t.state = deepcrawl.StateRunning
	}
	return nil
}

func (t *Traverser) end() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Finish(t.now())
	t.state = deepcrawl.StateTerminated

	s := t.stats.Snapshot()
	t.logger.Info("traversal finished",
		"pages", s.PagesCrawled,
		"skipped", s.URLsSkipped,
		"duration", s.Duration())
}

func (t *Traverser) setState(s deepcrawl.TraversalState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return
	}
	t.state = s
}

func (t *Traverser) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
