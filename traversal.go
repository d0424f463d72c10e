package deepcrawl

import (
	"fmt"
	"iter"
	"sync"
	"time"
)

// Unlimited disables the page budget when used as a maximum page count.
const Unlimited = -1

// TraversalState is the lifecycle state of a traversal run.
type TraversalState int

const (
	StateIdle TraversalState = iota
	StateRunning
	StateDraining
	StateCancelled
	StateTerminated
)

func (s TraversalState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateCancelled:
		return "cancelled"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("TraversalState(%d)", int(s))
	}
}

// TraversalStats holds counters for one traversal run.
// It is safe for concurrent use.
type TraversalStats struct {
	mu           sync.Mutex
	startTime    time.Time
	endTime      time.Time
	urlsSkipped  int
	pagesCrawled int
}

// StatsSnapshot is a point-in-time copy of TraversalStats.
type StatsSnapshot struct {
	StartTime    time.Time
	EndTime      time.Time
	URLsSkipped  int
	PagesCrawled int
}

// Start records the start time.
func (s *TraversalStats) Start(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = t
}

// Finish records the end time unless one is already set.
// Returns false if the end time was already recorded.
func (s *TraversalStats) Finish(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endTime.IsZero() {
		return false
	}
	s.endTime = t
	return true
}

// Skip increments the count of URLs rejected by validation or filtering.
func (s *TraversalStats) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urlsSkipped++
}

// SetPagesCrawled records the number of successfully crawled pages.
func (s *TraversalStats) SetPagesCrawled(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagesCrawled = n
}

// Snapshot returns a copy of the current counters.
func (s *TraversalStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		StartTime:    s.startTime,
		EndTime:      s.endTime,
		URLsSkipped:  s.urlsSkipped,
		PagesCrawled: s.pagesCrawled,
	}
}

// Duration returns the elapsed time between start and end.
// If the run has not finished, it returns zero.
func (s StatsSnapshot) Duration() time.Duration {
	if s.EndTime.IsZero() || s.StartTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// TraversalError reports that the fetch collaborator failed for a whole
// batch, terminating the traversal started from SeedURL.
type TraversalError struct {
	SeedURL string
	Err     error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal of %s failed: %v", e.SeedURL, e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// Traversal is the outcome of starting a traversal run. Exactly one of
// Results and Seq is set, depending on whether streaming was requested.
type Traversal struct {
	// Results holds every emitted result in emission order (batch mode).
	Results []*CrawlResult

	// Seq lazily produces results as batches complete (stream mode).
	// It can be ranged over once.
	Seq iter.Seq2[*CrawlResult, error]
}

// All iterates the traversal's results regardless of mode.
func (t *Traversal) All() iter.Seq2[*CrawlResult, error] {
	if t.Seq != nil {
		return t.Seq
	}
	return func(yield func(*CrawlResult, error) bool) {
		for _, r := range t.Results {
			if !yield(r, nil) {
				return
			}
		}
	}
}
