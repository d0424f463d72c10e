package crawl

import (
	"errors"
	"math"

	"github.com/fwojciec/deepcrawl"
)

// DefaultBatchSize fetches one URL at a time, keeping strict best-first order.
const DefaultBatchSize = 1

// Configuration validation errors.
var (
	ErrInvalidMaxDepth  = errors.New("max depth must not be negative")
	ErrInvalidMaxPages  = errors.New("max pages must not be negative unless unlimited")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)

// Config controls a traversal run.
type Config struct {
	// MaxDepth is the deepest link level fetched; the seed is depth 0.
	MaxDepth int

	// MaxPages caps successfully crawled pages. deepcrawl.Unlimited removes the cap.
	MaxPages int

	// IncludeExternal also follows links that leave the page's host.
	IncludeExternal bool

	// Filters is applied to every URL below the seed.
	Filters deepcrawl.FilterChain

	// BatchSize is the number of URLs fetched concurrently per iteration.
	BatchSize int

	// Stream makes Traverse return a lazy sequence instead of a list.
	Stream bool
}

// DefaultConfig returns a Config that fetches the seed and its direct links.
func DefaultConfig() Config {
	return Config{
		MaxDepth:  1,
		MaxPages:  deepcrawl.Unlimited,
		BatchSize: DefaultBatchSize,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.MaxPages < 0 && c.MaxPages != deepcrawl.Unlimited {
		return ErrInvalidMaxPages
	}
	if c.BatchSize < 1 {
		return ErrInvalidBatchSize
	}
	return nil
}

// remaining returns how many more pages may be crawled.
func (c Config) remaining(crawled int) int {
	if c.MaxPages == deepcrawl.Unlimited {
		return math.MaxInt
	}
	return c.MaxPages - crawled
}
