package deepcrawl

import (
	"context"
	"time"
)

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
	RunStatusFailed    = "failed"
)

// Run represents one recorded traversal run.
type Run struct {
	ID           string    `json:"id"`
	SeedURL      string    `json:"seedUrl"`
	Status       string    `json:"status"`
	MaxDepth     int       `json:"maxDepth"`
	MaxPages     int       `json:"maxPages"`
	PagesCrawled int       `json:"pagesCrawled"`
	URLsSkipped  int       `json:"urlsSkipped"`
	Error        string    `json:"error"`
	StartedAt    time.Time `json:"startedAt"`
	EndedAt      time.Time `json:"endedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "run seed URL required")
	}
	return nil
}

// StoredResult is a crawl result persisted as part of a run.
type StoredResult struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	ParentURL   string    `json:"parentUrl"`
	Depth       int       `json:"depth"`
	Score       float64   `json:"score"`
	Success     bool      `json:"success"`
	Error       string    `json:"error"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Position    int       `json:"position"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// NewStoredResult converts an emitted crawl result into its stored form.
func NewStoredResult(runID string, position int, r *CrawlResult) *StoredResult {
	sr := &StoredResult{
		RunID:       runID,
		URL:         r.URL,
		ParentURL:   r.Metadata.ParentURL,
		Depth:       r.Metadata.Depth,
		Score:       r.Metadata.Score,
		Success:     r.Success,
		Title:       r.Title,
		Content:     r.Content,
		ContentHash: r.ContentHash,
		Position:    position,
	}
	if r.Err != nil {
		sr.Error = r.Err.Error()
	}
	return sr
}

// RunService represents a service for recording traversal runs and their results.
type RunService interface {
	// CreateRun records the start of a run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun records the final status and counters of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)

	// CreateResult stores a result of a run.
	CreateResult(ctx context.Context, result *StoredResult) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindResults retrieves results matching the filter in emission order.
	FindResults(ctx context.Context, filter ResultFilter) ([]*StoredResult, error)

	// DeleteRun permanently removes a run and all its results.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunUpdate represents the fields set when a run finishes.
type RunUpdate struct {
	Status       string
	PagesCrawled int
	URLsSkipped  int
	Error        string
	EndedAt      time.Time
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID      *string `json:"id"`
	SeedURL *string `json:"seedUrl"`
	Status  *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ResultFilter represents a filter for FindResults.
type ResultFilter struct {
	RunID       *string `json:"runId"`
	URL         *string `json:"url"`
	SuccessOnly bool    `json:"successOnly"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
