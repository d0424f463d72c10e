package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/deepcrawl"
	"github.com/google/uuid"
)

var _ deepcrawl.RunService = (*RunService)(nil)

// RunService implements deepcrawl.RunService using SQLite.
type RunService struct {
	db  *DB
	now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, now: time.Now}
}

const runColumns = `id, seed_url, status, max_depth, max_pages, pages_crawled, urls_skipped, error, started_at, ended_at`

const resultColumns = `id, run_id, url, parent_url, depth, score, success, error, title, content, content_hash, position, fetched_at`

// CreateRun records a new run in the running state.
func (s *RunService) CreateRun(ctx context.Context, run *deepcrawl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.Status = deepcrawl.RunStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL, run.Status, run.MaxDepth, run.MaxPages, run.PagesCrawled, run.URLsSkipped,
		run.Error, formatRFC3339(run.StartedAt), formatRFC3339(run.EndedAt))

	return err
}

// FinishRun records the final status and counters of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd deepcrawl.RunUpdate) (*deepcrawl.Run, error) {
	switch upd.Status {
	case deepcrawl.RunStatusCompleted, deepcrawl.RunStatusCancelled, deepcrawl.RunStatusFailed:
	default:
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "invalid final run status %q", upd.Status)
	}

	run, err := s.FindRunByID(ctx, id)
	if err != nil {
		return nil, err
	}

	run.Status = upd.Status
	run.PagesCrawled = upd.PagesCrawled
	run.URLsSkipped = upd.URLsSkipped
	run.Error = upd.Error
	run.EndedAt = upd.EndedAt
	if run.EndedAt.IsZero() {
		run.EndedAt = s.now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, pages_crawled = ?, urls_skipped = ?, error = ?, ended_at = ?
		WHERE id = ?
	`, run.Status, run.PagesCrawled, run.URLsSkipped, run.Error, formatRFC3339(run.EndedAt), id)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// CreateResult stores a result of an existing run.
func (s *RunService) CreateResult(ctx context.Context, result *deepcrawl.StoredResult) error {
	if result.RunID == "" {
		return deepcrawl.Errorf(deepcrawl.EINVALID, "result run ID required")
	}
	if result.URL == "" {
		return deepcrawl.Errorf(deepcrawl.EINVALID, "result URL required")
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", result.RunID).Scan(&exists)
	if err == sql.ErrNoRows {
		return deepcrawl.Errorf(deepcrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return err
	}

	result.ID = uuid.New().String()
	if result.FetchedAt.IsZero() {
		result.FetchedAt = s.now().UTC()
	}
	if result.ContentHash == "" && result.Content != "" {
		result.ContentHash = fmt.Sprintf("%x", xxhash.Sum64String(result.Content))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.RunID, result.URL, result.ParentURL, result.Depth, result.Score, result.Success,
		result.Error, result.Title, result.Content, result.ContentHash, result.Position, formatRFC3339(result.FetchedAt))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*deepcrawl.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, deepcrawl.Errorf(deepcrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter deepcrawl.RunFilter) ([]*deepcrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SeedURL != nil {
		query.WriteString(" AND seed_url = ?")
		args = append(args, *filter.SeedURL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*deepcrawl.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindResults retrieves results matching the filter in emission order.
func (s *RunService) FindResults(ctx context.Context, filter deepcrawl.ResultFilter) ([]*deepcrawl.StoredResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + resultColumns + " FROM results WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.SuccessOnly {
		query.WriteString(" AND success = 1")
	}

	query.WriteString(" ORDER BY run_id, position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*deepcrawl.StoredResult
	for rows.Next() {
		var r deepcrawl.StoredResult
		var fetchedAt string

		if err := rows.Scan(&r.ID, &r.RunID, &r.URL, &r.ParentURL, &r.Depth, &r.Score, &r.Success,
			&r.Error, &r.Title, &r.Content, &r.ContentHash, &r.Position, &fetchedAt); err != nil {
			return nil, err
		}
		if r.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}

	return results, rows.Err()
}

// DeleteRun permanently removes a run; its results cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return deepcrawl.Errorf(deepcrawl.ENOTFOUND, "run not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*deepcrawl.Run, error) {
	var run deepcrawl.Run
	var startedAt, endedAt string

	if err := row.Scan(&run.ID, &run.SeedURL, &run.Status, &run.MaxDepth, &run.MaxPages,
		&run.PagesCrawled, &run.URLsSkipped, &run.Error, &startedAt, &endedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.EndedAt, err = parseRFC3339(endedAt, "ended_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
