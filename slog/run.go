package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deepcrawl"
)

var _ deepcrawl.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService and logs writes and lookups.
type LoggingRunService struct {
	next   deepcrawl.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next deepcrawl.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

func (s *LoggingRunService) CreateRun(ctx context.Context, run *deepcrawl.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create run", "id", run.ID, "seed", run.SeedURL, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

func (s *LoggingRunService) FinishRun(ctx context.Context, id string, upd deepcrawl.RunUpdate) (run *deepcrawl.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Info("finish run",
			"id", id,
			"status", upd.Status,
			"pages", upd.PagesCrawled,
			"skipped", upd.URLsSkipped,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FinishRun(ctx, id, upd)
}

func (s *LoggingRunService) CreateResult(ctx context.Context, result *deepcrawl.StoredResult) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create result", "run", result.RunID, "url", result.URL, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.CreateResult(ctx, result)
}

func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (run *deepcrawl.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find run", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindRunByID(ctx, id)
}

func (s *LoggingRunService) FindRuns(ctx context.Context, filter deepcrawl.RunFilter) (runs []*deepcrawl.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find runs", "count", len(runs), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}

func (s *LoggingRunService) FindResults(ctx context.Context, filter deepcrawl.ResultFilter) (results []*deepcrawl.StoredResult, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find results", "count", len(results), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindResults(ctx, filter)
}

func (s *LoggingRunService) DeleteRun(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete run", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteRun(ctx, id)
}
