package mock

import (
	"context"

	"github.com/fwojciec/deepcrawl"
)

var _ deepcrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of deepcrawl.RunService.
type RunService struct {
	CreateRunFn    func(ctx context.Context, run *deepcrawl.Run) error
	FinishRunFn    func(ctx context.Context, id string, upd deepcrawl.RunUpdate) (*deepcrawl.Run, error)
	CreateResultFn func(ctx context.Context, result *deepcrawl.StoredResult) error
	FindRunByIDFn  func(ctx context.Context, id string) (*deepcrawl.Run, error)
	FindRunsFn     func(ctx context.Context, filter deepcrawl.RunFilter) ([]*deepcrawl.Run, error)
	FindResultsFn  func(ctx context.Context, filter deepcrawl.ResultFilter) ([]*deepcrawl.StoredResult, error)
	DeleteRunFn    func(ctx context.Context, id string) error
}

func (s *RunService) CreateRun(ctx context.Context, run *deepcrawl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, id string, upd deepcrawl.RunUpdate) (*deepcrawl.Run, error) {
	return s.FinishRunFn(ctx, id, upd)
}

func (s *RunService) CreateResult(ctx context.Context, result *deepcrawl.StoredResult) error {
	return s.CreateResultFn(ctx, result)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*deepcrawl.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter deepcrawl.RunFilter) ([]*deepcrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindResults(ctx context.Context, filter deepcrawl.ResultFilter) ([]*deepcrawl.StoredResult, error) {
	return s.FindResultsFn(ctx, filter)
}

func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	return s.DeleteRunFn(ctx, id)
}
