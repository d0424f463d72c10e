package deepcrawl_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/deepcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := deepcrawl.Errorf(deepcrawl.ENOTFOUND, "run %q not found", "test")

	assert.Equal(t, deepcrawl.ENOTFOUND, deepcrawl.ErrorCode(err))
	assert.Equal(t, "run \"test\" not found", deepcrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, deepcrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, deepcrawl.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, deepcrawl.EINTERNAL, deepcrawl.ErrorCode(err))
	assert.Equal(t, "Internal error.", deepcrawl.ErrorMessage(err))
}

func TestTraversalError(t *testing.T) {
	t.Parallel()

	t.Run("names the seed URL and wraps the cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("browser crashed")
		err := fmt.Errorf("crawl: %w", &deepcrawl.TraversalError{SeedURL: "https://example.com", Err: cause})

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, deepcrawl.ECOLLABORATOR, deepcrawl.ErrorCode(err))
		assert.Contains(t, deepcrawl.ErrorMessage(err), "https://example.com")
	})

	t.Run("collaborator code wins over a wrapped application error", func(t *testing.T) {
		t.Parallel()

		cause := deepcrawl.Errorf(deepcrawl.EINVALID, "bad batch")
		err := &deepcrawl.TraversalError{SeedURL: "https://example.com", Err: cause}

		assert.Equal(t, deepcrawl.ECOLLABORATOR, deepcrawl.ErrorCode(err))
	})
}

func TestFilterChain_Allow(t *testing.T) {
	t.Parallel()

	t.Run("empty chain allows everything", func(t *testing.T) {
		t.Parallel()

		var chain deepcrawl.FilterChain
		assert.True(t, chain.Allow("https://example.com"))
	})

	t.Run("stops at first rejection", func(t *testing.T) {
		t.Parallel()

		var calls []string
		chain := deepcrawl.FilterChain{
			deepcrawl.FilterFunc(func(string) bool { calls = append(calls, "a"); return true }),
			deepcrawl.FilterFunc(func(string) bool { calls = append(calls, "b"); return false }),
			deepcrawl.FilterFunc(func(string) bool { calls = append(calls, "c"); return true }),
		}

		assert.False(t, chain.Allow("https://example.com"))
		assert.Equal(t, []string{"a", "b"}, calls)
	})
}

func TestCompileURLFilter(t *testing.T) {
	t.Parallel()

	t.Run("include and exclude patterns", func(t *testing.T) {
		t.Parallel()

		f, err := deepcrawl.CompileURLFilter([]string{`/docs/`}, []string{`/docs/old/`})
		require.NoError(t, err)

		assert.True(t, f.Allow("https://example.com/docs/intro"))
		assert.False(t, f.Allow("https://example.com/blog/post"))
		assert.False(t, f.Allow("https://example.com/docs/old/intro"))
	})

	t.Run("invalid pattern returns EINVALID", func(t *testing.T) {
		t.Parallel()

		_, err := deepcrawl.CompileURLFilter([]string{`(`}, nil)
		require.Error(t, err)
		assert.Equal(t, deepcrawl.EINVALID, deepcrawl.ErrorCode(err))
	})

	t.Run("nil filter matches everything", func(t *testing.T) {
		t.Parallel()

		var f *deepcrawl.URLFilter
		assert.True(t, f.Match("https://example.com/anything"))
	})
}

func TestScoreURL(t *testing.T) {
	t.Parallel()

	assert.Zero(t, deepcrawl.ScoreURL(nil, "https://example.com"))
	assert.Equal(t, 0.5, deepcrawl.ScoreURL(deepcrawl.ScorerFunc(func(string) float64 { return 0.5 }), "https://example.com"))
}

func TestTraversalStats(t *testing.T) {
	t.Parallel()

	t.Run("finish records end time once", func(t *testing.T) {
		t.Parallel()

		var s deepcrawl.TraversalStats
		start := mustTime(t, "2024-01-01T00:00:00Z")
		first := mustTime(t, "2024-01-01T00:00:05Z")
		second := mustTime(t, "2024-01-01T00:00:09Z")

		s.Start(start)
		assert.True(t, s.Finish(first))
		assert.False(t, s.Finish(second))

		snap := s.Snapshot()
		assert.Equal(t, first, snap.EndTime)
		assert.Equal(t, first.Sub(start), snap.Duration())
	})

	t.Run("counts skipped URLs", func(t *testing.T) {
		t.Parallel()

		var s deepcrawl.TraversalStats
		s.Skip()
		s.Skip()
		s.SetPagesCrawled(3)

		snap := s.Snapshot()
		assert.Equal(t, 2, snap.URLsSkipped)
		assert.Equal(t, 3, snap.PagesCrawled)
	})
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
