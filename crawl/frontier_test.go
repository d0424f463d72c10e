package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_PopBatch_returns_lowest_priority_value_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/a", Priority: -0.1})
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/c", Priority: -0.9})
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/b", Priority: -0.5})

	batch := f.PopBatch(3)

	require.Len(t, batch, 3)
	assert.Equal(t, "https://example.com/c", batch[0].URL)
	assert.Equal(t, "https://example.com/b", batch[1].URL)
	assert.Equal(t, "https://example.com/a", batch[2].URL)
}

func TestFrontier_equal_priorities_pop_in_insertion_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	for i := range 20 {
		f.Push(deepcrawl.FrontierEntry{URL: fmt.Sprintf("https://example.com/%d", i)})
	}

	for i := range 20 {
		e, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", i), e.URL)
	}
}

func TestFrontier_keeps_duplicate_entries(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/a", Depth: 1})
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/a", Depth: 2})

	assert.Equal(t, 2, f.Len())
}

func TestFrontier_PopBatch_returns_at_most_available_entries(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/a"})

	assert.Len(t, f.PopBatch(5), 1)
	assert.Empty(t, f.PopBatch(5))
	assert.True(t, f.IsEmpty())
}

func TestFrontier_PopBatch_with_non_positive_size_returns_nothing(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(deepcrawl.FrontierEntry{URL: "https://example.com/a"})

	assert.Empty(t, f.PopBatch(0))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Pop_on_empty_frontier(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	_, ok := f.Pop()

	assert.False(t, ok)
}

func TestFrontier_preserves_entry_fields(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	want := deepcrawl.FrontierEntry{
		Priority:  -0.35,
		Depth:     2,
		URL:       "https://example.com/docs/page",
		ParentURL: "https://example.com/docs",
	}
	f.Push(want)

	got, ok := f.Pop()

	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestFrontier_is_safe_for_concurrent_use(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Push(deepcrawl.FrontierEntry{URL: fmt.Sprintf("https://example.com/%d", i)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, f.Len())
	assert.Len(t, f.PopBatch(100), 50)
}

func TestVisitedSet(t *testing.T) {
	t.Parallel()

	t.Run("claims a URL once", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()

		assert.True(t, v.Claim("https://example.com/a"))
		assert.False(t, v.Claim("https://example.com/a"))
		assert.Equal(t, 1, v.Len())
	})

	t.Run("contains only claimed URLs", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		v.Claim("https://example.com/a")

		assert.True(t, v.Contains("https://example.com/a"))
		assert.False(t, v.Contains("https://example.com/b"))
	})

	t.Run("never reports an unclaimed URL as visited", func(t *testing.T) {
		t.Parallel()

		v := crawl.NewVisitedSet()
		for i := range 20000 {
			v.Claim(fmt.Sprintf("https://example.com/claimed/%d", i))
		}

		for i := range 1000 {
			assert.False(t, v.Contains(fmt.Sprintf("https://example.com/other/%d", i)))
		}
	})
}
