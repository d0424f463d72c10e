package crawl_test

import (
	"testing"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = "https://example.com/"

func pageWithLinks(internal []string, external []string) *deepcrawl.CrawlResult {
	r := &deepcrawl.CrawlResult{URL: source, Success: true}
	for _, href := range internal {
		r.Links.Internal = append(r.Links.Internal, deepcrawl.Link{Href: href})
	}
	for _, href := range external {
		r.Links.External = append(r.Links.External, deepcrawl.Link{Href: href})
	}
	return r
}

func newDiscoverer(maxDepth int, includeExternal bool, filters deepcrawl.FilterChain, stats *deepcrawl.TraversalStats) *crawl.LinkDiscoverer {
	return crawl.NewLinkDiscoverer(maxDepth, includeExternal, crawl.NewValidator(filters, nil), stats, nil)
}

func TestLinkDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("returns internal links with their parent", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(2, false, nil, nil)
		depths := map[string]int{}

		links := d.Discover(pageWithLinks([]string{"https://example.com/a", "https://example.com/b"}, nil),
			source, 0, crawl.NewVisitedSet(), depths, 10)

		assert.Equal(t, []deepcrawl.DiscoveredLink{
			{URL: "https://example.com/a", ParentURL: source},
			{URL: "https://example.com/b", ParentURL: source},
		}, links)
		assert.Equal(t, map[string]int{"https://example.com/a": 1, "https://example.com/b": 1}, depths)
	})

	t.Run("returns nothing beyond max depth", func(t *testing.T) {
		t.Parallel()

		stats := &deepcrawl.TraversalStats{}
		d := newDiscoverer(1, false, nil, stats)
		depths := map[string]int{}

		links := d.Discover(pageWithLinks([]string{"https://example.com/a", "not a url"}, nil),
			source, 1, crawl.NewVisitedSet(), depths, 10)

		assert.Empty(t, links)
		assert.Empty(t, depths)
		assert.Zero(t, stats.Snapshot().URLsSkipped)
	})

	t.Run("returns nothing when the page budget is exhausted", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(3, false, nil, nil)
		depths := map[string]int{}

		links := d.Discover(pageWithLinks([]string{"https://example.com/a"}, nil),
			source, 0, crawl.NewVisitedSet(), depths, 0)

		assert.Empty(t, links)
		assert.Empty(t, depths)
	})

	t.Run("follows external links only when enabled", func(t *testing.T) {
		t.Parallel()

		page := pageWithLinks([]string{"https://example.com/a"}, []string{"https://other.org/b"})

		without := newDiscoverer(1, false, nil, nil).Discover(page, source, 0, crawl.NewVisitedSet(), map[string]int{}, 10)
		with := newDiscoverer(1, true, nil, nil).Discover(page, source, 0, crawl.NewVisitedSet(), map[string]int{}, 10)

		assert.Len(t, without, 1)
		require.Len(t, with, 2)
		assert.Equal(t, "https://other.org/b", with[1].URL)
	})

	t.Run("skips visited URLs without counting them", func(t *testing.T) {
		t.Parallel()

		stats := &deepcrawl.TraversalStats{}
		visited := crawl.NewVisitedSet()
		visited.Claim("https://example.com/a")
		d := newDiscoverer(1, false, nil, stats)

		links := d.Discover(pageWithLinks([]string{"https://example.com/a", "https://example.com/b"}, nil),
			source, 0, visited, map[string]int{}, 10)

		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/b", links[0].URL)
		assert.Zero(t, stats.Snapshot().URLsSkipped)
	})

	t.Run("counts invalid and filtered URLs as skipped", func(t *testing.T) {
		t.Parallel()

		stats := &deepcrawl.TraversalStats{}
		noPDF := deepcrawl.FilterChain{crawl.NewExtensionFilter([]string{".pdf"})}
		d := newDiscoverer(1, false, noPDF, stats)

		links := d.Discover(pageWithLinks([]string{
			"https://example.com/a",
			"mailto:someone@example.com",
			"https://example.com/file.pdf",
		}, nil), source, 0, crawl.NewVisitedSet(), map[string]int{}, 10)

		assert.Len(t, links, 1)
		assert.Equal(t, 2, stats.Snapshot().URLsSkipped)
	})

	t.Run("truncates to remaining capacity in discovery order", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(1, false, nil, nil)
		depths := map[string]int{}

		links := d.Discover(pageWithLinks([]string{
			"https://example.com/1",
			"https://example.com/2",
			"https://example.com/3",
		}, nil), source, 0, crawl.NewVisitedSet(), depths, 2)

		assert.Equal(t, []deepcrawl.DiscoveredLink{
			{URL: "https://example.com/1", ParentURL: source},
			{URL: "https://example.com/2", ParentURL: source},
		}, links)
		assert.NotContains(t, depths, "https://example.com/3")
	})

	t.Run("keeps the depth of first discovery", func(t *testing.T) {
		t.Parallel()

		d := newDiscoverer(5, false, nil, nil)
		depths := map[string]int{"https://example.com/a": 3}

		links := d.Discover(pageWithLinks([]string{"https://example.com/a"}, nil),
			source, 0, crawl.NewVisitedSet(), depths, 10)

		assert.Len(t, links, 1)
		assert.Equal(t, 3, depths["https://example.com/a"])
	})
}
