package readability_test

import (
	"testing"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts article title and content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Frontier Design</title></head><body>
			<header><a href="/">Home</a></header>
			<article>
			<h1>Frontier Design</h1>
			<p>The frontier is a priority queue keyed by the negated relevance score, so the
			most relevant URL is always popped first. Equal scores keep their insertion order,
			which makes the crawl reproducible from run to run.</p>
			<p>Duplicate URLs are allowed in the queue and are discarded when they are popped,
			because a URL is marked visited only at dequeue time.</p>
			</article>
			<footer>Footer links</footer>
		</body></html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Frontier Design", result.Title)
		assert.Contains(t, result.ContentHTML, "negated relevance score")
	})

	t.Run("rejects blank input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, deepcrawl.EINVALID, deepcrawl.ErrorCode(err))
	})
}
