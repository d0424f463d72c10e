package crawl_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/crawl"
	"github.com/fwojciec/deepcrawl/mock"
	"github.com/stretchr/testify/assert"
)

// lengthExtractor returns the content registered for each HTML input.
func lengthExtractor(content map[string]string) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html string) (*deepcrawl.ExtractResult, error) {
			c, ok := content[html]
			if !ok {
				return nil, errors.New("cannot extract")
			}
			return &deepcrawl.ExtractResult{ContentHTML: c}, nil
		},
	}
}

func TestNeedsBrowser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		static   string
		rendered string
		want     bool
	}{
		{"rendered much longer", "short content", "much longer content from the browser render", true},
		{"similar length", "some content here", "similar size text", false},
		{"exactly fifty percent longer", "1234567890", "123456789012345", false},
		{"static empty, rendered has content", "", "content", true},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			extractor := lengthExtractor(map[string]string{"static": tt.static, "rendered": tt.rendered})

			assert.Equal(t, tt.want, crawl.NeedsBrowser("static", "rendered", extractor))
		})
	}

	t.Run("extraction failure assumes browser needed", func(t *testing.T) {
		t.Parallel()

		extractor := lengthExtractor(map[string]string{"static": "content"})

		assert.True(t, crawl.NeedsBrowser("static", "rendered", extractor))
	})
}
