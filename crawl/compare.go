package crawl

import "github.com/fwojciec/deepcrawl"

// renderedGrowthThreshold is how much more content the browser-rendered
// page must yield before the browser is considered necessary.
const renderedGrowthThreshold = 1.5

// NeedsBrowser compares the main content extracted from a statically fetched
// page with that of the browser-rendered page. It reports true when the
// rendered content is more than 50% longer, or when either extraction fails.
func NeedsBrowser(staticHTML, renderedHTML string, extractor deepcrawl.Extractor) bool {
	static, err := extractor.Extract(staticHTML)
	if err != nil {
		return true
	}
	rendered, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true
	}

	staticLen := len(static.ContentHTML)
	renderedLen := len(rendered.ContentHTML)
	if staticLen == 0 {
		return renderedLen > 0
	}
	return float64(renderedLen) > float64(staticLen)*renderedGrowthThreshold
}
