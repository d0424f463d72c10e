package main

import (
	"context"
	"log/slog"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/config"
	"github.com/fwojciec/deepcrawl/crawl"
)

// Rendering is the renderer chosen for a crawl.
type Rendering struct {
	Fetcher deepcrawl.Fetcher

	// SeedHTML is the seed page as rendered during probing, or "".
	SeedHTML string

	// Browser is true when the headless browser was selected.
	Browser bool
}

// SelectRenderer picks the fetcher for a crawl. In auto mode the seed is
// fetched over HTTP and in the browser; the browser wins when its extracted
// content is substantially larger or HTTP fails. The probed seed HTML is
// returned so the seed is not rendered twice. A browser launched but not
// selected is closed.
func SelectRenderer(
	ctx context.Context,
	seedURL string,
	renderer string,
	httpFetcher deepcrawl.Fetcher,
	newBrowser func() (deepcrawl.Fetcher, error),
	extractor deepcrawl.Extractor,
	logger *slog.Logger,
) (*Rendering, error) {
	switch renderer {
	case config.RendererHTTP:
		return &Rendering{Fetcher: httpFetcher}, nil
	case config.RendererBrowser:
		browser, err := newBrowser()
		if err != nil {
			return nil, err
		}
		return &Rendering{Fetcher: browser, Browser: true}, nil
	case "", config.RendererAuto:
	default:
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "unknown renderer %q", renderer)
	}

	staticHTML, httpErr := httpFetcher.Fetch(ctx, seedURL)

	browser, err := newBrowser()
	if err != nil {
		if httpErr != nil {
			return nil, err
		}
		logger.Warn("browser unavailable, using http", "err", err)
		return &Rendering{Fetcher: httpFetcher, SeedHTML: staticHTML}, nil
	}

	if httpErr != nil {
		logger.Info("http probe failed, using browser", "url", seedURL, "err", httpErr)
		return &Rendering{Fetcher: browser, Browser: true}, nil
	}

	renderedHTML, err := browser.Fetch(ctx, seedURL)
	if err != nil {
		logger.Info("browser probe failed, using http", "url", seedURL, "err", err)
		_ = browser.Close()
		return &Rendering{Fetcher: httpFetcher, SeedHTML: staticHTML}, nil
	}

	if crawl.NeedsBrowser(staticHTML, renderedHTML, extractor) {
		logger.Info("renderer selected", "renderer", config.RendererBrowser)
		return &Rendering{Fetcher: browser, SeedHTML: renderedHTML, Browser: true}, nil
	}

	logger.Info("renderer selected", "renderer", config.RendererHTTP)
	_ = browser.Close()
	return &Rendering{Fetcher: httpFetcher, SeedHTML: staticHTML}, nil
}
