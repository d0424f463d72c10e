// Package rod renders pages in headless Chrome via go-rod, for sites that
// need JavaScript to produce their content.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/deepcrawl"
)

// DefaultFetchTimeout bounds navigation, load and serialization of one page.
const DefaultFetchTimeout = 10 * time.Second

var _ deepcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a managed headless browser.
// Fetcher is safe for concurrent use; each Fetch uses its own page.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	timeout  time.Duration
	managers []ManagerOption
}

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *fetcherOptions) {
		o.timeout = d
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(o *fetcherOptions) {
		o.managers = append(o.managers, opts...)
	}
}

// NewFetcher launches a browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	o := fetcherOptions{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	manager, err := NewBrowserManager(o.managers...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: o.timeout}, nil
}

// Fetch navigates to the URL, waits for the load event and returns the
// serialized DOM.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, release, err := f.manager.NewPage()
	if err != nil {
		return "", err
	}
	defer release()

	page = page.Context(ctx).Timeout(f.timeout)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the browser launcher's process ID.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
