package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/deepcrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages opened on one browser before it is
// replaced. Chrome's memory baseline creeps up under load and never comes
// back down, so long crawls restart it periodically.
const DefaultMaxPages = 75

// BrowserManager hands out pages from a headless Chrome and replaces the
// browser after a fixed number of pages. A replaced browser stays alive
// until the last page opened on it is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	opened   int
	maxPages int
	headless bool
	closed   bool
}

// instance is one launched browser process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages are opened before the browser is replaced.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithHeadful shows the browser window, for debugging.
func WithHeadful() ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = false
	}
}

// NewBrowserManager launches a browser. Close must be called when done.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// NewPage opens a blank page. The returned release func closes the page and
// must be called exactly once.
func (bm *BrowserManager) NewPage() (*rod.Page, func(), error) {
	bm.mu.Lock()
	if bm.closed {
		bm.mu.Unlock()
		return nil, nil, deepcrawl.Errorf(deepcrawl.EINVALID, "browser manager is closed")
	}
	if bm.opened >= bm.maxPages {
		bm.recycle()
	}
	inst := bm.current
	inst.active++
	bm.opened++
	bm.mu.Unlock()

	page, err := inst.browser.Page(proto.TargetCreateTarget{})
	release := func() {
		if page != nil {
			_ = page.Close()
		}
		bm.mu.Lock()
		inst.active--
		done := inst.retired && inst.active == 0
		bm.mu.Unlock()
		if done {
			inst.close()
		}
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}
	return page, release, nil
}

// Close shuts down the browser. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	return bm.current.close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

func (bm *BrowserManager) launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(bm.headless)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}

// recycle replaces the current browser. If the new browser cannot be
// launched the old one stays in service. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}
	old := bm.current
	bm.current = next
	bm.opened = 0

	old.retired = true
	if old.active == 0 {
		_ = old.close()
	}
}

func (i *instance) close() error {
	var err error
	if i.browser != nil {
		err = i.browser.Close()
	}
	if i.launcher != nil {
		i.launcher.Kill()
	}
	return err
}
