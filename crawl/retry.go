package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deepcrawl"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, waiting delays[i] before
// retry i+1, so len(delays)+1 attempts are made at most. Errors coded
// EINVALID or ENOTFOUND are permanent and returned without retrying.
// A nil logger disables retry logging.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(delays) || isPermanent(err) {
			break
		}

		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

// isPermanent reports whether retrying err cannot help.
func isPermanent(err error) bool {
	switch deepcrawl.ErrorCode(err) {
	case deepcrawl.EINVALID, deepcrawl.ENOTFOUND:
		return true
	}
	return false
}
