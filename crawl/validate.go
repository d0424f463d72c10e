package crawl

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/deepcrawl"
)

// Structural URL validation failures.
var (
	errMissingSchemeOrHost = errors.New("missing scheme or host")
	errInvalidScheme       = errors.New("invalid scheme")
	errInvalidDomain       = errors.New("invalid domain")
)

// Validator decides whether a URL may be crawled at a given depth.
// It is safe for concurrent use if its filters are.
type Validator struct {
	filters deepcrawl.FilterChain
	logger  *slog.Logger
}

// NewValidator creates a Validator applying filters to every URL below the seed.
// A nil logger discards log output.
func NewValidator(filters deepcrawl.FilterChain, logger *slog.Logger) *Validator {
	return &Validator{
		filters: filters,
		logger:  loggerOrDiscard(logger),
	}
}

// CanProcess reports whether the URL is well formed and, for depth > 0,
// passes the filter chain. The seed URL (depth 0) bypasses the filters but
// not the structural checks.
func (v *Validator) CanProcess(rawURL string, depth int) bool {
	if err := checkURL(rawURL); err != nil {
		v.logger.Warn("invalid URL", "url", rawURL, "err", err)
		return false
	}

	if depth != 0 && !v.filters.Allow(rawURL) {
		v.logger.Debug("URL rejected by filter", "url", rawURL, "depth", depth)
		return false
	}

	return true
}

// checkURL performs the structural checks: http(s) scheme, a host, and a
// dot in the host name.
func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errMissingSchemeOrHost
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errInvalidScheme
	}
	if !strings.Contains(u.Hostname(), ".") {
		return errInvalidDomain
	}
	return nil
}

// loggerOrDiscard returns logger, or a logger that drops everything if nil.
func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
