package crawl

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/deepcrawl"
	"golang.org/x/net/publicsuffix"
)

// Compile-time interface verification.
var (
	_ deepcrawl.Filter = (*ScopeFilter)(nil)
	_ deepcrawl.Filter = (*DomainFilter)(nil)
	_ deepcrawl.Filter = (*SiteFilter)(nil)
	_ deepcrawl.Filter = (*ExtensionFilter)(nil)
)

// ScopeFilter keeps a crawl on the seed's host and under the seed's path.
type ScopeFilter struct {
	host       string
	pathPrefix string
}

// NewScopeFilter creates a ScopeFilter for the given seed URL.
func NewScopeFilter(seedURL string) (*ScopeFilter, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "invalid seed URL: %v", err)
	}
	return &ScopeFilter{host: strings.ToLower(u.Host), pathPrefix: u.Path}, nil
}

// Allow returns true if the URL is on the seed host and under its path.
// Hosts compare case-insensitively; paths do not.
func (f *ScopeFilter) Allow(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if strings.ToLower(u.Host) != f.host {
		return false
	}
	return strings.HasPrefix(u.Path, f.pathPrefix)
}

// DomainFilter allows or blocks URLs by domain. A domain matches its
// subdomains too, and a leading "www." is ignored on both sides.
type DomainFilter struct {
	allowed []string
	blocked []string
}

// NewDomainFilter creates a DomainFilter. If allowed is empty, every domain
// not in blocked passes.
func NewDomainFilter(allowed, blocked []string) *DomainFilter {
	return &DomainFilter{
		allowed: normalizeDomains(allowed),
		blocked: normalizeDomains(blocked),
	}
}

// Allow returns true if the URL's host is allowed and not blocked.
func (f *DomainFilter) Allow(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, d := range f.blocked {
		if domainMatches(host, d) {
			return false
		}
	}
	if len(f.allowed) == 0 {
		return true
	}
	for _, d := range f.allowed {
		if domainMatches(host, d) {
			return true
		}
	}
	return false
}

// SiteFilter keeps a crawl on the seed's registrable domain
// (eTLD+1, e.g. example.co.uk), allowing any of its subdomains.
type SiteFilter struct {
	site string
}

// NewSiteFilter creates a SiteFilter for the given seed URL.
func NewSiteFilter(seedURL string) (*SiteFilter, error) {
	host := hostOf(seedURL)
	if host == "" {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "invalid seed URL %q", seedURL)
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return nil, deepcrawl.Errorf(deepcrawl.EINVALID, "no registrable domain for %q: %v", host, err)
	}
	return &SiteFilter{site: site}, nil
}

// Allow returns true if the URL shares the seed's registrable domain.
func (f *SiteFilter) Allow(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return site == f.site
}

// DefaultBlockedExtensions are file types that never contain crawlable HTML.
var DefaultBlockedExtensions = []string{
	".7z", ".avi", ".bmp", ".css", ".csv", ".doc", ".docx", ".exe", ".gif",
	".gz", ".ico", ".jpeg", ".jpg", ".js", ".json", ".mov", ".mp3", ".mp4",
	".pdf", ".png", ".ppt", ".pptx", ".rar", ".svg", ".tar", ".tgz", ".webm",
	".webp", ".woff", ".woff2", ".xls", ".xlsx", ".xml", ".zip",
}

// ExtensionFilter rejects URLs whose path ends in a blocked file extension.
type ExtensionFilter struct {
	blocked map[string]struct{}
}

// NewExtensionFilter creates an ExtensionFilter. Extensions are matched
// case-insensitively and may be given with or without the leading dot.
func NewExtensionFilter(extensions []string) *ExtensionFilter {
	blocked := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		blocked[ext] = struct{}{}
	}
	return &ExtensionFilter{blocked: blocked}
}

// Allow returns true unless the URL path has a blocked extension.
func (f *ExtensionFilter) Allow(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		return true
	}
	_, blocked := f.blocked[ext]
	return !blocked
}

// hostOf returns the lowercased host name of a URL without port, or "".
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// domainMatches reports whether host is domain or one of its subdomains.
func domainMatches(host, domain string) bool {
	host = strings.TrimPrefix(host, "www.")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
