// Package goquery extracts links from rendered HTML using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deepcrawl"
)

var _ deepcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor collects the anchors of a page and splits them into links
// on the page's host and links to other hosts.
type LinkExtractor struct {
	skipNofollow bool
}

// Option configures a LinkExtractor.
type Option func(*LinkExtractor)

// WithSkipNofollow drops anchors marked rel="nofollow".
func WithSkipNofollow() Option {
	return func(e *LinkExtractor) {
		e.skipNofollow = true
	}
}

// NewLinkExtractor creates a LinkExtractor.
func NewLinkExtractor(opts ...Option) *LinkExtractor {
	e := &LinkExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractLinks parses HTML and returns its links in document order.
// Relative links resolve against the document's <base href> when present,
// otherwise against baseURL. Fragments are stripped, links back to the page
// itself and non-HTTP links (javascript:, mailto:, tel:, data:) are dropped,
// and each URL is kept once with the text of its first anchor.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) (deepcrawl.Links, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return deepcrawl.Links{}, deepcrawl.Errorf(deepcrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return deepcrawl.Links{}, deepcrawl.Errorf(deepcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	resolveBase := base
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			resolveBase = base.ResolveReference(ref)
		}
	}

	var links deepcrawl.Links
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}
		if e.skipNofollow && hasNofollow(sel) {
			return
		}

		resolved, ok := resolveURL(resolveBase, href)
		if !ok {
			return
		}
		key := resolved.String()
		if key == pageKey(base) {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		link := deepcrawl.Link{Href: key, Text: strings.Join(strings.Fields(sel.Text()), " ")}
		if strings.EqualFold(resolved.Host, base.Host) {
			links.Internal = append(links.Internal, link)
		} else {
			links.External = append(links.External, link)
		}
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
// Only http and https results are accepted.
func resolveURL(base *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil, false
	}
	return resolved, true
}

// pageKey returns the URL of the page itself without fragment.
func pageKey(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

func hasNofollow(sel *goquery.Selection) bool {
	rel, _ := sel.Attr("rel")
	for _, v := range strings.Fields(strings.ToLower(rel)) {
		if v == "nofollow" {
			return true
		}
	}
	return false
}
