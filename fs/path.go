// Package fs exports crawled pages as markdown files.
package fs

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/deepcrawl"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
//
// URLs that differ only by query string map to distinct files by suffixing
// a short hash of the query.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", deepcrawl.Errorf(deepcrawl.EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	for _, seg := range strings.Split(u.Path, "/") {
		if seg == ".." {
			return "", deepcrawl.Errorf(deepcrawl.EINVALID, "path traversal in %q", rawURL)
		}
	}

	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if p == "" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, "index")
	}

	if u.RawQuery != "" {
		p += "-" + strconv.FormatUint(xxhash.Sum64String(u.RawQuery)&0xffffffff, 16)
	}
	return p + ".md", nil
}
