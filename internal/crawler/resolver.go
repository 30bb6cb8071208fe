package crawler

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/idna"
)

// ErrInvalidSeed is returned when the seed URL is not an absolute http(s) URL.
var ErrInvalidSeed = errors.New("seed URL must be an absolute http or https URL")

// ParseSeed parses and validates the URL a crawl starts from.
func ParseSeed(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if !isHTTPScheme(u.Scheme) || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, raw)
	}
	return u, nil
}

// Scope decides whether a URL belongs to the crawl.
//
// A URL is in scope when its host equals the seed host or is a subdomain of
// it. In strict mode its path must also lie inside the seed path. The path
// test compares whole segments, so a seed path of /sub does not contain
// /subpath.
type Scope struct {
	// host is the canonical seed host without port.
	host string

	// segments are the non-empty path segments of the seed URL.
	segments []string

	// strict enables the subpath restriction.
	strict bool
}

// NewScope builds the scope of a crawl started at seed.
func NewScope(seed *url.URL, strict bool) Scope {
	return Scope{
		host:     canonicalHost(seed.Hostname()),
		segments: pathSegments(seed.EscapedPath()),
		strict:   strict,
	}
}

// Contains reports whether u is inside the scope.
func (s Scope) Contains(u *url.URL) bool {
	if u == nil || !isHTTPScheme(u.Scheme) {
		return false
	}

	host := canonicalHost(u.Hostname())
	if host == "" || s.host == "" {
		return false
	}
	if host != s.host && !strings.HasSuffix(host, "."+s.host) {
		return false
	}

	if !s.strict {
		return true
	}
	return hasSegmentPrefix(pathSegments(u.EscapedPath()), s.segments)
}

// Resolve turns an href found on the page at base into a normalized,
// in-scope URL. The second return value is false when the href cannot be
// parsed or resolves outside the scope; that is not an error, the href just
// produces no link.
func Resolve(base *url.URL, href string, scope Scope) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}

	resolved := base.ResolveReference(ref)
	if !scope.Contains(resolved) {
		return "", false
	}
	return NormalizeURL(resolved), true
}

// NormalizeURL returns the identity key of a URL.
//
// The fragment is removed, scheme and host are lower-cased (the host in its
// IDNA ASCII form) and an empty path becomes "/". Nothing else is folded:
// "/a" and "/a/" stay distinct.
func NormalizeURL(u *url.URL) string {
	n := *u
	n.Fragment = ""
	n.RawFragment = ""
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = canonicalHostPort(n.Hostname(), n.Port())

	if n.Opaque == "" && n.Path == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return n.String()
}

// links resolves the href attribute of every element matched by selectors
// and returns the in-scope URLs in selector order, then document order.
// Each URL appears once.
func links(page *Page, selectors []namedSelector, scope Scope) []string {
	seen := make(map[string]struct{})
	found := make([]string, 0)

	for _, ns := range selectors {
		page.Doc.FindMatcher(ns.sel).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			link, ok := Resolve(page.Base, href, scope)
			if !ok {
				return
			}
			if _, dup := seen[link]; dup {
				return
			}
			seen[link] = struct{}{}
			found = append(found, link)
		})
	}

	return found
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

// canonicalHost lower-cases a host and converts internationalized names to
// their ASCII form so that equal hosts compare equal as strings.
func canonicalHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

func canonicalHostPort(host, port string) string {
	host = canonicalHost(host)
	if port != "" {
		return net.JoinHostPort(host, port)
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

// pathSegments splits a URL path into its segments. The trailing empty
// segment of a directory path is dropped, so "/sub/" and "/sub" both give
// ["sub"].
func pathSegments(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	segs := strings.Split(p, "/")
	if segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}
	return segs
}

func hasSegmentPrefix(segs, prefix []string) bool {
	if len(segs) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}
