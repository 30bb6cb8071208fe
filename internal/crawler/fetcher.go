package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is a desktop browser User-Agent. Some servers refuse
// requests from clients that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0"

// DefaultMaxBodySize limits how much of a response body is read.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Kind classifies a fetch failure.
type Kind int

const (
	// KindTransport is a network-level failure: DNS, connect, TLS or timeout.
	KindTransport Kind = iota + 1

	// KindBadStatus is a response with a status outside 2xx.
	KindBadStatus

	// KindBodyRead is a successful status whose body could not be read,
	// decoded or parsed.
	KindBodyRead
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBadStatus:
		return "bad status"
	case KindBodyRead:
		return "body read"
	default:
		return "unknown"
	}
}

// FetchError describes why a page could not be fetched.
// None of the kinds is fatal to a crawl.
type FetchError struct {
	// URL is the requested URL.
	URL string

	// Kind classifies the failure.
	Kind Kind

	// StatusCode is set for KindBadStatus.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == KindBadStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Page is a fetched and parsed HTML document.
// It is owned by one traversal step and dropped afterwards.
type Page struct {
	// URL is the requested URL.
	URL string

	// Base is the URL the response was served from after redirects.
	// Relative links on the page resolve against it.
	Base *url.URL

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Doc is the parsed document.
	Doc *goquery.Document
}

// Fetcher retrieves pages for the Spider.
type Fetcher interface {
	// Fetch retrieves and parses rawURL. Failures are returned as *FetchError.
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// HTTPFetcher fetches pages with an http.Client.
// The request timeout is the client's Timeout.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher using client.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues one GET request for rawURL and parses the response body.
// Markup errors are tolerated; only I/O and decoding problems fail.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindTransport, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: rawURL, Kind: KindBadStatus, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	root, err := f.parseBody(resp.Body, contentType)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindBodyRead, StatusCode: resp.StatusCode, Err: err}
	}

	base := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	return &Page{
		URL:         rawURL,
		Base:        base,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Doc:         goquery.NewDocumentFromNode(root),
	}, nil
}

// parseBody reads at most maxBodySize bytes, decodes them to UTF-8 using
// the declared or sniffed charset and parses the result as HTML.
func (f *HTTPFetcher) parseBody(body io.Reader, contentType string) (*html.Node, error) {
	raw, err := io.ReadAll(io.LimitReader(body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxBodySize {
		return nil, fmt.Errorf("response body exceeds limit of %d bytes", f.maxBodySize)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	root, err := html.Parse(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return root, nil
}
