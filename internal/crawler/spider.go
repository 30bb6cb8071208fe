package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/seaward/internal/model"
)

// Unbounded is the depth value that disables the depth limit.
const Unbounded = -1

// Sink receives crawl output as it is produced.
type Sink interface {
	// Link is called once for every newly discovered in-scope link when the
	// spider enumerates links.
	Link(url string) error

	// Page is called for every visited page that has at least one matching
	// fragment when the spider searches for a word.
	Page(result *model.PageResult) error
}

// Spider walks a site breadth-first from a seed URL.
//
// Without a Matcher the spider enumerates links: every in-scope link is
// reported the first time it is seen. With a Matcher it searches each
// visited page for the word and reports pages that contain it.
//
// Design decision: The walk is sequential. One fetch completes before the
// next URL is dequeued, so the frontier and the visited set need no locking
// and the output order is deterministic for a static site.
type Spider struct {
	// fetcher retrieves and parses pages.
	fetcher Fetcher

	// depth is the number of link layers followed from the seed.
	// Unbounded (-1) follows links until the frontier is empty.
	depth int

	// strict restricts the crawl to the seed path.
	strict bool

	// matcher selects word-search mode when non-nil.
	matcher *Matcher

	// linkSources are the selectors whose href attributes are followed.
	// Nil selects the default for the mode.
	linkSources []string

	// linkSelectors are the compiled linkSources.
	linkSelectors []namedSelector

	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithDepth sets the depth limit.
// 0 = only the seed page, 1 = the seed page and the pages it links to, etc.
// Unbounded removes the limit.
func WithDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.depth = depth
	}
}

// WithStrict restricts followed links to the seed URL's path.
func WithStrict(strict bool) SpiderOption {
	return func(s *Spider) {
		s.strict = strict
	}
}

// WithMatcher switches the spider to word-search mode.
func WithMatcher(m *Matcher) SpiderOption {
	return func(s *Spider) {
		s.matcher = m
	}
}

// WithLinkSelectors overrides the selectors whose href attributes are
// followed.
func WithLinkSelectors(selectors ...string) SpiderOption {
	return func(s *Spider) {
		s.linkSources = selectors
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider that retrieves pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher: fetcher,
		depth:   Unbounded,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.linkSources == nil {
		s.linkSources = linkModeLinkSelectors
		if s.matcher != nil {
			s.linkSources = wordModeLinkSelectors
		}
	}
	s.linkSelectors = compileSelectors(s.linkSources, s.logger)

	return s
}

// Word returns the normalized search word, or "" when the spider enumerates
// links.
func (s *Spider) Word() string {
	if s.matcher == nil {
		return ""
	}
	return s.matcher.Word()
}

// Stats summarizes one crawl run.
type Stats struct {
	// PagesVisited is the number of pages fetched successfully.
	PagesVisited int

	// PagesFailed is the number of pages whose fetch failed.
	PagesFailed int

	// DuplicatesSkipped counts dequeued URLs that had already been visited.
	DuplicatesSkipped int

	// LinksFound is the number of distinct links reported in link mode.
	LinksFound int

	// PagesMatched is the number of pages reported in word-search mode.
	PagesMatched int

	// Fragments is the number of fragments reported in word-search mode.
	Fragments int
}

// run holds the state of one crawl. It is discarded when the crawl ends.
type run struct {
	scope    Scope
	sink     Sink
	frontier *frontier
	visited  urlSet

	// reported holds links already passed to Sink.Link, plus the seed.
	reported urlSet

	// budget is the number of link layers that may still be enqueued.
	budget int

	stats Stats
}

// Crawl walks the site starting at seed and sends results to sink.
//
// The depth limit is a budget shared by the whole run and consumed one BFS
// layer at a time: when the last URL of a layer has been processed the
// budget drops by one. Pages dequeued while the budget is zero are still
// fetched and searched, but their links are not enqueued. In link mode those
// links are still reported.
//
// A link is enqueued when budget remains, it is in scope and it has not been
// visited. A link that is already waiting in the frontier may be enqueued
// again; the copy is skipped when dequeued, so no URL is fetched twice.
//
// Fetch failures are logged and the walk continues. Crawl returns when the
// frontier is empty, or with ctx.Err() when ctx is cancelled; the stats
// cover the work done until then.
func (s *Spider) Crawl(ctx context.Context, seed string, sink Sink) (Stats, error) {
	start, err := ParseSeed(seed)
	if err != nil {
		return Stats{}, err
	}
	if sink == nil {
		sink = discardSink{}
	}

	seedURL := NormalizeURL(start)
	r := &run{
		scope:    NewScope(start, s.strict),
		sink:     sink,
		frontier: newFrontier(),
		visited:  make(urlSet),
		reported: make(urlSet),
		budget:   s.depth,
	}
	r.reported.add(seedURL)
	r.frontier.push(seedURL)

	s.logger.Debug("crawl started", "seed", seedURL, "depth", s.depth, "strict", s.strict, "wordSearch", s.matcher != nil)

	layerLeft, nextLayer := 1, 0
	for r.frontier.len() > 0 {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}

		current, _ := r.frontier.pop()
		found, err := s.visit(ctx, r, current)
		if err != nil {
			return r.stats, err
		}

		if r.budget != 0 {
			for _, link := range found {
				if !r.visited.has(link) {
					r.frontier.push(link)
					nextLayer++
				}
			}
		}

		layerLeft--
		if layerLeft == 0 {
			if r.budget > 0 {
				r.budget--
			}
			layerLeft, nextLayer = nextLayer, 0
		}
	}

	s.logger.Debug("crawl finished",
		"seed", seedURL,
		"visited", r.stats.PagesVisited,
		"failed", r.stats.PagesFailed,
	)
	return r.stats, nil
}

// visit processes one dequeued URL and returns the in-scope links found on
// it. Already visited URLs and failed fetches produce no links. The returned
// error is non-nil only for cancellation or a sink failure.
func (s *Spider) visit(ctx context.Context, r *run, current string) ([]string, error) {
	if !r.visited.add(current) {
		r.stats.DuplicatesSkipped++
		return nil, nil
	}

	page, err := s.fetcher.Fetch(ctx, current)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.stats.PagesFailed++
		s.logFetchError(current, err)
		return nil, nil
	}
	r.stats.PagesVisited++
	s.logger.Debug("page fetched", "url", current, "status", page.StatusCode)

	// A redirect target counts as visited, so a later link to it is not
	// fetched again.
	inScope := true
	if page.Base != nil {
		if final := NormalizeURL(page.Base); final != current {
			r.visited.add(final)
			inScope = r.scope.Contains(page.Base)
			s.logger.Debug("page redirected", "url", current, "final", final, "inScope", inScope)
		}
	}

	found := links(page, s.linkSelectors, r.scope)

	if s.matcher != nil {
		if !inScope {
			return found, nil
		}
		if err := s.report(r, page); err != nil {
			return nil, err
		}
		return found, nil
	}

	for _, link := range found {
		if !r.reported.add(link) {
			continue
		}
		r.stats.LinksFound++
		if err := r.sink.Link(link); err != nil {
			return nil, fmt.Errorf("write link: %w", err)
		}
	}
	return found, nil
}

// report collects the fragments of page and passes them to the sink when
// there is at least one.
func (s *Spider) report(r *run, page *Page) error {
	result := &model.PageResult{URL: page.URL}
	for fragment := range s.matcher.Fragments(page) {
		result.Fragments = append(result.Fragments, fragment)
	}
	if len(result.Fragments) == 0 {
		return nil
	}

	r.stats.PagesMatched++
	r.stats.Fragments += len(result.Fragments)
	if err := r.sink.Page(result); err != nil {
		return fmt.Errorf("write page result: %w", err)
	}
	return nil
}

func (s *Spider) logFetchError(pageURL string, err error) {
	var fe *FetchError
	if errors.As(err, &fe) {
		attrs := []any{"url", pageURL, "kind", fe.Kind.String()}
		if fe.StatusCode != 0 {
			attrs = append(attrs, "status", fe.StatusCode)
		}
		if fe.Err != nil {
			attrs = append(attrs, "error", fe.Err)
		}
		s.logger.Warn("fetch failed", attrs...)
		return
	}
	s.logger.Warn("fetch failed", "url", pageURL, "error", err)
}

// discardSink drops all output.
type discardSink struct{}

func (discardSink) Link(string) error { return nil }
func (discardSink) Page(*model.PageResult) error { return nil }
