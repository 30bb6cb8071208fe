// Package crawler provides the breadth-first traversal engine of seaward.
//
// # Architecture
//
// The package is designed around the Spider type, which owns the frontier
// (a FIFO queue) and the visited set of one crawl run and drives the walk:
//
//	dequeue -> fetch -> resolve links / match content -> enqueue -> dequeue ...
//
// Design decision: We implement our own traversal rather than using a
// crawling framework because:
//  1. The depth budget is consumed per BFS layer, not per link
//  2. Output order must be deterministic for a static site
//  3. Scope rules (subdomains, segment-aware strict paths) are specific
//
// # Components
//
//   - Spider: The traversal engine (frontier, visited set, depth budget)
//   - HTTPFetcher: Retrieves a page and classifies failures as FetchError
//   - Scope / Resolve: Turn an href into a normalized, in-scope URL
//   - Pattern / Matcher: Find whole-word, case-insensitive occurrences of a
//     word in the readable text of a page
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(httpClient)
//	spider := crawler.NewSpider(fetcher, crawler.WithDepth(2))
//	stats, err := spider.Crawl(ctx, "https://example.com/", sink)
//
// # Non-goals
//
// The crawler does not read robots.txt, does not rate-limit, fetches one page
// at a time and keeps no state between runs.
package crawler
