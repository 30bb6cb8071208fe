// Package warmup estimates a request timeout by probing the seed URL before
// a crawl.
//
// A fixed timeout is either too short for slow sites, which then look empty,
// or too long for fast ones, where every dead link stalls the crawl. The
// estimate is derived from the response times the site actually shows.
package warmup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Margin is added to the measured latency.
const Margin = time.Second

// defaultUserAgent matches the crawler's browser-like User-Agent so that the
// probes see the same responses as the crawl.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0"

// drainLimit bounds how much of a probe response body is read before the
// connection is released.
const drainLimit = 64 * 1024

var (
	// ErrNoSuccessfulProbe is returned when no probe got a 2xx response.
	ErrNoSuccessfulProbe = errors.New("no warm-up probe succeeded")

	// ErrInvalidProbes is returned when the number of probes is not positive.
	ErrInvalidProbes = errors.New("number of warm-up probes must be positive")

	// ErrInvalidStrategy is returned for an unknown strategy name.
	ErrInvalidStrategy = errors.New("unknown warm-up strategy")
)

// Strategy selects how successful probe latencies are combined.
type Strategy string

const (
	// StrategyMax uses the slowest successful probe.
	StrategyMax Strategy = "max"

	// StrategyAverage uses the mean of the successful probes.
	StrategyAverage Strategy = "average"
)

// ParseStrategy converts a name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(name); s {
	case StrategyMax, StrategyAverage:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, name)
	}
}

// Probe is the outcome of one warm-up request.
type Probe struct {
	// Index is the 1-based probe number.
	Index int

	// Total is the number of probes in the run.
	Total int

	// Elapsed is the time until the response headers arrived.
	Elapsed time.Duration

	// StatusCode is the response status, or 0 when the request failed.
	StatusCode int

	// Err is the request error, if any.
	Err error
}

// OK reports whether the probe counts towards the estimate.
func (p Probe) OK() bool {
	return p.Err == nil && p.StatusCode >= 200 && p.StatusCode <= 299
}

// Option configures Estimate.
type Option func(*estimator)

// WithStrategy sets how latencies are combined. The default is StrategyMax.
func WithStrategy(s Strategy) Option {
	return func(e *estimator) {
		e.strategy = s
	}
}

// WithProgress registers a callback that is called after every probe.
func WithProgress(fn func(Probe)) Option {
	return func(e *estimator) {
		e.progress = fn
	}
}

// WithUserAgent sets the User-Agent header of the probes.
func WithUserAgent(ua string) Option {
	return func(e *estimator) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

type estimator struct {
	strategy  Strategy
	progress  func(Probe)
	userAgent string
	now       func() time.Time
}

// Estimate sends probes sequential GET requests to rawURL and returns the
// combined latency of the successful ones plus Margin.
//
// Failed requests and non-2xx responses are reported to the progress
// callback but ignored for the estimate. If none succeeds, Estimate returns
// ErrNoSuccessfulProbe. Cancelling ctx stops the probing and returns
// ctx.Err().
func Estimate(ctx context.Context, client *http.Client, rawURL string, probes int, opts ...Option) (time.Duration, error) {
	if probes <= 0 {
		return 0, ErrInvalidProbes
	}
	if client == nil {
		client = http.DefaultClient
	}

	e := &estimator{
		strategy:  StrategyMax,
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := ParseStrategy(string(e.strategy)); err != nil {
		return 0, err
	}

	latencies := make([]time.Duration, 0, probes)
	for i := 1; i <= probes; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		p := e.probe(ctx, client, rawURL)
		p.Index, p.Total = i, probes
		if p.Err != nil && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if p.OK() {
			latencies = append(latencies, p.Elapsed)
		}
		if e.progress != nil {
			e.progress(p)
		}
	}

	if len(latencies) == 0 {
		return 0, ErrNoSuccessfulProbe
	}
	return combine(latencies, e.strategy) + Margin, nil
}

// probe issues one request and measures the time to the response headers.
func (e *estimator) probe(ctx context.Context, client *http.Client, rawURL string) Probe {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Probe{Err: err}
	}
	req.Header.Set("User-Agent", e.userAgent)

	start := e.now()
	resp, err := client.Do(req)
	elapsed := e.now().Sub(start)
	if err != nil {
		return Probe{Elapsed: elapsed, Err: err}
	}
	defer resp.Body.Close()

	// Drain a little so the connection can be reused by the next probe.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit)) //nolint:errcheck

	return Probe{Elapsed: elapsed, StatusCode: resp.StatusCode}
}

func combine(latencies []time.Duration, s Strategy) time.Duration {
	switch s {
	case StrategyAverage:
		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		return sum / time.Duration(len(latencies))
	default:
		var longest time.Duration
		for _, l := range latencies {
			longest = max(longest, l)
		}
		return longest
	}
}
