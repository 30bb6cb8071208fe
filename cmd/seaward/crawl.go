package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/seaward/internal/config"
	"github.com/nao1215/seaward/internal/crawler"
	seawardlog "github.com/nao1215/seaward/internal/log"
	"github.com/nao1215/seaward/internal/report"
	"github.com/nao1215/seaward/internal/transport"
	"github.com/nao1215/seaward/internal/warmup"
	"golang.org/x/sync/errgroup"
)

// warmupProbeTimeout bounds a single warm-up request. The probes exist to
// find the timeout, so they get a generous one.
const warmupProbeTimeout = 30 * time.Second

// runCrawl runs one crawl until it completes or is interrupted.
//
// The crawl and a signal watcher run in an errgroup. On SIGINT or SIGTERM,
// or when ctx is cancelled, the watcher cancels the crawl; buffered output is
// still flushed and runCrawl returns nil after printing a shutdown notice.
func runCrawl(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	logger := newLogger(cfg, stderr)
	notice := newNotifier(stderr, cfg.Silent, cfg.NoColor)

	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Debug("received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
		case <-done:
			return nil
		}
		cancel()
		return nil
	})
	g.Go(func() error {
		defer close(done)
		return crawl(gctx, cfg, stdout, logger, notice)
	})

	err := g.Wait()
	// ctx is only cancelled by the watcher or by the caller at this point
	if ctx.Err() != nil {
		notice.shutdown()
		return nil
	}
	return err
}

// newLogger creates the secure logger for the run. JSON output gets JSON
// logs so that both streams can be parsed by the same tools.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.Format == config.FormatJSON {
		return seawardlog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return seawardlog.NewSecureLogger(w, cfg.Verbose)
}

// crawl sets up the client, the spider and the output writer and runs the
// crawl.
func crawl(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger, notice *notifier) error {
	notice.banner(getVersion())

	logger.Debug("starting crawl",
		"url", cfg.URL,
		"wordSearch", cfg.WordSearch,
		"depth", cfg.Depth,
		"strict", cfg.Strict,
		"format", string(cfg.Format),
	)

	timeout, err := resolveTimeout(ctx, cfg, logger, notice)
	if err != nil {
		return err
	}

	client, err := transport.NewHTTPClient(transport.Options{
		Timeout:      timeout,
		ProxyAddress: cfg.ProxyAddress,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	spider, err := newSpider(cfg, client, logger)
	if err != nil {
		return err
	}

	output, closeOutput, err := openOutput(cfg.OutputFile, stdout)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer, err := report.New(cfg.Format, output,
		report.WithColor(!cfg.NoColor && cfg.OutputFile == ""),
		report.WithSeed(cfg.URL),
		report.WithWord(spider.Word()),
	)
	if err != nil {
		return err
	}

	stats, crawlErr := spider.Crawl(ctx, cfg.URL, writer)
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if crawlErr != nil {
		return crawlErr
	}

	logger.Debug("crawl completed",
		"visited", stats.PagesVisited,
		"failed", stats.PagesFailed,
		"duplicates", stats.DuplicatesSkipped,
	)
	notice.summary(stats, spider.Word(), cfg.WordSearch)

	return nil
}

// resolveTimeout returns the request timeout for the crawl. It checks the
// proxy first, then runs the warm-up when one was requested.
func resolveTimeout(ctx context.Context, cfg *config.Config, logger *slog.Logger, notice *notifier) (time.Duration, error) {
	if cfg.ProxyAddress == "" && cfg.Warmup == 0 {
		return cfg.Timeout, nil
	}

	probeClient, err := transport.NewHTTPClient(transport.Options{
		Timeout:      warmupProbeTimeout,
		ProxyAddress: cfg.ProxyAddress,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	if cfg.ProxyAddress != "" {
		status := transport.CheckProxy(ctx, cfg.ProxyAddress)
		if status != transport.ProxyStatusOK {
			return 0, fmt.Errorf("proxy check failed: %w (make sure a SOCKS5 proxy is running at %s)",
				status.Error(), cfg.ProxyAddress)
		}
		logger.Debug("proxy connection verified", "address", cfg.ProxyAddress)
	}

	if cfg.Warmup == 0 {
		return cfg.Timeout, nil
	}
	return calibrate(ctx, cfg, probeClient, logger, notice)
}

// calibrate runs the warm-up probes. If none succeeds the configured timeout
// is kept.
func calibrate(ctx context.Context, cfg *config.Config, client *http.Client, logger *slog.Logger, notice *notifier) (time.Duration, error) {
	strategy, err := warmup.ParseStrategy(cfg.WarmupStrategy)
	if err != nil {
		return 0, err
	}

	timeout, err := warmup.Estimate(ctx, client, cfg.URL, cfg.Warmup,
		warmup.WithStrategy(strategy),
		warmup.WithUserAgent(cfg.UserAgent),
		warmup.WithProgress(notice.probe),
	)
	switch {
	case err == nil:
		notice.timeout(timeout)
		return timeout, nil
	case errors.Is(err, warmup.ErrNoSuccessfulProbe):
		logger.Warn("warm-up failed, using configured timeout", "url", cfg.URL, "timeout", cfg.Timeout)
		notice.warmupFailed(cfg.Timeout)
		return cfg.Timeout, nil
	default:
		return 0, err
	}
}

// newSpider creates the spider for the configured mode.
func newSpider(cfg *config.Config, client *http.Client, logger *slog.Logger) (*crawler.Spider, error) {
	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	opts := []crawler.SpiderOption{
		crawler.WithDepth(cfg.Depth),
		crawler.WithStrict(cfg.Strict),
		crawler.WithLogger(logger),
	}
	if len(cfg.LinkSelectors) > 0 {
		opts = append(opts, crawler.WithLinkSelectors(cfg.LinkSelectors...))
	}

	if cfg.WordSearch {
		pattern, err := crawler.CompilePattern(cfg.Word)
		if err != nil {
			return nil, fmt.Errorf("invalid search word: %w", err)
		}
		opts = append(opts, crawler.WithMatcher(crawler.NewMatcher(pattern, cfg.ContentSelectors, logger)))
	}

	return crawler.NewSpider(fetcher, opts...), nil
}

// openOutput returns the destination for results and a function that
// closes it. An empty path selects stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Results may contain pages behind authentication that should only be
	// readable by the owner
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck
}
