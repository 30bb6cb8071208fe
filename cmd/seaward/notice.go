package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/nao1215/seaward/internal/crawler"
	"github.com/nao1215/seaward/internal/warmup"
)

const banner = `
                             _
 ___ ___ ___ _ _ _ ___ ___ _| |
|_ -| -_| .'| | | | .'|  _| . |
|___|___|__,|_____|__,|_| |___|`

// notifier prints human-oriented notices to stderr: the banner, warm-up
// progress and the final summary. Results never go through it.
type notifier struct {
	w      io.Writer
	silent bool

	info  *color.Color
	warn  *color.Color
	title *color.Color
}

// newNotifier creates a notifier writing to w.
// When silent is true only the shutdown notice is printed.
func newNotifier(w io.Writer, silent, noColor bool) *notifier {
	n := &notifier{
		w:      w,
		silent: silent,
		info:   color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		title:  color.New(color.FgCyan, color.Bold),
	}
	if noColor {
		n.info.DisableColor()
		n.warn.DisableColor()
		n.title.DisableColor()
	}
	return n
}

func (n *notifier) printf(format string, a ...any) {
	if n.silent {
		return
	}
	fmt.Fprintf(n.w, format, a...)
}

// banner prints the logo and the version.
func (n *notifier) banner(version string) {
	n.printf("%s v: %s\n\n", n.title.Sprint(banner), version)
}

// probe prints the outcome of one warm-up request.
func (n *notifier) probe(p warmup.Probe) {
	switch {
	case p.Err != nil:
		n.printf("%s Request(%d/%d): failed: %v\n", n.warn.Sprint("-"), p.Index, p.Total, p.Err)
	case !p.OK():
		n.printf("%s Request(%d/%d): status %d %s\n", n.warn.Sprint("-"), p.Index, p.Total,
			p.StatusCode, http.StatusText(p.StatusCode))
	default:
		n.printf("%s Request(%d/%d): %s\n", n.info.Sprint("-"), p.Index, p.Total, p.Elapsed.Round(time.Millisecond))
	}
}

// timeout prints the timeout chosen by the warm-up.
func (n *notifier) timeout(d time.Duration) {
	n.printf("[%s] Using a timeout of: %dms\n\n", n.info.Sprint("INFO"), d.Milliseconds())
}

// warmupFailed prints the fallback used when no warm-up request succeeded.
func (n *notifier) warmupFailed(fallback time.Duration) {
	n.printf("[%s] No warm-up request succeeded, using a timeout of: %dms\n\n",
		n.warn.Sprint("WARN"), fallback.Milliseconds())
}

// summary prints what the crawl found.
func (n *notifier) summary(stats crawler.Stats, word string, wordSearch bool) {
	label := n.info.Sprint("INFO")
	switch {
	case !wordSearch:
		n.printf("[%s] Found %d links on %d pages (%d failed)\n",
			label, stats.LinksFound, stats.PagesVisited, stats.PagesFailed)
	case stats.PagesMatched == 0:
		n.printf("[%s] No occurrences of %q found on %d pages (%d failed)\n",
			label, word, stats.PagesVisited, stats.PagesFailed)
	default:
		n.printf("[%s] Found %q in %d fragments on %d of %d pages (%d failed)\n",
			label, word, stats.Fragments, stats.PagesMatched, stats.PagesVisited, stats.PagesFailed)
	}
}

// shutdown prints the interrupt notice. It is printed even in silent mode.
func (n *notifier) shutdown() {
	fmt.Fprintf(n.w, "\n[%s] Shutting down: received interrupt\n", n.info.Sprint("INFO"))
}
