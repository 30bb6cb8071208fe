package crawler

import (
	"log/slog"

	"github.com/andybalholm/cascadia"
)

// Default selector sets.
var (
	// DefaultContentSelectors are the elements scanned for the search word,
	// in output order. "text" is the SVG <text> element.
	DefaultContentSelectors = []string{"title", "text", "p", "h1", "h2", "h3", "h4", "h5", "h6"}

	// wordModeLinkSelectors are followed while searching for a word.
	wordModeLinkSelectors = []string{"a[href]"}

	// linkModeLinkSelectors are followed and reported while enumerating links.
	linkModeLinkSelectors = []string{"a[href]", "link[href]"}
)

// namedSelector keeps the source text of a compiled selector for reporting.
type namedSelector struct {
	source string
	sel    cascadia.Selector
}

// compileSelectors compiles each selector on its own. A selector that does
// not compile is logged and skipped; the remaining ones are still used.
func compileSelectors(sources []string, logger *slog.Logger) []namedSelector {
	compiled := make([]namedSelector, 0, len(sources))
	for _, src := range sources {
		sel, err := cascadia.Compile(src)
		if err != nil {
			logger.Warn("skipping invalid selector", "selector", src, "error", err)
			continue
		}
		compiled = append(compiled, namedSelector{source: src, sel: sel})
	}
	return compiled
}
