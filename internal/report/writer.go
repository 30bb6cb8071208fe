package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/seaward/internal/config"
	"github.com/nao1215/seaward/internal/model"
)

// ErrUnknownFormat is returned by New for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer defines the interface for crawl output.
//
// Design decision: Writer matches the crawler's sink so a writer can be
// passed to the spider directly, without an adapter in between.
type Writer interface {
	// Link outputs one discovered link.
	Link(url string) error

	// Page outputs the fragments found on one page.
	Page(result *model.PageResult) error

	// Flush writes any buffered output. It must be called once after
	// the crawl, also when the crawl was interrupted.
	Flush() error
}

// Option configures the writers created by New.
type Option func(*options)

type options struct {
	color     bool
	highlight func(string) string
	seed      string
	word      string
}

// WithColor enables or disables highlighting in the text format.
// When enabled, color is still suppressed if the output is not a terminal.
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = enabled
	}
}

// WithHighlighter replaces the function that marks search-word occurrences.
func WithHighlighter(fn func(string) string) Option {
	return func(o *options) {
		o.highlight = fn
	}
}

// WithSeed records the seed URL for formats that print a summary.
func WithSeed(seed string) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWord records the search word for formats that print a summary.
// An empty word means link mode.
func WithWord(word string) Option {
	return func(o *options) {
		o.word = word
	}
}

func newOptions(opts []Option) options {
	o := options{color: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates the writer for the given format.
func New(format config.Format, output io.Writer, opts ...Option) (Writer, error) {
	switch format {
	case config.FormatText, "":
		return NewSimpleWriter(output, opts...), nil
	case config.FormatJSON:
		return NewJSONWriter(output), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
