package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/seaward/internal/model"
)

const (
	// separatorWidth is the number of dashes under a page URL.
	separatorWidth = 20

	// bullet starts every fragment line.
	bullet = "●"
)

// SimpleWriter outputs plain text.
//
// In link mode every link is printed on its own line, so the output can be
// piped to other tools. In word mode each page is printed as its URL, a line
// of dashes and one line per fragment, followed by a blank line.
type SimpleWriter struct {
	baseWriter

	// highlight marks the search-word occurrences inside a fragment.
	highlight func(string) string

	// heading colors the page URL.
	heading *color.Color
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
//
// Page URLs are printed in blue and occurrences in cyan unless color is
// disabled with WithColor(false). WithHighlighter replaces the cyan marking.
func NewSimpleWriter(output io.Writer, opts ...Option) *SimpleWriter {
	o := newOptions(opts)

	heading := color.New(color.FgBlue)
	match := color.New(color.FgCyan)
	if !o.color {
		heading.DisableColor()
		match.DisableColor()
	}

	highlight := o.highlight
	if highlight == nil {
		highlight = func(s string) string { return match.Sprint(s) }
	}

	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
		highlight:  highlight,
		heading:    heading,
	}
}

// Link prints url on its own line.
func (w *SimpleWriter) Link(url string) error {
	_, err := fmt.Fprintln(w.output, url)
	return err
}

// Page prints the page URL followed by its fragments.
func (w *SimpleWriter) Page(result *model.PageResult) error {
	var sb strings.Builder

	sb.WriteString(w.heading.Sprint(result.URL))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n")

	for _, f := range result.Fragments {
		sb.WriteString(bullet)
		sb.WriteString(" ")
		sb.WriteString(f.Highlight(w.highlight))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w.output, sb.String())
	return err
}

// Flush is a no-op; SimpleWriter does not buffer.
func (w *SimpleWriter) Flush() error {
	return nil
}
