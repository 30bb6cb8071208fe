package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/seaward/internal/model"
)

// MarkdownWriter outputs a Markdown document.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and lists
// 3. GitHub-flavored markdown alerts
//
// A document has a single summary table at the top, so results are collected
// and the document is written by Flush.
type MarkdownWriter struct {
	baseWriter

	seed  string
	word  string
	links []string
	pages []*model.PageResult

	flushed bool
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
// WithSeed and WithWord fill the summary table; other options are ignored.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	o := newOptions(opts)
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		seed:       o.seed,
		word:       o.word,
	}
}

// Link records a discovered link.
func (w *MarkdownWriter) Link(url string) error {
	w.links = append(w.links, url)
	return nil
}

// Page records a page with matches.
func (w *MarkdownWriter) Page(result *model.PageResult) error {
	w.pages = append(w.pages, result)
	return nil
}

// Flush writes the document. Calls after the first one do nothing.
func (w *MarkdownWriter) Flush() error {
	if w.flushed {
		return nil
	}
	w.flushed = true

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md)
	if w.word == "" {
		w.writeLinks(md)
	} else {
		w.writePages(md)
	}
	w.writeFooter(md)

	return md.Build()
}

// writeHeader writes the title and the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown) {
	md.H1("Seaward Report")
	md.PlainText("")

	rows := [][]string{
		{"Seed", "`" + w.seed + "`"},
	}
	if w.word == "" {
		rows = append(rows,
			[]string{"Mode", "link enumeration"},
			[]string{"Links Found", strconv.Itoa(len(w.links))},
		)
	} else {
		matches := 0
		for _, p := range w.pages {
			matches += p.MatchCount()
		}
		rows = append(rows,
			[]string{"Mode", "word search"},
			[]string{"Word", "`" + w.word + "`"},
			[]string{"Pages Matched", strconv.Itoa(len(w.pages))},
			[]string{"Occurrences", strconv.Itoa(matches)},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLinks writes the discovered links as a list.
func (w *MarkdownWriter) writeLinks(md *markdown.Markdown) {
	md.H2("Links")
	md.PlainText("")

	if len(w.links) == 0 {
		md.Note("No links found.")
		md.PlainText("")
		return
	}

	md.BulletList(w.links...)
	md.PlainText("")
}

// writePages writes one section per page with its fragments.
func (w *MarkdownWriter) writePages(md *markdown.Markdown) {
	if len(w.pages) == 0 {
		md.H2("Pages")
		md.PlainText("")
		md.Note("No occurrences found.")
		md.PlainText("")
		return
	}

	for _, p := range w.pages {
		md.H2(p.URL)
		md.PlainText("")

		items := make([]string, 0, len(p.Fragments))
		for _, f := range p.Fragments {
			items = append(items, "`"+f.Selector+"` "+boldSpans(f))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seaward](https://github.com/nao1215/seaward)*")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"|", `\|`,
)

// boldSpans escapes the fragment text and marks every span in bold.
func boldSpans(f model.Fragment) string {
	var sb strings.Builder

	pos := 0
	for _, s := range f.Spans {
		if s.Start < pos || s.End > len(f.Text) || s.Len() <= 0 {
			continue
		}
		sb.WriteString(markdownEscaper.Replace(f.Text[pos:s.Start]))
		sb.WriteString("**")
		sb.WriteString(markdownEscaper.Replace(f.Text[s.Start:s.End]))
		sb.WriteString("**")
		pos = s.End
	}
	sb.WriteString(markdownEscaper.Replace(f.Text[pos:]))

	return sb.String()
}
