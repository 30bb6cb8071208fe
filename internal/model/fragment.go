package model

import (
	"sort"
	"strings"
)

// Span marks one occurrence of the search word inside Fragment.Text.
// Start and End are byte offsets; End is exclusive.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Fragment is the text of a single text node that contains at least one
// whole-word occurrence of the search word.
type Fragment struct {
	// Selector is the CSS selector whose element contained the text node.
	Selector string `json:"selector"`

	// Text is the trimmed, NFC-normalized content of the text node.
	Text string `json:"text"`

	// Spans are the occurrences of the word in Text, in ascending order.
	Spans []Span `json:"spans"`
}

// Highlight returns Text with every span replaced by mark(span text).
// Spans that are out of range or overlap a previous span are ignored, so a
// malformed fragment still renders its text.
func (f Fragment) Highlight(mark func(string) string) string {
	if len(f.Spans) == 0 || mark == nil {
		return f.Text
	}

	spans := make([]Span, len(f.Spans))
	copy(spans, f.Spans)
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var b strings.Builder
	b.Grow(len(f.Text) + len(spans)*8)

	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(f.Text) || s.Len() <= 0 {
			continue
		}
		b.WriteString(f.Text[pos:s.Start])
		b.WriteString(mark(f.Text[s.Start:s.End]))
		pos = s.End
	}
	b.WriteString(f.Text[pos:])

	return b.String()
}

// Matches returns the matched substrings of Text, one per span.
func (f Fragment) Matches() []string {
	out := make([]string, 0, len(f.Spans))
	for _, s := range f.Spans {
		if s.Start < 0 || s.End > len(f.Text) || s.Len() <= 0 {
			continue
		}
		out = append(out, f.Text[s.Start:s.End])
	}
	return out
}

// PageResult groups the fragments found on one visited page.
// Pages without fragments are never reported.
type PageResult struct {
	// URL is the normalized URL of the page.
	URL string `json:"url"`

	// Fragments are in selector order, then document order.
	Fragments []Fragment `json:"fragments"`
}

// MatchCount returns the total number of word occurrences on the page.
func (r *PageResult) MatchCount() int {
	n := 0
	for _, f := range r.Fragments {
		n += len(f.Spans)
	}
	return n
}
