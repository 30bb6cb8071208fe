package crawler

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/seaward/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyWord is returned when the search word is empty or only whitespace.
var ErrEmptyWord = errors.New("search word must not be empty")

// Pattern is a compiled whole-word, case-insensitive search word.
//
// The word is always taken literally: characters such as "." or "+" have no
// special meaning. Whole-word means that the runes next to an occurrence are
// not letters, digits, marks or underscores. That check is applied only to
// the edges of the word that are themselves word characters, so "c++" still
// matches in "use c++ here".
type Pattern struct {
	word       string
	re         *regexp.Regexp
	checkStart bool
	checkEnd   bool
}

// CompilePattern compiles word into a Pattern.
func CompilePattern(word string) (*Pattern, error) {
	word = norm.NFC.String(strings.TrimSpace(word))
	if word == "" {
		return nil, ErrEmptyWord
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(word))
	if err != nil {
		return nil, fmt.Errorf("compile search word %q: %w", word, err)
	}

	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)

	return &Pattern{
		word:       word,
		re:         re,
		checkStart: isWordRune(first),
		checkEnd:   isWordRune(last),
	}, nil
}

// Word returns the normalized search word.
func (p *Pattern) Word() string {
	return p.word
}

// FindAll returns the spans of every whole-word occurrence in text.
// Occurrences do not overlap. A candidate that is not a whole word only
// consumes its first rune, so an occurrence starting inside it is still found.
func (p *Pattern) FindAll(text string) []model.Span {
	var spans []model.Span
	for pos := 0; pos < len(text); {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if p.isWhole(text, start, end) {
			spans = append(spans, model.Span{Start: start, End: end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return spans
}

func (p *Pattern) isWhole(text string, start, end int) bool {
	if p.checkStart && start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if p.checkEnd && end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Matcher scans the readable text of a page for a Pattern.
type Matcher struct {
	pattern   *Pattern
	selectors []namedSelector
}

// NewMatcher creates a Matcher that scans the elements selected by
// selectors, in order. A nil or empty selectors slice means
// DefaultContentSelectors. Invalid selectors are logged and skipped.
func NewMatcher(pattern *Pattern, selectors []string, logger *slog.Logger) *Matcher {
	if len(selectors) == 0 {
		selectors = DefaultContentSelectors
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		pattern:   pattern,
		selectors: compileSelectors(selectors, logger),
	}
}

// Word returns the normalized word the matcher searches for.
func (m *Matcher) Word() string {
	return m.pattern.Word()
}

// Fragments returns the matching fragments of page.
//
// The sequence is lazy and is meant to be ranged over once. Fragments come
// in selector order and, within a selector, in document order. Each text
// node is reported at most once even if several selectors reach it. Only
// text nodes are searched, never attribute values.
func (m *Matcher) Fragments(page *Page) iter.Seq[model.Fragment] {
	return func(yield func(model.Fragment) bool) {
		seen := make(map[*html.Node]struct{})

		for _, ns := range m.selectors {
			stopped := false
			page.Doc.FindMatcher(ns.sel).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				for _, n := range sel.Nodes {
					if !m.scan(n, ns.source, seen, yield) {
						stopped = true
						return false
					}
				}
				return true
			})
			if stopped {
				return
			}
		}
	}
}

// scan walks the text nodes below n. It returns false when yield asked to
// stop.
func (m *Matcher) scan(n *html.Node, source string, seen map[*html.Node]struct{}, yield func(model.Fragment) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}

			text := strings.TrimSpace(norm.NFC.String(c.Data))
			spans := m.pattern.FindAll(text)
			if len(spans) == 0 {
				continue
			}
			if !yield(model.Fragment{Selector: source, Text: text, Spans: spans}) {
				return false
			}
		case html.ElementNode:
			if c.Data == "script" || c.Data == "style" {
				continue
			}
			if !m.scan(c, source, seen, yield) {
				return false
			}
		}
	}
	return true
}
