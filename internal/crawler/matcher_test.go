package crawler

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nao1215/seaward/internal/model"
)

// TestCompilePattern tests search word validation.
func TestCompilePattern(t *testing.T) {
	t.Parallel()

	for _, word := range []string{"", "   ", "\t\n"} {
		if _, err := CompilePattern(word); !errors.Is(err, ErrEmptyWord) {
			t.Errorf("CompilePattern(%q) error = %v, want ErrEmptyWord", word, err)
		}
	}

	p, err := CompilePattern("  cat ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Word() != "cat" {
		t.Errorf("expected trimmed word 'cat', got %q", p.Word())
	}
}

// TestPatternFindAll tests whole-word, case-insensitive matching.
func TestPatternFindAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		word  string
		text  string
		spans []model.Span
	}{
		{name: "capitalized occurrence", word: "cat", text: "Cat sat", spans: []model.Span{{Start: 0, End: 3}}},
		{name: "inside a longer word", word: "cat", text: "category", spans: nil},
		{name: "as a suffix", word: "cat", text: "bobcat", spans: nil},
		{name: "followed by punctuation", word: "cat", text: "a cat, a CAT.", spans: []model.Span{{Start: 2, End: 5}, {Start: 9, End: 12}}},
		{name: "underscore is a word character", word: "cat", text: "cat_food", spans: nil},
		{name: "digits are word characters", word: "cat", text: "cat9", spans: nil},
		{name: "dot is literal", word: "a.b", text: "axb a.b", spans: []model.Span{{Start: 4, End: 7}}},
		{name: "plus is literal", word: "c++", text: "I like C++ a lot", spans: []model.Span{{Start: 7, End: 10}}},
		{name: "non-ASCII letters bound words", word: "über", text: "Über alles, nicht überall", spans: []model.Span{{Start: 0, End: 5}}},
		{name: "accented neighbour", word: "caf", text: "café", spans: nil},
		{name: "multi-word phrase", word: "hello world", text: "Say Hello World!", spans: []model.Span{{Start: 4, End: 15}}},
		{name: "empty text", word: "cat", text: "", spans: nil},
		{name: "occurrence overlapping a partial one", word: "ab ab", text: "xab ab ab", spans: []model.Span{{Start: 4, End: 9}}},
		{name: "occurrence after a longer word", word: "cat", text: "catcat cat", spans: []model.Span{{Start: 7, End: 10}}},
		{name: "rejected multibyte candidate", word: "über", text: "xüber über", spans: []model.Span{{Start: 7, End: 12}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := CompilePattern(tt.word)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := p.FindAll(tt.text)
			if len(got) != len(tt.spans) {
				t.Fatalf("FindAll(%q) = %v, want %v", tt.text, got, tt.spans)
			}
			for i := range got {
				if got[i] != tt.spans[i] {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.spans[i])
				}
			}
		})
	}
}

// TestPatternNormalization tests that composed and decomposed forms match.
func TestPatternNormalization(t *testing.T) {
	t.Parallel()

	// Decomposed "café" against composed text.
	p, err := CompilePattern("cafe\u0301")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.FindAll("un café noir")) != 1 {
		t.Error("expected decomposed word to match composed text")
	}
}

// TestMatcherFragments tests fragment extraction from a page.
func TestMatcherFragments(t *testing.T) {
	t.Parallel()

	newMatcher := func(t *testing.T, word string, selectors []string) *Matcher {
		t.Helper()
		p, err := CompilePattern(word)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return NewMatcher(p, selectors, discardLogger())
	}

	collect := func(m *Matcher, page *Page) []model.Fragment {
		var out []model.Fragment
		for f := range m.Fragments(page) {
			out = append(out, f)
		}
		return out
	}

	t.Run("selector order then document order", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<html><head><title>Cat tales</title></head><body>
			<h1>Cat heading</h1>
			<p>The first cat.</p>
			<p>No match here.</p>
			<p>The second cat.</p>
		</body></html>`)

		got := collect(newMatcher(t, "cat", nil), page)
		want := []struct{ selector, text string }{
			{"title", "Cat tales"},
			{"p", "The first cat."},
			{"p", "The second cat."},
			{"h1", "Cat heading"},
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d fragments, got %d: %+v", len(want), len(got), got)
		}
		for i, w := range want {
			if got[i].Selector != w.selector || got[i].Text != w.text {
				t.Errorf("fragment %d = (%q, %q), want (%q, %q)", i, got[i].Selector, got[i].Text, w.selector, w.text)
			}
		}
	})

	t.Run("attribute values are never searched", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<p title="cat" class="cat">dog</p>`)
		if got := collect(newMatcher(t, "cat", nil), page); len(got) != 0 {
			t.Errorf("expected no fragments, got %+v", got)
		}
	})

	t.Run("script and style are skipped", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<p>dog<script>var cat = 1;</script><style>.cat{}</style></p>`)
		if got := collect(newMatcher(t, "cat", nil), page); len(got) != 0 {
			t.Errorf("expected no fragments, got %+v", got)
		}
	})

	t.Run("nested text is reported once", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<p>A <b>cat</b> here</p>`)
		got := collect(newMatcher(t, "cat", []string{"p", "b"}), page)
		if len(got) != 1 {
			t.Fatalf("expected 1 fragment, got %d: %+v", len(got), got)
		}
		if got[0].Selector != "p" || got[0].Text != "cat" {
			t.Errorf("unexpected fragment: %+v", got[0])
		}
	})

	t.Run("whitespace is trimmed and spans follow it", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", "<p>\n   the cat  \n</p>")
		got := collect(newMatcher(t, "cat", nil), page)
		if len(got) != 1 {
			t.Fatalf("expected 1 fragment, got %d", len(got))
		}
		if got[0].Text != "the cat" {
			t.Errorf("expected trimmed text, got %q", got[0].Text)
		}
		if got[0].Spans[0] != (model.Span{Start: 4, End: 7}) {
			t.Errorf("unexpected span: %v", got[0].Spans[0])
		}
	})

	t.Run("SVG text elements are searched", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<svg><text x="0" y="10">cat label</text></svg>`)
		got := collect(newMatcher(t, "cat", nil), page)
		if len(got) != 1 || got[0].Selector != "text" {
			t.Errorf("expected one fragment from the text selector, got %+v", got)
		}
	})

	t.Run("iteration can stop early", func(t *testing.T) {
		t.Parallel()

		page := parsePage(t, "https://ex.test/", `<p>cat one</p><p>cat two</p><p>cat three</p>`)
		m := newMatcher(t, "cat", nil)

		n := 0
		for range m.Fragments(page) {
			n++
			if n == 2 {
				break
			}
		}
		if n != 2 {
			t.Errorf("expected to stop after 2 fragments, got %d", n)
		}
	})

	t.Run("invalid selectors are logged and skipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		p, err := CompilePattern("cat")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m := NewMatcher(p, []string{"p", "[[invalid", "h1"}, logger)

		page := parsePage(t, "https://ex.test/", `<h1>cat</h1><p>cat</p>`)
		got := collect(m, page)
		if len(got) != 2 {
			t.Errorf("expected 2 fragments from the valid selectors, got %d", len(got))
		}
		if !strings.Contains(buf.String(), "skipping invalid selector") {
			t.Errorf("expected a warning for the invalid selector, got %q", buf.String())
		}
	})
}
