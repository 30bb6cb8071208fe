package model

import (
	"testing"
)

// TestFragmentHighlight tests span marking.
func TestFragmentHighlight(t *testing.T) {
	t.Parallel()

	mark := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		name     string
		fragment Fragment
		want     string
	}{
		{
			name:     "no spans returns text unchanged",
			fragment: Fragment{Text: "Cat sat"},
			want:     "Cat sat",
		},
		{
			name:     "single span at start",
			fragment: Fragment{Text: "Cat sat", Spans: []Span{{Start: 0, End: 3}}},
			want:     "[Cat] sat",
		},
		{
			name: "multiple spans keep surrounding text",
			fragment: Fragment{
				Text:  "cat and CAT and cat",
				Spans: []Span{{Start: 0, End: 3}, {Start: 8, End: 11}, {Start: 16, End: 19}},
			},
			want: "[cat] and [CAT] and [cat]",
		},
		{
			name: "unsorted spans are sorted",
			fragment: Fragment{
				Text:  "a cat a cat",
				Spans: []Span{{Start: 8, End: 11}, {Start: 2, End: 5}},
			},
			want: "a [cat] a [cat]",
		},
		{
			name: "out of range span is ignored",
			fragment: Fragment{
				Text:  "cat",
				Spans: []Span{{Start: 0, End: 3}, {Start: 2, End: 10}},
			},
			want: "[cat]",
		},
		{
			name: "overlapping span is ignored",
			fragment: Fragment{
				Text:  "catcat",
				Spans: []Span{{Start: 0, End: 4}, {Start: 3, End: 6}},
			},
			want: "[catc]at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.fragment.Highlight(mark); got != tt.want {
				t.Errorf("Highlight() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("nil mark returns text", func(t *testing.T) {
		t.Parallel()
		f := Fragment{Text: "cat", Spans: []Span{{Start: 0, End: 3}}}
		if got := f.Highlight(nil); got != "cat" {
			t.Errorf("Highlight(nil) = %q, want %q", got, "cat")
		}
	})
}

// TestFragmentMatches tests extraction of matched substrings.
func TestFragmentMatches(t *testing.T) {
	t.Parallel()

	f := Fragment{
		Text:  "Cat and cat",
		Spans: []Span{{Start: 0, End: 3}, {Start: 8, End: 11}, {Start: 9, End: 40}},
	}

	got := f.Matches()
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), got)
	}
	if got[0] != "Cat" || got[1] != "cat" {
		t.Errorf("unexpected matches: %v", got)
	}
}

// TestPageResultMatchCount tests counting spans across fragments.
func TestPageResultMatchCount(t *testing.T) {
	t.Parallel()

	r := &PageResult{
		URL: "https://example.com/",
		Fragments: []Fragment{
			{Text: "cat", Spans: []Span{{Start: 0, End: 3}}},
			{Text: "cat cat", Spans: []Span{{Start: 0, End: 3}, {Start: 4, End: 7}}},
		},
	}

	if got := r.MatchCount(); got != 3 {
		t.Errorf("MatchCount() = %d, want 3", got)
	}
}
