package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/seaward/internal/model"
)

// JSONWriter outputs one JSON object per line.
//
// Design decision: We use JSON lines rather than a single document because:
// 1. Results are written while the crawl runs, so an interrupted crawl
// still leaves valid output
// 2. Tools such as jq can process the stream line by line
type JSONWriter struct {
	baseWriter

	enc *json.Encoder
}

// LinkRecord is the JSON line written for a discovered link.
type LinkRecord struct {
	URL string `json:"url"`
}

// PageRecord is the JSON line written for a page with matches.
type PageRecord struct {
	// URL is the page URL.
	URL string `json:"url"`

	// Matches is the total number of occurrences on the page.
	Matches int `json:"matches"`

	// Fragments are the matching text nodes in output order.
	Fragments []FragmentRecord `json:"fragments"`
}

// FragmentRecord is one fragment inside a PageRecord.
type FragmentRecord struct {
	Selector string       `json:"selector"`
	Text     string       `json:"text"`
	Spans    []model.Span `json:"spans"`
	Matches  []string     `json:"matches"`
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	enc := json.NewEncoder(output)
	// Fragments are page text; keep "<" and "&" readable.
	enc.SetEscapeHTML(false)

	return &JSONWriter{
		baseWriter: newBaseWriter(output),
		enc:        enc,
	}
}

// Link writes a LinkRecord.
func (w *JSONWriter) Link(url string) error {
	return w.enc.Encode(LinkRecord{URL: url})
}

// Page writes a PageRecord.
func (w *JSONWriter) Page(result *model.PageResult) error {
	return w.enc.Encode(newPageRecord(result))
}

// Flush is a no-op; every record is written immediately.
func (w *JSONWriter) Flush() error {
	return nil
}

func newPageRecord(result *model.PageResult) PageRecord {
	rec := PageRecord{
		URL:       result.URL,
		Matches:   result.MatchCount(),
		Fragments: make([]FragmentRecord, 0, len(result.Fragments)),
	}
	for _, f := range result.Fragments {
		rec.Fragments = append(rec.Fragments, FragmentRecord{
			Selector: f.Selector,
			Text:     f.Text,
			Spans:    f.Spans,
			Matches:  f.Matches(),
		})
	}
	return rec
}
