// Package model defines the data structures shared by the crawler and the
// report writers.
//
// This package contains the following types:
//   - Span: The byte range of one search-word occurrence
//   - Fragment: The text of a matching text node with its spans
//   - PageResult: All fragments found on one page
//
// Design decision: We keep these types out of the crawler package so the
// report writers can render results without importing the traversal engine
// (and its HTML and HTTP dependencies).
//
// The types are serializable to JSON for the json output format.
package model
