// Package report renders crawl output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Plain text for the terminal, one URL per line in link
//     mode and highlighted fragments in word mode
//   - JSONWriter: JSON lines for tool integration
//   - MarkdownWriter: A Markdown document for sharing results
//
// Every writer receives results while the crawl is running. SimpleWriter and
// JSONWriter write each result immediately so that output appears as pages
// are visited. MarkdownWriter collects results and writes the document when
// Flush is called.
package report
