// Package transport builds the HTTP client used by seaward.
//
// The client carries the per-request timeout, a bounded redirect policy and
// the configured extra headers. It keeps no cookies. Optionally all
// connections are routed through a SOCKS5 proxy such as a local Tor daemon.
//
// The package is designed to be used with dependency injection: build one
// client in the command and pass it to the warm-up and the fetcher rather
// than using http.DefaultClient.
package transport
