// Package main provides the entry point for the seaward CLI.
//
// seaward is a crawler which searches a website for links or for a word.
// It walks the site breadth-first from a seed URL and stays on the seed's
// host and its subdomains.
//
// Usage:
//
//	seaward <url>
//	seaward <url> --word <word>
//
// See --help for all available options.
package main

// main is the entry point for seaward.
func main() {
	Execute()
}
