// Package main provides the entry point for the scopecrawl CLI.
//
// scopecrawl runs the core of a scoped web crawler over fetch results that
// were obtained elsewhere: it decides which URLs may enter the frontier,
// extracts links and words from fetched pages, and writes the running crawl
// report.
//
// Usage:
//
//	scopecrawl check http://www.ics.uci.edu/about
//	scopecrawl import --url http://www.ics.uci.edu/ page.html
//	scopecrawl replay
//
// See --help for all available options.
package main

// main is the entry point for scopecrawl.
func main() {
	Execute()
}
