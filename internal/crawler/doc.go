// Package crawler turns one fetched page into admitted outbound links and a
// statistics update.
//
// # Components
//
//   - Parser: walks the HTML DOM, resolves anchor links against the request
//     URL, strips fragments and collects visible text
//   - Tokenizer: lowercases visible text and keeps alphabetic non-stop words
//   - Scraper: the per-page entry point tying Parser, Tokenizer, a statistics
//     Recorder and the admissibility policy together
//
// # Usage
//
//	s := crawler.NewScraper(st, policy.Default(), crawler.NewTokenizer(nil))
//	links := s.Scrape(requestURL, fetchResult)
//
// Scrape never returns an error and never panics on bad input. Process
// returns the full model.Outcome so callers can tell an empty page from a
// parse failure.
//
// Parser and Tokenizer hold no mutable state. A Scraper is safe for
// concurrent use as long as its Recorder is.
package crawler
