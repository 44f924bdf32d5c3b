// Package model defines the data structures shared by the scopecrawl packages.
//
// This package contains the following main types:
//   - FetchResult: A page fetched by the host crawler, handed to the scraper
//   - Outcome: The result of processing one page, including why it produced no links
//   - Snapshot: A point-in-time copy of the crawl statistics used by report writers
//
// Models live in their own package so that crawler, stats, report and
// database can share them without import cycles.
package model
