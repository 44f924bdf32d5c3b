// Package stats aggregates corpus-wide crawl statistics.
//
// A CrawlStatistics is created once by the entry point and shared by every
// worker. All four updates of one page (unique-page insert, longest-page
// compare-and-swap, word-frequency merge, subdomain increment) happen under a
// single mutex. When the number of unique pages reaches a multiple of the
// report interval, a snapshot is copied under that lock and handed to the
// Emitter after the lock is released.
package stats
