// Package database provides SQLite-based storage for scopecrawl.
//
// This package implements the PageDB, which stores:
//   - Fetch results imported from a host crawler, keyed by request URL
//   - Replay runs, identified by a random UUID
//   - The admitted and rejected links of every page in a run
//
// The database is a single file opened through modernc.org/sqlite, so no
// CGO toolchain is needed.
package database
