// Package report serializes statistics snapshots.
//
// This package contains writers for different output formats:
//   - TextWriter: the fixed plain-text crawler report
//   - MarkdownWriter: the same data as Markdown tables and a mermaid chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter. FileEmitter binds a Writer
// to a path and rewrites the whole file on every snapshot.
package report
