package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/scopecrawl/internal/model"
)

// DefaultTopWordsHeading is the count shown in the top words heading.
const DefaultTopWordsHeading = 50

// TextWriter outputs the fixed plain-text crawler report.
type TextWriter struct {
	baseWriter

	// topWords is the number printed in the top words heading.
	topWords int
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithTopWordsHeading sets the number printed in the top words heading.
func WithTopWordsHeading(n int) TextWriterOption {
	return func(w *TextWriter) {
		w.topWords = n
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		topWords:   DefaultTopWordsHeading,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report:
//
//	--- CRAWLER REPORT ---
//
//	Unique Pages Found: <N>
//
//	--- LONGEST PAGE ---
//	URL: <url>
//	Word Count: <n>
//
//	--- TOP 50 COMMON WORDS ---
//	<word>: <count>
//
//	--- SUBDOMAINS ---
//	<subdomain>, <count>
func (w *TextWriter) Write(snap model.Snapshot) (int, error) {
	var sb strings.Builder

	sb.WriteString("--- CRAWLER REPORT ---\n\n")
	fmt.Fprintf(&sb, "Unique Pages Found: %d\n\n", snap.UniquePages)

	sb.WriteString("--- LONGEST PAGE ---\n")
	fmt.Fprintf(&sb, "URL: %s\n", snap.LongestPage.URL)
	fmt.Fprintf(&sb, "Word Count: %d\n\n", snap.LongestPage.Words)

	fmt.Fprintf(&sb, "--- TOP %d COMMON WORDS ---\n", w.topWords)
	for _, wc := range snap.TopWords {
		fmt.Fprintf(&sb, "%s: %d\n", wc.Word, wc.Count)
	}
	sb.WriteString("\n")

	sb.WriteString("--- SUBDOMAINS ---\n")
	for _, sc := range snap.Subdomains {
		fmt.Fprintf(&sb, "%s, %d\n", sc.Subdomain, sc.Count)
	}

	return io.WriteString(w.output, sb.String())
}
