package report

import (
	"cmp"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/scopecrawl/internal/model"
)

// maxChartSlices caps the subdomain pie chart; the rest is summed as "other".
const maxChartSlices = 10

// MarkdownWriter outputs the report in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot in Markdown format.
func (w *MarkdownWriter) Write(snap model.Snapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, snap)
	w.writeTopWords(md, snap)
	w.writeSubdomains(md, snap)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, snap model.Snapshot) {
	md.H1("Crawler Report")
	md.PlainText("")

	longest := snap.LongestPage.URL
	if longest == "" {
		longest = "-"
	} else {
		longest = "`" + longest + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Unique Pages", strconv.Itoa(snap.UniquePages)},
			{"Longest Page", longest},
			{"Longest Page Words", strconv.Itoa(snap.LongestPage.Words)},
			{"Subdomain Pages", strconv.Itoa(snap.TotalSubdomainPages())},
			{"Generated", snap.TakenAt.Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTopWords(md *markdown.Markdown, snap model.Snapshot) {
	md.H2("Top Words")
	md.PlainText("")

	if len(snap.TopWords) == 0 {
		md.PlainText("No words recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(snap.TopWords))
	for i, wc := range snap.TopWords {
		rows[i] = []string{strconv.Itoa(i + 1), wc.Word, strconv.Itoa(wc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSubdomains(md *markdown.Markdown, snap model.Snapshot) {
	md.H2("Subdomains")
	md.PlainText("")

	if len(snap.Subdomains) == 0 {
		md.Note("No subdomains recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(snap.Subdomains))
	for i, sc := range snap.Subdomains {
		rows[i] = []string{sc.Subdomain, strconv.Itoa(sc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Subdomain", "Pages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, snap)
}

// writePieChart writes a mermaid pie chart of pages per subdomain.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, snap model.Snapshot) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages per Subdomain"),
		piechart.WithShowData(true),
	)

	for _, s := range chartSlices(snap.Subdomains) {
		chart.LabelAndIntValue(s.Subdomain, uint64(s.Count))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by scopecrawl*")
}

// chartSlices returns the largest subdomains by page count with the
// remainder folded into a single "other" slice.
func chartSlices(subs []model.SubdomainCount) []model.SubdomainCount {
	if len(subs) <= maxChartSlices {
		return subs
	}

	sorted := slices.Clone(subs)
	slices.SortStableFunc(sorted, func(a, b model.SubdomainCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return strings.Compare(a.Subdomain, b.Subdomain)
	})

	out := make([]model.SubdomainCount, 0, maxChartSlices+1)
	out = append(out, sorted[:maxChartSlices]...)
	other := 0
	for _, s := range sorted[maxChartSlices:] {
		other += s.Count
	}
	return append(out, model.SubdomainCount{Subdomain: "other", Count: other})
}
