package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/policysnap/policysnap/internal/model"
)

// MarkdownWriter renders the assembled document in Markdown format.
// This is the primary output format; DOCX and PDF are produced from it.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and links
// 3. Consistent escaping of header and table content
type MarkdownWriter struct {
	baseWriter

	// title overrides the document heading when non-empty.
	title string
}

// MarkdownOption configures a MarkdownWriter.
type MarkdownOption func(*MarkdownWriter)

// WithTitle sets the top-level document heading.
func WithTitle(title string) MarkdownOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the document in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeContents(md, doc)
	w.writeSections(md, doc)
	w.writeFooter(md, doc)

	return len(md.String()), md.Build()
}

// writeHeader writes the document heading and metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *model.Document) {
	title := w.title
	if title == "" {
		title = "Policy Document"
	}

	md.H1(title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Source", "`" + doc.StartURL + "`"},
			{"Pages", strconv.Itoa(doc.PageCount)},
			{"Sections", strconv.Itoa(doc.SectionCount())},
		},
	})
	md.PlainText("")
}

// writeContents writes a table of contents listing every section heading.
func (w *MarkdownWriter) writeContents(md *markdown.Markdown, doc *model.Document) {
	if doc.SectionCount() == 0 {
		return
	}

	md.H2("Contents")
	md.PlainText("")

	items := make([]string, 0, doc.SectionCount())
	for _, s := range doc.Sections {
		items = append(items, s.Heading)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeSections writes each section with its source attribution.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, doc *model.Document) {
	if doc.SectionCount() == 0 {
		md.PlainText("No content was extracted from the crawled pages.")
		md.PlainText("")
		return
	}

	for _, s := range doc.Sections {
		md.H2(s.Heading)
		md.PlainText("")
		md.PlainText(s.BodyText)
		md.PlainText("")
		md.PlainTextf("*Source: [%s](%s)*", s.SourceURL, s.SourceURL)
		md.PlainText("")
	}
}

// writeFooter writes the closing attribution line.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, doc *model.Document) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText(fmt.Sprintf("*Assembled from %d page(s) by policysnap.*", doc.PageCount))
}
