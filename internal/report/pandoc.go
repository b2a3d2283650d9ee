package report

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Exporter converts a rendered Markdown file into binary document
// formats by shelling out to pandoc. Pandoc must be on PATH; PDF
// output additionally needs the xelatex engine installed.
//
// Design decision: We delegate to pandoc instead of linking a DOCX or
// PDF library. Pandoc's conversion quality is the reference standard
// for this kind of document, and the binary formats stay out of the
// module's dependency graph.
type Exporter struct {
	// pandocPath is the pandoc executable. Defaults to "pandoc".
	pandocPath string
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithPandocPath overrides the pandoc executable location.
func WithPandocPath(path string) ExporterOption {
	return func(e *Exporter) {
		e.pandocPath = path
	}
}

// NewExporter creates an Exporter with the given options.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{
		pandocPath: "pandoc",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether pandoc can be found.
func (e *Exporter) Available() bool {
	_, err := exec.LookPath(e.pandocPath)
	return err == nil
}

// ExportDOCX converts the Markdown file at mdPath into a DOCX file.
func (e *Exporter) ExportDOCX(ctx context.Context, mdPath, outPath string) error {
	return e.run(ctx, mdPath, outPath)
}

// ExportPDF converts the Markdown file at mdPath into a PDF file
// using the xelatex engine.
func (e *Exporter) ExportPDF(ctx context.Context, mdPath, outPath string) error {
	return e.run(ctx, mdPath, outPath, "--pdf-engine=xelatex")
}

// ExportAll runs the requested conversions concurrently. Paths given
// as empty strings are skipped. The first conversion failure cancels
// the rest.
func (e *Exporter) ExportAll(ctx context.Context, mdPath, docxPath, pdfPath string) error {
	g, ctx := errgroup.WithContext(ctx)

	if docxPath != "" {
		g.Go(func() error {
			return e.ExportDOCX(ctx, mdPath, docxPath)
		})
	}
	if pdfPath != "" {
		g.Go(func() error {
			return e.ExportPDF(ctx, mdPath, pdfPath)
		})
	}

	return g.Wait()
}

// run invokes pandoc with the given input, output, and extra arguments.
func (e *Exporter) run(ctx context.Context, mdPath, outPath string, extra ...string) error {
	args := append([]string{mdPath, "-o", outPath}, extra...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.pandocPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("pandoc failed for %s: %w: %s", outPath, err, stderr.String())
		}
		return fmt.Errorf("pandoc failed for %s: %w", outPath, err)
	}
	return nil
}
