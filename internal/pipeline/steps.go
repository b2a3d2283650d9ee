package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/policysnap/policysnap/internal/assembler"
	"github.com/policysnap/policysnap/internal/crawler"
	"github.com/policysnap/policysnap/internal/database"
	"github.com/policysnap/policysnap/internal/report"
	"github.com/policysnap/policysnap/internal/snapshot"
)

// CrawlStep fetches the site rooted at the job's start URL.
//
// Design decision: An aborted crawl stores its partial result in the
// job before returning the error. With continue-on-error enabled the
// later steps still snapshot and assemble whatever was fetched.
type CrawlStep struct {
	// spider performs the bounded crawl.
	spider *crawler.Spider
}

// NewCrawlStep creates a crawl step using the given spider.
func NewCrawlStep(spider *crawler.Spider) *CrawlStep {
	return &CrawlStep{spider: spider}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, job *Job) error {
	result, err := s.spider.Crawl(ctx, job.StartURL)
	if result != nil {
		job.Result = result
	}
	if err != nil {
		var aborted *crawler.CrawlAbortedError
		if errors.As(err, &aborted) && aborted.Result != nil {
			job.Result = aborted.Result
		}
		return err
	}
	return nil
}

// SnapshotStep persists the crawl result to a JSON file.
type SnapshotStep struct {
	// path is the snapshot file location.
	path string
}

// NewSnapshotStep creates a snapshot step writing to path.
func NewSnapshotStep(path string) *SnapshotStep {
	return &SnapshotStep{path: path}
}

// Name returns the step name.
func (s *SnapshotStep) Name() string {
	return "snapshot"
}

// Do executes the snapshot step.
func (s *SnapshotStep) Do(_ context.Context, job *Job) error {
	if job.Result == nil {
		return errors.New("no crawl result to snapshot")
	}
	return snapshot.Save(s.path, job.Result)
}

// ArchiveStep stores the crawl result in the run archive.
type ArchiveStep struct {
	// archive is the SQLite run store.
	archive *database.Archive
}

// NewArchiveStep creates an archive step using the given archive.
func NewArchiveStep(archive *database.Archive) *ArchiveStep {
	return &ArchiveStep{archive: archive}
}

// Name returns the step name.
func (s *ArchiveStep) Name() string {
	return "archive"
}

// Do executes the archive step.
func (s *ArchiveStep) Do(ctx context.Context, job *Job) error {
	if job.Result == nil {
		return errors.New("no crawl result to archive")
	}

	runID, err := s.archive.SaveRun(ctx, job.Result)
	if err != nil {
		return err
	}
	job.RunID = runID
	return nil
}

// AssembleStep builds the ordered, deduplicated document from the
// crawl result.
type AssembleStep struct {
	// asm extracts and merges page sections.
	asm *assembler.Assembler
}

// NewAssembleStep creates an assemble step using the given assembler.
func NewAssembleStep(asm *assembler.Assembler) *AssembleStep {
	return &AssembleStep{asm: asm}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assemble step.
func (s *AssembleStep) Do(_ context.Context, job *Job) error {
	if job.Result == nil {
		return errors.New("no crawl result to assemble")
	}
	job.Document = s.asm.Assemble(job.Result)
	return nil
}

// RenderStep writes the assembled document to the output directory.
// Markdown is always written; JSON, DOCX, and PDF are opt-in. Binary
// formats are exported from the Markdown file via pandoc.
type RenderStep struct {
	// outDir is the output directory.
	outDir string

	// title is the document heading.
	title string

	// jsonOut, docxOut, and pdfOut enable the optional formats.
	jsonOut bool
	docxOut bool
	pdfOut  bool

	// exporter runs pandoc conversions.
	exporter *report.Exporter

	// logger for structured logging.
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderTitle sets the document heading.
func WithRenderTitle(title string) RenderStepOption {
	return func(s *RenderStep) {
		s.title = title
	}
}

// WithJSONOutput enables JSON output alongside the Markdown.
func WithJSONOutput(enabled bool) RenderStepOption {
	return func(s *RenderStep) {
		s.jsonOut = enabled
	}
}

// WithDOCXOutput enables DOCX export via pandoc.
func WithDOCXOutput(enabled bool) RenderStepOption {
	return func(s *RenderStep) {
		s.docxOut = enabled
	}
}

// WithPDFOutput enables PDF export via pandoc.
func WithPDFOutput(enabled bool) RenderStepOption {
	return func(s *RenderStep) {
		s.pdfOut = enabled
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a render step writing into outDir.
func NewRenderStep(outDir string, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		outDir:   outDir,
		exporter: report.NewExporter(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(ctx context.Context, job *Job) error {
	if job.Document == nil {
		return errors.New("no document to render")
	}

	if err := os.MkdirAll(s.outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	mdPath := filepath.Join(s.outDir, "document.md")
	if err := s.writeMarkdown(mdPath, job); err != nil {
		return err
	}
	job.RenderedFiles = append(job.RenderedFiles, mdPath)

	if s.jsonOut {
		jsonPath := filepath.Join(s.outDir, "document.json")
		if err := s.writeJSON(jsonPath, job); err != nil {
			return err
		}
		job.RenderedFiles = append(job.RenderedFiles, jsonPath)
	}

	if !s.docxOut && !s.pdfOut {
		return nil
	}

	if !s.exporter.Available() {
		s.logger.Warn("pandoc not found, skipping binary formats")
		return nil
	}

	var docxPath, pdfPath string
	if s.docxOut {
		docxPath = filepath.Join(s.outDir, "document.docx")
	}
	if s.pdfOut {
		pdfPath = filepath.Join(s.outDir, "document.pdf")
	}

	if err := s.exporter.ExportAll(ctx, mdPath, docxPath, pdfPath); err != nil {
		return err
	}
	if docxPath != "" {
		job.RenderedFiles = append(job.RenderedFiles, docxPath)
	}
	if pdfPath != "" {
		job.RenderedFiles = append(job.RenderedFiles, pdfPath)
	}

	return nil
}

// writeMarkdown renders the document to a Markdown file.
func (s *RenderStep) writeMarkdown(path string, job *Job) error {
	f, err := os.Create(path) //nolint:gosec // Output path comes from user flags
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := report.NewMarkdownWriter(f, report.WithTitle(s.title))
	if _, err := w.Write(job.Document); err != nil {
		f.Close()
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return f.Close()
}

// writeJSON renders the document to a JSON file.
func (s *RenderStep) writeJSON(path string, job *Job) error {
	f, err := os.Create(path) //nolint:gosec // Output path comes from user flags
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := report.NewJSONWriter(f, report.WithPrettyPrint())
	if _, err := w.Write(job.Document); err != nil {
		f.Close()
		return fmt.Errorf("failed to render JSON: %w", err)
	}
	return f.Close()
}
