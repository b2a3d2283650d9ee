package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/policysnap/policysnap/internal/assembler"
	"github.com/policysnap/policysnap/internal/config"
	"github.com/policysnap/policysnap/internal/database"
	"github.com/policysnap/policysnap/internal/log"
	"github.com/policysnap/policysnap/internal/model"
	"github.com/policysnap/policysnap/internal/pipeline"
	"github.com/policysnap/policysnap/internal/snapshot"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble a document from a crawl snapshot",
		Long: `Build reads a crawl snapshot, extracts the main content of every
page, deduplicates repeated passages, and renders the assembled
document. Markdown is always written; JSON, DOCX, and PDF are opt-in.
DOCX and PDF require pandoc on PATH (PDF additionally needs xelatex).

Instead of a snapshot file, --run rebuilds from an archived crawl
(see "policysnap runs" for IDs; --run latest picks the newest).

Examples:
  # Build from the default snapshot
  policysnap build

  # Build every format with a custom title
  policysnap build --json --docx --pdf --title "YouTube Policies"

  # Rebuild from the most recent archived crawl
  policysnap build --run latest`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("in", "i", config.DefaultSnapshotFile,
		"Snapshot file to assemble from")
	cmd.Flags().StringP("run", "r", "",
		"Rebuild from an archived run instead (an ID or \"latest\")")
	cmd.Flags().StringP("outdir", "o", config.DefaultOutputDir,
		"Directory for rendered documents")
	cmd.Flags().StringP("selector", "s", config.DefaultContentSelector,
		"CSS selector list for the main content region")
	cmd.Flags().StringP("title", "T", "",
		"Document heading (default derives from the content)")
	cmd.Flags().BoolP("json", "j", false,
		"Additionally render the document as JSON")
	cmd.Flags().Bool("docx", false,
		"Additionally export DOCX via pandoc")
	cmd.Flags().Bool("pdf", false,
		"Additionally export PDF via pandoc")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	if cfg.SnapshotFile, err = cmd.Flags().GetString("in"); err != nil {
		return err
	}
	runRef, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}
	if cfg.OutputDir, err = cmd.Flags().GetString("outdir"); err != nil {
		return err
	}
	if cfg.ContentSelector, err = cmd.Flags().GetString("selector"); err != nil {
		return err
	}
	if cfg.Title, err = cmd.Flags().GetString("title"); err != nil {
		return err
	}
	if cfg.JSONOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.DOCXOutput, err = cmd.Flags().GetBool("docx"); err != nil {
		return err
	}
	if cfg.PDFOutput, err = cmd.Flags().GetBool("pdf"); err != nil {
		return err
	}
	cfg.DBDir = config.XDGDataDir()

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runBuild(ctx, cfg, runRef, logger)
}

// runBuild loads the crawl result and executes the assemble and render
// pipeline.
func runBuild(ctx context.Context, cfg *config.Config, runRef string, logger *slog.Logger) error {
	result, err := loadResult(ctx, cfg, runRef, logger)
	if err != nil {
		return err
	}

	asm := assembler.New(
		assembler.WithContentSelector(cfg.ContentSelector),
		assembler.WithLogger(logger),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddStep(pipeline.NewAssembleStep(asm))
	p.AddStep(pipeline.NewRenderStep(cfg.OutputDir,
		pipeline.WithRenderTitle(cfg.Title),
		pipeline.WithJSONOutput(cfg.JSONOutput),
		pipeline.WithDOCXOutput(cfg.DOCXOutput),
		pipeline.WithPDFOutput(cfg.PDFOutput),
		pipeline.WithRenderLogger(logger),
	))

	job := &pipeline.Job{StartURL: result.StartURL, Result: result}
	if err := p.Execute(ctx, job); err != nil {
		return err
	}

	logger.Info("build finished",
		"sections", job.Document.SectionCount(),
		"files", job.RenderedFiles,
	)
	for _, f := range job.RenderedFiles {
		fmt.Println(f)
	}

	return nil
}

// loadResult reads the crawl result from the snapshot file or, when
// runRef is set, from the run archive.
func loadResult(ctx context.Context, cfg *config.Config, runRef string, logger *slog.Logger) (*model.CrawlResult, error) {
	if runRef == "" {
		result, err := snapshot.Load(cfg.SnapshotFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot (run \"policysnap crawl\" first): %w", err)
		}
		logger.Info("snapshot loaded", "file", cfg.SnapshotFile, "pages", result.PageCount())
		return result, nil
	}

	archive, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	var result *model.CrawlResult
	if runRef == "latest" {
		result, err = archive.LatestRun(ctx)
	} else {
		var runID int64
		runID, err = strconv.ParseInt(runRef, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid run reference %q: use an ID or \"latest\"", runRef)
		}
		result, err = archive.GetRun(ctx, runID)
	}
	if errors.Is(err, database.ErrRunNotFound) {
		return nil, fmt.Errorf("no archived run %q (see \"policysnap runs\")", runRef)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load archived run: %w", err)
	}

	logger.Info("archived run loaded", "run", runRef, "pages", result.PageCount())
	return result, nil
}
