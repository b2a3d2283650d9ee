package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/policysnap/policysnap/internal/assembler"
	"github.com/policysnap/policysnap/internal/crawler"
	"github.com/policysnap/policysnap/internal/database"
	"github.com/policysnap/policysnap/internal/model"
	"github.com/policysnap/policysnap/internal/snapshot"
)

func jobWithResult() *Job {
	fetched := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	result := &model.CrawlResult{
		StartURL:    "https://example.com/policy",
		StartedAt:   fetched.Add(-time.Minute),
		CompletedAt: fetched,
		Pages: []*model.PageRecord{
			{
				URL:       "https://example.com/policy",
				Title:     "Policies",
				HTML:      "<html><body><article><h1>Terms</h1><p>Follow the rules.</p></article></body></html>",
				FetchedAt: fetched,
			},
		},
	}
	result.Pages[0].ComputeHash()

	return &Job{StartURL: result.StartURL, Result: result}
}

// TestCrawlStep tests crawling through the pipeline.
func TestCrawlStep(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>Home</title></head><body><p>hello</p></body></html>")) //nolint:errcheck
	}))
	defer srv.Close()

	spider := crawler.NewSpider(srv.Client(), crawler.WithDelay(0), crawler.WithLogger(quietLogger()))
	step := NewCrawlStep(spider)

	job := &Job{StartURL: srv.URL}
	if err := step.Do(context.Background(), job); err != nil {
		t.Fatalf("failed to crawl: %v", err)
	}

	if job.Result == nil || job.Result.PageCount() != 1 {
		t.Fatalf("expected one crawled page, got %+v", job.Result)
	}
	if job.Result.Pages[0].Title != "Home" {
		t.Errorf("Title = %s, want Home", job.Result.Pages[0].Title)
	}
}

// TestSnapshotStep tests snapshot persistence.
func TestSnapshotStep(t *testing.T) {
	t.Parallel()

	t.Run("writes snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "pages.json")
		job := jobWithResult()

		if err := NewSnapshotStep(path).Do(context.Background(), job); err != nil {
			t.Fatalf("failed to snapshot: %v", err)
		}

		loaded, err := snapshot.Load(path)
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if loaded.PageCount() != 1 {
			t.Errorf("PageCount = %d, want 1", loaded.PageCount())
		}
	})

	t.Run("requires a result", func(t *testing.T) {
		t.Parallel()

		step := NewSnapshotStep(filepath.Join(t.TempDir(), "pages.json"))
		if err := step.Do(context.Background(), &Job{}); err == nil {
			t.Error("expected error without crawl result")
		}
	})
}

// TestArchiveStep tests archiving through the pipeline.
func TestArchiveStep(t *testing.T) {
	t.Parallel()

	archive, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer archive.Close()

	job := jobWithResult()
	if err := NewArchiveStep(archive).Do(context.Background(), job); err != nil {
		t.Fatalf("failed to archive: %v", err)
	}

	if job.RunID == 0 {
		t.Error("expected run ID to be set")
	}

	loaded, err := archive.GetRun(context.Background(), job.RunID)
	if err != nil {
		t.Fatalf("failed to load archived run: %v", err)
	}
	if loaded.StartURL != job.Result.StartURL {
		t.Errorf("StartURL = %s, want %s", loaded.StartURL, job.Result.StartURL)
	}
}

// TestAssembleStep tests document assembly through the pipeline.
func TestAssembleStep(t *testing.T) {
	t.Parallel()

	asm := assembler.New(assembler.WithLogger(quietLogger()))
	job := jobWithResult()

	if err := NewAssembleStep(asm).Do(context.Background(), job); err != nil {
		t.Fatalf("failed to assemble: %v", err)
	}

	if job.Document == nil || job.Document.SectionCount() == 0 {
		t.Fatalf("expected assembled sections, got %+v", job.Document)
	}
	if job.Document.Sections[0].Heading != "Terms" {
		t.Errorf("Heading = %s, want Terms", job.Document.Sections[0].Heading)
	}
}

// TestRenderStep tests file output.
func TestRenderStep(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown and JSON", func(t *testing.T) {
		t.Parallel()

		outDir := t.TempDir()
		job := jobWithResult()
		job.Document = assembler.New(assembler.WithLogger(quietLogger())).Assemble(job.Result)

		step := NewRenderStep(outDir,
			WithRenderTitle("Example Policies"),
			WithJSONOutput(true),
			WithRenderLogger(quietLogger()),
		)
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("failed to render: %v", err)
		}

		if len(job.RenderedFiles) != 2 {
			t.Fatalf("RenderedFiles = %v, want two entries", job.RenderedFiles)
		}

		md, err := os.ReadFile(filepath.Join(outDir, "document.md"))
		if err != nil {
			t.Fatalf("failed to read markdown output: %v", err)
		}
		if !strings.Contains(string(md), "# Example Policies") {
			t.Error("markdown output missing document heading")
		}

		if _, err := os.Stat(filepath.Join(outDir, "document.json")); err != nil {
			t.Errorf("JSON output missing: %v", err)
		}
	})

	t.Run("requires a document", func(t *testing.T) {
		t.Parallel()

		step := NewRenderStep(t.TempDir(), WithRenderLogger(quietLogger()))
		if err := step.Do(context.Background(), &Job{}); err == nil {
			t.Error("expected error without document")
		}
	})
}
