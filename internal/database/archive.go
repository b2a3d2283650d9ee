package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/policysnap/policysnap/internal/model"
)

// Archive provides SQLite-backed storage for completed crawl runs.
// Every archived run keeps its full page records, so assembly can be
// re-run later against any historical crawl without touching the
// network.
//
// Design decision: one database file for all runs rather than a file
// per run. Listing and loading past runs is a single query, and the
// data volume (dozens of pages per run) never justifies sharding.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// ErrRunNotFound is returned when the requested run does not exist.
var ErrRunNotFound = errors.New("run not found in archive")

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most
	// use cases.
	EnableWAL bool
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an Archive at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, "policysnap.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite supports one writer; more connections only help readers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the path of the underlying database file.
func (a *Archive) Path() string {
	return a.dbPath
}

// createTables creates the archive schema if it doesn't exist.
func (a *Archive) createTables() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	start_url    TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	page_count   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	url        TEXT NOT NULL,
	title      TEXT NOT NULL,
	html       TEXT NOT NULL,
	fetched_at TEXT NOT NULL,
	hash       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id, position);
`
	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary describes one archived run for listings.
type RunSummary struct {
	// ID is the archive's run identifier.
	ID int64

	// StartURL is the URL the run crawled from.
	StartURL string

	// StartedAt is when the run began.
	StartedAt time.Time

	// PageCount is the number of pages the run fetched.
	PageCount int
}

// SaveRun archives a completed crawl run and returns its ID.
// The run and its pages are written in one transaction; a failed save
// leaves no partial run behind.
func (a *Archive) SaveRun(ctx context.Context, result *model.CrawlResult) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (start_url, started_at, completed_at, page_count) VALUES (?, ?, ?, ?)`,
		result.StartURL,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.CompletedAt.UTC().Format(time.RFC3339Nano),
		result.PageCount(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for i, page := range result.Pages {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pages (run_id, position, url, title, html, fetched_at, hash) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, page.URL, page.Title, page.HTML,
			page.FetchedAt.UTC().Format(time.RFC3339Nano), page.Hash,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns summaries of all archived runs, newest first.
func (a *Archive) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, start_url, started_at, page_count FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]RunSummary, 0)
	for rows.Next() {
		var (
			s       RunSummary
			started string
		)
		if err := rows.Scan(&s.ID, &s.StartURL, &started, &s.PageCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetRun loads one archived run with all its pages in crawl order.
func (a *Archive) GetRun(ctx context.Context, runID int64) (*model.CrawlResult, error) {
	var (
		result    model.CrawlResult
		started   string
		completed string
		pageCount int
	)

	err := a.db.QueryRowContext(ctx,
		`SELECT start_url, started_at, completed_at, page_count FROM runs WHERE id = ?`, runID,
	).Scan(&result.StartURL, &started, &completed, &pageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	if result.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	if result.CompletedAt, err = time.Parse(time.RFC3339Nano, completed); err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT url, title, html, fetched_at, hash FROM pages WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages for run %d: %w", runID, err)
	}
	defer rows.Close()

	result.Pages = make([]*model.PageRecord, 0, pageCount)
	for rows.Next() {
		var (
			page    model.PageRecord
			fetched string
		)
		if err := rows.Scan(&page.URL, &page.Title, &page.HTML, &fetched, &page.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if page.FetchedAt, err = time.Parse(time.RFC3339Nano, fetched); err != nil {
			return nil, fmt.Errorf("failed to parse page timestamp: %w", err)
		}
		result.Pages = append(result.Pages, &page)
	}

	return &result, rows.Err()
}

// LatestRun loads the most recently archived run.
func (a *Archive) LatestRun(ctx context.Context) (*model.CrawlResult, error) {
	var runID int64
	err := a.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	return a.GetRun(ctx, runID)
}
