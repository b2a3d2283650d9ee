package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are tuned for small public help-center sites: conservative
// politeness, a hard page cap, and a selector list that matches the
// content containers used by common support platforms.
const (
	// DefaultCrawlDelay is the minimum delay between requests to the
	// same host. 1.2 seconds is deliberately slower than the common
	// 1-second convention; policy crawls are small and not urgent.
	DefaultCrawlDelay = 1200 * time.Millisecond

	// DefaultMaxPages caps the number of pages fetched in one run.
	// Policy sets are dozens of pages; 60 bounds run time without
	// cutting real content.
	DefaultMaxPages = 60

	// DefaultMaxFailures is the number of consecutive fetch failures
	// after which the crawl aborts. Repeated failures usually mean the
	// site is blocking us or the network is down.
	DefaultMaxFailures = 5

	// DefaultTimeout is the per-request network timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultContentSelector locates the main content region of a
	// page. Candidates are tried in order and the one with the most
	// text wins; navigation and footer boilerplate live outside these
	// containers on the sites we target.
	DefaultContentSelector = "article, main, [role=main], .article-content"

	// DefaultUserAgent identifies policysnap in HTTP requests and in
	// robots.txt group matching. A descriptive User-Agent lets site
	// operators identify crawler traffic in their logs.
	DefaultUserAgent = "policysnap/1.0 (+https://github.com/policysnap/policysnap)"

	// DefaultSnapshotFile is the default path for the intermediate
	// crawl snapshot consumed by the build command.
	DefaultSnapshotFile = "pages.json"

	// DefaultOutputDir is where rendered documents are written.
	DefaultOutputDir = "dist"

	// AppName is the application name used for XDG directory paths.
	AppName = "policysnap"
)

// Config holds all configuration options for policysnap.
// It is populated from CLI flags and the optional config file, then
// passed through the application by dependency injection rather than
// global state.
//
// Design decision: a single flat struct instead of nested
// CrawlConfig/BuildConfig structs. The option count is manageable and
// nesting would add indirection without benefit.
type Config struct {
	// StartURL is the URL the crawl begins from.
	StartURL string

	// AllowPatterns restricts traversal to paths matching at least one
	// glob pattern (e.g. "/youtube/*"). Empty means any path on the
	// start host is eligible.
	AllowPatterns []string

	// ContentSelector is the CSS selector list identifying the main
	// content region, shared by link extraction and text extraction.
	ContentSelector string

	// CrawlDelay is the minimum delay between requests to one host.
	CrawlDelay time.Duration

	// MaxPages is the hard cap on pages fetched per run.
	MaxPages int

	// MaxFailures is the consecutive-failure threshold that aborts
	// the crawl.
	MaxFailures int

	// Timeout is the per-request network timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request and
	// matched against robots.txt groups.
	UserAgent string

	// SnapshotFile is the path of the intermediate JSON snapshot
	// written by crawl and read by build.
	SnapshotFile string

	// OutputDir is the directory rendered documents are written to.
	OutputDir string

	// Title overrides the rendered document title. Empty uses a title
	// derived from the start URL.
	Title string

	// JSONOutput additionally renders the document as JSON.
	JSONOutput bool

	// DOCXOutput additionally exports the document to DOCX via pandoc.
	DOCXOutput bool

	// PDFOutput additionally exports the document to PDF via pandoc.
	PDFOutput bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .policysnap in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory for the SQLite run archive.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether crawl runs are archived to SQLite.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; callers override
// specific values from flags after creation.
func NewConfig() *Config {
	return &Config{
		ContentSelector: DefaultContentSelector,
		CrawlDelay:      DefaultCrawlDelay,
		MaxPages:        DefaultMaxPages,
		MaxFailures:     DefaultMaxFailures,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		SnapshotFile:    DefaultSnapshotFile,
		OutputDir:       DefaultOutputDir,
		SaveToDB:        true,
	}
}

// Validate checks the configuration for invalid values.
// It returns the first sentinel error encountered, usable with
// errors.Is for programmatic handling.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.MaxFailures <= 0 {
		return ErrInvalidMaxFailures
	}
	return nil
}

// XDGDataDir returns the XDG data directory for policysnap.
// On Linux: ~/.local/share/policysnap
// On macOS: ~/Library/Application Support/policysnap
// On Windows: %LOCALAPPDATA%\policysnap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
