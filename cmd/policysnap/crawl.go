package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/policysnap/policysnap/internal/config"
	"github.com/policysnap/policysnap/internal/crawler"
	"github.com/policysnap/policysnap/internal/database"
	"github.com/policysnap/policysnap/internal/log"
	"github.com/policysnap/policysnap/internal/pipeline"
	"github.com/policysnap/policysnap/internal/webclient"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <start-url>",
		Short: "Crawl policy pages starting from a URL",
		Long: `Crawl fetches the start URL and follows in-scope links found inside
the main content region of each page. The crawl never leaves the start
URL's host, honors robots.txt, and waits between requests to the same
host.

The result is written to a JSON snapshot consumed by the build command,
and archived to a local SQLite database for later rebuilds.

Examples:
  # Crawl YouTube policy pages
  policysnap crawl --allow "/youtube/*" https://support.google.com/youtube/answer/9288567

  # Faster crawl of a site you operate
  policysnap crawl --delay 100ms --max-pages 120 https://docs.example.com/policies

  # Skip the SQLite archive
  policysnap crawl --no-archive https://example.com/terms

Configuration file (.policysnap) example:
  sites:
    support.google.com:
      allow:
        - "/youtube/*"
      selector: "article"
      delay: 2s`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Scope flags
	cmd.Flags().StringSliceP("allow", "a", nil,
		"Path glob patterns eligible for traversal (e.g. \"/youtube/*\")")
	cmd.Flags().StringP("selector", "s", config.DefaultContentSelector,
		"CSS selector list for the main content region")

	// Politeness flags
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Minimum delay between requests to the same host")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request network timeout")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header and robots.txt identity")

	// Bound flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch")
	cmd.Flags().IntP("max-failures", "f", config.DefaultMaxFailures,
		"Consecutive fetch failures before the crawl aborts")

	// Output flags
	cmd.Flags().StringP("out", "o", config.DefaultSnapshotFile,
		"Snapshot file path")
	cmd.Flags().Bool("no-archive", false,
		"Do not archive the run to the SQLite database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .policysnap in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current page...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	var err error

	cfg.AllowPatterns, err = cmd.Flags().GetStringSlice("allow")
	if err != nil {
		return nil, err
	}

	cfg.ContentSelector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxFailures, err = cmd.Flags().GetInt("max-failures")
	if err != nil {
		return nil, err
	}

	cfg.SnapshotFile, err = cmd.Flags().GetString("out")
	if err != nil {
		return nil, err
	}

	noArchive, err := cmd.Flags().GetBool("no-archive")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noArchive

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	// Always archive to the XDG data directory unless disabled
	cfg.DBDir = config.XDGDataDir()

	// Merge per-host overrides for the start URL's host. Flags set the
	// baseline; the config file wins where it names a value.
	if u, err := url.Parse(cfg.StartURL); err == nil {
		cfg.ApplySite(u.Hostname())
	}

	return cfg, nil
}

// runCrawl executes the crawl pipeline.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.StartURL == "" {
		return config.ErrNoStartURL
	}

	logger.Info("starting crawl",
		"url", cfg.StartURL,
		"maxPages", cfg.MaxPages,
		"delay", cfg.CrawlDelay,
		"allow", cfg.AllowPatterns,
	)

	client := webclient.New(webclient.WithTimeout(cfg.Timeout))

	spider := crawler.NewSpider(client,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxFailures(cfg.MaxFailures),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithAllowPatterns(cfg.AllowPatterns),
		crawler.WithContentSelector(cfg.ContentSelector),
		crawler.WithLogger(logger),
	)

	// Continue-on-error: an aborted crawl still snapshots and archives
	// its partial result. The first error comes back at the end.
	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddStep(pipeline.NewCrawlStep(spider))
	p.AddStep(pipeline.NewSnapshotStep(cfg.SnapshotFile))

	if cfg.SaveToDB {
		archive, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()
		logger.Info("archive opened", "dir", cfg.DBDir)

		p.AddStep(pipeline.NewArchiveStep(archive))
	}

	job := &pipeline.Job{StartURL: cfg.StartURL}
	if err := p.Execute(ctx, job); err != nil {
		return err
	}

	if job.Result != nil {
		logger.Info("crawl finished",
			"pages", job.Result.PageCount(),
			"skipped", len(job.Result.Skipped),
			"snapshot", cfg.SnapshotFile,
		)
		fmt.Printf("crawled %d page(s), snapshot written to %s\n",
			job.Result.PageCount(), cfg.SnapshotFile)
	}

	return job.Err
}
