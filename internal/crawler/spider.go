package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/policysnap/policysnap/internal/content"
	"github.com/policysnap/policysnap/internal/model"
)

// Spider performs one bounded breadth-first crawl of in-scope policy
// pages. All crawl state (visited set, queue, robots cache) lives on
// the Spider instance and is torn down with it: one Spider, one run.
//
// Design decision: traversal is single-threaded. The politeness delay
// dominates wall-clock time on a same-host crawl, so concurrency would
// buy nothing while complicating the per-host serialization invariant.
type Spider struct {
	// client is the shared HTTP client, pre-configured with timeout
	// and the cross-host redirect policy.
	client *http.Client

	// maxPages is the hard cap on fetched pages per run. Once reached,
	// remaining queued URLs are discarded silently.
	maxPages int

	// maxFailures is the consecutive fetch-failure threshold that
	// aborts the crawl.
	maxFailures int

	// delay is the minimum time between requests to one host.
	delay time.Duration

	// userAgent is sent with every request and matched against
	// robots.txt groups.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// allowPatterns are the scope rule's path glob patterns.
	allowPatterns []string

	// selector identifies the main content region for link discovery.
	selector string

	logger *slog.Logger
}

// Option configures a Spider.
type Option func(*Spider)

// WithMaxPages sets the maximum number of pages to fetch.
func WithMaxPages(n int) Option {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithMaxFailures sets the consecutive-failure abort threshold.
func WithMaxFailures(n int) Option {
	return func(s *Spider) {
		s.maxFailures = n
	}
}

// WithDelay sets the per-host politeness delay.
func WithDelay(d time.Duration) Option {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithAllowPatterns sets the scope rule's path glob patterns.
// Only links whose path matches at least one pattern are fetched.
// Empty means any path on the start host is eligible.
func WithAllowPatterns(patterns []string) Option {
	return func(s *Spider) {
		s.allowPatterns = patterns
	}
}

// WithContentSelector sets the CSS selector list for the main content
// region. Only anchors inside that region are considered candidate
// links; this must match the selector the assembler extracts text with.
func WithContentSelector(selector string) Option {
	return func(s *Spider) {
		s.selector = selector
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider using the given pre-configured client.
//
// Design decision: we require an external client because transport
// concerns (timeout, redirect policy) are owned by the webclient
// package, and tests substitute httptest-backed clients.
func NewSpider(client *http.Client, opts ...Option) *Spider {
	s := &Spider{
		client:      client,
		maxPages:    60,
		maxFailures: 5,
		delay:       time.Second,
		userAgent:   "policysnap/1.0",
		maxBodySize: model.MaxHTMLSize,
		selector:    "article, main, [role=main]",
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl traverses breadth-first from startURL and returns the fetched
// pages in discovery order plus the log of skipped links.
//
// Error contract: a FetchError is returned when the start URL itself
// is unreachable or robots-disallowed; a CrawlAbortedError when the
// consecutive-failure threshold trips (carrying the partial result).
// All other failures are recorded as skips. Context cancellation is
// observed at each queue-pop boundary and returns the partial result
// with a nil error.
func (s *Spider) Crawl(ctx context.Context, startURL string) (*model.CrawlResult, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, &FetchError{URL: startURL, Err: err}
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, &FetchError{URL: startURL, Err: fmt.Errorf("unsupported scheme %q", start.Scheme)}
	}

	normStart := Normalize(start)
	scope := NewScope(start, s.allowPatterns)
	limiter := newHostLimiter(s.delay)
	robots := newRobotsCache(s.client, s.userAgent, limiter, s.logger)

	result := model.NewCrawlResult(normStart)

	// Robots compliance is checked before the first fetch to a host;
	// a disallowed start URL is fatal.
	if !robots.Allowed(ctx, start) {
		return nil, &FetchError{URL: normStart, RobotsDisallowed: true}
	}

	// seen holds every URL ever enqueued or recorded, keeping the
	// visited set and the queue disjoint: a URL enters the queue at
	// most once, so it is fetched at most once per run.
	seen := map[string]bool{normStart: true}
	queue := []string{normStart}
	consecutiveFailures := 0

	for len(queue) > 0 && result.PageCount() < s.maxPages {
		select {
		case <-ctx.Done():
			s.logger.Warn("crawl cancelled, returning partial result",
				"fetched", result.PageCount(),
				"queued", len(queue),
			)
			result.CompletedAt = time.Now().UTC()
			return result, nil
		default:
		}

		pageURL := queue[0]
		queue = queue[1:]

		u, err := url.Parse(pageURL)
		if err != nil {
			result.AddSkipped(pageURL, model.SkipFetchFailed)
			continue
		}

		// The start URL was robots-checked above; discovered links are
		// checked here, after the queue pop.
		if pageURL != normStart && !robots.Allowed(ctx, u) {
			s.logger.Debug("skipping robots-disallowed URL", "url", pageURL)
			result.AddSkipped(pageURL, model.SkipRobotsDisallowed)
			continue
		}

		if err := limiter.Wait(ctx, u.Host); err != nil {
			result.CompletedAt = time.Now().UTC()
			return result, nil
		}

		page, links, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			if pageURL == normStart {
				return nil, &FetchError{URL: normStart, Err: err}
			}

			s.logger.Warn("fetch failed, skipping", "url", pageURL, "error", err)
			result.AddSkipped(pageURL, model.SkipFetchFailed)

			consecutiveFailures++
			if consecutiveFailures >= s.maxFailures {
				result.CompletedAt = time.Now().UTC()
				return result, &CrawlAbortedError{
					Consecutive: consecutiveFailures,
					Result:      result,
				}
			}
			continue
		}
		consecutiveFailures = 0

		result.AddPage(page)
		s.logger.Info("fetched page",
			"url", page.URL,
			"title", page.Title,
			"links", len(links),
			"pages", result.PageCount(),
		)

		for _, link := range links {
			norm := NormalizeString(link)
			if seen[norm] {
				continue
			}
			seen[norm] = true

			lu, err := url.Parse(norm)
			if err != nil {
				continue
			}
			if !scope.Allows(lu) {
				result.AddSkipped(norm, model.SkipOutOfScope)
				continue
			}
			queue = append(queue, norm)
		}
	}

	if len(queue) > 0 {
		// Page cap reached; remaining queued URLs are discarded.
		s.logger.Debug("page cap reached", "discarded", len(queue))
	}

	result.CompletedAt = time.Now().UTC()
	return result, nil
}

// fetchPage fetches one page and extracts its title and candidate
// links from the main content region.
func (s *Spider) fetchPage(ctx context.Context, pageURL string) (*model.PageRecord, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return nil, nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, nil, err
	}

	page := &model.PageRecord{
		URL:       pageURL,
		HTML:      string(body),
		FetchedAt: time.Now().UTC(),
	}
	page.ComputeHash()
	page.TruncateHTML()

	// Same-host redirects may have moved us; resolve links against the
	// final URL, not the requested one.
	base := resp.Request.URL

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		// Unparseable HTML still yields a record; the assembler's
		// extraction degrades gracefully on it too.
		s.logger.Debug("page parse failed, keeping raw record", "url", pageURL, "error", err)
		return page, nil, nil
	}

	page.Title = content.Title(doc)
	links := content.ExtractLinks(page.HTML, base, s.selector)

	return page, links, nil
}
