package model

import "time"

// SkipReason explains why a discovered link was not fetched.
type SkipReason string

// Skip reasons recorded during a crawl. These are informational, not
// errors: skipped links never abort a run.
const (
	// SkipOutOfScope marks links whose host or path falls outside the
	// configured scope rule.
	SkipOutOfScope SkipReason = "out-of-scope"

	// SkipRobotsDisallowed marks links the host's robots.txt disallows
	// for our user agent.
	SkipRobotsDisallowed SkipReason = "robots-disallowed"

	// SkipFetchFailed marks links whose fetch failed with a network or
	// HTTP error.
	SkipFetchFailed SkipReason = "fetch-failed"
)

// SkippedLink records a discovered URL that was never turned into a
// PageRecord, together with the reason.
type SkippedLink struct {
	// URL is the normalized URL that was skipped.
	URL string `json:"url"`

	// Reason classifies the skip.
	Reason SkipReason `json:"reason"`
}

// CrawlResult is the complete output of one crawl run: the fetched
// pages in breadth-first discovery order plus the log of links that
// were discovered but never fetched.
//
// Design decision: skipped links are part of the result rather than
// log-only output because the build step reports them and tests assert
// on them. They are cheap to carry (URL + reason).
type CrawlResult struct {
	// StartURL is the normalized URL the crawl started from.
	StartURL string `json:"start_url"`

	// StartedAt is when the crawl began, in UTC.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the crawl finished or was cancelled, in UTC.
	CompletedAt time.Time `json:"completed_at"`

	// Pages holds the fetched pages in discovery order.
	Pages []*PageRecord `json:"pages"`

	// Skipped holds links that were discovered but not fetched.
	Skipped []SkippedLink `json:"skipped,omitempty"`
}

// NewCrawlResult creates an empty CrawlResult for the given start URL.
func NewCrawlResult(startURL string) *CrawlResult {
	return &CrawlResult{
		StartURL:  startURL,
		StartedAt: time.Now().UTC(),
		Pages:     make([]*PageRecord, 0),
		Skipped:   make([]SkippedLink, 0),
	}
}

// AddPage appends a fetched page to the result.
func (r *CrawlResult) AddPage(p *PageRecord) {
	r.Pages = append(r.Pages, p)
}

// AddSkipped records a link that was discovered but not fetched.
func (r *CrawlResult) AddSkipped(url string, reason SkipReason) {
	r.Skipped = append(r.Skipped, SkippedLink{URL: url, Reason: reason})
}

// PageCount returns the number of fetched pages.
func (r *CrawlResult) PageCount() int {
	return len(r.Pages)
}
