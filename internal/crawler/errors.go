package crawler

import (
	"fmt"

	"github.com/policysnap/policysnap/internal/model"
)

// FetchError is the fatal error returned when the start URL itself
// cannot be crawled: unreachable, non-HTML, or disallowed by the
// host's robots.txt. Failures on discovered links are recorded as
// skips instead and never produce a FetchError.
type FetchError struct {
	// URL is the start URL that failed.
	URL string

	// Err is the underlying cause, nil when RobotsDisallowed is set.
	Err error

	// RobotsDisallowed is true when robots.txt forbids fetching the
	// start URL for our user agent.
	RobotsDisallowed bool
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.RobotsDisallowed {
		return fmt.Sprintf("fetch %s: disallowed by robots.txt", e.URL)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// CrawlAbortedError is returned when the consecutive-failure threshold
// is exceeded. It carries the partial result accumulated before the
// abort so callers can still snapshot and assemble what was fetched.
type CrawlAbortedError struct {
	// Consecutive is the failure count that tripped the threshold.
	Consecutive int

	// Result holds the pages fetched before the abort.
	Result *model.CrawlResult
}

// Error implements the error interface.
func (e *CrawlAbortedError) Error() string {
	return fmt.Sprintf("crawl aborted after %d consecutive fetch failures", e.Consecutive)
}
