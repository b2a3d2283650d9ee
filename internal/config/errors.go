package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() and name the specific field
// that is wrong.
//
// Design decision: package-level sentinel errors rather than errors
// created inside Validate() so callers can use errors.Is() while still
// getting a human-readable message.
var (
	// ErrNoStartURL is returned when no start URL was provided.
	ErrNoStartURL = errors.New("no start URL specified: provide a start URL as the first argument")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	// A cap of zero would fetch nothing, including the start URL.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidMaxFailures is returned when the consecutive-failure
	// threshold is not positive.
	ErrInvalidMaxFailures = errors.New("invalid max failures: must be positive")
)
