package webclient

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrCrossHostRedirect is returned (wrapped in *url.Error by net/http)
// when a response redirects to a different host. Cross-host redirect
// targets are out of crawl scope, so the fetch fails rather than
// silently following the site somewhere else.
var ErrCrossHostRedirect = fmt.Errorf("cross-host redirect refused")

// Option configures the HTTP client.
type Option func(*settings)

type settings struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithTransport sets a custom transport. Used by tests to point the
// client at httptest servers with custom TLS settings.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) {
		s.transport = rt
	}
}

// New creates the HTTP client shared by all crawl fetches.
//
// The client follows same-host redirects up to the stdlib 10-hop limit
// but refuses redirects whose target host differs from the host of the
// original request. A refused redirect surfaces as a fetch error for
// that URL; the crawler records it and moves on.
func New(opts ...Option) *http.Client {
	s := &settings{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	return &http.Client{
		Timeout:   s.timeout,
		Transport: s.transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			origin := via[0].URL.Hostname()
			if !strings.EqualFold(req.URL.Hostname(), origin) {
				return fmt.Errorf("%w: %s -> %s", ErrCrossHostRedirect, origin, req.URL.Hostname())
			}
			return nil
		},
	}
}
