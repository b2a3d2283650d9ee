package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsSize caps the robots.txt body we read. Google's parser
// reads at most 500KiB; anything larger is not a real robots file.
const maxRobotsSize = 512 * 1024

// robotsCache fetches and caches parsed robots.txt rules per host for
// the duration of one crawl run. The cache is owned by the Spider and
// torn down with it; rules are never shared across runs.
type robotsCache struct {
	// client performs the robots.txt fetches, sharing the crawl's
	// timeout and redirect policy.
	client *http.Client

	// userAgent is matched against robots.txt user-agent groups.
	userAgent string

	// limiter is the crawl's per-host limiter; robots fetches count
	// against the same politeness budget as page fetches.
	limiter *hostLimiter

	logger *slog.Logger

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// newRobotsCache creates an empty robots rule cache.
func newRobotsCache(client *http.Client, userAgent string, limiter *hostLimiter, logger *slog.Logger) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		limiter:   limiter,
		logger:    logger,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether robots.txt permits fetching the URL for the
// configured user agent. The host's robots.txt is fetched on first
// use and cached for the run.
//
// Failure semantics follow robotstxt's status-code rules: 4xx means
// no restrictions, 5xx and network errors mean everything disallowed.
// That keeps a conservative posture when a site is misbehaving without
// treating a missing robots.txt as a ban.
func (rc *robotsCache) Allowed(ctx context.Context, u *url.URL) bool {
	data := rc.rulesFor(ctx, u)

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return data.TestAgent(path, rc.userAgent)
}

// rulesFor returns the cached rules for the URL's host, fetching
// robots.txt if this is the first request to that host.
func (rc *robotsCache) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := u.Host

	rc.mu.Lock()
	if data, ok := rc.hosts[host]; ok {
		rc.mu.Unlock()
		return data
	}
	rc.mu.Unlock()

	data := rc.fetch(ctx, u)

	rc.mu.Lock()
	rc.hosts[host] = data
	rc.mu.Unlock()

	return data
}

// fetch retrieves and parses the host's robots.txt.
func (rc *robotsCache) fetch(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	disallowAll := func() *robotstxt.RobotsData {
		data, err := robotstxt.FromStatusAndBytes(http.StatusServiceUnavailable, nil)
		if err != nil {
			// FromStatusAndBytes cannot fail for a 5xx status; guard anyway.
			return &robotstxt.RobotsData{}
		}
		return data
	}

	if err := rc.limiter.Wait(ctx, u.Host); err != nil {
		return disallowAll()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return disallowAll()
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		rc.logger.Warn("robots.txt fetch failed, disallowing host",
			"host", u.Host,
			"error", err,
		)
		return disallowAll()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return disallowAll()
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		rc.logger.Warn("robots.txt parse failed, disallowing host",
			"host", u.Host,
			"error", err,
		)
		return disallowAll()
	}

	rc.logger.Debug("robots.txt cached", "host", u.Host, "status", resp.StatusCode)
	return data
}
