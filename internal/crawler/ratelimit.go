package crawler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter enforces the minimum inter-request delay per host.
// Requests to the same host are strictly serialized in time: each
// Wait call blocks until the host's token bucket allows one event
// per configured delay. Different hosts do not delay each other.
type hostLimiter struct {
	mu       sync.Mutex
	delay    time.Duration
	limiters map[string]*rate.Limiter
}

// newHostLimiter creates a limiter allowing one request per delay per
// host. A zero delay disables rate limiting.
func newHostLimiter(delay time.Duration) *hostLimiter {
	return &hostLimiter{
		delay:    delay,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to the host is permitted or the context
// is cancelled.
func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	return h.limiterFor(host).Wait(ctx)
}

// limiterFor returns the host's limiter, creating it on first use.
// The first request to a host is not delayed; the burst of one token
// is available immediately.
func (h *hostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		limit := rate.Inf
		if h.delay > 0 {
			limit = rate.Every(h.delay)
		}
		l = rate.NewLimiter(limit, 1)
		h.limiters[host] = l
	}
	return l
}
