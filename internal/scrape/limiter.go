package scrape

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a minimum interval between requests to the same
// host. Burst 1 turns the token bucket into exactly that contract. The
// map is mutex-guarded so the limiter stays correct if the pipeline is
// ever parallelized across sources.
type HostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
}

func NewHostLimiter(minInterval time.Duration) *HostLimiter {
	r := rate.Inf
	if minInterval > 0 {
		r = rate.Every(minInterval)
	}
	return &HostLimiter{
		m: make(map[string]*rate.Limiter),
		r: r,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, 1)
	hl.m[host] = lim
	return lim
}

// Wait blocks until the host's interval has elapsed (or ctx is done).
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	if host == "" {
		host = "_"
	}
	return hl.limiterFor(host).Wait(ctx)
}

// WaitURL rate-limits by the URL's host.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.Wait(ctx, "_")
	}
	return hl.Wait(ctx, u.Host)
}
