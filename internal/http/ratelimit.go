package http

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const defaultPostsPerMinute = 60

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientLimiter
	limit        rate.Limit
	burst        int
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter allows perMinute requests per client, refilled evenly over
// the minute. Values below one fall back to the default.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		perMinute = defaultPostsPerMinute
	}
	rl := &rateLimiter{
		clients:     make(map[string]*clientLimiter),
		limit:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:       perMinute,
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries(time.Now().Add(-10 * time.Minute))
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a request from clientIP fits in its bucket.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	client, ok := rl.clients[clientIP]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()
	rl.mu.Unlock()

	if client.limiter.Allow() {
		return true
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false
}

func (rl *rateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
