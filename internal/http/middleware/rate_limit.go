package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets is one token bucket per key; a zero limit disables it
type buckets struct {
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

func newBuckets(perMinute, burst int) buckets {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return buckets{entries: make(map[string]*limiterEntry), limit: limit, burst: burst}
}

func (b buckets) reserve(key string, now time.Time) *rate.Reservation {
	if b.limit == rate.Inf || key == "" {
		return nil
	}
	entry, ok := b.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.ReserveN(now, 1)
}

func (b buckets) forgetIdle(now time.Time, ttl time.Duration) int {
	removed := 0
	for key, entry := range b.entries {
		if now.Sub(entry.lastSeen) > ttl {
			delete(b.entries, key)
			removed++
		}
	}
	return removed
}

// LoginRateLimiter throttles login submissions with two token buckets: one
// per actor and one per client address. A submission spends a token from
// both, so minting a new actor cookie does not reset the address budget.
type LoginRateLimiter struct {
	mu      sync.Mutex
	actors  buckets
	clients buckets
	idleTTL time.Duration
}

// NewLoginRateLimiter allows perMinute submissions per actor and
// ipPerMinute per client address, each with its own burst. A rate <= 0
// disables that bucket.
func NewLoginRateLimiter(perMinute, burst, ipPerMinute, ipBurst int) *LoginRateLimiter {
	return &LoginRateLimiter{
		actors:  newBuckets(perMinute, burst),
		clients: newBuckets(ipPerMinute, ipBurst),
		idleTTL: 10 * time.Minute,
	}
}

// Limit rejects a submission with 429 once either bucket is empty
func (l *LoginRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		l.mu.Lock()
		var delay time.Duration
		reservations := []*rate.Reservation{
			l.actors.reserve(ActorID(c), now),
			l.clients.reserve(c.ClientIP(), now),
		}
		for _, r := range reservations {
			if r != nil && r.DelayFrom(now) > delay {
				delay = r.DelayFrom(now)
			}
		}
		if delay > 0 {
			for _, r := range reservations {
				if r != nil {
					r.CancelAt(now)
				}
			}
		}
		l.mu.Unlock()

		if delay > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
			return
		}
		c.Next()
	}
}

// Run forgets idle buckets every interval until ctx is done
func (l *LoginRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.forgetIdle(time.Now())
		}
	}
}

func (l *LoginRateLimiter) forgetIdle(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.actors.forgetIdle(now, l.idleTTL) + l.clients.forgetIdle(now, l.idleTTL)
}
