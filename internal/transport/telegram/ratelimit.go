package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiter is a per-user token-bucket rate limiter with automatic
// stale-entry cleanup, keyed by Telegram user id.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*userEntry
	r        rate.Limit
	burst    int
}

func newUserLimiter(r rate.Limit, burst int) *userLimiter {
	ul := &userLimiter{
		limiters: make(map[int64]*userEntry),
		r:        r,
		burst:    burst,
	}
	go ul.cleanup()
	return ul
}

// Allow reports whether the user may run another command right now.
func (ul *userLimiter) Allow(userID int64) bool {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	entry, ok := ul.limiters[userID]
	if !ok {
		entry = &userEntry{limiter: rate.NewLimiter(ul.r, ul.burst)}
		ul.limiters[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// cleanup removes stale entries every 5 minutes.
func (ul *userLimiter) cleanup() {
	for {
		time.Sleep(5 * time.Minute)
		ul.mu.Lock()
		for id, entry := range ul.limiters {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(ul.limiters, id)
			}
		}
		ul.mu.Unlock()
	}
}
