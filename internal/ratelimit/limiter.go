// Package ratelimit provides a per-key token-bucket limiter, used to
// throttle magic-link sends per email address.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

type KeyedLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
}

// NewKeyedLimiter allows ratePerHour events per key sustained, with the
// given burst.
func NewKeyedLimiter(ratePerHour int, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(ratePerHour) / 3600.0),
		burst:    burst,
	}
}

func (kl *KeyedLimiter) limiter(key string) *rate.Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	l, ok := kl.limiters[key]
	if !ok {
		l = rate.NewLimiter(kl.limit, kl.burst)
		kl.limiters[key] = l
	}
	return l
}

// Allow reports whether an event for key may proceed now.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.limiter(key).Allow()
}

// Reset drops all per-key state.
func (kl *KeyedLimiter) Reset() {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	kl.limiters = make(map[string]*rate.Limiter)
}
