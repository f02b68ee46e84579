package ratelimit

import (
	"sync"
	"time"
)

type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
}

// RateLimiter keys buckets by user id (or client IP for anonymous
// requests) and action. Counters are per-process: they do not survive a
// restart and are not shared across instances.
type RateLimiter struct {
	buckets       map[string]*TokenBucket
	defaultPerMin int
	mutex         sync.RWMutex
}

// NewRateLimiter builds a limiter whose unnamed actions allow
// defaultPerMin requests per minute.
func NewRateLimiter(defaultPerMin int) *RateLimiter {
	if defaultPerMin <= 0 {
		defaultPerMin = 60
	}
	return &RateLimiter{
		buckets:       make(map[string]*TokenBucket),
		defaultPerMin: defaultPerMin,
	}
}

func NewTokenBucket(maxTokens, refillRate int, refillTime time.Duration) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		refillTime: refillTime,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available, otherwise returns the wait
// until the next refill.
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()

	elapsed := now.Sub(tb.lastRefill)
	tokensToAdd := int(elapsed/tb.refillTime) * tb.refillRate

	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	nextRefill := tb.lastRefill.Add(tb.refillTime)
	return false, nextRefill.Sub(now)
}

// lastActivity reads lastRefill under the bucket's own lock; Allow mutates
// it concurrently with Cleanup.
func (tb *TokenBucket) lastActivity() time.Time {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.lastRefill
}

func (rl *RateLimiter) Allow(subject, action string) (bool, time.Duration) {
	key := subject + ":" + action

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			bucket = rl.newBucketForAction(action)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.Allow()
}

func (rl *RateLimiter) newBucketForAction(action string) *TokenBucket {
	switch action {
	case "auth":
		// 5 attempts per minute per client
		return NewTokenBucket(5, 1, 12*time.Second)
	case "book_appointment":
		// 10 bookings per minute per user
		return NewTokenBucket(10, 1, 6*time.Second)
	case "identity_webhook":
		// 100 events per minute per source
		return NewTokenBucket(100, 10, 6*time.Second)
	default:
		return NewTokenBucket(rl.defaultPerMin, 1, time.Minute/time.Duration(rl.defaultPerMin))
	}
}

// Cleanup removes buckets idle for over an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, bucket := range rl.buckets {
		if now.Sub(bucket.lastActivity()) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
