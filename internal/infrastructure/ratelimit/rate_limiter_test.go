package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed)
	}

	allowed, retryAfter := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(2, 1, 10*time.Millisecond)

	bucket.Allow()
	bucket.Allow()
	allowed, _ := bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesSubjectsAndActions(t *testing.T) {
	limiter := NewRateLimiter(60)

	// drain the auth bucket for one subject
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("user-a", "auth")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("user-a", "auth")
	assert.False(t, allowed)

	// other subjects and other actions are unaffected
	allowed, _ = limiter.Allow("user-b", "auth")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("user-a", "book_appointment")
	assert.True(t, allowed)
}

func TestDefaultBucketUsesConfiguredRate(t *testing.T) {
	limiter := NewRateLimiter(2)

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Allow("user-a", "list_doctors")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("user-a", "list_doctors")
	assert.False(t, allowed)

	// a non-positive configuration falls back to 60/min
	fallback := NewRateLimiter(0)
	for i := 0; i < 60; i++ {
		allowed, _ := fallback.Allow("user-a", "list_doctors")
		assert.True(t, allowed)
	}
	allowed, _ = fallback.Allow("user-a", "list_doctors")
	assert.False(t, allowed)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	limiter := NewRateLimiter(60)

	limiter.Allow("user-a", "auth")
	limiter.buckets["user-a:auth"].lastRefill = time.Now().Add(-2 * time.Hour)
	limiter.Allow("user-b", "auth")

	limiter.Cleanup()

	assert.NotContains(t, limiter.buckets, "user-a:auth")
	assert.Contains(t, limiter.buckets, "user-b:auth")
}
