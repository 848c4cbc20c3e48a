// Package ratelimit throttles chat traffic with token buckets, one per
// client, so a single caller cannot monopolize the answering engine.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Bucket is a token bucket. It is safe for concurrent use.
//
// Tokens refill continuously at refillRate per second up to maxTokens, and
// each admitted request takes one.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// New creates a full bucket.
func New(maxTokens, refillRate float64) *Bucket {
	return newBucket(maxTokens, refillRate, time.Now)
}

func newBucket(maxTokens, refillRate float64, now func() time.Time) *Bucket {
	return &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

// PerMinute converts a requests-per-minute budget into a refill rate per second.
func PerMinute(n float64) float64 {
	return n / 60
}

// refill must be called with mu held.
func (b *Bucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(b.maxTokens, b.tokens+elapsed*b.refillRate)
	}
	b.lastRefill = now
}

// Allow takes a token if one is available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RetryAfter is how long until the next token arrives; zero when one is
// available now. A bucket that never refills reports a negative duration.
func (b *Bucket) RetryAfter() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		return 0
	}
	if b.refillRate <= 0 {
		return -1
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}

// Available returns the current token count.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// IsFull reports whether the bucket has refilled completely, which means
// its client has been idle long enough to forget.
func (b *Bucket) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens >= b.maxTokens
}
