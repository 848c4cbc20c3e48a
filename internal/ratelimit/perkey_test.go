package ratelimit

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(burst, rate float64) (*ClientLimiter, *fakeClock) {
	clock := newFakeClock()
	l := NewClientLimiter(ClientConfig{Burst: burst, RefillRate: rate})
	l.now = clock.Now
	return l, clock
}

func TestClientLimiterAllow(t *testing.T) {
	l, _ := newTestLimiter(2, 1)
	defer l.Stop()

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "other clients keep their own bucket")
	assert.Equal(t, 2, l.Clients())
}

func TestClientLimiterEmptyKey(t *testing.T) {
	l, _ := newTestLimiter(1, 0)
	defer l.Stop()

	for range 5 {
		ok, _ := l.Allow("")
		assert.True(t, ok)
	}
	assert.Zero(t, l.Clients())
}

func TestClientLimiterOnDrop(t *testing.T) {
	l, _ := newTestLimiter(1, 0)
	defer l.Stop()

	var drops atomic.Int32
	l.OnDrop(func() { drops.Add(1) })

	l.Allow("s1")
	l.Allow("s1")
	l.Allow("s1")
	assert.Equal(t, int32(2), drops.Load())
}

func TestClientLimiterSweep(t *testing.T) {
	l, clock := newTestLimiter(2, 1)
	defer l.Stop()

	var last atomic.Int32
	l.OnUpdate(func(n int) { last.Store(int32(n)) })

	l.Allow("idle")
	l.Allow("busy")
	l.Allow("busy")

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1, l.Sweep(), "idle refilled, busy has 1.5 of 2 tokens")
	assert.Equal(t, int32(1), last.Load())

	clock.Advance(time.Second)
	assert.Zero(t, l.Sweep())
}

func TestClientLimiterCleanupLoop(t *testing.T) {
	l := NewClientLimiter(ClientConfig{Burst: 1, RefillRate: 1000, CleanupPeriod: 10 * time.Millisecond})
	defer l.Stop()

	l.Allow("a")
	assert.Eventually(t, func() bool { return l.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestClientLimiterStopTwice(t *testing.T) {
	l := NewClientLimiter(ClientConfig{Burst: 1, RefillRate: 1, CleanupPeriod: time.Minute})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}
