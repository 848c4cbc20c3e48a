package ratelimit

import (
	"sync"
	"time"
)

// ClientConfig configures a ClientLimiter.
type ClientConfig struct {
	Burst         float64       // bucket size per client
	RefillRate    float64       // tokens per second per client
	CleanupPeriod time.Duration // how often idle buckets are dropped (0 = never)
}

// ClientLimiter keeps one Bucket per client key (an IP address or a chat
// session). Idle buckets are removed by a background sweeper.
type ClientLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
	cfg     ClientConfig
	now     func() time.Time

	onDrop   func()          // called when a request is refused
	onUpdate func(count int) // called with the client count after a sweep

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewClientLimiter creates a limiter and starts its sweeper.
func NewClientLimiter(cfg ClientConfig) *ClientLimiter {
	l := &ClientLimiter{
		buckets: make(map[string]*Bucket),
		cfg:     cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go l.cleanupLoop()
	}
	return l
}

// OnDrop registers a callback for refused requests. Call before use.
func (l *ClientLimiter) OnDrop(fn func()) { l.onDrop = fn }

// OnUpdate registers a callback receiving the client count after each sweep.
func (l *ClientLimiter) OnUpdate(fn func(count int)) { l.onUpdate = fn }

func (l *ClientLimiter) bucket(key string) *Bucket {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[key]; !ok {
		b = newBucket(l.cfg.Burst, l.cfg.RefillRate, l.now)
		l.buckets[key] = b
	}
	return b
}

// Allow reports whether key may send another request. It returns how long
// to wait when the answer is no. An empty key is never limited.
func (l *ClientLimiter) Allow(key string) (bool, time.Duration) {
	if key == "" {
		return true, 0
	}
	b := l.bucket(key)
	if b.Allow() {
		return true, 0
	}
	if l.onDrop != nil {
		l.onDrop()
	}
	return false, b.RetryAfter()
}

// Clients returns how many clients currently hold a bucket.
func (l *ClientLimiter) Clients() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

// Sweep drops the buckets of idle clients and returns how many remain.
func (l *ClientLimiter) Sweep() int {
	l.mu.Lock()
	for key, b := range l.buckets {
		if b.IsFull() {
			delete(l.buckets, key)
		}
	}
	n := len(l.buckets)
	l.mu.Unlock()

	if l.onUpdate != nil {
		l.onUpdate(n)
	}
	return n
}

func (l *ClientLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Stop ends the sweeper. Safe to call more than once.
func (l *ClientLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
