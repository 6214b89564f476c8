package ratelimit

import (
	"sync"
	"time"
)

// Config stores TokenBucket settings.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped, 0 keeps them forever
	MaxBuckets int           // 0 means unbounded
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// TokenBucket is a per-key token bucket limiter.
// When MaxBuckets is reached, idle buckets are swept first and unknown keys are refused
// only if the sweep frees nothing.
type TokenBucket struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// NewTokenBucket creates a limiter. A nil clock means wall time.
func NewTokenBucket(clock Clock, cfg Config) *TokenBucket {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucket{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket.
func (l *TokenBucket) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sweepDue(now) {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		if l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets {
			l.sweep(now)
			if len(l.buckets) >= l.cfg.MaxBuckets {
				return false
			}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), lastSeen: now}
		l.buckets[key] = b
	}

	if dt := now.Sub(b.lastSeen); dt > 0 {
		b.tokens = min(b.tokens+dt.Seconds()*l.cfg.Rate, float64(l.cfg.Burst))
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len returns the number of tracked keys.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucket) sweepDue(now time.Time) bool {
	if l.cfg.TTL <= 0 {
		return false
	}
	interval := max(l.cfg.TTL/2, time.Minute)
	return l.lastSweep.IsZero() || now.Sub(l.lastSweep) >= interval
}

// sweep must be called with mu held.
func (l *TokenBucket) sweep(now time.Time) {
	l.lastSweep = now
	if l.cfg.TTL <= 0 {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}
