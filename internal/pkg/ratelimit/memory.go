package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps failure timestamps in process memory.
type MemoryLimiter struct {
	mu        sync.Mutex
	policies  map[Action]Policy
	failures  map[string][]time.Time
	now       func() time.Time
	// longest policy window; keys idle for longer hold nothing useful
	maxWindow time.Duration
	lastSweep time.Time
}

// NewMemoryLimiter creates an in-memory limiter. Unknown actions are never blocked.
func NewMemoryLimiter(policies map[Action]Policy) *MemoryLimiter {
	l := &MemoryLimiter{
		policies: policies,
		failures: make(map[string][]time.Time),
		now:      time.Now,
	}
	for action := range policies {
		if p, ok := policyFor(policies, action); ok && p.Window > l.maxWindow {
			l.maxWindow = p.Window
		}
	}
	return l
}

func memoryKey(action Action, key string) string {
	return string(action) + ":" + key
}

// prune drops failures older than the window. Caller holds mu.
func (l *MemoryLimiter) prune(k string, window time.Duration, now time.Time) []time.Time {
	kept := l.failures[k][:0]
	for _, ts := range l.failures[k] {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, k)
		return nil
	}
	l.failures[k] = kept
	return kept
}

// sweep drops every key whose newest failure left the longest window, at most
// once per window. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.maxWindow {
		return
	}
	l.lastSweep = now
	for k, stamps := range l.failures {
		if now.Sub(stamps[len(stamps)-1]) >= l.maxWindow {
			delete(l.failures, k)
		}
	}
}

// Check implements Limiter
func (l *MemoryLimiter) Check(_ context.Context, action Action, key string) (Decision, error) {
	policy, ok := policyFor(l.policies, action)
	if !ok {
		return Decision{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(memoryKey(action, key), policy.Window, now)
	if len(recent) < policy.MaxAttempts {
		return Decision{Allowed: true}, nil
	}
	return Decision{Allowed: false, RetryAfter: policy.Window - now.Sub(recent[0])}, nil
}

// RecordFailure implements Limiter
func (l *MemoryLimiter) RecordFailure(_ context.Context, action Action, key string) error {
	policy, ok := policyFor(l.policies, action)
	if !ok {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	k := memoryKey(action, key)
	l.prune(k, policy.Window, now)
	l.failures[k] = append(l.failures[k], now)
	return nil
}

// Reset implements Limiter
func (l *MemoryLimiter) Reset(_ context.Context, action Action, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, memoryKey(action, key))
	return nil
}
