// Package ratelimit throttles repeated failed attempts of sensitive actions
// (login, signup) per client.
package ratelimit

import (
	"context"
	"time"
)

// Action names a throttled operation.
type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
)

// Policy allows at most MaxAttempts failures per sliding Window.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultPolicies are the limits applied when the configuration sets none.
var DefaultPolicies = map[Action]Policy{
	ActionLogin:    {MaxAttempts: 5, Window: 5 * time.Minute},
	ActionRegister: {MaxAttempts: 3, Window: 10 * time.Minute},
}

// Decision is the outcome of a Check.
type Decision struct {
	Allowed bool
	// RetryAfter is set when the action is blocked: time until the oldest failure leaves the window.
	RetryAfter time.Duration
}

// Limiter records failures per (action, key) and blocks once a policy is exhausted.
type Limiter interface {
	Check(ctx context.Context, action Action, key string) (Decision, error)
	RecordFailure(ctx context.Context, action Action, key string) error
	Reset(ctx context.Context, action Action, key string) error
}

func policyFor(policies map[Action]Policy, action Action) (Policy, bool) {
	p, ok := policies[action]
	if !ok || p.MaxAttempts <= 0 || p.Window <= 0 {
		return Policy{}, false
	}
	return p, true
}
