// Package retry re-runs a failing operation with exponential backoff.
//
// Attempt 1 runs immediately. The wait before attempt k+1 is BaseDelay*2^(k-1),
// with no jitter. When attempts run out the last error is returned as-is, so
// callers can still compare it with == or errors.Is.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/replycache"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

type Policy struct {
	MaxAttempts int           // <= 0 => 1 (run once)
	BaseDelay   time.Duration // < 0 => 0

	// RetryIf reports whether err is worth another attempt. nil retries everything.
	RetryIf func(error) bool

	Logger replycache.Logger
	Name   string // shows up in log lines as "op"

	sleep func(ctx context.Context, d time.Duration) error
}

func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

// On builds a RetryIf that accepts errors matching any of targets.
func On(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, t := range targets {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// Delay is the wait before attempt+1, attempt counted from 1.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay <= 0 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		if d > time.Duration(1<<62) {
			return d
		}
		d *= 2
	}
	return d
}

func (p Policy) retryable(err error) bool {
	return p.RetryIf == nil || p.RetryIf(err)
}

// Do runs fn until it succeeds, returns a non-retryable error, or runs out of
// attempts. A context cancelled during backoff ends the sequence with the last
// error joined to ctx.Err().
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	log := replycache.SafeLogger(p.Logger)
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info("retry succeeded", replycache.Fields{"op": p.Name, "attempt": attempt})
			}
			return v, nil
		}
		lastErr = err

		if !p.retryable(err) {
			log.Error("non-retryable error", replycache.Fields{"op": p.Name, "attempt": attempt, "err": err})
			return zero, err
		}
		if attempt == attempts {
			break
		}

		d := p.Delay(attempt)
		log.Warn("attempt failed, retrying", replycache.Fields{
			"op":           p.Name,
			"attempt":      attempt,
			"max_attempts": attempts,
			"delay":        d.String(),
			"err":          err,
		})
		if serr := sleep(ctx, d); serr != nil {
			log.Warn("retry cancelled", replycache.Fields{"op": p.Name, "attempt": attempt, "err": serr})
			return zero, errors.Join(lastErr, serr)
		}
	}

	log.Error("all retry attempts failed", replycache.Fields{"op": p.Name, "max_attempts": attempts, "err": lastErr})
	return zero, lastErr
}

// Wrap decorates a prompt-to-reply function with p.
func Wrap(p Policy, fn func(ctx context.Context, prompt string) (string, error)) func(ctx context.Context, prompt string) (string, error) {
	return func(ctx context.Context, prompt string) (string, error) {
		return Do(ctx, p, func(ctx context.Context) (string, error) {
			return fn(ctx, prompt)
		})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
