package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/replycache"
)

// recordSleeps swaps the real timer for one that only records requested delays.
func recordSleeps(p *Policy) *[]time.Duration {
	var got []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		got = append(got, d)
		return ctx.Err()
	}
	return &got
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	_ = recordSleeps(&p)

	calls := 0
	v, err := Do(context.Background(), p, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("busy")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsLastErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	p := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}
	_ = recordSleeps(&p)

	calls := 0
	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	assert.Equal(t, 2, calls)
	assert.True(t, err == boom, "want the same error value, got %v", err)
}

func TestDoAbortsOnNonRetryable(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")
	p := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, RetryIf: On(errTransient)}
	sleeps := recordSleeps(&p)

	calls := 0
	_, err := Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errFatal
	})
	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDoBackoffDoublesWithoutJitter(t *testing.T) {
	p := Policy{MaxAttempts: 4, BaseDelay: 10 * time.Millisecond}
	sleeps := recordSleeps(&p)

	_, _ = Do(context.Background(), p, func(context.Context) (int, error) {
		return 0, errors.New("x")
	})
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}, *sleeps)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("x")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")
	p := Policy{MaxAttempts: 5, BaseDelay: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, func(context.Context) (int, error) {
			calls++
			return 0, boom
		})
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestWrapPassesPrompt(t *testing.T) {
	p := Policy{MaxAttempts: 2}
	_ = recordSleeps(&p)

	var seen []string
	fn := Wrap(p, func(_ context.Context, prompt string) (string, error) {
		seen = append(seen, prompt)
		if len(seen) == 1 {
			return "", errors.New("flaky")
		}
		return "reply to " + prompt, nil
	})
	got, err := fn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply to hello", got)
	assert.Equal(t, []string{"hello", "hello"}, seen)
}

func TestDelay(t *testing.T) {
	p := Default()
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 4*time.Second, p.Delay(3))
	assert.Zero(t, p.Delay(0))
	assert.Zero(t, Policy{}.Delay(3))
}

type countingLogger struct {
	replycache.NopLogger
	warns, errs int
}

func (l *countingLogger) Warn(string, replycache.Fields)  { l.warns++ }
func (l *countingLogger) Error(string, replycache.Fields) { l.errs++ }

func TestDoLogsEachFailedAttempt(t *testing.T) {
	log := &countingLogger{}
	p := Policy{MaxAttempts: 3, Logger: log}
	_ = recordSleeps(&p)

	_, _ = Do(context.Background(), p, func(context.Context) (int, error) {
		return 0, errors.New("x")
	})
	assert.Equal(t, 2, log.warns)
	assert.Equal(t, 1, log.errs)
}
