package replycache

import (
	"context"
	"testing"
)

type panickyLogger struct{ calls int }

func (p *panickyLogger) Debug(string, Fields) { p.calls++; panic("debug") }
func (p *panickyLogger) Info(string, Fields)  { p.calls++; panic("info") }
func (p *panickyLogger) Warn(string, Fields)  { p.calls++; panic("warn") }
func (p *panickyLogger) Error(string, Fields) { p.calls++; panic("error") }

func TestSafeLoggerSwallowsPanics(t *testing.T) {
	inner := &panickyLogger{}
	l := SafeLogger(inner)
	l.Debug("a", nil)
	l.Info("b", Fields{"k": 1})
	l.Warn("c", nil)
	l.Error("d", nil)
	if inner.calls != 4 {
		t.Fatalf("inner logger should still be called, got %d", inner.calls)
	}
}

func TestSafeLoggerNilIsNop(t *testing.T) {
	if _, ok := SafeLogger(nil).(NopLogger); !ok {
		t.Fatalf("nil logger should become NopLogger")
	}
}

func TestCacheSurvivesPanickingLogger(t *testing.T) {
	rc := newTestCache(t, newMemBackend(), func(o *Options) { o.Logger = &panickyLogger{} })
	p := DefaultParams()
	if _, err := rc.CacheResponse(context.Background(), "hello", "hi", p, 0); err != nil {
		t.Fatalf("CacheResponse: %v", err)
	}
	if got, ok, _ := rc.CachedResponse(context.Background(), "hello", p); !ok || got != "hi" {
		t.Fatalf("got=%q ok=%v", got, ok)
	}
}
