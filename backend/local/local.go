// Package local is the in-process backend: a bounded map with per-entry expiry.
//
// When a new key arrives at capacity, exactly one entry is evicted first: the one
// inserted earliest (smallest createdAt). Ties go to the lexicographically smallest
// key so eviction does not depend on map iteration order. Overwriting an existing
// key never evicts. This is oldest-insertion-first, not LRU: reads do not refresh
// an entry's position.
package local

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/replycache"
	"github.com/unkn0wn-root/replycache/backend"
)

const DefaultMaxSize = 1000

type entry struct {
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

func (e entry) dead(now time.Time) bool { return !now.Before(e.expiresAt) }

type Config struct {
	MaxSize int               // 0 => DefaultMaxSize
	Logger  replycache.Logger // nil => no logging
	OnEvict func(key string)  // called under the lock; keep it cheap
	Now     func() time.Time  // nil => time.Now; tests inject a fake clock
}

// Local implements backend.Backend on a mutex-guarded map.
type Local struct {
	mu      sync.Mutex
	m       map[string]entry
	maxSize int

	log     replycache.Logger
	onEvict func(string)
	now     func() time.Time
}

var _ backend.Backend = (*Local)(nil)

func New(cfg Config) *Local {
	l := &Local{
		m:       make(map[string]entry),
		maxSize: cfg.MaxSize,
		log:     replycache.SafeLogger(cfg.Logger),
		onEvict: cfg.OnEvict,
		now:     cfg.Now,
	}
	if l.maxSize <= 0 {
		l.maxSize = DefaultMaxSize
	}
	if l.now == nil {
		l.now = time.Now
	}
	l.log.Info("local backend initialized", replycache.Fields{"max_size": l.maxSize})
	return l
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getLocked(key)
}

func (l *Local) getLocked(key string) ([]byte, bool, error) {
	e, ok := l.m[key]
	if !ok {
		return nil, false, nil
	}
	if e.dead(l.now()) {
		delete(l.m, key)
		l.log.Debug("local entry expired", replycache.Fields{"key": key})
		return nil, false, nil
	}
	return e.value, true, nil
}

func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.m[key]; !exists && len(l.m) >= l.maxSize {
		l.evictOldestLocked()
	}
	l.m[key] = entry{value: value, createdAt: now, expiresAt: now.Add(ttl)}
	l.log.Debug("local entry set", replycache.Fields{"key": key, "ttl": ttl.String()})
	return true, nil
}

// evictOldestLocked removes the entry with the smallest createdAt. O(n); maxSize bounds n.
func (l *Local) evictOldestLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for k, e := range l.m {
		if !found || e.createdAt.Before(oldest) || (e.createdAt.Equal(oldest) && k < victim) {
			victim, oldest, found = k, e.createdAt, true
		}
	}
	if !found {
		return
	}
	delete(l.m, victim)
	l.log.Debug("local backend full, evicted oldest", replycache.Fields{"key": victim, "max_size": l.maxSize})
	if l.onEvict != nil {
		l.onEvict(victim)
	}
}

func (l *Local) Delete(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	_, ok := l.m[key]
	delete(l.m, key)
	l.mu.Unlock()
	if ok {
		l.log.Debug("local entry deleted", replycache.Fields{"key": key})
	}
	return ok, nil
}

func (l *Local) Clear(_ context.Context) error {
	l.mu.Lock()
	n := len(l.m)
	l.m = make(map[string]entry)
	l.mu.Unlock()
	l.log.Info("local backend cleared", replycache.Fields{"removed": n})
	return nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok, err := l.getLocked(key)
	return ok, err
}

// Len counts stored entries, dead ones included until they are touched.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Local) Stats(_ context.Context) backend.Stats {
	n := l.Len()
	return backend.Stats{
		Kind:        backend.KindLocal,
		Size:        n,
		MaxSize:     l.maxSize,
		Utilization: float64(n) / float64(l.maxSize) * 100,
		Connected:   true,
	}
}

func (l *Local) Close(_ context.Context) error { return nil }
