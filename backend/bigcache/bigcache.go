// Package bigcache backs replycache with allegro/bigcache, a sharded byte store
// with low GC overhead.
//
// BigCache only knows one global LifeWindow, so each value is framed with its own
// expiry (internal/wire) and checked on read. LifeWindow acts as an upper bound:
// entries stored with a longer ttl still vanish after LifeWindow.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/replycache"
	"github.com/unkn0wn-root/replycache/backend"
	"github.com/unkn0wn-root/replycache/internal/wire"
)

const (
	defaultEntriesInWindow = 10_000
	defaultEntrySize       = 1024
)

type BigCache struct {
	c   *bc.BigCache
	log replycache.Logger
	now func() time.Time
}

var _ backend.Backend = (*BigCache)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => 24h
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
	Logger             replycache.Logger
	Now                func() time.Time
}

func New(cfg Config) (*BigCache, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 24 * time.Hour
	}
	conf := bc.DefaultConfig(life)
	conf.Verbose = false
	// DefaultConfig preallocates for 600k entries; size for chat replies instead.
	conf.MaxEntriesInWindow = defaultEntriesInWindow
	conf.MaxEntrySize = defaultEntrySize
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	b := &BigCache{c: c, log: replycache.SafeLogger(cfg.Logger), now: cfg.Now}
	if b.now == nil {
		b.now = time.Now
	}
	return b, nil
}

func (b *BigCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := b.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	exp, payload, err := wire.Decode(raw)
	if err != nil {
		// self-heal: foreign or corrupt frame
		_ = b.c.Delete(key)
		b.log.Warn("bigcache dropped corrupt frame", replycache.Fields{"key": key})
		return nil, false, nil
	}
	if !b.now().Before(exp) {
		_ = b.c.Delete(key)
		return nil, false, nil
	}
	return payload, true, nil
}

func (b *BigCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := b.c.Set(key, wire.Encode(b.now().Add(ttl), value)); err != nil {
		return false, err
	}
	return true, nil
}

func (b *BigCache) Delete(_ context.Context, key string) (bool, error) {
	err := b.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear resets every shard; a BigCache instance is owned by one cache.
func (b *BigCache) Clear(_ context.Context) error {
	return b.c.Reset()
}

func (b *BigCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := b.Get(ctx, key)
	return ok, err
}

func (b *BigCache) Stats(_ context.Context) backend.Stats {
	return backend.Stats{
		Kind:      backend.KindBigCache,
		Size:      b.c.Len(),
		Connected: true,
	}
}

func (b *BigCache) Close(_ context.Context) error {
	return b.c.Close()
}
