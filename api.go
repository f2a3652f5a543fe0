package replycache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/replycache/backend"
	c "github.com/unkn0wn-root/replycache/codec"
)

// GenerateFunc produces a reply for a prompt. It is the seam where the cache and
// retry combinators attach to a completion call.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Cache is the response cache API.
//
// Backend failures never surface here: they are counted in Stats.Errors, logged,
// and reported as a miss (reads) or false (writes). The only errors returned are
// input validation errors.
type Cache interface {
	Enabled() bool
	Close(context.Context) error

	// CachedResponse returns the stored reply for (prompt, p). Disabled => ("", false, nil).
	CachedResponse(ctx context.Context, prompt string, p Params) (string, bool, error)
	// CacheResponse stores response for (prompt, p). ttl 0 => Options.DefaultTTL.
	CacheResponse(ctx context.Context, prompt, response string, p Params, ttl time.Duration) (bool, error)
	// Invalidate drops one entry (manual cache-busting). Works while disabled.
	Invalidate(ctx context.Context, prompt string, p Params) (bool, error)
	// ClearAll drops every entry in this cache's namespace. Works while disabled.
	ClearAll(ctx context.Context) bool

	Stats(ctx context.Context) Stats
	ResetStats()

	// Key exposes the derived lookup key (for debugging and tooling).
	Key(prompt string, p Params) string
}

// Options tune the response cache.
// Only Backend is required; others have sensible defaults.
type Options struct {
	Backend backend.Backend
	Codec   c.Codec[Entry] // nil => JSON (flat {response, prompt, model, temperature, cachedAt})

	Logger     Logger        // if nil, NopLogger is used
	Hooks      Hooks         // if nil, NopHooks is used
	DefaultTTL time.Duration // 0 => 1h
	Disabled   bool          // default false (enabled)

	Now func() time.Time // cachedAt clock; nil => time.Now
}

func New(opts Options) (Cache, error) {
	return newCache(opts)
}
