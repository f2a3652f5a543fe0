package replycache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/replycache/backend"
	c "github.com/unkn0wn-root/replycache/codec"
	"github.com/unkn0wn-root/replycache/internal/util"
)

type cache struct {
	backend    backend.Backend
	codec      c.Codec[Entry]
	log        Logger
	hooks      Hooks
	enabled    bool
	defaultTTL time.Duration
	now        func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
	errors atomic.Uint64
}

func newCache(opts Options) (*cache, error) {
	if opts.Backend == nil {
		return nil, ErrNilBackend
	}

	rc := &cache{
		backend: opts.Backend,
		enabled: !opts.Disabled,
	}

	// defaults
	rc.codec = opts.Codec
	if rc.codec == nil {
		rc.codec = c.JSON[Entry]{}
	}
	rc.log = SafeLogger(opts.Logger)
	rc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	rc.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	rc.now = opts.Now
	if rc.now == nil {
		rc.now = time.Now
	}

	rc.log.Info("response cache initialized", Fields{"enabled": rc.enabled, "ttl": rc.defaultTTL.String()})
	return rc, nil
}

func (rc *cache) Enabled() bool { return rc.enabled }

func (rc *cache) Close(ctx context.Context) error {
	return rc.backend.Close(ctx)
}

func (rc *cache) Key(prompt string, p Params) string {
	return util.ResponseKey(prompt, p.Model, p.Temperature)
}

func (rc *cache) CachedResponse(ctx context.Context, prompt string, p Params) (string, bool, error) {
	if !rc.enabled {
		return "", false, nil
	}
	if strings.TrimSpace(prompt) == "" {
		return "", false, ErrEmptyPrompt
	}

	k := rc.Key(prompt, p)
	raw, ok, err := rc.backend.Get(ctx, k)
	if err != nil {
		rc.backendFailed("get", k, err)
		return "", false, nil
	}
	if !ok {
		rc.miss(k, prompt)
		return "", false, nil
	}

	e, err := rc.codec.Decode(raw)
	if err != nil {
		rc.selfHeal(ctx, k, "decode")
		rc.miss(k, prompt)
		return "", false, nil
	}
	if e.Response == "" {
		rc.selfHeal(ctx, k, "empty_response")
		rc.miss(k, prompt)
		return "", false, nil
	}

	rc.hits.Add(1)
	rc.hooks.Hit(k)
	rc.log.Info("cache hit", Fields{"key": k, "prompt": util.Truncate(prompt, promptPreview)})
	return e.Response, true, nil
}

func (rc *cache) CacheResponse(ctx context.Context, prompt, response string, p Params, ttl time.Duration) (bool, error) {
	if !rc.enabled {
		return false, nil
	}
	if strings.TrimSpace(prompt) == "" {
		return false, ErrEmptyPrompt
	}
	if response == "" {
		return false, ErrEmptyResponse
	}
	if ttl == 0 {
		ttl = rc.defaultTTL
	}

	k := rc.Key(prompt, p)
	payload, err := rc.codec.Encode(Entry{
		Response:    response,
		Prompt:      util.Truncate(prompt, storedPromptMax),
		Model:       p.Model,
		Temperature: p.Temperature,
		CachedAt:    unixSeconds(rc.now()),
	})
	if err != nil {
		rc.errors.Add(1)
		rc.log.Error("cache entry encode failed", Fields{"key": k, "err": err})
		return false, nil
	}

	ok, err := rc.backend.Set(ctx, k, payload, ttl)
	if err != nil {
		rc.backendFailed("set", k, err)
		return false, nil
	}
	if !ok {
		rc.log.Debug("cache write rejected by backend", Fields{"key": k})
		return false, nil
	}
	rc.sets.Add(1)
	rc.hooks.Stored(k)
	rc.log.Debug("cached response", Fields{"key": k, "prompt": util.Truncate(prompt, promptPreview), "ttl": ttl.String()})
	return true, nil
}

func (rc *cache) Invalidate(ctx context.Context, prompt string, p Params) (bool, error) {
	if strings.TrimSpace(prompt) == "" {
		return false, ErrEmptyPrompt
	}
	k := rc.Key(prompt, p)
	was, err := rc.backend.Delete(ctx, k)
	if err != nil {
		rc.backendFailed("delete", k, err)
		return false, nil
	}
	rc.log.Debug("invalidated cached response", Fields{"key": k, "was_present": was})
	return was, nil
}

func (rc *cache) ClearAll(ctx context.Context) bool {
	if err := rc.backend.Clear(ctx); err != nil {
		rc.backendFailed("clear", "", err)
		return false
	}
	return true
}

func (rc *cache) ResetStats() {
	rc.hits.Store(0)
	rc.misses.Store(0)
	rc.sets.Store(0)
	rc.errors.Store(0)
}

func (rc *cache) miss(k, prompt string) {
	rc.misses.Add(1)
	rc.hooks.Miss(k)
	rc.log.Debug("cache miss", Fields{"key": k, "prompt": util.Truncate(prompt, promptPreview)})
}

func (rc *cache) backendFailed(op, k string, err error) {
	rc.errors.Add(1)
	be := &BackendError{Op: op, Key: k, Err: err}
	rc.hooks.BackendError(op, be)
	rc.log.Error("cache backend error", Fields{"op": op, "key": k, "err": err})
}

// selfHeal drops an unreadable entry so the next write can replace it.
func (rc *cache) selfHeal(ctx context.Context, k, reason string) {
	_, _ = rc.backend.Delete(ctx, k)
	rc.hooks.SelfHeal(k, reason)
	rc.log.Warn("dropped unreadable cache entry", Fields{"key": k, "reason": reason})
}
