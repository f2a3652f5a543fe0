// Package app wires config into a ready cache: backend, codec, hooks, retry.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/replycache"
	"github.com/unkn0wn-root/replycache/backend"
	"github.com/unkn0wn-root/replycache/backend/bigcache"
	"github.com/unkn0wn-root/replycache/backend/local"
	"github.com/unkn0wn-root/replycache/backend/redis"
	"github.com/unkn0wn-root/replycache/backend/ristretto"
	"github.com/unkn0wn-root/replycache/codec"
	"github.com/unkn0wn-root/replycache/config"
	asynchook "github.com/unkn0wn-root/replycache/hooks/async"
	promhook "github.com/unkn0wn-root/replycache/hooks/prom"
	"github.com/unkn0wn-root/replycache/internal/responder"
	"github.com/unkn0wn-root/replycache/retry"
	"github.com/unkn0wn-root/replycache/sloghooks"
)

const (
	hookWorkers     = 1
	hookQueue       = 1024
	metricNamespace = "peacebot"
	// ristretto charges cost in bytes; this is the per-entry estimate when
	// max_value_bytes is unbounded.
	fallbackEntryCost = 4096
)

type Options struct {
	Logger replycache.Logger
	// Slog, when set, receives sampled hook events.
	Slog *slog.Logger
	// Registry, when set, receives the cache counters.
	Registry prometheus.Registerer
	// Generate produces replies on a miss. nil => the rule-based responder.
	Generate replycache.GenerateFunc
}

type App struct {
	Cache    replycache.Cache
	Backend  backend.Backend
	Kind     backend.Kind
	Params   replycache.Params
	Retry    retry.Policy
	Generate replycache.GenerateFunc

	hooks *asynchook.Hooks
	log   replycache.Logger
}

// Build constructs every component named by cfg. A remote store that cannot be
// reached fails the build unless cfg.RemoteFallback asks for a local backend.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := replycache.SafeLogger(opts.Logger)

	be, kind, err := NewBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	cd, err := codec.ByName[replycache.Entry](cfg.Codec)
	if err != nil {
		_ = be.Close(ctx)
		return nil, err
	}

	var hs fanout
	if opts.Registry != nil {
		hs = append(hs, promhook.New(opts.Registry, metricNamespace))
	}
	if opts.Slog != nil {
		hs = append(hs, sloghooks.New(opts.Slog, sloghooks.Options{LookupEvery: 10}))
	}
	async := asynchook.New(hs, hookWorkers, hookQueue)

	rc, err := replycache.New(replycache.Options{
		Backend:    be,
		Codec:      codec.Limit[replycache.Entry]{Inner: cd, MaxDecode: cfg.MaxValueBytes},
		Logger:     log,
		Hooks:      async,
		DefaultTTL: cfg.DefaultTTL(),
		Disabled:   !cfg.Enabled,
	})
	if err != nil {
		async.Close()
		_ = be.Close(ctx)
		return nil, err
	}

	a := &App{
		Cache:   rc,
		Backend: be,
		Kind:    kind,
		Params:  replycache.Params{Model: cfg.Model, Temperature: cfg.Temperature},
		Retry: retry.Policy{
			MaxAttempts: cfg.RetryMaxAttempts,
			BaseDelay:   cfg.RetryBaseDelay(),
			Logger:      log,
			Name:        "generate",
		},
		hooks: async,
		log:   log,
	}

	gen := opts.Generate
	if gen == nil {
		gen = responder.New().Generate
	}
	a.Generate = a.pipeline(gen)
	return a, nil
}

// pipeline is cache -> retry -> gen. Crisis prompts skip the cache so their
// text never lands in a shared store.
func (a *App) pipeline(gen replycache.GenerateFunc) replycache.GenerateFunc {
	retried := replycache.GenerateFunc(retry.Wrap(a.Retry, gen))
	cached := replycache.Cached(a.Cache, a.Params, 0, retried)
	return func(ctx context.Context, prompt string) (string, error) {
		if responder.IsCrisis(prompt) {
			a.log.Warn("crisis prompt, cache bypassed", nil)
			return retried(ctx, prompt)
		}
		return cached(ctx, prompt)
	}
}

// NewBackend returns the backend selected by cfg.Backend and the kind actually
// in use, which differs from cfg only after a remote fallback.
func NewBackend(ctx context.Context, cfg *config.Config, log replycache.Logger) (backend.Backend, backend.Kind, error) {
	kind, err := backend.ParseKind(cfg.Backend)
	if err != nil {
		return nil, "", err
	}

	switch kind {
	case backend.KindLocal:
		return newLocal(cfg, log), kind, nil

	case backend.KindRemote:
		r, err := redis.New(ctx, redis.Config{
			Addr:     cfg.RemoteAddr(),
			Password: cfg.RemotePassword,
			DB:       cfg.RemoteDB,
			Prefix:   cfg.RemoteNamespace,
			Logger:   log,
		})
		if err == nil {
			return r, kind, nil
		}
		if !cfg.RemoteFallback {
			return nil, "", fmt.Errorf("remote backend %s: %w", cfg.RemoteAddr(), err)
		}
		log.Warn("remote backend unreachable, using local backend", replycache.Fields{"addr": cfg.RemoteAddr(), "err": err})
		return newLocal(cfg, log), backend.KindLocal, nil

	case backend.KindRistretto:
		cost := int64(cfg.MaxValueBytes)
		if cost <= 0 {
			cost = fallbackEntryCost
		}
		r, err := ristretto.New(ristretto.Config{
			NumCounters: int64(cfg.MaxSize) * 10,
			MaxCost:     int64(cfg.MaxSize) * cost,
			BufferItems: 64,
			Logger:      log,
		})
		if err != nil {
			return nil, "", fmt.Errorf("ristretto backend: %w", err)
		}
		return r, kind, nil

	case backend.KindBigCache:
		b, err := bigcache.New(bigcache.Config{
			MaxEntriesInWindow: cfg.MaxSize,
			Logger:             log,
		})
		if err != nil {
			return nil, "", fmt.Errorf("bigcache backend: %w", err)
		}
		return b, kind, nil
	}
	return nil, "", fmt.Errorf("%w: %q", backend.ErrUnknownKind, cfg.Backend)
}

func newLocal(cfg *config.Config, log replycache.Logger) *local.Local {
	return local.New(local.Config{MaxSize: cfg.MaxSize, Logger: log})
}

// Close flushes pending hook events, then releases the backend.
func (a *App) Close(ctx context.Context) error {
	a.hooks.Close()
	if err := a.Cache.Close(ctx); err != nil {
		a.log.Error("backend close failed", replycache.Fields{"err": err})
		return err
	}
	return nil
}
