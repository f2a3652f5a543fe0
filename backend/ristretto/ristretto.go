// Package ristretto backs replycache with dgraph-io/ristretto: a cost-bounded,
// admission-controlled in-process store with native per-entry TTL.
//
// Unlike the local backend, ristretto may refuse a write under pressure (Set
// reports ok=false) and evicts by sampled LFU rather than insertion order.
// Cost is the value's byte length, so MaxCost is a byte budget.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/replycache"
	"github.com/unkn0wn-root/replycache/backend"
)

type Ristretto struct {
	c       *rc.Cache
	maxCost int64
	log     replycache.Logger
}

var _ backend.Backend = (*Ristretto)(nil)

type Config struct {
	NumCounters int64 // ~10x expected entries
	MaxCost     int64 // bytes
	BufferItems int64 // 64 is the upstream recommendation
	Logger      replycache.Logger
}

func New(cfg Config) (*Ristretto, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{c: c, maxCost: cfg.MaxCost, log: replycache.SafeLogger(cfg.Logger)}, nil
}

func (r *Ristretto) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := r.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		r.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set waits for the write buffer to drain so a following Get observes the value.
func (r *Ristretto) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// ristretto reads ttl 0 as "never expires"
		r.c.Del(key)
		return true, nil
	}
	ok := r.c.SetWithTTL(key, value, int64(len(value)), ttl)
	r.c.Wait()
	if !ok {
		r.log.Debug("ristretto rejected write", replycache.Fields{"key": key})
	}
	return ok, nil
}

func (r *Ristretto) Delete(_ context.Context, key string) (bool, error) {
	_, ok := r.c.Get(key)
	r.c.Del(key)
	return ok, nil
}

func (r *Ristretto) Clear(_ context.Context) error {
	r.c.Clear()
	return nil
}

func (r *Ristretto) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := r.Get(ctx, key)
	return ok, err
}

func (r *Ristretto) Stats(_ context.Context) backend.Stats {
	m := r.c.Metrics
	live := int(m.KeysAdded()) - int(m.KeysEvicted())
	if live < 0 {
		live = 0
	}
	cost := float64(m.CostAdded()) - float64(m.CostEvicted())
	if cost < 0 {
		cost = 0
	}
	return backend.Stats{
		Kind:        backend.KindRistretto,
		Size:        live,
		Utilization: cost / float64(r.maxCost) * 100,
		Connected:   true,
	}
}

func (r *Ristretto) Close(_ context.Context) error {
	r.c.Wait()
	r.c.Close()
	return nil
}
