// Package redis is the remote backend: a thin adapter over a Redis-compatible store.
//
// Every logical key is stored under Prefix+key so Clear can scope deletion to this
// cache and leave unrelated data in the same database alone. Expiry is native
// (SET ... EX), so dead entries are never returned.
package redis

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/replycache"
	"github.com/unkn0wn-root/replycache/backend"
)

const (
	DefaultPrefix      = "replycache:"
	defaultDialTimeout = 5 * time.Second
	scanBatch          = 500
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	prefix      string
	closeClient bool
	log         replycache.Logger
}

var _ backend.Backend = (*Redis)(nil)

type Config struct {
	// Either Client or Addr. A caller-supplied Client is not closed by Close
	// unless CloseClient is set.
	Client      goredis.UniversalClient
	CloseClient bool

	Addr     string // host:port
	Password string
	DB       int

	Prefix string // "" => DefaultPrefix
	Logger replycache.Logger
}

// New connects and probes the store once with PING. A failed probe is a
// provisioning error: nothing is retried here and the caller decides whether
// to fall back or abort.
func New(ctx context.Context, cfg Config) (*Redis, error) {
	r := &Redis{
		rdb:         cfg.Client,
		prefix:      cfg.Prefix,
		closeClient: cfg.CloseClient,
		log:         replycache.SafeLogger(cfg.Logger),
	}
	if r.prefix == "" {
		r.prefix = DefaultPrefix
	}
	if r.rdb == nil {
		if cfg.Addr == "" {
			return nil, ErrNilClient
		}
		r.rdb = goredis.NewClient(&goredis.Options{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			DialTimeout: defaultDialTimeout,
		})
		r.closeClient = true
	}

	if err := r.rdb.Ping(ctx).Err(); err != nil {
		r.log.Error("redis backend ping failed", replycache.Fields{"addr": cfg.Addr, "err": err})
		if r.closeClient {
			_ = r.rdb.Close()
		}
		return nil, err
	}
	r.log.Info("redis backend initialized", replycache.Fields{"addr": cfg.Addr, "db": cfg.DB, "prefix": r.prefix})
	return r, nil
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// Redis reads a zero expiry as "keep forever"; an entry with no lifetime
		// is dead on arrival, so drop whatever was there instead.
		if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := r.rdb.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Del(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear walks prefix* with SCAN and deletes in batches. KEYS is avoided because
// it blocks the server on large databases.
func (r *Redis) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, r.prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			n, err := r.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return err
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	r.log.Info("redis backend cleared", replycache.Fields{"prefix": r.prefix, "removed": removed})
	return nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Stats(ctx context.Context) backend.Stats {
	n, err := r.countKeys(ctx)
	if err != nil {
		r.log.Error("redis backend stats failed", replycache.Fields{"err": err})
		return backend.Failed(backend.KindRemote, err)
	}
	mem := "N/A"
	if info, err := r.rdb.Info(ctx, "memory").Result(); err == nil {
		if v, ok := infoField(info, "used_memory_human"); ok {
			mem = v
		}
	}
	return backend.Stats{
		Kind:       backend.KindRemote,
		Keys:       n,
		MemoryUsed: mem,
		Connected:  true,
	}
}

func (r *Redis) countKeys(ctx context.Context) (int64, error) {
	var (
		cursor uint64
		total  int64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, r.prefix+"*", scanBatch).Result()
		if err != nil {
			return 0, err
		}
		total += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

// infoField pulls one "name:value" line out of an INFO reply.
func infoField(info, name string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, name+":"); ok {
			return v, true
		}
	}
	return "", false
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
