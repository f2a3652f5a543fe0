package replycache

import (
	"context"

	"github.com/unkn0wn-root/replycache/backend"
)

// Stats is a point-in-time view of the cache counters.
type Stats struct {
	Enabled bool          `json:"enabled"`
	Hits    uint64        `json:"hits"`
	Misses  uint64        `json:"misses"`
	Sets    uint64        `json:"sets"`
	Errors  uint64        `json:"errors"`
	HitRate float64       `json:"hit_rate"` // percent; 0 before the first lookup
	Backend backend.Stats `json:"backend"`
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func (rc *cache) Stats(ctx context.Context) Stats {
	hits, misses := rc.hits.Load(), rc.misses.Load()
	bs := rc.backend.Stats(ctx)
	if bs.Err != nil {
		rc.log.Error("backend stats failed", Fields{"err": bs.Err})
	}
	return Stats{
		Enabled: rc.enabled,
		Hits:    hits,
		Misses:  misses,
		Sets:    rc.sets.Load(),
		Errors:  rc.errors.Load(),
		HitRate: hitRate(hits, misses),
		Backend: bs,
	}
}
