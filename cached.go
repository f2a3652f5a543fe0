package replycache

import (
	"context"
	"time"
)

// Cached wraps fn so repeated prompts are served from c.
//
// On a hit fn is not called. On a miss fn runs and a non-empty reply is stored
// with ttl (0 => the cache default) before it is returned. Errors from fn pass
// through untouched and nothing is stored. A blank prompt bypasses the cache.
func Cached(c Cache, p Params, ttl time.Duration, fn GenerateFunc) GenerateFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		if reply, ok, err := c.CachedResponse(ctx, prompt, p); err == nil && ok {
			return reply, nil
		}

		reply, err := fn(ctx, prompt)
		if err != nil {
			return reply, err
		}
		if reply != "" {
			_, _ = c.CacheResponse(ctx, prompt, reply, p, ttl)
		}
		return reply, nil
	}
}
