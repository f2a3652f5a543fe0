// Package replycache caches chat completions keyed by (prompt, model, temperature).
// A miss always falls through to real generation and a broken backend only costs
// latency: backend failures are counted and logged, never returned to the caller.
//
// Components:
//   - Backend: byte store with per-entry TTL (local map, Redis, Ristretto, BigCache).
//   - Codec[Entry]: (de)serializes the cached payload. JSON by default, which is also
//     the flat on-the-wire format stored in Redis.
//   - Logger / Hooks: leveled logging and cheap event callbacks (hit, miss, store, error).
//
// Keys:
//
//	sha256(lower(trim(prompt)) + ":" + model + ":" + temperature)  - 64 hex chars
//
// Typical wiring:
//
//	rc, _ := replycache.New(replycache.Options{Backend: local.New(local.Config{MaxSize: 1000})})
//	gen := replycache.Cached(rc, replycache.DefaultParams(), 0, retry.Wrap(retry.Default(), complete))
//	reply, err := gen(ctx, "I feel anxious today")
package replycache
