// Package backend defines the storage abstraction used by replycache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key. Encoding of the cached
// payload happens above this layer (see the codec package).
//
// Expiry is per entry: an entry stored with ttl is dead once now >= storedAt+ttl and
// must never be returned after that. A ttl <= 0 stores an entry that is already dead.
// Dead entries may be purged lazily on the next access.
package backend

import (
	"context"
	"fmt"
	"time"
)

// Backend is a minimal byte store with TTLs. Must be safe for concurrent use.
type Backend interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss or expiry.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set inserts or overwrites key with expiresAt = now + ttl.
	// ok=false means the store refused the write.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Delete removes key and reports whether it was present.
	Delete(ctx context.Context, key string) (bool, error)

	// Clear removes every entry owned by this backend's namespace and nothing else.
	Clear(ctx context.Context) error

	// Exists is Get without handing out the value.
	Exists(ctx context.Context, key string) (bool, error)

	// Stats never fails; problems are reported through Stats.Err.
	Stats(ctx context.Context) Stats

	// Close releases resources.
	Close(ctx context.Context) error
}

// Kind tags the concrete backend chosen at configuration time.
type Kind string

const (
	KindLocal     Kind = "local"
	KindRemote    Kind = "remote"
	KindRistretto Kind = "ristretto"
	KindBigCache  Kind = "bigcache"
)

// ParseKind maps a configuration string to a Kind. "memory" and "redis" are
// accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLocal, "memory", "":
		return KindLocal, nil
	case KindRemote, "redis":
		return KindRemote, nil
	case KindRistretto:
		return KindRistretto, nil
	case KindBigCache:
		return KindBigCache, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Stats is a backend-specific snapshot. Fields that do not apply stay zero.
type Stats struct {
	Kind Kind `json:"kind"`

	// in-process stores
	Size        int     `json:"size,omitempty"`
	MaxSize     int     `json:"max_size,omitempty"`
	Utilization float64 `json:"utilization,omitempty"` // percent of MaxSize

	// remote stores
	Keys       int64  `json:"keys,omitempty"`
	MemoryUsed string `json:"memory_used,omitempty"`
	Connected  bool   `json:"connected"`

	Err error `json:"-"`
}

// Failed builds the error-flagged Stats returned when collection itself fails.
func Failed(kind Kind, err error) Stats {
	return Stats{Kind: kind, Connected: false, Err: err}
}
