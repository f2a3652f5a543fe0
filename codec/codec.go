// Package codec turns cached payloads into bytes for a backend and back.
//
// JSON is the default and the only format other tools can read straight out of
// Redis. The binary codecs trade that for size when the store is private to the
// process.
package codec

import (
	"errors"
	"fmt"
)

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

var ErrUnknownCodec = errors.New("codec: unknown codec")

// ByName resolves a configuration name to a codec for V.
// Accepted: "json" (or ""), "msgpack", "cbor", "protobuf".
func ByName[V any](name string) (Codec[V], error) {
	switch name {
	case "", "json":
		return JSON[V]{}, nil
	case "msgpack":
		return Msgpack[V]{}, nil
	case "cbor":
		return NewCBOR[V](true)
	case "protobuf", "proto":
		return Struct[V]{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
