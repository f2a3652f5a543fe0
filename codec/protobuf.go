package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Struct stores V as a binary google.protobuf.Struct built from V's JSON form.
// It needs no generated message type, so any JSON-shaped V works. V must
// marshal to a JSON object.
type Struct[V any] struct{}

func (Struct[V]) Encode(v V) ([]byte, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(js, &m); err != nil {
		return nil, fmt.Errorf("protobuf codec: value is not an object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (Struct[V]) Decode(b []byte) (V, error) {
	var v V
	s := &structpb.Struct{}
	if err := proto.Unmarshal(b, s); err != nil {
		return v, err
	}
	js, err := json.Marshal(s.AsMap())
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(js, &v)
	return v, err
}
