package codec

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

type reply struct {
	Response    string  `json:"response"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	CachedAt    float64 `json:"cachedAt"`
}

func TestCodecsPreserveReply(t *testing.T) {
	in := reply{Response: "Try a 4-7-8 breath ☀", Model: "gpt-4o-mini", Temperature: 0.7, CachedAt: 1700000000.25}

	for _, name := range []string{"json", "msgpack", "cbor", "protobuf"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName[reply](name)
			if err != nil {
				t.Fatalf("ByName: %v", err)
			}
			b, err := c.Encode(in)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			out, err := c.Decode(b)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if out != in {
				t.Fatalf("got %+v want %+v", out, in)
			}
		})
	}
}

func TestJSONIsFlatWireFormat(t *testing.T) {
	b, err := JSON[reply]{}.Encode(reply{Response: "hi", Model: "m", Temperature: 1, CachedAt: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"response":"hi","model":"m","temperature":1,"cachedAt":2}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName[reply]("xml"); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("expected ErrUnknownCodec, got %v", err)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	garbage := []byte{0xff, 0x00, 0x13}
	for _, name := range []string{"json", "msgpack", "cbor", "protobuf"} {
		c, _ := ByName[reply](name)
		if _, err := c.Decode(garbage); err == nil {
			t.Fatalf("%s: expected decode error on garbage", name)
		}
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	c := Limit[reply]{Inner: JSON[reply]{}, MaxDecode: 16}
	b, _ := c.Encode(reply{Response: "a fairly long response body"})
	if _, err := c.Decode(b); err == nil {
		t.Fatalf("expected size error")
	}

	open := Limit[reply]{Inner: JSON[reply]{}}
	if _, err := open.Decode(b); err != nil {
		t.Fatalf("MaxDecode=0 should disable the limit: %v", err)
	}
}

func TestBinaryCodecsKeyByJSONTags(t *testing.T) {
	in := reply{Response: "hi", Model: "m", Temperature: 0.5, CachedAt: 3}

	mp, err := Msgpack[reply]{}.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	var asMap map[string]any
	if err := msgpack.Unmarshal(mp, &asMap); err != nil {
		t.Fatal(err)
	}
	if asMap["cachedAt"] != 3.0 || asMap["response"] != "hi" {
		t.Fatalf("msgpack keys: %v", asMap)
	}

	cb, err := MustCBOR[reply](true).Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	asMap = nil
	if err := cbor.Unmarshal(cb, &asMap); err != nil {
		t.Fatal(err)
	}
	if asMap["model"] != "m" {
		t.Fatalf("cbor keys: %v", asMap)
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[reply](true)
	a, _ := c.Encode(reply{Response: "x", Model: "y"})
	b, _ := c.Encode(reply{Response: "x", Model: "y"})
	if string(a) != string(b) {
		t.Fatalf("deterministic encoding differs")
	}
}
