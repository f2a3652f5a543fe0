package util

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestResponseKeyEquivalenceClass(t *testing.T) {
	base := ResponseKey("I feel anxious", "gpt-4o-mini", 0.7)
	for _, p := range []string{"i feel anxious", "  I FEEL ANXIOUS\n", "\tI Feel Anxious "} {
		if got := ResponseKey(p, "gpt-4o-mini", 0.7); got != base {
			t.Fatalf("prompt %q: key %s != %s", p, got, base)
		}
	}
}

func TestResponseKeySeparatesParams(t *testing.T) {
	base := ResponseKey("hello", "m1", 0.7)
	if ResponseKey("hello", "m2", 0.7) == base {
		t.Fatalf("model must be part of the key")
	}
	if ResponseKey("hello", "m1", 0.2) == base {
		t.Fatalf("temperature must be part of the key")
	}
	if ResponseKey("hello there", "m1", 0.7) == base {
		t.Fatalf("prompt text must be part of the key")
	}
}

func TestResponseKeyIsSHA256OfCanonicalString(t *testing.T) {
	sum := sha256.Sum256([]byte("hello world:default:0.7"))
	want := hex.EncodeToString(sum[:])
	if got := ResponseKey("  Hello World ", "default", 0.7); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if len(want) != 64 {
		t.Fatalf("expected 64 hex chars")
	}
}

func TestFormatTemperature(t *testing.T) {
	cases := map[float64]string{
		0:    "0.0",
		1:    "1.0",
		0.7:  "0.7",
		1.25: "1.25",
		2:    "2.0",
	}
	for in, want := range cases {
		if got := FormatTemperature(in); got != want {
			t.Fatalf("FormatTemperature(%v) = %q want %q", in, got, want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
