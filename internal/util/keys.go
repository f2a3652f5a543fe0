package util

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// NormalizePrompt folds the prompts that must share a cache entry:
// case and surrounding whitespace are ignored.
func NormalizePrompt(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// FormatTemperature renders t in its shortest decimal form and keeps a trailing
// ".0" on integral values (1 -> "1.0", 0.7 -> "0.7"), so keys stay stable for
// any implementation that prints floats the same way.
func FormatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ResponseKey returns the lowercase hex sha256 (64 chars) of
// normalize(prompt) + ":" + model + ":" + temperature.
func ResponseKey(prompt, model string, temperature float64) string {
	var b strings.Builder
	np := NormalizePrompt(prompt)
	b.Grow(len(np) + len(model) + 24)
	b.WriteString(np)
	b.WriteByte(':')
	b.WriteString(model)
	b.WriteByte(':')
	b.WriteString(FormatTemperature(temperature))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
