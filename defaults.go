package replycache

import "time"

const (
	defaultTTL      = time.Hour
	defaultModel    = "default"
	defaultTemp     = 0.7
	promptPreview   = 50
	storedPromptMax = 100
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
