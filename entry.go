package replycache

import "time"

// Params are the generation parameters that, with the normalized prompt,
// identify a cached reply.
type Params struct {
	Model       string
	Temperature float64
}

// DefaultParams mirrors the completion defaults: model "default", temperature 0.7.
func DefaultParams() Params {
	return Params{Model: defaultModel, Temperature: defaultTemp}
}

// Entry is the payload written to a backend. The prompt is kept (truncated) only
// to make raw store contents readable when debugging. Every codec keys fields
// by the json tags.
type Entry struct {
	Response    string  `json:"response"`
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	CachedAt    float64 `json:"cachedAt"` // unix seconds
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
