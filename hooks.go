package replycache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// Lookup outcomes. key is the derived cache key, never the prompt.
	Hit(key string)
	Miss(key string)

	// A response was written through to the backend.
	Stored(key string)

	// The backend failed and the cache degraded to miss/false.
	// op ∈ {"get", "set", "delete", "clear"}
	BackendError(op string, err error)

	// A stored value could not be decoded and was deleted on read.
	// reason ∈ {"decode", "empty_response"}
	SelfHeal(key, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                 {}
func (NopHooks) Miss(string)                {}
func (NopHooks) Stored(string)              {}
func (NopHooks) BackendError(string, error) {}
func (NopHooks) SelfHeal(string, string)    {}
