package replycache

import (
	"errors"
	"fmt"
)

var (
	ErrNilBackend    = errors.New("replycache: backend is required")
	ErrEmptyPrompt   = errors.New("replycache: prompt is empty")
	ErrEmptyResponse = errors.New("replycache: response is empty")
)

// BackendError describes a backend failure the cache absorbed.
// It is handed to hooks and logs; callers of Cache never see it.
type BackendError struct {
	Op  string // get, set, delete, clear
	Key string
	Err error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("backend %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
