package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unkn0wn-root/replycache"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	block  chan struct{}
}

func (r *recorder) add(s string) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) Hit(k string)                    { r.add("hit:" + k) }
func (r *recorder) Miss(k string)                   { r.add("miss:" + k) }
func (r *recorder) Stored(k string)                 { r.add("stored:" + k) }
func (r *recorder) BackendError(op string, _ error) { r.add("err:" + op) }
func (r *recorder) SelfHeal(k, reason string)       { r.add("heal:" + k + ":" + reason) }

var _ replycache.Hooks = (*recorder)(nil)

func TestAsyncDeliversBeforeClose(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 1, 16)

	h.Hit("a")
	h.Miss("b")
	h.Stored("c")
	h.BackendError("get", errors.New("down"))
	h.SelfHeal("d", "decode")
	h.Close()

	assert.Equal(t, []string{"hit:a", "miss:b", "stored:c", "err:get", "heal:d:decode"}, rec.events)
	assert.Zero(t, h.Dropped())
}

func TestAsyncDropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	h := New(rec, 1, 1)

	// Worker takes the first event and blocks; the second fills the queue.
	for i := 0; i < 10; i++ {
		h.Hit("k")
	}
	close(rec.block)
	h.Close()

	assert.Positive(t, h.Dropped())
	assert.Less(t, len(rec.events), 10)
}

func TestAsyncAfterCloseIsSafe(t *testing.T) {
	h := New(nil, 0, 0)
	h.Close()
	h.Close()
	assert.NotPanics(t, func() { h.Hit("late") })
	assert.EqualValues(t, 1, h.Dropped())
}
