package app

import "github.com/unkn0wn-root/replycache"

// fanout delivers each event to every hook in order.
type fanout []replycache.Hooks

var _ replycache.Hooks = fanout(nil)

func (f fanout) Hit(k string) {
	for _, h := range f {
		h.Hit(k)
	}
}

func (f fanout) Miss(k string) {
	for _, h := range f {
		h.Miss(k)
	}
}

func (f fanout) Stored(k string) {
	for _, h := range f {
		h.Stored(k)
	}
}

func (f fanout) BackendError(op string, err error) {
	for _, h := range f {
		h.BackendError(op, err)
	}
}

func (f fanout) SelfHeal(k, reason string) {
	for _, h := range f {
		h.SelfHeal(k, reason)
	}
}
