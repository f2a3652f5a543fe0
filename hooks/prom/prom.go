// Package promhook exports cache events as Prometheus counters.
//
//	reg := prometheus.NewRegistry()
//	rc, _ := replycache.New(replycache.Options{Backend: be, Hooks: promhook.New(reg, "peacebot")})
//
// Keys never become label values: cardinality stays bounded by op and reason.
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/replycache"
)

const subsystem = "replycache"

type Hooks struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	stored        prometheus.Counter
	backendErrors *prometheus.CounterVec
	selfHeals     *prometheus.CounterVec
}

var _ replycache.Hooks = (*Hooks)(nil)

// New registers the counters on reg. A nil reg leaves them unregistered,
// which is handy in tests.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hits_total",
			Help:      "Lookups answered from the cache",
		}),
		misses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misses_total",
			Help:      "Lookups that found no usable entry",
		}),
		stored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stored_total",
			Help:      "Responses written to the backend",
		}),
		backendErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backend_errors_total",
			Help:      "Backend failures absorbed by the cache",
		}, []string{"op"}),
		selfHeals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "self_heals_total",
			Help:      "Unreadable entries dropped on read",
		}, []string{"reason"}),
	}
}

func (h *Hooks) Hit(string)    { h.hits.Inc() }
func (h *Hooks) Miss(string)   { h.misses.Inc() }
func (h *Hooks) Stored(string) { h.stored.Inc() }

func (h *Hooks) BackendError(op string, _ error) {
	h.backendErrors.WithLabelValues(op).Inc()
}

func (h *Hooks) SelfHeal(_, reason string) {
	h.selfHeals.WithLabelValues(reason).Inc()
}
