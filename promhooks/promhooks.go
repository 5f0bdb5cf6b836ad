// Package promhooks exports tierstore hook events as Prometheus counters.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/tierstore"
)

type Hooks struct {
	purges            *prometheus.CounterVec
	evicted           *prometheus.CounterVec
	writtenBack       *prometheus.CounterVec
	writeBackFailures *prometheus.CounterVec
	capacityViolated  *prometheus.CounterVec
	lookThrough       *prometheus.CounterVec
	internRejected    *prometheus.CounterVec
}

var _ tierstore.Hooks = (*Hooks)(nil)

// New registers the counters on reg under namespace (e.g. "app").
func New(namespace string, reg prometheus.Registerer) (*Hooks, error) {
	vec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tierstore",
			Name:      name,
			Help:      help,
		}, labels)
	}
	h := &Hooks{
		purges:            vec("purges_total", "Purge runs per level.", "level"),
		evicted:           vec("evicted_total", "Entries evicted by purge.", "level"),
		writtenBack:       vec("written_back_total", "Dirty entries written to the next level.", "level"),
		writeBackFailures: vec("write_back_failures_total", "Write-backs refused by the next level.", "level"),
		capacityViolated:  vec("capacity_violations_total", "Inserts that left a level over capacity.", "level"),
		lookThrough:       vec("look_through_total", "Misses forwarded to the next level.", "level", "found"),
		internRejected:    vec("intern_rejected_total", "Values returned uninterned by a full pool.", "pool"),
	}
	for _, c := range []prometheus.Collector{
		h.purges, h.evicted, h.writtenBack, h.writeBackFailures,
		h.capacityViolated, h.lookThrough, h.internRejected,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) Purged(level string, evicted, written int) {
	h.purges.WithLabelValues(level).Inc()
	h.evicted.WithLabelValues(level).Add(float64(evicted))
	h.writtenBack.WithLabelValues(level).Add(float64(written))
}

func (h *Hooks) WriteBackFailed(level, _ string, _ error) {
	h.writeBackFailures.WithLabelValues(level).Inc()
}

func (h *Hooks) CapacityViolated(level string, _, _ int) {
	h.capacityViolated.WithLabelValues(level).Inc()
}

func (h *Hooks) LookThrough(level, _ string, found bool) {
	f := "false"
	if found {
		f = "true"
	}
	h.lookThrough.WithLabelValues(level, f).Inc()
}

func (h *Hooks) InternRejected(pool string, _ int) {
	h.internRejected.WithLabelValues(pool).Inc()
}
