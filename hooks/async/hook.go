// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    LookThroughEvery: 100, // sample ~1% of look-throughs
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	top, _ := tierstore.New(tierstore.Config[string, *Genome]{
//	    Name: "hot", Next: store, Hooks: hooks,
//	})
//
// Levels call hooks under their lock; wrapping a slow sink in async keeps
// that lock short. Events are dropped when the queue is full.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/tierstore"
)

type Hooks struct {
	inner   tierstore.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ tierstore.Hooks = (*Hooks)(nil)

func New(inner tierstore.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Hooks must not be
// called after Close.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports events lost to a full queue.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Purged(l string, evicted, written int) {
	h.try(func() { h.inner.Purged(l, evicted, written) })
}
func (h *Hooks) WriteBackFailed(l, k string, err error) {
	h.try(func() { h.inner.WriteBackFailed(l, k, err) })
}
func (h *Hooks) CapacityViolated(l string, size, capacity int) {
	h.try(func() { h.inner.CapacityViolated(l, size, capacity) })
}
func (h *Hooks) LookThrough(l, k string, found bool) {
	h.try(func() { h.inner.LookThrough(l, k, found) })
}
func (h *Hooks) InternRejected(p string, size int) {
	h.try(func() { h.inner.InternRejected(p, size) })
}
