package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/tierstore"
)

type recorder struct {
	tierstore.NopHooks
	mu      sync.Mutex
	events  []string
	started chan struct{}
	release chan struct{}
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) Purged(l string, _, _ int) {
	if r.started != nil {
		r.started <- struct{}{}
		<-r.release
	}
	r.add("purged:" + l)
}
func (r *recorder) WriteBackFailed(l, _ string, _ error) { r.add("wbf:" + l) }
func (r *recorder) LookThrough(l, _ string, _ bool)      { r.add("look:" + l) }
func (r *recorder) InternRejected(p string, _ int)       { r.add("intern:" + p) }

func TestCloseDrainsQueue(t *testing.T) {
	rec := &recorder{}
	h := New(rec, 2, 16)
	h.Purged("hot", 1, 1)
	h.WriteBackFailed("hot", "k", errors.New("x"))
	h.LookThrough("warm", "k", true)
	h.InternRejected("ids", 10)
	h.CapacityViolated("hot", 3, 2)
	h.Close()
	h.Close()

	if len(rec.events) != 4 {
		t.Fatalf("events = %v", rec.events)
	}
	if h.Dropped() != 0 {
		t.Fatalf("Dropped = %d", h.Dropped())
	}
}

func TestFullQueueDrops(t *testing.T) {
	rec := &recorder{started: make(chan struct{}), release: make(chan struct{})}
	h := New(rec, 1, 1)

	h.Purged("a", 0, 0)
	<-rec.started // worker is busy with the first event
	h.LookThrough("b", "k", false)
	h.LookThrough("c", "k", false)
	if h.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", h.Dropped())
	}
	close(rec.release)
	h.Close()
	if len(rec.events) != 2 {
		t.Fatalf("events = %v", rec.events)
	}
}
