package tierstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// genome is a test payload: a run of codons with a declared length.
type genome struct {
	Codons []string `json:"codons" msgpack:"codons" cbor:"1,keyasint"`
	Length int      `json:"length" msgpack:"length" cbor:"2,keyasint"`
}

func (g genome) Verify() error {
	if g.Length < 0 {
		return errors.New("negative length")
	}
	for _, c := range g.Codons {
		if len(c) != 3 {
			return fmt.Errorf("codon %q is not a triplet", c)
		}
	}
	return nil
}

func (g genome) Consistency() error {
	if g.Length != len(g.Codons) {
		return fmt.Errorf("declared length %d, have %d codons", g.Length, len(g.Codons))
	}
	return nil
}

type gene = Record[string, genome]

func newGene(id string, codons ...string) *gene {
	return NewRecord(id, genome{Codons: codons, Length: len(codons)})
}

// locus is a composite key whose fields can print identically for distinct
// values: {"a b", ""} and {"a", "b "} both print as "{a b }".
type locus struct{ Chrom, Pos string }

type site = Record[locus, int]

// accession prints the same for every value.
type accession string

func (accession) String() string { return "accession" }

// countingLevel wraps a level, counts Put calls and can be told to fail them.
type countingLevel struct {
	Level[string, *gene]

	mu   sync.Mutex
	puts int
	gets int
	keys []string
	fail error
	gate chan struct{} // when set, Get blocks until it is closed
}

func newCountingStore() (*countingLevel, *MemStore[string, *gene]) {
	ms := NewMemStore[string, *gene]()
	return &countingLevel{Level: ms}, ms
}

func (l *countingLevel) Put(ctx context.Context, key string, v *gene) error {
	l.mu.Lock()
	l.puts++
	fail := l.fail
	if fail == nil {
		l.keys = append(l.keys, key)
	}
	l.mu.Unlock()
	if fail != nil {
		return fail
	}
	return l.Level.Put(ctx, key, v)
}

func (l *countingLevel) Get(ctx context.Context, key string) (*gene, bool, error) {
	l.mu.Lock()
	l.gets++
	gate := l.gate
	l.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return l.Level.Get(ctx, key)
}

func (l *countingLevel) getCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gets
}

func (l *countingLevel) putCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.puts
}

func (l *countingLevel) written() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...)
}

func (l *countingLevel) setFail(err error) {
	l.mu.Lock()
	l.fail = err
	l.mu.Unlock()
}

type recordingHooks struct {
	NopHooks
	purges            atomic.Int32
	evicted           atomic.Int32
	writeBackFailures atomic.Int32
	lookThroughs      atomic.Int32
	capacity          atomic.Int32
}

func (h *recordingHooks) Purged(_ string, evicted, _ int) {
	h.purges.Add(1)
	h.evicted.Add(int32(evicted))
}
func (h *recordingHooks) WriteBackFailed(string, string, error) { h.writeBackFailures.Add(1) }
func (h *recordingHooks) LookThrough(string, string, bool)      { h.lookThroughs.Add(1) }
func (h *recordingHooks) CapacityViolated(string, int, int)     { h.capacity.Add(1) }

func newTestCache(t *testing.T, next Level[string, *gene], tweak func(*Config[string, *gene])) *Cache[string, *gene] {
	t.Helper()
	cfg := Config[string, *gene]{
		Name:       "test",
		Capacity:   3,
		PurgeBatch: 1,
		Next:       next,
	}
	if tweak != nil {
		tweak(&cfg)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func mustPut(t *testing.T, l Level[string, *gene], recs ...*gene) {
	t.Helper()
	for _, r := range recs {
		if err := l.Put(context.Background(), r.Key(), r); err != nil {
			t.Fatalf("Put(%s): %v", r.Key(), err)
		}
	}
}

// resident lists the keys held at this level only.
func resident(c *Cache[string, *gene]) map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool)
	switch e := c.entries.(type) {
	case *mapEntries[string, *gene]:
		for k := range e.m {
			out[k] = true
		}
	case *orderedEntries[string, *gene]:
		for k := range e.m {
			out[k] = true
		}
	}
	return out
}

var storages = []Storage{StorageMap, StorageOrdered}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
