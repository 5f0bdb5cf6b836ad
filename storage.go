package tierstore

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/google/btree"
)

// Storage selects how a level keeps its entries and picks purge victims.
// Both behaviors evict the same entries; they differ in cost.
type Storage int

const (
	// StorageMap keeps a plain map and scans it on every purge with a
	// bounded heap: O(N log n) per purge of n entries, no per-access cost.
	StorageMap Storage = iota
	// StorageOrdered also maintains a B-tree keyed by sequence stamp, so a
	// purge costs O(n log N). Stamps moved by touches outside the cache are
	// re-keyed lazily when they surface at the front of the tree.
	StorageOrdered
)

func (s Storage) String() string {
	switch s {
	case StorageMap:
		return "map"
	case StorageOrdered:
		return "ordered"
	default:
		return fmt.Sprintf("Storage(%d)", int(s))
	}
}

// entries is the storage behavior under a Cache. Callers hold the level lock.
type entries[K comparable, V Object[K]] interface {
	get(key K) (V, bool)
	put(key K, v V)
	remove(key K)
	// touched re-indexes key after a cache-mediated access.
	touched(key K)
	// oldest returns up to n keys with the smallest stamps, oldest first.
	oldest(n int) []K
	len() int
}

func newEntries[K comparable, V Object[K]](s Storage) (entries[K, V], error) {
	switch s {
	case StorageMap:
		return &mapEntries[K, V]{m: make(map[K]slot[V])}, nil
	case StorageOrdered:
		return &orderedEntries[K, V]{
			m: make(map[K]slot[V]),
			tree: btree.NewG[victim[K]](32, func(a, b victim[K]) bool {
				return a.before(b)
			}),
		}, nil
	default:
		return nil, &ConfigError{Field: "Storage", Reason: "unknown storage " + s.String()}
	}
}

type slot[V any] struct {
	val V
	ord uint64 // insertion order; breaks stamp ties
	seq uint64 // stamp as last indexed (ordered storage only)
}

type victim[K comparable] struct {
	key K
	seq uint64
	ord uint64
}

func (a victim[K]) before(b victim[K]) bool {
	if a.seq != b.seq {
		return a.seq < b.seq
	}
	return a.ord < b.ord
}

// victimHeap is a max-heap: the root is the youngest candidate kept so far.
type victimHeap[K comparable] []victim[K]

func (h victimHeap[K]) Len() int           { return len(h) }
func (h victimHeap[K]) Less(i, j int) bool { return h[j].before(h[i]) }
func (h victimHeap[K]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *victimHeap[K]) Push(x any)        { *h = append(*h, x.(victim[K])) }
func (h *victimHeap[K]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type mapEntries[K comparable, V Object[K]] struct {
	m   map[K]slot[V]
	ord uint64
}

func (e *mapEntries[K, V]) get(key K) (V, bool) {
	s, ok := e.m[key]
	return s.val, ok
}

func (e *mapEntries[K, V]) put(key K, v V) {
	if s, ok := e.m[key]; ok {
		s.val = v
		e.m[key] = s
		return
	}
	e.ord++
	e.m[key] = slot[V]{val: v, ord: e.ord}
}

func (e *mapEntries[K, V]) remove(key K) { delete(e.m, key) }
func (e *mapEntries[K, V]) touched(K)    {}
func (e *mapEntries[K, V]) len() int     { return len(e.m) }

func (e *mapEntries[K, V]) oldest(n int) []K {
	if n <= 0 || len(e.m) == 0 {
		return nil
	}
	if n > len(e.m) {
		n = len(e.m)
	}
	h := make(victimHeap[K], 0, n)
	for k, s := range e.m {
		c := victim[K]{key: k, seq: s.val.Sequence(), ord: s.ord}
		if len(h) < n {
			heap.Push(&h, c)
			continue
		}
		if c.before(h[0]) {
			h[0] = c
			heap.Fix(&h, 0)
		}
	}
	sort.Slice(h, func(i, j int) bool { return h[i].before(h[j]) })
	out := make([]K, len(h))
	for i, c := range h {
		out[i] = c.key
	}
	return out
}

type orderedEntries[K comparable, V Object[K]] struct {
	m    map[K]slot[V]
	tree *btree.BTreeG[victim[K]]
	ord  uint64
}

func (e *orderedEntries[K, V]) get(key K) (V, bool) {
	s, ok := e.m[key]
	return s.val, ok
}

func (e *orderedEntries[K, V]) put(key K, v V) {
	s, ok := e.m[key]
	if ok {
		e.tree.Delete(victim[K]{key: key, seq: s.seq, ord: s.ord})
	} else {
		e.ord++
		s.ord = e.ord
	}
	s.val = v
	s.seq = v.Sequence()
	e.m[key] = s
	e.tree.ReplaceOrInsert(victim[K]{key: key, seq: s.seq, ord: s.ord})
}

func (e *orderedEntries[K, V]) remove(key K) {
	s, ok := e.m[key]
	if !ok {
		return
	}
	e.tree.Delete(victim[K]{key: key, seq: s.seq, ord: s.ord})
	delete(e.m, key)
}

func (e *orderedEntries[K, V]) touched(key K) {
	s, ok := e.m[key]
	if !ok {
		return
	}
	cur := s.val.Sequence()
	if cur == s.seq {
		return
	}
	e.tree.Delete(victim[K]{key: key, seq: s.seq, ord: s.ord})
	s.seq = cur
	e.m[key] = s
	e.tree.ReplaceOrInsert(victim[K]{key: key, seq: cur, ord: s.ord})
}

func (e *orderedEntries[K, V]) len() int { return len(e.m) }

// oldest pops from the front of the tree. Stamps only grow, so an indexed
// stamp is never newer than the object's: when the front entry is current it
// is the true minimum, and a stale one is re-keyed and retried.
func (e *orderedEntries[K, V]) oldest(n int) []K {
	if n <= 0 {
		return nil
	}
	out := make([]K, 0, min(n, len(e.m)))
	held := make([]victim[K], 0, cap(out))
	for len(out) < n {
		it, ok := e.tree.DeleteMin()
		if !ok {
			break
		}
		s := e.m[it.key]
		if cur := s.val.Sequence(); cur != it.seq {
			s.seq = cur
			e.m[it.key] = s
			e.tree.ReplaceOrInsert(victim[K]{key: it.key, seq: cur, ord: it.ord})
			continue
		}
		held = append(held, it)
		out = append(out, it.key)
	}
	for _, it := range held {
		e.tree.ReplaceOrInsert(it)
	}
	return out
}
