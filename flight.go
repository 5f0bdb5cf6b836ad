package tierstore

import (
	"strconv"
	"sync"
)

// flightKeys maps level keys to singleflight keys. A key keeps its id while
// any caller holds it and ids are never reused, so distinct keys never share
// a call however they print. The zero value is ready to use.
type flightKeys[K comparable] struct {
	mu   sync.Mutex
	seq  uint64
	live map[K]*flightKey
}

type flightKey struct {
	id   string
	refs int
}

func (f *flightKeys[K]) acquire(key K) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fk, ok := f.live[key]; ok {
		fk.refs++
		return fk.id
	}
	if f.live == nil {
		f.live = make(map[K]*flightKey)
	}
	f.seq++
	fk := &flightKey{id: strconv.FormatUint(f.seq, 36), refs: 1}
	f.live[key] = fk
	return fk.id
}

func (f *flightKeys[K]) release(key K) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fk, ok := f.live[key]
	if !ok {
		return
	}
	if fk.refs--; fk.refs == 0 {
		delete(f.live, key)
	}
}

// holders reports how many callers hold key.
func (f *flightKeys[K]) holders(key K) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fk, ok := f.live[key]; ok {
		return fk.refs
	}
	return 0
}
