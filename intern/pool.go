// Package intern deduplicates small immutable values: equal inputs share
// one canonical instance, held by pointer.
//
// Pools are bounded and never evict. A full pool hands back an uninterned
// copy instead, trading dedup for a fixed memory ceiling. Pools are
// independent of each other and of the tiered caches.
package intern

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/tierstore"
)

// Pool holds at most one canonical *T per distinct value.
type Pool[T comparable] struct {
	name  string
	limit int // 0 => unbounded
	log   tierstore.Logger
	hooks tierstore.Hooks

	mu sync.RWMutex
	m  map[T]*T

	hits    atomic.Uint64
	inserts atomic.Uint64
	rejects atomic.Uint64
}

type Options struct {
	Name   string
	Limit  int              // maximum canonical values; 0 => unbounded
	Logger tierstore.Logger // nil => NopLogger
	Hooks  tierstore.Hooks  // nil => NopHooks
}

func New[T comparable](opts Options) *Pool[T] {
	p := &Pool[T]{
		name:  opts.Name,
		limit: max(opts.Limit, 0),
		log:   opts.Logger,
		hooks: opts.Hooks,
		m:     make(map[T]*T),
	}
	if p.log == nil {
		p.log = tierstore.NopLogger{}
	}
	if p.hooks == nil {
		p.hooks = tierstore.NopHooks{}
	}
	return p
}

// Intern returns the canonical pointer for v, storing v as canonical if it
// is new. When the pool is full, it returns a fresh pointer that is not
// shared with any other call.
func (p *Pool[T]) Intern(v T) *T {
	p.mu.RLock()
	ptr, ok := p.m[v]
	p.mu.RUnlock()
	if ok {
		p.hits.Add(1)
		return ptr
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ptr, ok := p.m[v]; ok {
		p.hits.Add(1)
		return ptr
	}
	if p.limit > 0 && len(p.m) >= p.limit {
		if p.rejects.Add(1) == 1 {
			p.log.Warn("intern pool full; values pass through uninterned", tierstore.Fields{
				"pool": p.name, "limit": p.limit,
			})
		}
		p.hooks.InternRejected(p.name, len(p.m))
		return &v
	}
	ptr = &v
	p.m[v] = ptr
	p.inserts.Add(1)
	return ptr
}

// Lookup returns the canonical pointer without inserting.
func (p *Pool[T]) Lookup(v T) (*T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ptr, ok := p.m[v]
	return ptr, ok
}

func (p *Pool[T]) Contains(v T) bool {
	_, ok := p.Lookup(v)
	return ok
}

func (p *Pool[T]) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

func (p *Pool[T]) Limit() int   { return p.limit }
func (p *Pool[T]) Name() string { return p.name }

type Stats struct {
	Hits    uint64
	Inserts uint64
	Rejects uint64
}

func (p *Pool[T]) Stats() Stats {
	return Stats{Hits: p.hits.Load(), Inserts: p.inserts.Load(), Rejects: p.rejects.Load()}
}
