package tierstore

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/tierstore/internal/util"
)

// Cache is one level of a hierarchy. Build it with New.
//
// All mutations of one level are serialized by a single lock, held across the
// capacity check, the purge and the insert. Write-back calls into the next
// level happen under that lock; locks are only ever taken top-down.
type Cache[K comparable, V Object[K]] struct {
	Restricted[K, V]

	name       string
	capacity   int
	purgeBatch int
	next       Level[K, V]
	promote    bool
	verify     bool
	log        Logger
	hooks      Hooks

	mu      sync.Mutex
	entries entries[K, V]

	flight   singleflight.Group
	inflight flightKeys[K]
	stats    counters
}

var (
	_ Level[string, *Record[string, int]]   = (*Cache[string, *Record[string, int]])(nil)
	_ Remover[string, *Record[string, int]] = (*Cache[string, *Record[string, int]])(nil)
)

func (c *Cache[K, V]) Name() string      { return c.name }
func (c *Cache[K, V]) Capacity() int     { return c.capacity }
func (c *Cache[K, V]) PurgeBatch() int   { return c.purgeBatch }
func (c *Cache[K, V]) Next() Level[K, V] { return c.next }
func (c *Cache[K, V]) Bounded() bool     { return c.capacity > 0 }
func (c *Cache[K, V]) Stats() Stats      { return c.stats.snapshot() }

// Len reports the entries resident at this level only.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.len()
}

// Get returns the object for key. A local hit touches the object. A miss is
// served by the next level without copying the object into this one, unless
// the level was built with PromoteOnRead. A promoted object is the instance
// the next level returned, so both levels may hold it until one purges it.
func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	c.mu.Lock()
	if v, ok := c.entries.get(key); ok {
		v.Touch()
		c.entries.touched(key)
		c.mu.Unlock()
		c.stats.hits.Add(1)
		return v, true, nil
	}
	c.mu.Unlock()
	c.stats.misses.Add(1)

	var zero V
	v, ok, err := c.lookThrough(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	c.stats.lookThroughHits.Add(1)

	if c.promote {
		if err := c.admit(ctx, key, v, false); err != nil {
			return zero, false, err
		}
	}
	return v, true, nil
}

type lookup[V any] struct {
	v  V
	ok bool
}

// lookThrough forwards a miss. Concurrent misses for one key share a call;
// the call is keyed by K itself, not by its printed form.
func (c *Cache[K, V]) lookThrough(ctx context.Context, key K) (V, bool, error) {
	id := c.inflight.acquire(key)
	defer c.inflight.release(key)
	res, err, _ := c.flight.Do(id, func() (any, error) {
		v, ok, err := c.next.Get(ctx, key)
		return lookup[V]{v: v, ok: ok}, err
	})
	c.hooks.LookThrough(c.name, util.KeyString(key), err == nil && res.(lookup[V]).ok)
	if err != nil {
		var zero V
		return zero, false, err
	}
	l := res.(lookup[V])
	return l.v, l.ok, nil
}

// Put inserts or overwrites key. Inserting a new key into a full bounded
// level purges PurgeBatch entries first; if that purge fails the insert is
// not performed and the purge error is returned.
func (c *Cache[K, V]) Put(ctx context.Context, key K, value V) error {
	if c.verify {
		if err := Check[K](value); err != nil {
			return err
		}
	}
	if value.Key() != key {
		return &ObjectError{Key: key, Stage: "key", Err: errKeyMismatch(key, value.Key())}
	}
	return c.admit(ctx, key, value, true)
}

func (c *Cache[K, V]) admit(ctx context.Context, key K, value V, overwrite bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.puts.Add(1)
	if old, ok := c.entries.get(key); ok {
		if !overwrite {
			return nil
		}
		// a replacement inherits unsaved changes of the entry it replaces
		if old.Dirty() {
			value.MarkDirty()
		}
		value.Touch()
		c.entries.put(key, value)
		return nil
	}

	if c.capacity > 0 && c.entries.len() >= c.capacity {
		if err := c.purgeLocked(ctx, c.purgeBatch); err != nil {
			return err
		}
	}
	value.Touch()
	c.entries.put(key, value)

	if c.capacity > 0 {
		if n := c.entries.len(); n > c.capacity {
			c.hooks.CapacityViolated(c.name, n, c.capacity)
			c.log.Error("capacity invariant violated", Fields{"cache": c.name, "len": n, "capacity": c.capacity})
			return &CapacityError{Level: c.name, Len: n, Capacity: c.capacity}
		}
	}
	return nil
}

// Contains reports presence at this level or any level below it.
// It does not touch the object.
func (c *Cache[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	c.mu.Lock()
	_, ok := c.entries.get(key)
	c.mu.Unlock()
	if ok {
		return true, nil
	}
	return c.next.Contains(ctx, key)
}

// Exists reports whether the backing medium below this level is initialized.
func (c *Cache[K, V]) Exists(ctx context.Context) (bool, error) {
	return c.next.Exists(ctx)
}

// Purge evicts the n least-recently-touched entries. Dirty entries are
// written to the next level before they leave; clean ones are dropped.
// n >= Len empties the level. Purge on an unbounded level is allowed and is
// how callers flush it explicitly.
func (c *Cache[K, V]) Purge(ctx context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked(ctx, n)
}

// Drain purges every entry, writing all dirty ones down. Use it on shutdown.
func (c *Cache[K, V]) Drain(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked(ctx, c.entries.len())
}

func (c *Cache[K, V]) purgeLocked(ctx context.Context, n int) error {
	if n <= 0 || c.entries.len() == 0 {
		return nil
	}
	c.stats.purges.Add(1)

	victims := c.entries.oldest(n)
	evicted, written := 0, 0
	for i, k := range victims {
		v, _ := c.entries.get(k)
		if v.Dirty() {
			if err := c.next.Put(ctx, k, v); err != nil {
				ks := util.KeyString(k)
				c.stats.evicted.Add(uint64(evicted))
				c.stats.writtenBack.Add(uint64(written))
				c.stats.writeBackFailures.Add(1)
				c.hooks.WriteBackFailed(c.name, ks, err)
				c.hooks.Purged(c.name, evicted, written)
				c.log.Error("write-back failed; entry retained", Fields{
					"cache": c.name, "key": ks, "evicted": evicted, "err": err,
				})
				return &WriteBackError{
					Level:    c.name,
					Key:      k,
					Evicted:  evicted,
					Retained: len(victims) - i,
					Err:      err,
				}
			}
			written++
		}
		// the next level owns it now (or nobody, if it was clean)
		c.entries.remove(k)
		evicted++
	}

	c.stats.evicted.Add(uint64(evicted))
	c.stats.writtenBack.Add(uint64(written))
	c.hooks.Purged(c.name, evicted, written)
	c.log.Debug("purged", Fields{"cache": c.name, "evicted": evicted, "written": written, "len": c.entries.len()})
	return nil
}
