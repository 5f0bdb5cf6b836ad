package tierstore

import "sync"

// Record wraps a payload P and tracks dirtiness through its accessors:
// Update marks the record dirty, every accessor touches it. Prefer it over
// hand-rolled types that rely on callers remembering MarkDirty.
//
// Data returns a copy of P. If P holds slices or maps, mutate them through
// Update only, otherwise the change is invisible to write-back.
type Record[K comparable, P any] struct {
	State

	mu   sync.RWMutex
	key  K
	data P
}

var _ Object[string] = (*Record[string, struct{}])(nil)

// NewRecord returns a dirty record stamped with a fresh sequence value.
func NewRecord[K comparable, P any](key K, data P) *Record[K, P] {
	r := &Record[K, P]{key: key, data: data}
	r.Touch()
	return r
}

func (r *Record[K, P]) Key() K { return r.key }

// Data returns the payload and touches the record.
func (r *Record[K, P]) Data() P {
	r.Touch()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

// Read passes the payload to fn under a read lock and touches the record.
func (r *Record[K, P]) Read(fn func(P)) {
	r.Touch()
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.data)
}

// Update mutates the payload in place, marks the record dirty and touches it.
func (r *Record[K, P]) Update(fn func(*P)) {
	r.mu.Lock()
	fn(&r.data)
	r.mu.Unlock()
	r.MarkDirty()
	r.Touch()
}

// Verify delegates to P when it implements Verify() error.
func (r *Record[K, P]) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := any(r.data).(interface{ Verify() error }); ok {
		return v.Verify()
	}
	return nil
}

// Consistency delegates to P when it implements Consistency() error.
func (r *Record[K, P]) Consistency() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := any(r.data).(interface{ Consistency() error }); ok {
		return v.Consistency()
	}
	return nil
}

// Snapshot is the serializable form of a Record. It carries no cache state.
type Snapshot[K comparable, P any] struct {
	Key  K `json:"key" msgpack:"key" cbor:"1,keyasint"`
	Data P `json:"data" msgpack:"data" cbor:"2,keyasint"`
}

// Snapshot copies key and payload without touching the record.
func (r *Record[K, P]) Snapshot() Snapshot[K, P] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot[K, P]{Key: r.key, Data: r.data}
}

// RestoreRecord rebuilds a record from its snapshot. The result is dirty
// until a store settles it.
func RestoreRecord[K comparable, P any](s Snapshot[K, P]) *Record[K, P] {
	return NewRecord(s.Key, s.Data)
}
