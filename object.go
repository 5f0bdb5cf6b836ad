package tierstore

import "sync/atomic"

// Object is a unit of cached data.
//
// Implementations embed State, which supplies the dirty flag, the sequence
// stamp and the unexported accessor that seals this interface. Only caches
// and stores in this package can mark an object clean.
type Object[K comparable] interface {
	Key() K

	// Dirty reports whether the object changed since its last write-back.
	Dirty() bool
	MarkDirty()

	// Touch stamps the object with the next process sequence value.
	Touch()
	Sequence() uint64

	// Verify checks structural validity (ranges, required fields).
	Verify() error
	// Consistency checks cross-field semantics. An object may pass Verify
	// and still fail Consistency.
	Consistency() error

	state() *State
}

// State carries the bookkeeping every Object needs.
// The zero value is dirty with sequence 0: a new object has never been
// written back. It must not be copied after first use.
type State struct {
	clean atomic.Bool
	seq   atomic.Uint64
}

func (s *State) Dirty() bool      { return !s.clean.Load() }
func (s *State) MarkDirty()       { s.clean.Store(false) }
func (s *State) Sequence() uint64 { return s.seq.Load() }

// Touch never moves the stamp backwards, even when two goroutines race.
func (s *State) Touch() {
	n := NextSequence()
	for {
		cur := s.seq.Load()
		if cur >= n || s.seq.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (s *State) state() *State { return s }

// markClean is called by the component that completed a write-back.
func (s *State) markClean() { s.clean.Store(true) }

// settle prepares an object materialized from a store: clean and freshly stamped.
func (s *State) settle() {
	s.markClean()
	s.Touch()
}

// Check runs Verify then Consistency and wraps the first failure in ErrInvalidObject.
func Check[K comparable](o Object[K]) error {
	if err := o.Verify(); err != nil {
		return &ObjectError{Key: o.Key(), Stage: "verify", Err: err}
	}
	if err := o.Consistency(); err != nil {
		return &ObjectError{Key: o.Key(), Stage: "consistency", Err: err}
	}
	return nil
}
