package tierstore

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking: levels call them while
// holding their lock.
type Hooks interface {
	// A purge finished (or stopped early). written <= evicted unless the
	// purge failed on a write-back.
	Purged(level string, evicted, written int)

	// The next level refused a dirty entry during purge.
	WriteBackFailed(level, key string, err error)

	// A level exceeded its capacity after an insert (purge defect).
	CapacityViolated(level string, size, capacity int)

	// A miss was forwarded to the next level.
	LookThrough(level, key string, found bool)

	// An intern pool was full and returned the input uninterned.
	InternRejected(pool string, size int)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Purged(string, int, int)               {}
func (NopHooks) WriteBackFailed(string, string, error) {}
func (NopHooks) CapacityViolated(string, int, int)     {}
func (NopHooks) LookThrough(string, string, bool)      {}
func (NopHooks) InternRejected(string, int)            {}
