package tierstore

import "context"

// Level is the contract shared by caches and terminal stores.
//
// A miss is not an error: Get returns (zero, false, nil). There is no removal
// method; entries leave a cache only through Purge.
type Level[K comparable, V Object[K]] interface {
	Get(ctx context.Context, key K) (v V, ok bool, err error)
	Put(ctx context.Context, key K, value V) error
	// Contains reports presence at this level or any level below it.
	Contains(ctx context.Context, key K) (bool, error)
	// Exists reports whether the backing medium has been initialized.
	Exists(ctx context.Context) (bool, error)
}

// Config describes one cache level. Only Next is required.
type Config[K comparable, V Object[K]] struct {
	// Name labels the level in logs, hooks and errors. Defaults to "cache".
	Name string

	// Capacity 0 makes the level unbounded: it never purges on its own and
	// keeps no eviction index. PurgeBatch must then be 0 as well.
	// Capacity > 0 requires 0 < PurgeBatch <= Capacity.
	Capacity   int
	PurgeBatch int

	// Next is the level misses and write-backs go to. The cache shares it
	// and never closes it.
	Next Level[K, V]

	Storage Storage // StorageMap by default

	// PromoteOnRead inserts look-through hits into this level. The promoted
	// object is the instance the next level returned: a cache below keeps
	// referencing it too, and it keeps its dirty flag, so a dirty object
	// promoted from a cache is written back again when this level evicts it.
	PromoteOnRead bool

	VerifyOnPut bool // run Verify and Consistency on Put

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// New validates cfg and builds a cache level.
func New[K comparable, V Object[K]](cfg Config[K, V]) (*Cache[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	storage := cfg.Storage
	if cfg.Capacity == 0 {
		// nothing is ever selected for eviction
		storage = StorageMap
	}
	ents, err := newEntries[K, V](storage)
	if err != nil {
		return nil, err
	}

	c := &Cache[K, V]{
		name:       coalesce(cfg.Name, defaultLevelName),
		capacity:   cfg.Capacity,
		purgeBatch: cfg.PurgeBatch,
		next:       cfg.Next,
		promote:    cfg.PromoteOnRead,
		verify:     cfg.VerifyOnPut,
		log:        coalesce[Logger](cfg.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](cfg.Hooks, NopHooks{}),
		entries:    ents,
	}
	c.log.Debug("level created", Fields{
		"cache": c.name, "capacity": c.capacity, "purge_batch": c.purgeBatch, "storage": storage.String(),
	})
	return c, nil
}

func (cfg *Config[K, V]) validate() error {
	switch {
	case cfg.Next == nil:
		return &ConfigError{Field: "Next", Reason: "a next level is required"}
	case cfg.Capacity < 0:
		return &ConfigError{Field: "Capacity", Reason: "must not be negative"}
	case cfg.PurgeBatch < 0:
		return &ConfigError{Field: "PurgeBatch", Reason: "must not be negative"}
	case cfg.Capacity == 0 && cfg.PurgeBatch != 0:
		return &ConfigError{Field: "PurgeBatch", Reason: "unbounded levels do not purge; must be 0"}
	case cfg.Capacity > 0 && cfg.PurgeBatch == 0:
		return &ConfigError{Field: "PurgeBatch", Reason: "bounded levels need a purge batch > 0"}
	case cfg.PurgeBatch > cfg.Capacity:
		return &ConfigError{Field: "PurgeBatch", Reason: "must not exceed Capacity"}
	case cfg.Storage != StorageMap && cfg.Storage != StorageOrdered:
		return &ConfigError{Field: "Storage", Reason: "unknown storage " + cfg.Storage.String()}
	}
	return nil
}

// Tier is a Config without its Next level, used by Stack.
type Tier[K comparable, V Object[K]] struct {
	Name          string
	Capacity      int
	PurgeBatch    int
	Storage       Storage
	PromoteOnRead bool
	VerifyOnPut   bool
}

// Stack builds a chain over terminal, top tier first. It returns the top
// level and every level in order (top first).
func Stack[K comparable, V Object[K]](terminal Level[K, V], logger Logger, hooks Hooks, tiers ...Tier[K, V]) (*Cache[K, V], []*Cache[K, V], error) {
	if len(tiers) == 0 {
		return nil, nil, &ConfigError{Field: "tiers", Reason: "at least one tier is required"}
	}
	levels := make([]*Cache[K, V], len(tiers))
	next := terminal
	for i := len(tiers) - 1; i >= 0; i-- {
		t := tiers[i]
		c, err := New(Config[K, V]{
			Name:          t.Name,
			Capacity:      t.Capacity,
			PurgeBatch:    t.PurgeBatch,
			Next:          next,
			Storage:       t.Storage,
			PromoteOnRead: t.PromoteOnRead,
			VerifyOnPut:   t.VerifyOnPut,
			Logger:        logger,
			Hooks:         hooks,
		})
		if err != nil {
			return nil, nil, err
		}
		levels[i] = c
		next = c
	}
	return levels[0], levels, nil
}

// Drain purges every level of a chain top-down so dirty entries reach the
// bottom. Stops at the first failure.
func Drain[K comparable, V Object[K]](ctx context.Context, levels ...*Cache[K, V]) error {
	for _, c := range levels {
		if err := c.Drain(ctx); err != nil {
			return err
		}
	}
	return nil
}
