package tierstore

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	c "github.com/unkn0wn-root/tierstore/codec"
	"github.com/unkn0wn-root/tierstore/internal/util"
	"github.com/unkn0wn-root/tierstore/internal/wire"
	pr "github.com/unkn0wn-root/tierstore/provider"
)

// MemStore is an in-process terminal level. It keeps the objects it is
// given and marks them clean on Put. Meant for tests and for hierarchies
// whose bottom is memory anyway.
type MemStore[K comparable, V Object[K]] struct {
	Restricted[K, V]

	mu sync.RWMutex
	m  map[K]V
}

var (
	_ Level[string, *Record[string, int]]   = (*MemStore[string, *Record[string, int]])(nil)
	_ Remover[string, *Record[string, int]] = (*MemStore[string, *Record[string, int]])(nil)
)

func NewMemStore[K comparable, V Object[K]]() *MemStore[K, V] {
	return &MemStore[K, V]{m: make(map[K]V)}
}

func (s *MemStore[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if ok {
		v.Touch()
	}
	return v, ok, nil
}

func (s *MemStore[K, V]) Put(_ context.Context, key K, value V) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	value.state().markClean()
	return nil
}

func (s *MemStore[K, V]) Contains(_ context.Context, key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[key]
	return ok, nil
}

func (s *MemStore[K, V]) Exists(context.Context) (bool, error) { return s.m != nil, nil }

func (s *MemStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// StoreOptions configure a ProviderStore. Namespace, Provider and Codec are required.
type StoreOptions[K comparable, V Object[K]] struct {
	Namespace string // keyspace prefix, e.g. "genome"
	Provider  pr.Provider
	Codec     c.Codec[V]

	TTL    time.Duration // passed to the provider; 0 => no expiry
	Logger Logger        // nil => NopLogger

	// CostFunc sizes a framed entry for cost-aware providers. Default: frame length.
	CostFunc func(storageKey string, frame []byte) int64

	// KeyFunc renders a key for the provider keyspace. It must be injective:
	// two keys rendering alike share one provider entry. Required unless K is
	// a string or integer type, which render by their underlying value.
	KeyFunc func(K) string
}

// ProviderStore is a terminal level that persists objects as framed bytes
// through a provider.Provider. Objects read back are fresh instances: clean
// and stamped with a new sequence value.
type ProviderStore[K comparable, V Object[K]] struct {
	Restricted[K, V]

	ns       string
	provider pr.Provider
	codec    c.Codec[V]
	ttl      time.Duration
	log      Logger
	cost     func(string, []byte) int64
	render   func(K) string
}

var _ Level[string, *Record[string, int]] = (*ProviderStore[string, *Record[string, int]])(nil)

func NewProviderStore[K comparable, V Object[K]](opts StoreOptions[K, V]) (*ProviderStore[K, V], error) {
	if opts.Provider == nil {
		return nil, &ConfigError{Field: "Provider", Reason: "a provider is required"}
	}
	if opts.Codec == nil {
		return nil, &ConfigError{Field: "Codec", Reason: "a codec is required"}
	}
	if opts.Namespace == "" {
		return nil, &ConfigError{Field: "Namespace", Reason: "a namespace is required"}
	}
	render := opts.KeyFunc
	if render == nil {
		var ok bool
		if render, ok = util.ScalarFunc[K](); !ok {
			return nil, &ConfigError{Field: "KeyFunc", Reason: "required for key type " + reflect.TypeOf((*K)(nil)).Elem().String()}
		}
	}
	s := &ProviderStore[K, V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		ttl:      opts.TTL,
		log:      coalesce[Logger](opts.Logger, NopLogger{}),
		cost:     opts.CostFunc,
		render:   render,
	}
	if s.cost == nil {
		s.cost = func(_ string, frame []byte) int64 { return int64(len(frame)) }
	}
	return s, nil
}

func (s *ProviderStore[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	sk := s.storageKey(key)
	raw, ok, err := s.provider.Get(ctx, sk)
	if err != nil {
		return zero, false, fmt.Errorf("tierstore: store %q get %s: %w", s.ns, sk, err)
	}
	if !ok {
		return zero, false, nil
	}

	framedKey, payload, err := wire.Decode(raw)
	if err != nil {
		s.log.Warn("corrupt entry", Fields{"ns": s.ns, "key": sk})
		return zero, false, fmt.Errorf("tierstore: store %q entry %s: %w", s.ns, sk, err)
	}
	if framedKey != sk {
		s.log.Warn("entry framed under a different key", Fields{"ns": s.ns, "key": sk, "framed": framedKey})
		return zero, false, fmt.Errorf("tierstore: store %q entry %s framed as %s: %w", s.ns, sk, framedKey, wire.ErrCorrupt)
	}

	v, err := s.codec.Decode(payload)
	if err != nil {
		return zero, false, fmt.Errorf("tierstore: store %q decode %s: %w", s.ns, sk, err)
	}
	if v.Key() != key {
		return zero, false, &ObjectError{Key: key, Stage: "key", Err: errKeyMismatch(key, v.Key())}
	}
	v.state().settle()
	return v, true, nil
}

// Put persists value and marks it clean once the provider accepted it.
// A provider refusing the write yields ErrRejected so a purging cache keeps
// the entry.
func (s *ProviderStore[K, V]) Put(ctx context.Context, key K, value V) error {
	sk := s.storageKey(key)
	payload, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("tierstore: store %q encode %s: %w", s.ns, sk, err)
	}
	frame, err := wire.Encode(sk, payload)
	if err != nil {
		return fmt.Errorf("tierstore: store %q frame %s: %w", s.ns, sk, err)
	}
	ok, err := s.provider.Set(ctx, sk, frame, s.cost(sk, frame), s.ttl)
	if err != nil {
		return fmt.Errorf("tierstore: store %q set %s: %w", s.ns, sk, err)
	}
	if !ok {
		s.log.Debug("provider rejected write", Fields{"ns": s.ns, "key": sk})
		return fmt.Errorf("tierstore: store %q set %s: %w", s.ns, sk, ErrRejected)
	}
	value.state().markClean()
	return nil
}

// Contains checks the provider without decoding. A corrupt entry still counts.
func (s *ProviderStore[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	_, ok, err := s.provider.Get(ctx, s.storageKey(key))
	return ok, err
}

func (s *ProviderStore[K, V]) Exists(ctx context.Context) (bool, error) {
	return s.provider.Ready(ctx)
}

// Close closes the provider.
func (s *ProviderStore[K, V]) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *ProviderStore[K, V]) storageKey(key K) string { return util.StorageKey(s.ns, s.render(key)) }
