package tierstore

import "context"

// Remover is the removal surface that collection-style tooling may probe
// for. Level deliberately omits it; every level in this package satisfies it
// only to reject the call.
type Remover[K comparable, V any] interface {
	Delete(ctx context.Context, key K) error
	Clear(ctx context.Context) error
	Pop(ctx context.Context, key K) (V, error)
	PopItem(ctx context.Context) (K, V, error)
}

// Restricted rejects removal. Removing an entry outside purge would drop
// dirty data that was never written back.
type Restricted[K comparable, V any] struct{}

func (Restricted[K, V]) Delete(context.Context, K) error { return unsupported("delete") }
func (Restricted[K, V]) Clear(context.Context) error     { return unsupported("clear") }

func (Restricted[K, V]) Pop(context.Context, K) (V, error) {
	var zero V
	return zero, unsupported("pop")
}

func (Restricted[K, V]) PopItem(context.Context) (K, V, error) {
	var (
		k K
		v V
	)
	return k, v, unsupported("popitem")
}
