// Package codec converts stored objects to and from bytes for
// tierstore.ProviderStore.
//
// Decode must return a fresh value on every call: the store hands the
// result to a cache level as a new, independently owned object.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
