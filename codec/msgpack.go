package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use. Use `msgpack:"name"` tags for explicit
// field names; they are independent of JSON tags.
type Msgpack[V any] struct{}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (Msgpack[V]) Encode(v V) ([]byte, error) { return msgpack.Marshal(v) }
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
