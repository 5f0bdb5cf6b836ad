package codec

import "fmt"

// Limit wraps another codec and refuses payloads larger than Max bytes in
// both directions. Max <= 0 disables the check.
//
// Encode-side limiting keeps oversized objects out of providers with an
// entry size cap (BigCache MaxEntrySize); decode-side limiting protects
// against oversized entries written by a foreign process into a shared store.
type Limit[V any] struct {
	Inner Codec[V]
	Max   int
}

func (c Limit[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.Max > 0 && len(b) > c.Max {
		return nil, fmt.Errorf("codec: encoded payload too large: %d > %d", len(b), c.Max)
	}
	return b, nil
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.Max > 0 && len(b) > c.Max {
		var zero V
		return zero, fmt.Errorf("codec: payload too large: %d > %d", len(b), c.Max)
	}
	return c.Inner.Decode(b)
}
