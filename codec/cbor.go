package codec

import "github.com/fxamacker/cbor/v2"

// CBOR serializes values using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

// NewCBOR builds a CBOR codec. Deterministic selects RFC 8949 core
// deterministic encoding, which gives byte-stable frames for equal values
// (useful when stored bytes are hashed or compared). Times are written as
// RFC3339Nano strings. maxNested bounds decode nesting; 0 keeps the library
// default.
func NewCBOR[V any](deterministic bool, maxNested int) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, err
	}

	do := cbor.DecOptions{}
	if maxNested > 0 {
		do.MaxNestedLevels = maxNested
	}
	dm, err := do.DecMode()
	if err != nil {
		return CBOR[V]{}, err
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error. Meant for tests and
// package-level variables.
func MustCBOR[V any](deterministic bool) CBOR[V] {
	c, err := NewCBOR[V](deterministic, 0)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) { return c.enc.Marshal(v) }
func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	err := c.dec.Unmarshal(b, &v)
	return v, err
}
