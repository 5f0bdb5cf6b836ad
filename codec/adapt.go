package codec

// Adapt bridges an object type V to a wire type W that Inner knows how to
// encode. to extracts the wire form; from rebuilds a fresh V.
//
//	codec.Adapt[*tierstore.Record[string, Genome]](
//	    codec.Msgpack[tierstore.Snapshot[string, Genome]]{},
//	    (*tierstore.Record[string, Genome]).Snapshot,
//	    tierstore.RestoreRecord[string, Genome],
//	)
func Adapt[V, W any](inner Codec[W], to func(V) W, from func(W) V) Codec[V] {
	return adapter[V, W]{inner: inner, to: to, from: from}
}

type adapter[V, W any] struct {
	inner Codec[W]
	to    func(V) W
	from  func(W) V
}

func (a adapter[V, W]) Encode(v V) ([]byte, error) { return a.inner.Encode(a.to(v)) }
func (a adapter[V, W]) Decode(b []byte) (V, error) {
	w, err := a.inner.Decode(b)
	if err != nil {
		var zero V
		return zero, err
	}
	return a.from(w), nil
}
