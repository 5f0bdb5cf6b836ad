package codec

import "google.golang.org/protobuf/proto"

// Protobuf serializes generated protobuf messages. Objects that wrap a
// message are bridged with Adapt.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *pb.Genome { return &pb.Genome{} }
	opt proto.MarshalOptions
}

// NewProtobuf returns a codec using ctor to allocate decode targets.
// Deterministic marshaling is enabled so equal messages give equal bytes.
func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor, opt: proto.MarshalOptions{Deterministic: true}}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) { return c.opt.Marshal(v) }
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
