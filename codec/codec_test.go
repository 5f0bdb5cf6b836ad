package codec

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type variant struct {
	ID    string   `json:"id" msgpack:"id" cbor:"1,keyasint"`
	Alts  []string `json:"alts" msgpack:"alts" cbor:"2,keyasint"`
	Score float64  `json:"score" msgpack:"score" cbor:"3,keyasint"`
}

func TestStructCodecsRoundTrip(t *testing.T) {
	in := variant{ID: "rs429358", Alts: []string{"C", "T"}, Score: 0.93}
	codecs := map[string]Codec[variant]{
		"json":     JSON[variant]{},
		"msgpack":  Msgpack[variant]{},
		"cbor":     MustCBOR[variant](false),
		"cbor-det": MustCBOR[variant](true),
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := c.Encode(in)
			if err != nil {
				t.Fatal(err)
			}
			out, err := c.Decode(b)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("got %+v, want %+v", out, in)
			}
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"z": 1, "a": 2, "m": 3, "b": 4}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		b, _ := c.Encode(m)
		if !bytes.Equal(b, first) {
			t.Fatal("deterministic CBOR produced different bytes for an equal map")
		}
	}
}

func TestCBORMaxNested(t *testing.T) {
	if _, err := NewCBOR[any](false, 1); err == nil {
		t.Fatal("MaxNestedLevels below the library minimum accepted")
	}
	c, err := NewCBOR[any](false, 16)
	if err != nil {
		t.Fatal(err)
	}
	deep := any("leaf")
	for i := 0; i < 20; i++ {
		deep = []any{deep}
	}
	b, err := MustCBOR[any](false).Encode(deep)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode(b); err == nil {
		t.Fatal("over-nested payload decoded")
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	b, err := c.Encode(wrapperspb.String("ATGGCC"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(out, wrapperspb.String("ATGGCC")) {
		t.Fatalf("got %v", out)
	}
	if _, err := c.Decode([]byte{0xff, 0xff}); err == nil {
		t.Fatal("garbage decoded")
	}
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: String{}, Max: 8}
	if _, err := c.Encode("ATGATG"); err != nil {
		t.Fatalf("small payload: %v", err)
	}
	if _, err := c.Encode(strings.Repeat("A", 9)); err == nil {
		t.Fatal("oversized encode accepted")
	}
	if _, err := c.Decode(bytes.Repeat([]byte{'A'}, 9)); err == nil {
		t.Fatal("oversized decode accepted")
	}
	off := Limit[string]{Inner: String{}}
	if _, err := off.Encode(strings.Repeat("A", 1<<16)); err != nil {
		t.Fatalf("Max 0 must not limit: %v", err)
	}
}

func TestBytesDecodeCopies(t *testing.T) {
	src := []byte("ACGT")
	out, _ := Bytes{}.Decode(src)
	src[0] = 'T'
	if string(out) != "ACGT" {
		t.Fatalf("decoded bytes alias input: %q", out)
	}
}

type boxed struct{ v variant }

func TestAdapt(t *testing.T) {
	c := Adapt[*boxed](Msgpack[variant]{},
		func(b *boxed) variant { return b.v },
		func(v variant) *boxed { return &boxed{v: v} },
	)
	in := &boxed{v: variant{ID: "x", Alts: []string{"G"}}}
	b, err := c.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if out == in || !reflect.DeepEqual(out.v, in.v) {
		t.Fatalf("got %+v", out)
	}
	if _, err := c.Decode([]byte{0xc1}); err == nil {
		t.Fatal("invalid msgpack decoded")
	}
}
