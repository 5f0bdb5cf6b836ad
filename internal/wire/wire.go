// Package wire frames encoded objects before they reach a provider.
// The frame repeats the storage key so a store can detect entries written
// under a colliding key rendering or by a foreign writer.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("tierstore: corrupt entry")
	magic4     = [...]byte{'T', 'I', 'E', 'R'}
)

const header = 4 + 1 + 2 // magic | ver | keyLen

// Encode frames payload under key:
//
//	magic(4) | ver(1) | keyLen(u16 be) | key(keyLen) | vlen(u32 be) | payload(vlen)
func Encode(key string, payload []byte) ([]byte, error) {
	if len(key) == 0 || len(key) > math.MaxUint16 {
		return nil, errors.New("tierstore: storage key length out of range")
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, errors.New("tierstore: payload too large to frame")
	}

	var buf bytes.Buffer
	buf.Grow(header + len(key) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u2 [2]byte
	binary.BigEndian.PutUint16(u2[:], uint16(len(key)))
	buf.Write(u2[:])
	buf.WriteString(key)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])
	buf.Write(payload)
	return buf.Bytes(), nil
}

// Decode validates a frame and returns its key and payload. The payload
// aliases b. Trailing bytes are rejected.
func Decode(b []byte) (key string, payload []byte, err error) {
	if len(b) < header || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return "", nil, ErrCorrupt
	}
	off := 5

	klen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if klen == 0 || klen > len(b)-off {
		return "", nil, ErrCorrupt
	}
	key = string(b[off : off+klen])
	off += klen

	if len(b)-off < 4 {
		return "", nil, ErrCorrupt
	}
	vlen := uint64(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != uint64(len(b)-off) {
		return "", nil, ErrCorrupt
	}
	return key, b[off:], nil
}
