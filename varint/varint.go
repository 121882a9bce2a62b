// Package varint implements the unsigned variable length integer used for
// the leading tag of an encoded proof.
//
// Values are LEB128 encoded: seven bits per byte, least significant group
// first, with the most significant bit of each byte set when more bytes
// follow. The value domain is uint32 so an encoding never exceeds MaxLen
// bytes.
package varint

import (
	"errors"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxLen is the longest encoding of a uint32.
const MaxLen = 5

var (
	ErrOverflow = errors.New("varint: value overflows uint32")
	ErrTooLong  = errors.New("varint: encoding longer than 5 bytes")
)

// Append appends the encoding of v to dst.
func Append(dst []byte, v uint32) []byte {
	return protowire.AppendVarint(dst, uint64(v))
}

// Size returns the number of bytes Append writes for v.
func Size(v uint32) int {
	return protowire.SizeVarint(uint64(v))
}

// Read reads one encoded value from r, consuming exactly the bytes of the
// encoding.
//
// io.EOF is returned if r is empty and io.ErrUnexpectedEOF if it ends part
// way through a value; any other reader error is returned unchanged.
func Read(r io.ByteReader) (uint32, error) {
	var buf [MaxLen]byte
	n := 0
	for {
		if n == MaxLen {
			return 0, ErrTooLong
		}
		b, err := r.ReadByte()
		if err != nil {
			if n > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		buf[n] = b
		n++
		if b&0x80 == 0 {
			break
		}
	}

	// buf holds at most MaxLen bytes ending in a terminating byte.
	v, _ := protowire.ConsumeVarint(buf[:n])
	if v > math.MaxUint32 {
		return 0, ErrOverflow
	}
	return uint32(v), nil
}
