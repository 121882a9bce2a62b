package bits

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// MaxExtensionKeySize is the maximum number of key data bytes an
	// extension node stores, excluding the two tag bytes.
	MaxExtensionKeySize = 34

	// TagBytes is the width of the big-endian tag leading an encoded Slice.
	TagBytes = 2

	// MaxLength is the largest bit length representable in the tag.
	MaxLength = 1<<13 - 1
)

var (
	ErrBadOffset     = errors.New("bits: offset must be in 0..7")
	ErrBadLength     = errors.New("bits: length does not fit the tag")
	ErrShortBytes    = errors.New("bits: not enough bytes for offset and length")
	ErrKeyTooLong    = errors.New("bits: encoded key exceeds the maximum extension key size")
	ErrNonCanonical  = errors.New("bits: bits outside the slice are set")
	ErrShortEncoding = errors.New("bits: encoded slice truncated")
	ErrTrailingBytes = errors.New("bits: trailing bytes after encoded slice")
)

// Slice is a run of Length bits starting Offset bits into Bytes.
type Slice struct {
	Offset uint8
	Length uint16
	Bytes  []byte
}

// NewSlice returns the slice of length bits beginning offset bits into b.
//
// b may be longer than needed; only the covered bytes are retained.
func NewSlice(b []byte, offset uint8, length uint16) (Slice, error) {
	if offset > 7 {
		return Slice{}, ErrBadOffset
	}
	if length > MaxLength {
		return Slice{}, ErrBadLength
	}
	n := byteLen(offset, length)
	if n > len(b) {
		return Slice{}, fmt.Errorf("%w: need %d have %d", ErrShortBytes, n, len(b))
	}
	return Slice{Offset: offset, Length: length, Bytes: b[:n]}, nil
}

// FromKey returns the slice covering every bit of key.
func FromKey(key []byte) (Slice, error) {
	if len(key)*8 > MaxLength {
		return Slice{}, ErrBadLength
	}
	return Slice{Offset: 0, Length: uint16(len(key) * 8), Bytes: key}, nil
}

func byteLen(offset uint8, length uint16) int {
	return (int(offset) + int(length) + 7) / 8
}

// Tag returns the two byte header value Length<<3 | Offset.
func (s Slice) Tag() uint16 {
	return s.Length<<3 | uint16(s.Offset)
}

// EncodedKeyLen returns the number of data bytes following an encoded
// slice tag.
func EncodedKeyLen(tag uint16) int {
	return (int(tag%8) + int(tag/8) + 7) / 8
}

// EncodedLen returns the full encoded size of s including the tag.
func (s Slice) EncodedLen() int {
	return TagBytes + EncodedKeyLen(s.Tag())
}

// At returns bit i of the slice, counting from its first bit.
func (s Slice) At(i uint16) bool {
	if i >= s.Length {
		panic(fmt.Sprintf("bits: index %d out of range for length %d", i, s.Length))
	}
	pos := uint(s.Offset) + uint(i)
	return s.Bytes[pos/8]&(0x80>>(pos%8)) != 0
}

// Equal reports whether s and o cover the same bit sequence at the same
// offset.
func (s Slice) Equal(o Slice) bool {
	if s.Offset != o.Offset || s.Length != o.Length {
		return false
	}
	return bytes.Equal(s.masked(), o.masked())
}

// masked returns the covered bytes with bits outside the slice cleared.
func (s Slice) masked() []byte {
	n := byteLen(s.Offset, s.Length)
	out := make([]byte, n)
	copy(out, s.Bytes[:n])
	if n == 0 {
		return out
	}
	out[0] &= 0xFF >> s.Offset
	if tail := (uint(s.Offset) + uint(s.Length)) % 8; tail != 0 {
		out[n-1] &= 0xFF << (8 - tail)
	}
	return out
}

// AppendSlice appends the canonical encoding of s to dst.
func AppendSlice(dst []byte, s Slice) []byte {
	tag := s.Tag()
	dst = append(dst, byte(tag>>8), byte(tag))
	return append(dst, s.masked()...)
}

// AppendExtensionKey appends the encoding of s, failing if it would not
// fit an extension node.
func AppendExtensionKey(dst []byte, s Slice) ([]byte, error) {
	if EncodedKeyLen(s.Tag()) > MaxExtensionKeySize {
		return nil, ErrKeyTooLong
	}
	return AppendSlice(dst, s), nil
}

// DecodeSlice parses one encoded slice from the start of b and returns it
// together with the number of bytes consumed.
//
// The returned slice aliases b.
func DecodeSlice(b []byte) (Slice, int, error) {
	if len(b) < TagBytes {
		return Slice{}, 0, ErrShortEncoding
	}
	tag := uint16(b[0])<<8 | uint16(b[1])
	n := EncodedKeyLen(tag)
	if len(b) < TagBytes+n {
		return Slice{}, 0, fmt.Errorf("%w: need %d have %d", ErrShortEncoding, TagBytes+n, len(b))
	}
	s := Slice{
		Offset: uint8(tag % 8),
		Length: tag / 8,
		Bytes:  b[TagBytes : TagBytes+n],
	}
	if !bytes.Equal(s.Bytes, s.masked()) {
		return Slice{}, 0, ErrNonCanonical
	}
	return s, TagBytes + n, nil
}

// DecodeExtensionKey parses an extension key buffer as produced by
// AppendExtensionKey. The whole of b must be consumed.
func DecodeExtensionKey(b []byte) (Slice, error) {
	s, n, err := DecodeSlice(b)
	if err != nil {
		return Slice{}, err
	}
	if n-TagBytes > MaxExtensionKeySize {
		return Slice{}, ErrKeyTooLong
	}
	if n != len(b) {
		return Slice{}, fmt.Errorf("%w: %d", ErrTrailingBytes, len(b)-n)
	}
	return s, nil
}
