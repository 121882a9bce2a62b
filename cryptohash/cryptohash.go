package cryptohash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
)

// Size is the fixed width of trie node and value digests.
const Size = 32

var (
	ErrBadSize    = errors.New("cryptohash: digest must be 32 bytes")
	ErrBadHexSize = errors.New("cryptohash: hex digest must be 64 characters")
)

// CryptoHash is an opaque 32-byte digest identifying a trie node or value.
// It is copied verbatim on the wire.
type CryptoHash [Size]byte

// FromSlice copies b into a CryptoHash.
func FromSlice(b []byte) (CryptoHash, error) {
	var h CryptoHash
	if len(b) != Size {
		return h, fmt.Errorf("%w: got %d", ErrBadSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ParseHex parses a 64 character hex string.
func ParseHex(s string) (CryptoHash, error) {
	var h CryptoHash
	if len(s) != 2*Size {
		return h, ErrBadHexSize
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return CryptoHash{}, err
	}
	return h, nil
}

// Sum computes SHA-256 over the concatenation of parts.
func Sum(parts ...[]byte) CryptoHash {
	return SumWith(sha256.New(), parts...)
}

// SumWith computes H( parts[0] || parts[1] || ... ) using hasher.
//
// hasher is reset before use and must produce 32 byte digests.
func SumWith(hasher hash.Hash, parts ...[]byte) CryptoHash {
	hasher.Reset()
	for _, p := range parts {
		_, _ = hasher.Write(p)
	}
	var out CryptoHash
	sum := hasher.Sum(out[:0])
	if len(sum) != Size {
		panic(ErrBadSize)
	}
	copy(out[:], sum)
	return out
}

func (h CryptoHash) IsZero() bool { return h == CryptoHash{} }

func (h CryptoHash) String() string { return hex.EncodeToString(h[:]) }

// Append appends the raw 32 bytes of h to dst.
func Append(dst []byte, h CryptoHash) []byte {
	return append(dst, h[:]...)
}

// Read reads exactly Size bytes from r.
//
// Short input is reported with the error io.ReadFull returns, unchanged.
func Read(r io.Reader) (CryptoHash, error) {
	var h CryptoHash
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return CryptoHash{}, err
	}
	return h, nil
}
