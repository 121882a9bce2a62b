package proof

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/JafarAz/emulated-light-client/bits"
	"github.com/JafarAz/emulated-light-client/cryptohash"
)

const (
	// actualFlag is set in every Actual tag and clear in every Item tag.
	actualFlag byte = 0x80

	actualTagBranch        byte = 0x80 // | left.IsValue<<1 | right.IsValue
	actualTagExtension     byte = 0x84 // | child.IsValue
	actualTagLookupKeyLeft byte = 0x86
)

// actualTag returns the first byte of the encoding of a.
func actualTag(a Actual) byte {
	switch v := a.(type) {
	case BranchActual:
		return actualTagBranch | flag(v.Left.IsValue)<<1 | flag(v.Right.IsValue)
	case ExtensionActual:
		return actualTagExtension | flag(v.Child.IsValue)
	case LookupKeyLeftActual:
		return actualTagLookupKeyLeft
	}
	panic(fmt.Errorf("%w: actual %T", ErrUnknownVariant, a))
}

// NewExtensionActual builds an ExtensionActual from an extension key
// slice.
func NewExtensionActual(left uint16, key bits.Slice, child OwnedRef) (ExtensionActual, error) {
	buf, err := bits.AppendExtensionKey(nil, key)
	if err != nil {
		return ExtensionActual{}, fmt.Errorf("%w: %v", ErrInvalidExtension, err)
	}
	return ExtensionActual{Left: left, Key: buf, Child: child}, nil
}

// KeySlice parses the extension key buffer.
func (v ExtensionActual) KeySlice() (bits.Slice, error) {
	return bits.DecodeExtensionKey(v.Key)
}

// checkExtensionKey verifies key is as long as its own tag says, using the
// same derivation the decoder uses to find its end.
func checkExtensionKey(key []byte) error {
	if len(key) < bits.TagBytes {
		return fmt.Errorf("%w: key buffer of %d bytes has no tag", ErrInvalidExtension, len(key))
	}
	n := bits.EncodedKeyLen(uint16(key[0])<<8 | uint16(key[1]))
	if n > bits.MaxExtensionKeySize {
		return fmt.Errorf("%w: key too long: %d", ErrInvalidExtension, n)
	}
	if len(key) != bits.TagBytes+n {
		return fmt.Errorf("%w: key buffer is %d bytes, tag says %d", ErrInvalidExtension, len(key), bits.TagBytes+n)
	}
	return nil
}

// ValidateActual reports whether a can be encoded.
func ValidateActual(a Actual) error {
	switch v := a.(type) {
	case BranchActual:
		return nil
	case ExtensionActual:
		return checkExtensionKey(v.Key)
	case LookupKeyLeftActual:
		if v.Left == 0 {
			return ErrInvalidLookupKeyLeft
		}
		return nil
	}
	return fmt.Errorf("%w: actual %T", ErrUnknownVariant, a)
}

// ActualSize returns the encoded size of a.
func ActualSize(a Actual) int {
	switch v := a.(type) {
	case BranchActual:
		return 1 + 2*cryptohash.Size
	case ExtensionActual:
		return 1 + 2 + len(v.Key) + cryptohash.Size
	}
	return 1 + 2 + cryptohash.Size
}

// AppendActual appends the encoding of a to dst.
//
// It panics if ValidateActual(a) fails.
func AppendActual(dst []byte, a Actual) []byte {
	if err := ValidateActual(a); err != nil {
		panic(err)
	}
	dst = append(dst, actualTag(a))
	switch v := a.(type) {
	case BranchActual:
		dst = appendOwnedRef(dst, v.Left)
		return appendOwnedRef(dst, v.Right)
	case ExtensionActual:
		dst = appendU16LE(dst, v.Left)
		// No length prefix: the key's tag determines its size.
		dst = append(dst, v.Key...)
		return appendOwnedRef(dst, v.Child)
	case LookupKeyLeftActual:
		dst = appendU16LE(dst, v.Left)
		return cryptohash.Append(dst, v.Hash)
	}
	return dst
}

// MarshalActual returns the encoding of a.
func MarshalActual(a Actual) []byte {
	return AppendActual(make([]byte, 0, ActualSize(a)), a)
}

// EncodeActual writes the encoding of a to w.
func EncodeActual(w io.Writer, a Actual) error {
	return writeAll(w, MarshalActual(a))
}

// DecodeActual reads one Actual from r.
func DecodeActual(r io.Reader) (Actual, error) {
	rd := asReader(r)
	first, err := rd.ReadByte()
	if err != nil {
		return nil, err
	}
	return decodeActualCont(first, rd)
}

// UnmarshalActual decodes b, which must hold exactly one Actual.
func UnmarshalActual(b []byte) (Actual, error) {
	r := bytes.NewReader(b)
	a, err := DecodeActual(r)
	if err != nil {
		return nil, err
	}
	if err := checkConsumed(r); err != nil {
		return nil, err
	}
	return a, nil
}

// decodeActualCont decodes an Actual whose first byte has already been
// read.
func decodeActualCont(first byte, r Reader) (Actual, error) {
	switch {
	case first >= actualTagBranch && first <= actualTagBranch|3:
		left, err := readOwnedRef(r, first&2 != 0)
		if err != nil {
			return nil, err
		}
		right, err := readOwnedRef(r, first&1 != 0)
		if err != nil {
			return nil, err
		}
		return BranchActual{Left: left, Right: right}, nil

	case first == actualTagExtension || first == actualTagExtension|1:
		left, err := readU16LE(r)
		if err != nil {
			return nil, err
		}
		key, err := readExtensionKey(r)
		if err != nil {
			return nil, err
		}
		child, err := readOwnedRef(r, first&1 != 0)
		if err != nil {
			return nil, err
		}
		return ExtensionActual{Left: left, Key: key, Child: child}, nil

	case first == actualTagLookupKeyLeft:
		left, err := readU16LE(r)
		if err != nil {
			return nil, err
		}
		if left == 0 {
			return nil, ErrInvalidLookupKeyLeft
		}
		h, err := cryptohash.Read(r)
		if err != nil {
			return nil, noEOF(err)
		}
		return LookupKeyLeftActual{Left: left, Hash: h}, nil
	}
	return nil, fmt.Errorf("%w: Actual tag 0x%02x", ErrInvalidTag, first)
}

// readExtensionKey reads a key buffer whose length is implied by its
// leading two byte tag.
func readExtensionKey(r Reader) ([]byte, error) {
	var buf [bits.TagBytes + bits.MaxExtensionKeySize]byte
	if _, err := io.ReadFull(r, buf[:bits.TagBytes]); err != nil {
		return nil, noEOF(err)
	}
	n := bits.EncodedKeyLen(uint16(buf[0])<<8 | uint16(buf[1]))
	if n > bits.MaxExtensionKeySize {
		return nil, fmt.Errorf("%w: key too long: %d", ErrInvalidExtension, n)
	}
	end := bits.TagBytes + n
	if _, err := io.ReadFull(r, buf[bits.TagBytes:end]); err != nil {
		return nil, noEOF(err)
	}
	key := make([]byte, end)
	copy(key, buf[:end])
	return key, nil
}

// decodeItemOrActual reads the first entry of a non-membership proof,
// which is an Item or an Actual depending on the top bit of its first byte.
// Exactly one of the returned values is non-nil on success.
func decodeItemOrActual(r Reader) (Item, Actual, error) {
	first, err := r.ReadByte()
	if err != nil {
		return nil, nil, err
	}
	if first&actualFlag == 0 {
		it, err := decodeItemCont(first, r)
		return it, nil, err
	}
	a, err := decodeActualCont(first, r)
	return nil, a, err
}

func (v BranchActual) String() string {
	return "Actual::Branch(" + v.Left.String() + ", " + v.Right.String() + ")"
}

func (v ExtensionActual) String() string {
	key := hex.EncodeToString(v.Key)
	if s, err := v.KeySlice(); err == nil {
		key = fmt.Sprintf("%d+%d:%x", s.Offset, s.Length, s.Bytes)
	}
	return fmt.Sprintf("Actual::Extension(left=%d, key=%s, %s)", v.Left, key, v.Child)
}

func (v LookupKeyLeftActual) String() string {
	return fmt.Sprintf("Actual::LookupKeyLeft(left=%d, %s)", v.Left, v.Hash)
}
