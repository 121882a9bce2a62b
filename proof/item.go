package proof

import (
	"bytes"
	"fmt"
	"io"

	"github.com/JafarAz/emulated-light-client/cryptohash"
)

const (
	itemTagBranchNode  byte = 0x00
	itemTagBranchValue byte = 0x10
	itemTagExtension   byte = 0x20
	itemTagExtensionHi byte = 0x21
	itemTagValue       byte = 0x30
)

// itemTag returns the first byte of the encoding of it.
func itemTag(it Item) byte {
	switch v := it.(type) {
	case BranchItem:
		return flag(v.Child.IsValue) << 4
	case ExtensionItem:
		return itemTagExtension | byte(v.Bits.Bits()>>8)
	case ValueItem:
		return itemTagValue
	}
	panic(fmt.Errorf("%w: item %T", ErrUnknownVariant, it))
}

// ItemSize returns the encoded size of it.
func ItemSize(it Item) int {
	if _, ok := it.(ExtensionItem); ok {
		return 2
	}
	return 1 + cryptohash.Size
}

// ValidateItem reports whether it can be encoded.
func ValidateItem(it Item) error {
	switch v := it.(type) {
	case BranchItem, ValueItem:
		return nil
	case ExtensionItem:
		if !v.Bits.valid() {
			return fmt.Errorf("%w: bit length %d", ErrInvalidExtension, v.Bits.Bits())
		}
		return nil
	}
	return fmt.Errorf("%w: item %T", ErrUnknownVariant, it)
}

// AppendItem appends the encoding of it to dst.
//
// It panics if ValidateItem(it) fails.
func AppendItem(dst []byte, it Item) []byte {
	if err := ValidateItem(it); err != nil {
		panic(err)
	}
	dst = append(dst, itemTag(it))
	switch v := it.(type) {
	case BranchItem:
		return appendOwnedRef(dst, v.Child)
	case ExtensionItem:
		return append(dst, byte(v.Bits.Bits()))
	case ValueItem:
		return cryptohash.Append(dst, v.Hash)
	}
	return dst
}

// MarshalItem returns the encoding of it.
func MarshalItem(it Item) []byte {
	return AppendItem(make([]byte, 0, ItemSize(it)), it)
}

// EncodeItem writes the encoding of it to w.
func EncodeItem(w io.Writer, it Item) error {
	return writeAll(w, MarshalItem(it))
}

// DecodeItem reads one Item from r.
func DecodeItem(r io.Reader) (Item, error) {
	return decodeItem(asReader(r))
}

// UnmarshalItem decodes b, which must hold exactly one Item.
func UnmarshalItem(b []byte) (Item, error) {
	r := bytes.NewReader(b)
	it, err := decodeItem(r)
	if err != nil {
		return nil, err
	}
	if err := checkConsumed(r); err != nil {
		return nil, err
	}
	return it, nil
}

func decodeItem(r Reader) (Item, error) {
	first, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	return decodeItemCont(first, r)
}

// decodeItemCont decodes an Item whose first byte has already been read.
func decodeItemCont(first byte, r Reader) (Item, error) {
	switch first {
	case itemTagBranchNode, itemTagBranchValue:
		ref, err := readOwnedRef(r, first == itemTagBranchValue)
		if err != nil {
			return nil, err
		}
		return BranchItem{Child: ref}, nil
	case itemTagExtension, itemTagExtensionHi:
		second, err := readByteCont(r)
		if err != nil {
			return nil, err
		}
		bits := uint16(first&1)<<8 | uint16(second)
		if bits == 0 {
			return nil, fmt.Errorf("%w: empty Extension item", ErrInvalidExtension)
		}
		return ExtensionItem{Bits: ExtensionLen{bits: bits}}, nil
	case itemTagValue:
		h, err := cryptohash.Read(r)
		if err != nil {
			return nil, noEOF(err)
		}
		return ValueItem{Hash: h}, nil
	}
	return nil, fmt.Errorf("%w: Item tag 0x%02x", ErrInvalidTag, first)
}

func checkConsumed(r *bytes.Reader) error {
	if n := r.Len(); n != 0 {
		return fmt.Errorf("%w: %d", ErrTrailingBytes, n)
	}
	return nil
}

func (v BranchItem) String() string    { return "Branch(" + v.Child.String() + ")" }
func (v ExtensionItem) String() string { return fmt.Sprintf("Extension(%d)", v.Bits.Bits()) }
func (v ValueItem) String() string     { return "Value(" + v.Hash.String() + ")" }
