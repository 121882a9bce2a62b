package proof

import (
	"errors"
	"fmt"

	"github.com/JafarAz/emulated-light-client/cryptohash"
)

// MaxExtensionItemBits is the largest bit length an Extension item can
// carry: one bit in the tag byte and eight in the byte after it.
const MaxExtensionItemBits = 0x1FF

// maxPreallocItems bounds the item capacity reserved from an untrusted tag.
const maxPreallocItems = 256

var (
	ErrInvalidTag           = errors.New("proof: invalid tag")
	ErrInvalidExtension     = errors.New("proof: invalid extension")
	ErrInvalidLookupKeyLeft = errors.New("proof: lookup key left must be non-zero")
	ErrTrailingBytes        = errors.New("proof: trailing bytes after encoding")
	ErrTooManyEntries       = errors.New("proof: entry count does not fit the tag")
	ErrUnknownVariant       = errors.New("proof: unknown variant")
)

// OwnedRef references a child of a trie node, which is either another node
// or a value.
type OwnedRef struct {
	IsValue bool
	Hash    cryptohash.CryptoHash
}

func (r OwnedRef) String() string {
	if r.IsValue {
		return "value:" + r.Hash.String()
	}
	return "node:" + r.Hash.String()
}

// ExtensionLen is the non-zero number of key bits consumed by an Extension
// item. The zero value is invalid; construct with NewExtensionLen.
type ExtensionLen struct {
	bits uint16
}

// NewExtensionLen returns bits as an ExtensionLen. bits must be in
// 1..MaxExtensionItemBits.
func NewExtensionLen(bits uint16) (ExtensionLen, error) {
	if bits == 0 {
		return ExtensionLen{}, fmt.Errorf("%w: zero bit length", ErrInvalidExtension)
	}
	if bits > MaxExtensionItemBits {
		return ExtensionLen{}, fmt.Errorf("%w: bit length %d exceeds %d", ErrInvalidExtension, bits, MaxExtensionItemBits)
	}
	return ExtensionLen{bits: bits}, nil
}

// MustExtensionLen is NewExtensionLen for lengths known to be valid.
func MustExtensionLen(bits uint16) ExtensionLen {
	l, err := NewExtensionLen(bits)
	if err != nil {
		panic(err)
	}
	return l
}

func (l ExtensionLen) Bits() uint16 { return l.bits }

func (l ExtensionLen) valid() bool { return l.bits != 0 && l.bits <= MaxExtensionItemBits }

// Item is one step of a proof path. Items are ordered from the root towards
// the key.
//
// Implementations are BranchItem, ExtensionItem and ValueItem.
type Item interface {
	fmt.Stringer
	isItem()
}

// BranchItem is a branch node on the path; Child is the child the path
// continues into.
type BranchItem struct {
	Child OwnedRef
}

// ExtensionItem is an extension node consuming Bits key bits. The bits
// themselves are implied by the key being proven.
type ExtensionItem struct {
	Bits ExtensionLen
}

// ValueItem is the digest of the value stored for the key.
type ValueItem struct {
	Hash cryptohash.CryptoHash
}

func (BranchItem) isItem()    {}
func (ExtensionItem) isItem() {}
func (ValueItem) isItem()     {}

// Actual is the node found at the end of a failed lookup. It appears only
// in non-membership proofs.
//
// Implementations are BranchActual, ExtensionActual and LookupKeyLeftActual.
type Actual interface {
	fmt.Stringer
	isActual()
}

// BranchActual is a branch node where the lookup stopped.
type BranchActual struct {
	Left  OwnedRef
	Right OwnedRef
}

// ExtensionActual is an extension node whose key diverges from the lookup
// key. Key is the encoded bits.Slice of the extension, tag bytes included.
type ExtensionActual struct {
	Left  uint16
	Key   []byte
	Child OwnedRef
}

// LookupKeyLeftActual records that the lookup key ran out Left bits short
// inside the node with digest Hash.
type LookupKeyLeftActual struct {
	Left uint16
	Hash cryptohash.CryptoHash
}

func (BranchActual) isActual()        {}
func (ExtensionActual) isActual()     {}
func (LookupKeyLeftActual) isActual() {}

// Proof is either a Membership or a NonMembership proof.
//
// A nil Items slice is the canonical empty value: decoding never returns an
// empty non-nil slice, and nil and empty encode identically.
type Proof interface {
	isProof()
}

// Membership proves a key maps to a value. The final item is normally the
// ValueItem.
type Membership struct {
	Items []Item
}

// NonMembership proves a key has no value. Actual is nil when the path
// ends within the items themselves.
type NonMembership struct {
	Actual Actual
	Items  []Item
}

func (Membership) isProof()    {}
func (NonMembership) isProof() {}
