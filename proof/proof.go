package proof

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/JafarAz/emulated-light-client/varint"
)

// parts returns the wire components of p.
func parts(p Proof) (membership bool, actual Actual, items []Item) {
	switch v := p.(type) {
	case Membership:
		return true, nil, v.Items
	case NonMembership:
		return false, v.Actual, v.Items
	}
	panic(fmt.Errorf("%w: proof %T", ErrUnknownVariant, p))
}

// proofTag computes (entries * 2) + isNonMembership.
func proofTag(membership bool, hasActual bool, items int) (uint32, error) {
	n := uint64(items)
	if hasActual {
		n++
	}
	tag := n * 2
	if !membership {
		tag++
	}
	if tag > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d entries", ErrTooManyEntries, n)
	}
	return uint32(tag), nil
}

// ValidateProof reports whether p can be encoded.
func ValidateProof(p Proof) error {
	switch p.(type) {
	case Membership, NonMembership:
	default:
		return fmt.Errorf("%w: proof %T", ErrUnknownVariant, p)
	}
	membership, actual, items := parts(p)
	if _, err := proofTag(membership, actual != nil, len(items)); err != nil {
		return err
	}
	if actual != nil {
		if err := ValidateActual(actual); err != nil {
			return err
		}
	}
	for i, it := range items {
		if err := ValidateItem(it); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// ProofSize returns the encoded size of p.
func ProofSize(p Proof) int {
	membership, actual, items := parts(p)
	tag, err := proofTag(membership, actual != nil, len(items))
	if err != nil {
		panic(err)
	}
	n := varint.Size(tag)
	if actual != nil {
		n += ActualSize(actual)
	}
	for _, it := range items {
		n += ItemSize(it)
	}
	return n
}

// AppendProof appends the encoding of p to dst.
//
// Encoding cannot fail for values built through this package's
// constructors; it panics if ValidateProof(p) would fail.
func AppendProof(dst []byte, p Proof) []byte {
	membership, actual, items := parts(p)
	tag, err := proofTag(membership, actual != nil, len(items))
	if err != nil {
		panic(err)
	}
	dst = varint.Append(dst, tag)
	if actual != nil {
		dst = AppendActual(dst, actual)
	}
	for _, it := range items {
		dst = AppendItem(dst, it)
	}
	return dst
}

// MarshalProof returns the encoding of p.
func MarshalProof(p Proof) []byte {
	return AppendProof(make([]byte, 0, ProofSize(p)), p)
}

// EncodeProof writes the encoding of p to w.
func EncodeProof(w io.Writer, p Proof) error {
	return writeAll(w, MarshalProof(p))
}

// UnmarshalProof decodes b, which must hold exactly one proof.
func UnmarshalProof(b []byte) (Proof, error) {
	r := bytes.NewReader(b)
	p, err := decodeProof(r)
	if err != nil {
		return nil, err
	}
	if err := checkConsumed(r); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeProof reads one proof from r.
//
// An empty membership proof decodes successfully even though it can never
// verify.
func DecodeProof(r io.Reader) (Proof, error) {
	return decodeProof(asReader(r))
}

func decodeProof(r Reader) (Proof, error) {
	tag, err := varint.Read(r)
	if err != nil {
		return nil, err
	}
	isMembership := tag&1 == 0
	n := int(tag >> 1)

	if n == 0 {
		if isMembership {
			return Membership{}, nil
		}
		return NonMembership{}, nil
	}

	// Membership proofs never carry an Actual, so only non-membership
	// proofs need the first entry disambiguated.
	var first Item
	var actual Actual
	if isMembership {
		first, err = decodeItem(r)
	} else {
		first, actual, err = decodeItemOrActual(r)
	}
	if err != nil {
		return nil, noEOF(err)
	}

	want := n
	if actual != nil {
		want--
	}
	var items []Item
	if want > 0 {
		items = make([]Item, 0, min(want, maxPreallocItems))
	}
	if first != nil {
		items = append(items, first)
	}

	for i := 1; i < n; i++ {
		it, err := decodeItem(r)
		if err != nil {
			return nil, noEOF(err)
		}
		items = append(items, it)
	}

	if isMembership {
		return Membership{Items: items}, nil
	}
	return NonMembership{Actual: actual, Items: items}, nil
}
