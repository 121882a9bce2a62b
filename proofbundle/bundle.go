// Package proofbundle packages an encoded sealable trie proof together with
// the root and key it is about, for transport to off-chain verifiers.
//
// The envelope is CBOR with deterministic encoding. The proof itself stays
// in its bit-exact wire form inside the envelope, so verifiers that only
// understand the proof encoding can use it unchanged.
package proofbundle

import (
	"errors"
	"fmt"

	"github.com/JafarAz/emulated-light-client/cryptohash"
	"github.com/JafarAz/emulated-light-client/proof"
)

const (
	// BundleVersion is the envelope version written by this package.
	BundleVersion = 1

	// DefaultMaxProofBytes bounds the proof accepted by Unmarshal.
	DefaultMaxProofBytes = 64 * 1024
)

var (
	ErrBadVersion    = errors.New("proofbundle: unsupported bundle version")
	ErrBadRoot       = errors.New("proofbundle: root must be 32 bytes")
	ErrProofTooLarge = errors.New("proofbundle: proof exceeds the configured size limit")
	ErrEmptyProof    = errors.New("proofbundle: no proof")
)

// Bundle is the transport form of a proof for Key under trie Root.
type Bundle struct {
	Version uint8  `cbor:"1,keyasint"`
	Root    []byte `cbor:"2,keyasint"`
	Key     []byte `cbor:"3,keyasint"`
	Proof   []byte `cbor:"4,keyasint"`
}

// NewBundle encodes p and wraps it with root and key.
func NewBundle(root cryptohash.CryptoHash, key []byte, p proof.Proof) (Bundle, error) {
	if err := proof.ValidateProof(p); err != nil {
		return Bundle{}, err
	}
	return Bundle{
		Version: BundleVersion,
		Root:    root[:],
		Key:     key,
		Proof:   proof.MarshalProof(p),
	}, nil
}

// RootHash returns Root as a digest.
func (b Bundle) RootHash() (cryptohash.CryptoHash, error) {
	h, err := cryptohash.FromSlice(b.Root)
	if err != nil {
		return cryptohash.CryptoHash{}, fmt.Errorf("%w: %v", ErrBadRoot, err)
	}
	return h, nil
}

// Decode parses the embedded proof.
func (b Bundle) Decode() (proof.Proof, error) {
	if len(b.Proof) == 0 {
		return nil, ErrEmptyProof
	}
	return proof.UnmarshalProof(b.Proof)
}

// Check verifies the envelope fields and that the embedded proof parses,
// returning the parsed proof.
func (b Bundle) Check(maxProofBytes int) (proof.Proof, error) {
	if b.Version != BundleVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, b.Version)
	}
	if _, err := b.RootHash(); err != nil {
		return nil, err
	}
	if maxProofBytes > 0 && len(b.Proof) > maxProofBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrProofTooLarge, len(b.Proof), maxProofBytes)
	}
	return b.Decode()
}
