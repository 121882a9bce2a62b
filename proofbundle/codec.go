package proofbundle

import (
	dtcbor "github.com/datatrails/go-datatrails-common/cbor"

	"github.com/JafarAz/emulated-light-client/cryptohash"
	"github.com/JafarAz/emulated-light-client/proof"
)

// CodecOptions configures a Codec.
type CodecOptions struct {
	maxProofBytes int
}

type CodecOption func(*CodecOptions)

// WithMaxProofBytes overrides DefaultMaxProofBytes. Zero disables the
// limit.
func WithMaxProofBytes(n int) CodecOption {
	return func(o *CodecOptions) {
		o.maxProofBytes = n
	}
}

// Codec converts bundles to and from deterministic CBOR. Duplicate map keys,
// indefinite lengths and tags are rejected on decode. It is safe for
// concurrent use.
type Codec struct {
	cbor          dtcbor.CBORCodec
	maxProofBytes int
}

func NewCodec(opts ...CodecOption) (Codec, error) {
	options := CodecOptions{maxProofBytes: DefaultMaxProofBytes}
	for _, o := range opts {
		o(&options)
	}

	codec, err := dtcbor.NewCBORCodec(
		dtcbor.NewDeterministicEncOpts(),
		dtcbor.NewDeterministicDecOpts(),
	)
	if err != nil {
		return Codec{}, err
	}
	return Codec{cbor: codec, maxProofBytes: options.maxProofBytes}, nil
}

// Marshal encodes b after checking it would be accepted by Unmarshal.
func (c Codec) Marshal(b Bundle) ([]byte, error) {
	if _, err := b.Check(c.maxProofBytes); err != nil {
		return nil, err
	}
	return c.cbor.MarshalCBOR(b)
}

// MarshalProof builds and encodes the bundle for p in one step.
func (c Codec) MarshalProof(root cryptohash.CryptoHash, key []byte, p proof.Proof) ([]byte, error) {
	b, err := NewBundle(root, key, p)
	if err != nil {
		return nil, err
	}
	return c.Marshal(b)
}

// Unmarshal decodes a bundle and the proof it carries.
func (c Codec) Unmarshal(data []byte) (Bundle, proof.Proof, error) {
	var b Bundle
	if err := c.cbor.UnmarshalInto(data, &b); err != nil {
		return Bundle{}, nil, err
	}
	p, err := b.Check(c.maxProofBytes)
	if err != nil {
		return Bundle{}, nil, err
	}
	return b, p, nil
}
