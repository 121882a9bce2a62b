package proof

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JafarAz/emulated-light-client/cryptohash"
)

// testHash returns a digest of the repeating pattern 0, 0, 0, n.
func testHash(n byte) cryptohash.CryptoHash {
	var h cryptohash.CryptoHash
	for i := 3; i < cryptohash.Size; i += 4 {
		h[i] = n
	}
	return h
}

func testRef(isValue bool, n byte) OwnedRef {
	return OwnedRef{IsValue: isValue, Hash: testHash(n)}
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func hb(n byte) []byte {
	h := testHash(n)
	return h[:]
}

// requireItemCodec checks the item encodes to want and want decodes back to
// the item, both directly and through the Item-or-Actual path.
func requireItemCodec(t *testing.T, item Item, want []byte) {
	t.Helper()

	require.Equal(t, want, MarshalItem(item))
	require.Equal(t, len(want), ItemSize(item))

	got, err := UnmarshalItem(want)
	require.NoError(t, err)
	require.Equal(t, item, got)

	gotItem, gotActual, err := decodeItemOrActual(bytes.NewReader(want))
	require.NoError(t, err)
	require.Nil(t, gotActual)
	require.Equal(t, item, gotItem)
}

// requireActualCodec is requireItemCodec for Actual values.
func requireActualCodec(t *testing.T, actual Actual, want []byte) {
	t.Helper()

	require.Equal(t, want, MarshalActual(actual))
	require.Equal(t, len(want), ActualSize(actual))

	got, err := UnmarshalActual(want)
	require.NoError(t, err)
	require.Equal(t, actual, got)

	gotItem, gotActual, err := decodeItemOrActual(bytes.NewReader(want))
	require.NoError(t, err)
	require.Nil(t, gotItem)
	require.Equal(t, actual, gotActual)
}

func requireProofCodec(t *testing.T, p Proof, want []byte) {
	t.Helper()

	require.Equal(t, want, MarshalProof(p))
	require.Equal(t, len(want), ProofSize(p))
	require.NoError(t, ValidateProof(p))

	got, err := UnmarshalProof(want)
	require.NoError(t, err)
	require.Equal(t, p, got)
}
