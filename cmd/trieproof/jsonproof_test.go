package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JafarAz/emulated-light-client/bits"
	"github.com/JafarAz/emulated-light-client/cryptohash"
	"github.com/JafarAz/emulated-light-client/proof"
)

func fillHash(b byte) cryptohash.CryptoHash {
	var h cryptohash.CryptoHash
	for i := range h {
		h[i] = b
	}
	return h
}

func TestJSONRoundTrip(t *testing.T) {
	key, err := bits.NewSlice([]byte{0xAB, 0xCD}, 3, 10)
	require.NoError(t, err)
	ext, err := proof.NewExtensionActual(5, key, proof.OwnedRef{IsValue: true, Hash: fillHash(3)})
	require.NoError(t, err)

	items := []proof.Item{
		proof.BranchItem{Child: proof.OwnedRef{Hash: fillHash(1)}},
		proof.ExtensionItem{Bits: proof.MustExtensionLen(300)},
		proof.ValueItem{Hash: fillHash(2)},
	}
	proofs := []proof.Proof{
		proof.Membership{},
		proof.Membership{Items: items},
		proof.NonMembership{},
		proof.NonMembership{Items: items},
		proof.NonMembership{Actual: proof.BranchActual{
			Left:  proof.OwnedRef{IsValue: true, Hash: fillHash(4)},
			Right: proof.OwnedRef{Hash: fillHash(5)},
		}},
		proof.NonMembership{Actual: ext, Items: items},
		proof.NonMembership{Actual: proof.LookupKeyLeftActual{Left: 7, Hash: fillHash(6)}},
	}
	for _, p := range proofs {
		jp, err := toJSON(p)
		require.NoError(t, err)

		// Through the text form as well, as decode and encode do.
		data, err := json.Marshal(jp)
		require.NoError(t, err)
		var back jsonProof
		require.NoError(t, json.Unmarshal(data, &back))

		got, err := fromJSON(back)
		require.NoError(t, err)
		require.Equal(t, p, got)
		require.Equal(t, proof.MarshalProof(p), proof.MarshalProof(got))
	}
}

func TestJSONExtensionKeyFields(t *testing.T) {
	key, err := bits.NewSlice([]byte{0xAB, 0xCD}, 3, 10)
	require.NoError(t, err)
	ext, err := proof.NewExtensionActual(5, key, proof.OwnedRef{Hash: fillHash(3)})
	require.NoError(t, err)

	ja, err := actualToJSON(ext)
	require.NoError(t, err)
	assert.Equal(t, kindExtension, ja.Kind)
	assert.Equal(t, uint8(3), ja.Offset)
	assert.Equal(t, uint16(10), ja.Length)
	assert.Equal(t, uint16(5), ja.LeftCount)
	// Bits outside the slice are cleared.
	assert.Equal(t, "0bc8", ja.Key)
}

func TestJSONNonCanonicalExtensionKey(t *testing.T) {
	// Offset 7, length 1, with bit 6 of the data byte set outside the slice.
	ext := proof.ExtensionActual{Key: []byte{0x00, 0x0F, 0x03}, Child: proof.OwnedRef{Hash: fillHash(3)}}
	_, err := ext.KeySlice()
	require.ErrorIs(t, err, bits.ErrNonCanonical)

	ja, err := actualToJSON(ext)
	require.NoError(t, err)
	assert.Equal(t, "000f03", ja.KeyBuf)
	assert.Empty(t, ja.Key)

	got, err := actualFromJSON(*ja)
	require.NoError(t, err)
	require.Equal(t, ext, got)
}

func TestFromJSONErrors(t *testing.T) {
	h := fillHash(1).String()
	tests := []struct {
		name    string
		in      jsonProof
		wantErr error
	}{
		{name: "unknown type", in: jsonProof{Type: "maybe"}},
		{
			name: "membership with actual",
			in:   jsonProof{Type: kindMembership, Actual: &jsonActual{Kind: kindLookupKeyLeft, LeftCount: 1, Hash: h}},
		},
		{name: "unknown item", in: jsonProof{Type: kindMembership, Items: []jsonItem{{Kind: "leaf"}}}},
		{
			name:    "zero extension",
			in:      jsonProof{Type: kindMembership, Items: []jsonItem{{Kind: kindExtension}}},
			wantErr: proof.ErrInvalidExtension,
		},
		{
			name:    "extension too long",
			in:      jsonProof{Type: kindMembership, Items: []jsonItem{{Kind: kindExtension, Bits: 512}}},
			wantErr: proof.ErrInvalidExtension,
		},
		{name: "branch without child", in: jsonProof{Type: kindMembership, Items: []jsonItem{{Kind: kindBranch}}}},
		{
			name:    "short value hash",
			in:      jsonProof{Type: kindMembership, Items: []jsonItem{{Kind: kindValue, Hash: "abcd"}}},
			wantErr: cryptohash.ErrBadHexSize,
		},
		{
			name:    "zero lookup key left",
			in:      jsonProof{Type: kindNonMembership, Actual: &jsonActual{Kind: kindLookupKeyLeft, Hash: h}},
			wantErr: proof.ErrInvalidLookupKeyLeft,
		},
		{
			name: "extension key too long",
			in: jsonProof{Type: kindNonMembership, Actual: &jsonActual{
				Kind:   kindExtension,
				Length: 35 * 8,
				Key:    strings.Repeat("ff", 35),
				Child:  &jsonRef{Hash: h},
			}},
			wantErr: proof.ErrInvalidExtension,
		},
		{
			name: "extension key short",
			in: jsonProof{Type: kindNonMembership, Actual: &jsonActual{
				Kind:   kindExtension,
				Length: 16,
				Key:    "ff",
				Child:  &jsonRef{Hash: h},
			}},
			wantErr: bits.ErrShortBytes,
		},
		{
			name: "key buffer shorter than its tag",
			in: jsonProof{Type: kindNonMembership, Actual: &jsonActual{
				Kind:   kindExtension,
				KeyBuf: "000f",
				Child:  &jsonRef{Hash: h},
			}},
			wantErr: proof.ErrInvalidExtension,
		},
		{
			name: "key and key buffer",
			in: jsonProof{Type: kindNonMembership, Actual: &jsonActual{
				Kind:   kindExtension,
				Key:    "01",
				KeyBuf: "000f01",
				Child:  &jsonRef{Hash: h},
			}},
		},
		{name: "unknown actual", in: jsonProof{Type: kindNonMembership, Actual: &jsonActual{Kind: "leaf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromJSON(tt.in)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
