package proof

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JafarAz/emulated-light-client/bits"
)

func makeExtension(t *testing.T, left uint16, b []byte, offset uint8, length uint16, isValue bool) ExtensionActual {
	t.Helper()
	key, err := bits.NewSlice(b, offset, length)
	require.NoError(t, err)
	a, err := NewExtensionActual(left, key, testRef(isValue, 1))
	require.NoError(t, err)
	return a
}

func TestActualBranchVectors(t *testing.T) {
	tests := []struct {
		left, right bool
		tag         byte
	}{
		{false, false, 0x80},
		{false, true, 0x81},
		{true, false, 0x82},
		{true, true, 0x83},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02x", tt.tag), func(t *testing.T) {
			a := BranchActual{Left: testRef(tt.left, 1), Right: testRef(tt.right, 2)}
			requireActualCodec(t, a, cat([]byte{tt.tag}, hb(1), hb(2)))
		})
	}
}

func TestActualExtensionVectors(t *testing.T) {
	full := makeExtension(t, 0, bytes.Repeat([]byte{0xFF}, 34), 0, 34*8, false)
	requireActualCodec(t, full, cat(
		[]byte{0x84},
		[]byte{0, 0},
		[]byte{8, 128}, bytes.Repeat([]byte{0xFF}, 34),
		hb(1),
	))

	short := makeExtension(t, 0xDEAD, []byte{1}, 7, 1, true)
	requireActualCodec(t, short, cat(
		[]byte{0x85},
		[]byte{0xAD, 0xDE},
		[]byte{0, 15, 1},
		hb(1),
	))

	s, err := short.KeySlice()
	require.NoError(t, err)
	require.Equal(t, uint8(7), s.Offset)
	require.Equal(t, uint16(1), s.Length)
	require.True(t, s.At(0))
}

func TestActualLookupKeyLeftVectors(t *testing.T) {
	requireActualCodec(t,
		LookupKeyLeftActual{Left: 1, Hash: testHash(1)},
		cat([]byte{0x86, 1, 0}, hb(1)))
	requireActualCodec(t,
		LookupKeyLeftActual{Left: 0xFFFF, Hash: testHash(1)},
		cat([]byte{0x86, 0xFF, 0xFF}, hb(1)))
}

func TestDecodeActualInvalidTags(t *testing.T) {
	for tag := 0; tag < 256; tag++ {
		if tag >= 0x80 && tag <= 0x86 {
			continue
		}
		buf := append([]byte{byte(tag)}, make([]byte, 80)...)
		_, err := DecodeActual(bytes.NewReader(buf))
		require.ErrorIs(t, err, ErrInvalidTag, "tag 0x%02x", tag)
		require.Contains(t, err.Error(), fmt.Sprintf("0x%02x", tag))
	}
}

func TestDecodeActualExtensionKeyTooLong(t *testing.T) {
	// Tag for 35 data bytes: one more than an extension can hold.
	tag := uint16(35*8) << 3
	buf := cat([]byte{0x84, 0, 0, byte(tag >> 8), byte(tag)}, make([]byte, 35), hb(1))
	_, err := UnmarshalActual(buf)
	require.ErrorIs(t, err, ErrInvalidExtension)

	// Every tag whose derived length fits must be accepted.
	tag = uint16(33*8+1)<<3 | 7
	require.Equal(t, bits.MaxExtensionKeySize, bits.EncodedKeyLen(tag))
	buf = cat([]byte{0x84, 0, 0, byte(tag >> 8), byte(tag)}, make([]byte, 34), hb(1))
	a, err := UnmarshalActual(buf)
	require.NoError(t, err)
	require.Len(t, a.(ExtensionActual).Key, 36)
}

func TestDecodeActualLookupKeyLeftZero(t *testing.T) {
	_, err := UnmarshalActual(cat([]byte{0x86, 0, 0}, hb(1)))
	require.ErrorIs(t, err, ErrInvalidLookupKeyLeft)
}

func TestDecodeActualTruncated(t *testing.T) {
	full := MarshalActual(makeExtension(t, 3, []byte{0xAB, 0xCD}, 1, 12, false))
	for n := 1; n < len(full); n++ {
		_, err := UnmarshalActual(full[:n])
		require.ErrorIs(t, err, io.ErrUnexpectedEOF, "prefix %d", n)
	}
	_, err := UnmarshalActual(nil)
	require.ErrorIs(t, err, io.EOF)

	_, err = UnmarshalActual(append(full, 0))
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestActualEncodeRejectsInvalid(t *testing.T) {
	bad := []Actual{
		ExtensionActual{Key: nil},
		ExtensionActual{Key: []byte{0, 15}},      // tag says one more byte
		ExtensionActual{Key: []byte{0, 8, 1, 2}}, // tag says one byte
		LookupKeyLeftActual{Left: 0},
	}
	for _, a := range bad {
		require.Error(t, ValidateActual(a), "%v", a)
		require.Panics(t, func() { MarshalActual(a) })
	}
	require.ErrorIs(t, ValidateActual(nil), ErrUnknownVariant)

	tooLong, err := bits.FromKey(make([]byte, 35))
	require.NoError(t, err)
	_, err = NewExtensionActual(0, tooLong, OwnedRef{})
	require.ErrorIs(t, err, ErrInvalidExtension)
}

func TestItemAndActualTagsNeverCollide(t *testing.T) {
	items := []Item{
		BranchItem{Child: testRef(false, 1)},
		BranchItem{Child: testRef(true, 1)},
		ExtensionItem{Bits: MustExtensionLen(1)},
		ExtensionItem{Bits: MustExtensionLen(MaxExtensionItemBits)},
		ValueItem{Hash: testHash(1)},
	}
	actuals := []Actual{
		BranchActual{Left: testRef(true, 1), Right: testRef(true, 2)},
		makeExtension(t, 0, []byte{0x80}, 0, 1, true),
		LookupKeyLeftActual{Left: 9, Hash: testHash(3)},
	}
	for _, it := range items {
		require.Zero(t, MarshalItem(it)[0]&actualFlag, "%v", it)
	}
	for _, a := range actuals {
		require.NotZero(t, MarshalActual(a)[0]&actualFlag, "%v", a)
	}
}

func TestActualString(t *testing.T) {
	a := makeExtension(t, 5, []byte{1}, 7, 1, true)
	require.Equal(t, "Actual::Extension(left=5, key=7+1:01, value:"+testHash(1).String()+")", a.String())

	raw := ExtensionActual{Left: 1, Key: []byte{0, 15, 3}}
	require.Contains(t, raw.String(), "key=000f03")
}
