package cryptohash

import (
	"bytes"
	"crypto/sha256"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumMatchesSHA256(t *testing.T) {
	want := sha256.Sum256([]byte("foobar"))
	require.Equal(t, CryptoHash(want), Sum([]byte("foo"), []byte("bar")))
	require.Equal(t, CryptoHash(want), SumWith(sha256.New(), []byte("foobar")))
}

func TestFromSlice(t *testing.T) {
	b := bytes.Repeat([]byte{0xAB}, Size)
	h, err := FromSlice(b)
	require.NoError(t, err)
	require.Equal(t, b, h[:])

	_, err = FromSlice(b[:31])
	require.ErrorIs(t, err, ErrBadSize)
}

func TestParseHex(t *testing.T) {
	h := Sum([]byte("x"))
	got, err := ParseHex(h.String())
	require.NoError(t, err)
	require.Equal(t, h, got)

	_, err = ParseHex("abcd")
	require.ErrorIs(t, err, ErrBadHexSize)

	_, err = ParseHex(string(bytes.Repeat([]byte("zz"), Size)))
	require.Error(t, err)
}

func TestReadAppend(t *testing.T) {
	h := Sum([]byte("value"))
	buf := Append([]byte{0x30}, h)
	require.Len(t, buf, 1+Size)

	got, err := Read(bytes.NewReader(buf[1:]))
	require.NoError(t, err)
	require.Equal(t, h, got)
	require.False(t, got.IsZero())
	require.True(t, CryptoHash{}.IsZero())

	_, err = Read(bytes.NewReader(buf[1:10]))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = Read(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}
