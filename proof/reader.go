package proof

import (
	"encoding/binary"
	"io"
)

// Reader is the forward-only input consumed by the decoders. Decoding never
// seeks and never reads a byte twice.
type Reader interface {
	io.Reader
	io.ByteReader
}

// byteReader adds ReadByte to a plain io.Reader one byte at a time.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (br *byteReader) Read(p []byte) (int, error) { return br.r.Read(p) }

func (br *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.buf[:]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}

func asReader(r io.Reader) Reader {
	if rd, ok := r.(Reader); ok {
		return rd
	}
	return &byteReader{r: r}
}

// noEOF reports running out of input part way through a value as
// io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func readByteCont(r Reader) (byte, error) {
	b, err := r.ReadByte()
	return b, noEOF(err)
}

func readU16LE(r Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, noEOF(err)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func appendU16LE(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// writeAll hands a fully encoded value to w.
func writeAll(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}
