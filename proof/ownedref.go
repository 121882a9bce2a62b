package proof

import (
	"github.com/JafarAz/emulated-light-client/cryptohash"
)

// appendOwnedRef writes only the hash of ref. The caller folds ref.IsValue
// into its own tag byte.
func appendOwnedRef(dst []byte, ref OwnedRef) []byte {
	return cryptohash.Append(dst, ref.Hash)
}

// readOwnedRef reads the hash of a reference whose is_value flag the
// caller already decoded from its tag byte.
func readOwnedRef(r Reader, isValue bool) (OwnedRef, error) {
	h, err := cryptohash.Read(r)
	if err != nil {
		return OwnedRef{}, noEOF(err)
	}
	return OwnedRef{IsValue: isValue, Hash: h}, nil
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
