package bits

/*

# Bit-range key slices

Extension nodes of the sealable trie consume a run of key bits which need
not start or end on a byte boundary. A Slice names such a run: Offset is
the index of the first bit inside the first byte (0..7, MSB first) and
Length is the number of bits.

## Encoding

	+----------------------------+------------------------------+
	| tag_be2 = Length<<3|Offset | bytes[ceil((Offset+Length)/8)]|
	+----------------------------+------------------------------+

Bits of the data bytes outside [Offset, Offset+Length) are zero.

The encoding carries no separate byte count: EncodedKeyLen recovers it from
the tag alone. Proof decoders rely on this to skip an extension key without
interpreting it, so EncodedKeyLen is the single definition of that length.

An extension node can hold at most MaxExtensionKeySize data bytes, which
bounds Length to MaxExtensionKeySize*8 bits when Offset is 0.

*/
