package proof

/*

# Sealable trie proof wire format

A proof shows, against nothing more than a trie root digest, that a key maps
to a value (membership) or has no mapping (non-membership). This package
encodes and decodes proofs bit-exactly. The encoding is shared with on-chain
decoders, so every byte below is fixed.

## Proof

	varint( (len(items) + hasActual) * 2 + isNonMembership ) actual? item*

The varint is LEB128 over uint32 (see package varint). A membership proof
never carries an Actual. When a non-membership proof has one it comes first,
ahead of the items, even though it describes the deepest node of the path.

## Item

	0x00 hash[32]      Branch, child is a node
	0x10 hash[32]      Branch, child is a value
	0x2h lo            Extension, bit length = h<<8 | lo, h in {0,1}, non-zero
	0x30 hash[32]      Value

## Actual

	0b1000_00lr left[32] right[32]         Branch, l/r = is_value of each child
	0b1000_010c left_le2 key child[32]     Extension, c = child is_value
	0b1000_0110 left_le2 hash[32]          LookupKeyLeft, left non-zero

The extension key is a bits.Slice encoding written with no length prefix.
Its size follows from its own two byte tag (bits.EncodedKeyLen) and may not
exceed bits.MaxExtensionKeySize data bytes.

## OwnedRef

An OwnedRef has no encoding of its own. Its is_value flag is folded into the
tag byte of the enclosing Item or Actual and only the hash is written.

## Disambiguation

Every Item tag has the top bit clear and every Actual tag has it set. The
first entry of a non-membership proof is decoded by reading one byte and
continuing as an Item or an Actual accordingly, so no byte is ever read
twice and the decoders work over forward-only readers.

*/
