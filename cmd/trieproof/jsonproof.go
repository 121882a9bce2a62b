package main

import (
	"encoding/hex"
	"fmt"

	"github.com/JafarAz/emulated-light-client/bits"
	"github.com/JafarAz/emulated-light-client/cryptohash"
	"github.com/JafarAz/emulated-light-client/proof"
)

const (
	kindMembership    = "membership"
	kindNonMembership = "non-membership"

	kindBranch        = "branch"
	kindExtension     = "extension"
	kindValue         = "value"
	kindLookupKeyLeft = "lookup-key-left"
)

// jsonProof is the editable description of a proof accepted by encode and
// produced by decode --json.
type jsonProof struct {
	Type   string      `json:"type"`
	Actual *jsonActual `json:"actual,omitempty"`
	Items  []jsonItem  `json:"items"`
}

type jsonRef struct {
	IsValue bool   `json:"is_value"`
	Hash    string `json:"hash"`
}

type jsonItem struct {
	Kind  string   `json:"kind"`
	Child *jsonRef `json:"child,omitempty"`
	Bits  uint16   `json:"bits,omitempty"`
	Hash  string   `json:"hash,omitempty"`
}

type jsonActual struct {
	Kind  string   `json:"kind"`
	Left  *jsonRef `json:"left,omitempty"`
	Right *jsonRef `json:"right,omitempty"`

	// Offset, Length and Key describe the key slice of an extension.
	// KeyBuf carries the encoded key buffer as is when it does not parse
	// as a canonical slice.
	Offset    uint8    `json:"offset,omitempty"`
	Length    uint16   `json:"length,omitempty"`
	Key       string   `json:"key,omitempty"`
	KeyBuf    string   `json:"key_buf,omitempty"`
	Child     *jsonRef `json:"child,omitempty"`
	LeftCount uint16   `json:"left_count,omitempty"`
	Hash      string   `json:"hash,omitempty"`
}

func refToJSON(r proof.OwnedRef) *jsonRef {
	return &jsonRef{IsValue: r.IsValue, Hash: r.Hash.String()}
}

func refFromJSON(r *jsonRef, what string) (proof.OwnedRef, error) {
	if r == nil {
		return proof.OwnedRef{}, fmt.Errorf("%s: missing reference", what)
	}
	h, err := cryptohash.ParseHex(r.Hash)
	if err != nil {
		return proof.OwnedRef{}, fmt.Errorf("%s: %w", what, err)
	}
	return proof.OwnedRef{IsValue: r.IsValue, Hash: h}, nil
}

func toJSON(p proof.Proof) (jsonProof, error) {
	var out jsonProof
	var actual proof.Actual
	var items []proof.Item
	switch v := p.(type) {
	case proof.Membership:
		out.Type = kindMembership
		items = v.Items
	case proof.NonMembership:
		out.Type = kindNonMembership
		actual, items = v.Actual, v.Items
	default:
		return jsonProof{}, fmt.Errorf("unsupported proof %T", p)
	}

	if actual != nil {
		a, err := actualToJSON(actual)
		if err != nil {
			return jsonProof{}, err
		}
		out.Actual = a
	}
	out.Items = make([]jsonItem, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case proof.BranchItem:
			out.Items = append(out.Items, jsonItem{Kind: kindBranch, Child: refToJSON(v.Child)})
		case proof.ExtensionItem:
			out.Items = append(out.Items, jsonItem{Kind: kindExtension, Bits: v.Bits.Bits()})
		case proof.ValueItem:
			out.Items = append(out.Items, jsonItem{Kind: kindValue, Hash: v.Hash.String()})
		}
	}
	return out, nil
}

func actualToJSON(a proof.Actual) (*jsonActual, error) {
	switch v := a.(type) {
	case proof.BranchActual:
		return &jsonActual{Kind: kindBranch, Left: refToJSON(v.Left), Right: refToJSON(v.Right)}, nil
	case proof.ExtensionActual:
		s, err := v.KeySlice()
		if err != nil {
			return &jsonActual{
				Kind:      kindExtension,
				LeftCount: v.Left,
				KeyBuf:    hex.EncodeToString(v.Key),
				Child:     refToJSON(v.Child),
			}, nil
		}
		return &jsonActual{
			Kind:      kindExtension,
			LeftCount: v.Left,
			Offset:    s.Offset,
			Length:    s.Length,
			Key:       hex.EncodeToString(s.Bytes),
			Child:     refToJSON(v.Child),
		}, nil
	case proof.LookupKeyLeftActual:
		return &jsonActual{Kind: kindLookupKeyLeft, LeftCount: v.Left, Hash: v.Hash.String()}, nil
	}
	return nil, fmt.Errorf("unsupported actual %T", a)
}

func fromJSON(in jsonProof) (proof.Proof, error) {
	items := make([]proof.Item, 0, len(in.Items))
	for i, ji := range in.Items {
		it, err := itemFromJSON(ji)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		items = nil
	}

	switch in.Type {
	case kindMembership:
		if in.Actual != nil {
			return nil, fmt.Errorf("membership proofs have no actual")
		}
		return proof.Membership{Items: items}, nil
	case kindNonMembership:
		p := proof.NonMembership{Items: items}
		if in.Actual != nil {
			a, err := actualFromJSON(*in.Actual)
			if err != nil {
				return nil, fmt.Errorf("actual: %w", err)
			}
			p.Actual = a
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown proof type %q", in.Type)
}

func itemFromJSON(ji jsonItem) (proof.Item, error) {
	switch ji.Kind {
	case kindBranch:
		ref, err := refFromJSON(ji.Child, "child")
		if err != nil {
			return nil, err
		}
		return proof.BranchItem{Child: ref}, nil
	case kindExtension:
		l, err := proof.NewExtensionLen(ji.Bits)
		if err != nil {
			return nil, err
		}
		return proof.ExtensionItem{Bits: l}, nil
	case kindValue:
		h, err := cryptohash.ParseHex(ji.Hash)
		if err != nil {
			return nil, err
		}
		return proof.ValueItem{Hash: h}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", ji.Kind)
}

func actualFromJSON(ja jsonActual) (proof.Actual, error) {
	switch ja.Kind {
	case kindBranch:
		left, err := refFromJSON(ja.Left, "left")
		if err != nil {
			return nil, err
		}
		right, err := refFromJSON(ja.Right, "right")
		if err != nil {
			return nil, err
		}
		return proof.BranchActual{Left: left, Right: right}, nil
	case kindExtension:
		child, err := refFromJSON(ja.Child, "child")
		if err != nil {
			return nil, err
		}
		if ja.KeyBuf != "" {
			if ja.Key != "" {
				return nil, fmt.Errorf("extension has both key and key_buf")
			}
			buf, err := hex.DecodeString(ja.KeyBuf)
			if err != nil {
				return nil, err
			}
			a := proof.ExtensionActual{Left: ja.LeftCount, Key: buf, Child: child}
			if err := proof.ValidateActual(a); err != nil {
				return nil, err
			}
			return a, nil
		}
		key, err := hex.DecodeString(ja.Key)
		if err != nil {
			return nil, err
		}
		s, err := bits.NewSlice(key, ja.Offset, ja.Length)
		if err != nil {
			return nil, err
		}
		return proof.NewExtensionActual(ja.LeftCount, s, child)
	case kindLookupKeyLeft:
		h, err := cryptohash.ParseHex(ja.Hash)
		if err != nil {
			return nil, err
		}
		a := proof.LookupKeyLeftActual{Left: ja.LeftCount, Hash: h}
		if err := proof.ValidateActual(a); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown actual kind %q", ja.Kind)
}
