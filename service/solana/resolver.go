package solana

import (
	"fmt"
)

// RefKind discriminates the two outcomes of resolving an account index.
type RefKind uint8

const (
	// RefStatic resolves to a key in the message's static account list.
	RefStatic RefKind = iota
	// RefTableLookup resolves to a coordinate into an on-chain address
	// table. The actual key behind it is not recoverable offline.
	RefTableLookup
)

// AccountRef is the resolution of one account index: either a static key
// with its derived permissions, or an address table coordinate. Exactly
// one of Static and Lookup is meaningful, selected by Kind.
type AccountRef struct {
	Kind   RefKind
	Static AccountMeta
	Lookup TableLookupRef
}

// DisplayKey renders the referenced identity: the base58 key for a
// static reference, or table-key[index] for an unresolved coordinate.
func (r AccountRef) DisplayKey() string {
	if r.Kind == RefTableLookup {
		return fmt.Sprintf("%s[%d]", r.Lookup.AddressTableKey, r.Lookup.Index)
	}
	return r.Static.AccountKey.String()
}

// IsSigner reports whether static account index i must sign the
// transaction: signers occupy the first NumRequiredSignatures positions.
func (m *Message) IsSigner(i int) bool {
	return i < int(m.Header.NumRequiredSignatures)
}

// IsWritable reports the write permission of static account index i.
// The trailing NumReadonlySignedAccounts positions of the signed block
// are read-only, as are the trailing NumReadonlyUnsignedAccounts
// positions of the unsigned block.
func (m *Message) IsWritable(i int) bool {
	signed := int(m.Header.NumRequiredSignatures)
	if i < signed {
		return i < signed-int(m.Header.NumReadonlySignedAccounts)
	}
	return i < len(m.AccountKeys)-int(m.Header.NumReadonlyUnsignedAccounts)
}

// staticRef builds the resolved form of static account index i.
func (m *Message) staticRef(i int) AccountRef {
	return AccountRef{
		Kind: RefStatic,
		Static: AccountMeta{
			AccountKey: m.AccountKeys[i],
			Signer:     m.IsSigner(i),
			Writable:   m.IsWritable(i),
		},
	}
}

// ResolveAccountIndex maps account index i into the combined account
// space. Indexes below the static key count are static references; the
// remainder index the concatenation of every lookup's writable indexes
// followed by every lookup's readonly indexes, in lookup order. For
// legacy messages any index past the static keys is out of range.
func (m *Message) ResolveAccountIndex(i int) (AccountRef, error) {
	if i >= 0 && i < len(m.AccountKeys) {
		return m.staticRef(i), nil
	}

	j := i - len(m.AccountKeys)
	for _, l := range m.AddressTableLookups {
		if j < len(l.WritableIndexes) {
			return AccountRef{
				Kind: RefTableLookup,
				Lookup: TableLookupRef{
					AddressTableKey: l.AccountKey,
					Index:           l.WritableIndexes[j],
					Writable:        true,
				},
			}, nil
		}
		j -= len(l.WritableIndexes)
	}
	for _, l := range m.AddressTableLookups {
		if j < len(l.ReadonlyIndexes) {
			return AccountRef{
				Kind: RefTableLookup,
				Lookup: TableLookupRef{
					AddressTableKey: l.AccountKey,
					Index:           l.ReadonlyIndexes[j],
					Writable:        false,
				},
			}, nil
		}
		j -= len(l.ReadonlyIndexes)
	}
	return AccountRef{}, fmt.Errorf("%w: index %d with %d static keys and %d lookup entries",
		ErrAccountIndexOutOfRange, i, len(m.AccountKeys), m.lookupEntryCount())
}

// lookupEntryCount is the number of positions the message's lookups
// contribute to the combined account space.
func (m *Message) lookupEntryCount() int {
	n := 0
	for _, l := range m.AddressTableLookups {
		n += len(l.WritableIndexes) + len(l.ReadonlyIndexes)
	}
	return n
}
