package solana

import (
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountFlagsFollowHeaderCounts(t *testing.T) {
	// Five static keys: three signers of which the last is read-only,
	// two unsigned of which the last is read-only.
	msg := &Message{
		Header: solana.MessageHeader{
			NumRequiredSignatures:       3,
			NumReadonlySignedAccounts:   1,
			NumReadonlyUnsignedAccounts: 1,
		},
		AccountKeys: []solana.PublicKey{testKey(0), testKey(1), testKey(2), testKey(3), testKey(4)},
	}

	wantSigner := []bool{true, true, true, false, false}
	wantWritable := []bool{true, true, false, true, false}
	for i := range msg.AccountKeys {
		assert.Equal(t, wantSigner[i], msg.IsSigner(i), "signer flag of account %d", i)
		assert.Equal(t, wantWritable[i], msg.IsWritable(i), "writable flag of account %d", i)
	}
}

func TestResolveAccountIndexStatic(t *testing.T) {
	msg := &Message{
		Header:      solana.MessageHeader{NumRequiredSignatures: 1},
		AccountKeys: []solana.PublicKey{testKey(1), testKey(2)},
	}

	ref, err := msg.ResolveAccountIndex(0)
	require.NoError(t, err)
	assert.Equal(t, RefStatic, ref.Kind)
	assert.Equal(t, testKey(1), ref.Static.AccountKey)
	assert.True(t, ref.Static.Signer)
	assert.True(t, ref.Static.Writable)
	assert.Equal(t, testKey(1).String(), ref.DisplayKey())

	ref, err = msg.ResolveAccountIndex(1)
	require.NoError(t, err)
	assert.False(t, ref.Static.Signer)
	assert.True(t, ref.Static.Writable)
}

func TestResolveAccountIndexCombinedOrder(t *testing.T) {
	// Two lookups. The combined space appends every lookup's writable
	// indexes first, then every lookup's readonly indexes, preserving
	// lookup order within each half.
	msg := &Message{
		Version:     VersionV0,
		Header:      solana.MessageHeader{NumRequiredSignatures: 1},
		AccountKeys: []solana.PublicKey{testKey(1), testKey(2)},
		AddressTableLookups: []solana.MessageAddressTableLookup{
			{AccountKey: testKey(0xaa), WritableIndexes: []uint8{10, 11}, ReadonlyIndexes: []uint8{12}},
			{AccountKey: testKey(0xbb), WritableIndexes: []uint8{20}, ReadonlyIndexes: []uint8{21, 22}},
		},
	}

	want := []struct {
		table    solana.PublicKey
		index    uint8
		writable bool
	}{
		{testKey(0xaa), 10, true},
		{testKey(0xaa), 11, true},
		{testKey(0xbb), 20, true},
		{testKey(0xaa), 12, false},
		{testKey(0xbb), 21, false},
		{testKey(0xbb), 22, false},
	}

	for j, w := range want {
		ref, err := msg.ResolveAccountIndex(len(msg.AccountKeys) + j)
		require.NoError(t, err, "combined index %d", j)
		require.Equal(t, RefTableLookup, ref.Kind, "combined index %d", j)
		assert.Equal(t, w.table, ref.Lookup.AddressTableKey, "combined index %d", j)
		assert.Equal(t, w.index, ref.Lookup.Index, "combined index %d", j)
		assert.Equal(t, w.writable, ref.Lookup.Writable, "combined index %d", j)
	}

	_, err := msg.ResolveAccountIndex(len(msg.AccountKeys) + len(want))
	require.ErrorIs(t, err, ErrAccountIndexOutOfRange)
}

func TestResolveAccountIndexLegacyOutOfRange(t *testing.T) {
	// Without lookups the combined space is just the static keys.
	msg := &Message{
		Header:      solana.MessageHeader{NumRequiredSignatures: 1},
		AccountKeys: []solana.PublicKey{testKey(1)},
	}

	_, err := msg.ResolveAccountIndex(1)
	require.ErrorIs(t, err, ErrAccountIndexOutOfRange)
	_, err = msg.ResolveAccountIndex(255)
	require.ErrorIs(t, err, ErrAccountIndexOutOfRange)
}

func TestLookupRefDisplayKey(t *testing.T) {
	ref := AccountRef{
		Kind: RefTableLookup,
		Lookup: TableLookupRef{
			AddressTableKey: testKey(0xaa),
			Index:           151,
			Writable:        false,
		},
	}
	assert.Equal(t, fmt.Sprintf("%s[151]", testKey(0xaa)), ref.DisplayKey())
}
