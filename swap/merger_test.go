package swap

import (
	"context"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPartyGroup builds a 4 leg group between two freshly generated accounts.
func twoPartyGroup(t *testing.T) (alice, bob crypto.Account, group *UnsignedGroup) {
	t.Helper()
	alice = crypto.GenerateAccount()
	bob = crypto.GenerateAccount()
	a, b := alice.Address.String(), bob.Address.String()

	v := NewValidator(nil, MaxLegs)
	batch, err := v.Validate(context.Background(), []Intent{
		pay(1, a, b, "1"),
		axfer(2, b, a, 700, "5"),
		pay(3, a, b, "0.25"),
		optin(4, b, 800),
	})
	require.NoError(t, err)
	group, err = NewBuilder(newFakeAssets(map[uint64]uint32{700: 0, 800: 3}), fakeParams{}).
		Build(context.Background(), batch)
	require.NoError(t, err)
	return alice, bob, group
}

func TestMergeNothingSigned(t *testing.T) {
	_, _, group := twoPartyGroup(t)
	originals := group.Blobs()

	merged, err := Merge(nil, originals)
	require.NoError(t, err)
	assert.Equal(t, originals, merged)
}

func TestMergeSubset(t *testing.T) {
	alice, _, group := twoPartyGroup(t)
	originals := group.Blobs()
	signed := signWith(alice, group.Txns)
	require.Len(t, signed, 2)

	merged, err := Merge(signed, originals)
	require.NoError(t, err)
	require.Len(t, merged, len(originals))
	assert.Equal(t, signed[0], merged[0])
	assert.Equal(t, originals[1], merged[1])
	assert.Equal(t, signed[1], merged[2])
	assert.Equal(t, originals[3], merged[3])
}

func TestMergeSecondPartyOverPartiallySigned(t *testing.T) {
	alice, bob, group := twoPartyGroup(t)
	fromCreator, err := Merge(signWith(alice, group.Txns), group.Blobs())
	require.NoError(t, err)

	bobSigned := signWith(bob, group.Txns)
	final, err := Merge(bobSigned, fromCreator)
	require.NoError(t, err)
	require.Len(t, final, 4)

	assert.Equal(t, fromCreator[0], final[0])
	assert.Equal(t, bobSigned[0], final[1])
	assert.Equal(t, fromCreator[2], final[2])
	assert.Equal(t, bobSigned[1], final[3])

	ids := group.TxIDs()
	for i, blob := range final {
		txn, signed, err := DecodeBlob(blob)
		require.NoError(t, err)
		assert.True(t, signed, "position %d", i)
		assert.Equal(t, ids[i], crypto.GetTxID(txn))
	}
}

func TestMergeRejectsGarbage(t *testing.T) {
	_, _, group := twoPartyGroup(t)
	_, err := Merge([][]byte{{0x01, 0x02}}, group.Blobs())
	assert.Error(t, err)

	_, err = Merge(nil, [][]byte{{0xff}})
	assert.Error(t, err)
}

func TestDecodeBlobShapes(t *testing.T) {
	alice, _, group := twoPartyGroup(t)

	txn, signed, err := DecodeBlob(group.Blobs()[0])
	require.NoError(t, err)
	assert.False(t, signed)
	assert.Equal(t, types.PaymentTx, txn.Type)

	txn, signed, err = DecodeBlob(signWith(alice, group.Txns)[0])
	require.NoError(t, err)
	assert.True(t, signed)
	assert.Equal(t, alice.Address, txn.Sender)
}
