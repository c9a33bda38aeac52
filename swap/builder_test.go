package swap

import (
	"context"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGroup(t *testing.T, assets *fakeAssets, intents ...Intent) (*UnsignedGroup, error) {
	t.Helper()
	v := NewValidator(newFakeResolver(map[string]string{"alice.algo": addrA}), MaxLegs)
	batch, err := v.Validate(context.Background(), intents)
	require.NoError(t, err)
	return NewBuilder(assets, fakeParams{}).Build(context.Background(), batch)
}

func TestEndToEndTwoLegSwap(t *testing.T) {
	resolver := newFakeResolver(map[string]string{"alice.algo": addrA})
	assets := newFakeAssets(map[uint64]uint32{700: 2})

	v := NewValidator(resolver, MaxLegs)
	batch, err := v.Validate(context.Background(), []Intent{
		pay(1, "alice.algo", addrB, "1.5"),
		axfer(2, addrB, "alice.algo", 700, "10"),
	})
	require.NoError(t, err)
	group, err := NewBuilder(assets, fakeParams{}).Build(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, resolver.calls["alice.algo"])
	require.Len(t, group.Txns, 2)

	first, second := group.Txns[0], group.Txns[1]
	assert.Equal(t, types.PaymentTx, first.Type)
	assert.Equal(t, addrA, first.Sender.String())
	assert.Equal(t, addrB, first.Receiver.String())
	assert.Equal(t, types.MicroAlgos(1500000), first.Amount)

	assert.Equal(t, types.AssetTransferTx, second.Type)
	assert.Equal(t, addrB, second.Sender.String())
	assert.Equal(t, addrA, second.AssetReceiver.String())
	assert.Equal(t, types.AssetIndex(700), second.XferAsset)
	assert.Equal(t, uint64(1000), second.AssetAmount)

	assert.NotEqual(t, types.Digest{}, group.GroupID)
	assert.Equal(t, group.GroupID, first.Group)
	assert.Equal(t, group.GroupID, second.Group)
	assert.NoError(t, CheckGroup(group.Txns))
	assert.Equal(t, map[uint64]uint32{700: 2}, group.Decimals)
}

func TestGroupIDDependsOnOrder(t *testing.T) {
	assets := newFakeAssets(map[uint64]uint32{700: 0})
	a, err := buildGroup(t, assets, pay(1, addrA, addrB, "1"), axfer(2, addrB, addrA, 700, "5"))
	require.NoError(t, err)
	b, err := buildGroup(t, assets, axfer(1, addrB, addrA, 700, "5"), pay(2, addrA, addrB, "1"))
	require.NoError(t, err)
	assert.NotEqual(t, a.GroupID, b.GroupID)

	swapped := []types.Transaction{a.Txns[1], a.Txns[0]}
	assert.Error(t, CheckGroup(swapped))
}

func TestDecimalsLookedUpOncePerAsset(t *testing.T) {
	assets := newFakeAssets(map[uint64]uint32{700: 6, 800: 0})
	group, err := buildGroup(t, assets,
		axfer(1, addrA, addrB, 700, "0.000001"),
		axfer(2, addrA, addrB, 700, "2"),
		optin(3, addrB, 800),
		axfer(4, addrB, addrA, 800, "3"),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, assets.calls[700])
	assert.Equal(t, 1, assets.calls[800])
	assert.Equal(t, uint64(1), group.Txns[0].AssetAmount)
	assert.Equal(t, uint64(2000000), group.Txns[1].AssetAmount)

	opt := group.Txns[2]
	assert.Equal(t, types.AssetTransferTx, opt.Type)
	assert.Equal(t, opt.Sender, opt.AssetReceiver)
	assert.Zero(t, opt.AssetAmount)
}

func TestBuildUnknownAssetAborts(t *testing.T) {
	assets := newFakeAssets(map[uint64]uint32{700: 6})
	group, err := buildGroup(t, assets,
		axfer(1, addrA, addrB, 700, "1"),
		axfer(2, addrB, addrA, 999, "1"),
	)
	assert.Nil(t, group)
	var aerr *InvalidAssetIDError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, 2, aerr.Leg)
	assert.Equal(t, uint64(999), aerr.AssetID)
	assert.Contains(t, err.Error(), "Invalid Asset Id for transaction 2")
}

func TestBuildRejectsFractionalBaseUnits(t *testing.T) {
	assets := newFakeAssets(map[uint64]uint32{700: 2})
	_, err := buildGroup(t, assets,
		pay(1, addrA, addrB, "1"),
		axfer(2, addrB, addrA, 700, "1.005"),
	)
	requireValidationError(t, err, 2, "Invalid Amount for transaction 2")
}

func TestBlobsAndTxIDs(t *testing.T) {
	assets := newFakeAssets(map[uint64]uint32{700: 0})
	group, err := buildGroup(t, assets, pay(1, addrA, addrB, "1"), axfer(2, addrB, addrA, 700, "5"))
	require.NoError(t, err)

	blobs := group.Blobs()
	ids := group.TxIDs()
	require.Len(t, blobs, 2)
	for i, blob := range blobs {
		id, err := BlobTxID(blob)
		require.NoError(t, err)
		assert.Equal(t, ids[i], id)
		assert.Equal(t, crypto.GetTxID(group.Txns[i]), id)
	}
}
