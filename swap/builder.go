package swap

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/common"
)

// UnsignedGroup is an atomic group in leg order. Every transaction carries
// GroupID, so the order of Txns must not change.
type UnsignedGroup struct {
	Txns    []types.Transaction
	GroupID types.Digest
	// Decimals holds the precision of every asset looked up while building.
	Decimals map[uint64]uint32
}

func (g *UnsignedGroup) TxIDs() []string {
	ids := make([]string, len(g.Txns))
	for i, txn := range g.Txns {
		ids[i] = crypto.GetTxID(txn)
	}
	return ids
}

// Blobs returns the msgpack encoding of each unsigned transaction.
func (g *UnsignedGroup) Blobs() [][]byte {
	blobs := make([][]byte, len(g.Txns))
	for i, txn := range g.Txns {
		blobs[i] = msgpack.Encode(txn)
	}
	return blobs
}

type Builder struct {
	assets AssetInfo
	params ParamsProvider
}

func NewBuilder(assets AssetInfo, params ParamsProvider) *Builder {
	return &Builder{assets: assets, params: params}
}

// Build creates one transaction per leg, in order, and stamps them with
// their group id. Any failing leg aborts the whole build.
func (b *Builder) Build(ctx context.Context, batch *Batch) (*UnsignedGroup, error) {
	params, err := b.params.SuggestedParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested params: %w", err)
	}

	decimals := map[uint64]uint32{}
	txns := make([]types.Transaction, 0, len(batch.Legs))
	for i, leg := range batch.Legs {
		txn, err := b.buildLeg(ctx, i+1, leg, params, decimals)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	gid, err := crypto.ComputeGroupID(txns)
	if err != nil {
		return nil, fmt.Errorf("failed to compute group id: %w", err)
	}
	for i := range txns {
		txns[i].Group = gid
	}
	log.WithFields(log.Fields{"legs": len(txns), "group": gid}).Debug("built swap group")

	return &UnsignedGroup{Txns: txns, GroupID: gid, Decimals: decimals}, nil
}

func (b *Builder) buildLeg(
	ctx context.Context,
	legNo int,
	leg Leg,
	params types.SuggestedParams,
	decimals map[uint64]uint32,
) (types.Transaction, error) {
	switch leg.Intent.TxType {
	case TxTypePayment:
		amount, err := common.AlgosToMicroalgos(*leg.Intent.Amount)
		if err != nil {
			return types.Transaction{}, invalidAmount(legNo)
		}
		txn, err := transaction.MakePaymentTxn(leg.Sender, leg.Receiver, amount, nil, "", params)
		if err != nil {
			return types.Transaction{}, fmt.Errorf("failed to build transaction %d: %w", legNo, err)
		}
		return txn, nil

	case TxTypeAssetTransfer:
		assetID := leg.AssetID()
		dec, err := b.decimals(ctx, legNo, assetID, decimals)
		if err != nil {
			return types.Transaction{}, err
		}
		amount, err := common.ToBaseUnits(*leg.Intent.Amount, int32(dec))
		if err != nil {
			return types.Transaction{}, invalidAmount(legNo)
		}
		txn, err := transaction.MakeAssetTransferTxn(leg.Sender, leg.Receiver, amount, nil, params, "", assetID)
		if err != nil {
			return types.Transaction{}, fmt.Errorf("failed to build transaction %d: %w", legNo, err)
		}
		return txn, nil

	case TxTypeOptIn:
		assetID := leg.AssetID()
		if _, err := b.decimals(ctx, legNo, assetID, decimals); err != nil {
			return types.Transaction{}, err
		}
		txn, err := transaction.MakeAssetAcceptanceTxn(leg.Sender, nil, params, assetID)
		if err != nil {
			return types.Transaction{}, fmt.Errorf("failed to build transaction %d: %w", legNo, err)
		}
		return txn, nil
	}
	return types.Transaction{}, invalidType(legNo, leg.Intent.TxType)
}

func (b *Builder) decimals(ctx context.Context, legNo int, assetID uint64, cache map[uint64]uint32) (uint32, error) {
	if d, ok := cache[assetID]; ok {
		return d, nil
	}
	d, err := b.assets.AssetDecimals(ctx, assetID)
	if err != nil {
		return 0, &InvalidAssetIDError{Leg: legNo, AssetID: assetID, Err: err}
	}
	log.WithFields(log.Fields{"asset": assetID, "decimals": d}).Debug("looked up asset decimals")
	cache[assetID] = d
	return d, nil
}
