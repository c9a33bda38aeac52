package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"

	"github.com/algoswap/swapshop/common"
)

// DecodedLeg is one transaction of a shared group, turned back into a leg
// for display and signing.
type DecodedLeg struct {
	Intent Intent
	Txn    types.Transaction
	Signed bool
	Bytes  []byte
	TxID   string
}

// DefaultMaxFee is the highest fee, in microalgos, a decoded leg may carry
// when no cap is configured.
const DefaultMaxFee = 10000

// ErrUnsafeLeg marks a shared transaction that does more than the leg it
// shows: it rekeys or closes an account, claws back an asset or burns an
// excessive fee.
var ErrUnsafeLeg = errors.New("unsafe transaction")

// DecodeGroup decodes the blobs of a shared group. Asset amounts are
// converted back to display units with one decimals lookup per asset.
//
// The blobs come from the counterparty. A transaction that sets a rekey,
// close or clawback address, or whose fee is above maxFee, is rejected with
// a *ValidationError wrapping ErrUnsafeLeg. A zero maxFee means
// DefaultMaxFee.
func DecodeGroup(ctx context.Context, blobs [][]byte, assets AssetInfo, maxFee uint64) ([]DecodedLeg, error) {
	if maxFee == 0 {
		maxFee = DefaultMaxFee
	}
	decimals := map[uint64]uint32{}
	legs := make([]DecodedLeg, 0, len(blobs))
	for i, blob := range blobs {
		txn, signed, err := DecodeBlob(blob)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		if err := checkUnsafe(i+1, txn, maxFee); err != nil {
			return nil, err
		}
		intent, err := intentFromTxn(ctx, i+1, txn, assets, decimals)
		if err != nil {
			return nil, err
		}
		legs = append(legs, DecodedLeg{
			Intent: intent,
			Txn:    txn,
			Signed: signed,
			Bytes:  blob,
			TxID:   crypto.GetTxID(txn),
		})
	}
	return legs, nil
}

func unsafeLeg(leg int, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Leg:     leg,
		Field:   field,
		Message: fmt.Sprintf("Transaction %d ", leg) + fmt.Sprintf(format, args...) + ". Refusing to sign it.",
		Err:     ErrUnsafeLeg,
	}
}

func checkUnsafe(leg int, txn types.Transaction, maxFee uint64) error {
	zero := types.Address{}
	switch {
	case txn.RekeyTo != zero:
		return unsafeLeg(leg, "rekeyTo", "would rekey %s to %s", txn.Sender, txn.RekeyTo)
	case txn.CloseRemainderTo != zero:
		return unsafeLeg(leg, "closeRemainderTo", "would close %s and send its algo to %s", txn.Sender, txn.CloseRemainderTo)
	case txn.AssetCloseTo != zero:
		return unsafeLeg(leg, "assetCloseTo", "would close asset %d of %s to %s", txn.XferAsset, txn.Sender, txn.AssetCloseTo)
	case txn.AssetSender != zero:
		return unsafeLeg(leg, "assetSender", "would claw back asset %d from %s", txn.XferAsset, txn.AssetSender)
	case uint64(txn.Fee) > maxFee:
		return unsafeLeg(leg, "fee", "has a fee of %d microalgos, above the limit of %d", uint64(txn.Fee), maxFee)
	}
	return nil
}

func intentFromTxn(
	ctx context.Context,
	legNo int,
	txn types.Transaction,
	assets AssetInfo,
	decimals map[uint64]uint32,
) (Intent, error) {
	intent := Intent{
		ID:     legNo,
		Sender: txn.Sender.String(),
	}
	switch txn.Type {
	case types.PaymentTx:
		native := NativeAssetID
		amount := common.MicroalgosToAlgos(uint64(txn.Amount))
		intent.TxType = TxTypePayment
		intent.Receiver = txn.Receiver.String()
		intent.AssetID = &native
		intent.Amount = &amount
		return intent, nil

	case types.AssetTransferTx:
		assetID := int64(txn.XferAsset)
		intent.AssetID = &assetID
		intent.Receiver = txn.AssetReceiver.String()
		if txn.AssetReceiver == txn.Sender && txn.AssetAmount == 0 {
			zero := decimal.Zero
			intent.TxType = TxTypeOptIn
			intent.Amount = &zero
			return intent, nil
		}
		d, ok := decimals[uint64(txn.XferAsset)]
		if !ok {
			var err error
			d, err = assets.AssetDecimals(ctx, uint64(txn.XferAsset))
			if err != nil {
				return Intent{}, &InvalidAssetIDError{Leg: legNo, AssetID: uint64(txn.XferAsset), Err: err}
			}
			decimals[uint64(txn.XferAsset)] = d
		}
		amount := common.FromBaseUnits(txn.AssetAmount, int32(d))
		intent.TxType = TxTypeAssetTransfer
		intent.Amount = &amount
		return intent, nil
	}
	return Intent{}, fmt.Errorf("transaction %d has unsupported type %q", legNo, txn.Type)
}

// CheckGroup verifies that the transactions form one atomic group: each
// carries the group id computed over all of them, in this order.
func CheckGroup(txns []types.Transaction) error {
	if len(txns) == 0 {
		return fmt.Errorf("empty group")
	}
	stamped := txns[0].Group
	bare := make([]types.Transaction, len(txns))
	for i, txn := range txns {
		if txn.Group != stamped {
			return fmt.Errorf("transaction %d belongs to a different group", i+1)
		}
		txn.Group = types.Digest{}
		bare[i] = txn
	}
	gid, err := crypto.ComputeGroupID(bare)
	if err != nil {
		return fmt.Errorf("failed to compute group id: %w", err)
	}
	if gid != stamped {
		return fmt.Errorf("group id mismatch, the transactions were reordered or altered")
	}
	return nil
}
