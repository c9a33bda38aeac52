package reader

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// AlgorandNode is the subset of the algod API the tool reads from one
// node.
type AlgorandNode interface {
	NodeName() string
	NodeURL() string
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	AssetDecimals(ctx context.Context, assetID uint64) (uint32, error)
	// PendingTransaction returns the confirmed round (0 while pending), the
	// pool error if the node dropped the transaction and its note.
	PendingTransaction(ctx context.Context, txid string) (PendingInfo, error)
	LastRound(ctx context.Context) (uint64, error)
	WaitForRound(ctx context.Context, round uint64) (uint64, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
}

type PendingInfo struct {
	ConfirmedRound uint64
	PoolError      string
	Note           []byte
}
