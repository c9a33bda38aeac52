package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName string
	nodeURL  string
	token    string
	client   *algod.Client
	mu       sync.Mutex
}

func NewOneNodeReader(name, url, token string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
		token:    token,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) initConnection() (*algod.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return onr.client, nil
	}
	client, err := algod.MakeClient(onr.nodeURL, onr.token)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	return client, nil
}

func (onr *OneNodeReader) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	client, err := onr.initConnection()
	if err != nil {
		return types.SuggestedParams{}, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return client.SuggestedParams().Do(timeout)
}

func (onr *OneNodeReader) AssetDecimals(ctx context.Context, assetID uint64) (uint32, error) {
	client, err := onr.initConnection()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	asset, err := client.GetAssetByID(assetID).Do(timeout)
	if err != nil {
		return 0, err
	}
	if asset.Params.Decimals > 19 {
		return 0, fmt.Errorf("asset %d reports %d decimals", assetID, asset.Params.Decimals)
	}
	return uint32(asset.Params.Decimals), nil
}

func (onr *OneNodeReader) PendingTransaction(ctx context.Context, txid string) (PendingInfo, error) {
	client, err := onr.initConnection()
	if err != nil {
		return PendingInfo{}, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	info, stx, err := client.PendingTransactionInformation(txid).Do(timeout)
	if err != nil {
		return PendingInfo{}, err
	}
	return PendingInfo{
		ConfirmedRound: info.ConfirmedRound,
		PoolError:      info.PoolError,
		Note:           stx.Txn.Note,
	}, nil
}

func (onr *OneNodeReader) LastRound(ctx context.Context) (uint64, error) {
	client, err := onr.initConnection()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	status, err := client.Status().Do(timeout)
	if err != nil {
		return 0, err
	}
	return status.LastRound, nil
}

// WaitForRound blocks until the node has seen round. It is bounded by ctx
// only since algod holds the request open for up to a minute.
func (onr *OneNodeReader) WaitForRound(ctx context.Context, round uint64) (uint64, error) {
	client, err := onr.initConnection()
	if err != nil {
		return 0, err
	}
	status, err := client.StatusAfterBlock(round).Do(ctx)
	if err != nil {
		return 0, err
	}
	return status.LastRound, nil
}

func (onr *OneNodeReader) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	client, err := onr.initConnection()
	if err != nil {
		return "", err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return client.SendRawTransaction(raw).Do(timeout)
}
