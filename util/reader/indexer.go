package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/indexer"
)

// IndexerReader looks up confirmed transactions on an indexer.
type IndexerReader struct {
	url    string
	token  string
	client *indexer.Client
	mu     sync.Mutex
}

func NewIndexerReader(url, token string) *IndexerReader {
	return &IndexerReader{url: url, token: token}
}

func (ir *IndexerReader) initConnection() (*indexer.Client, error) {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	if ir.client != nil {
		return ir.client, nil
	}
	client, err := indexer.MakeClient(ir.url, ir.token)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to indexer %s: %w", ir.url, err)
	}
	ir.client = client
	return client, nil
}

// TransactionNote returns the note of a confirmed transaction.
func (ir *IndexerReader) TransactionNote(ctx context.Context, txid string) ([]byte, error) {
	client, err := ir.initConnection()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	resp, err := client.LookupTransaction(txid).Do(timeout)
	if err != nil {
		return nil, err
	}
	return resp.Transaction.Note, nil
}
