package reader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	name     string
	params   types.SuggestedParams
	decimals map[uint64]uint32
	pending  map[string]PendingInfo
	err      error
}

func (n *fakeNode) NodeName() string { return n.name }
func (n *fakeNode) NodeURL() string  { return "http://" + n.name }

func (n *fakeNode) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return n.params, n.err
}

func (n *fakeNode) AssetDecimals(ctx context.Context, assetID uint64) (uint32, error) {
	if n.err != nil {
		return 0, n.err
	}
	d, found := n.decimals[assetID]
	if !found {
		return 0, fmt.Errorf("HTTP 404: asset does not exist")
	}
	return d, nil
}

func (n *fakeNode) PendingTransaction(ctx context.Context, txid string) (PendingInfo, error) {
	if n.err != nil {
		return PendingInfo{}, n.err
	}
	info, found := n.pending[txid]
	if !found {
		return PendingInfo{}, fmt.Errorf("HTTP 404: txn not found")
	}
	return info, nil
}

func (n *fakeNode) LastRound(ctx context.Context) (uint64, error) { return 0, n.err }

func (n *fakeNode) WaitForRound(ctx context.Context, round uint64) (uint64, error) {
	return round, n.err
}

func (n *fakeNode) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	return "", n.err
}

type fakeNotes map[string][]byte

func (f fakeNotes) TransactionNote(ctx context.Context, txid string) ([]byte, error) {
	note, found := f[txid]
	if !found {
		return nil, errors.New("HTTP 404: no transaction found")
	}
	return note, nil
}

func TestFirstSuccessfulNodeWins(t *testing.T) {
	down := &fakeNode{name: "down", err: errors.New("connection refused")}
	up := &fakeNode{
		name:     "up",
		params:   types.SuggestedParams{MinFee: 1000, GenesisID: "testnet-v1.0"},
		decimals: map[uint64]uint32{31566704: 6},
	}
	r := NewAlgoReaderWithNodes(nil, down, up)

	params, err := r.SuggestedParams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testnet-v1.0", params.GenesisID)

	decimals, err := r.AssetDecimals(context.Background(), 31566704)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), decimals)
}

func TestAllNodesFailing(t *testing.T) {
	r := NewAlgoReaderWithNodes(nil,
		&fakeNode{name: "a", err: errors.New("boom")},
		&fakeNode{name: "b", err: errors.New("bang")},
	)
	_, err := r.AssetDecimals(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: boom")
	assert.Contains(t, err.Error(), "b: bang")

	_, err = NewAlgoReaderWithNodes(nil).SuggestedParams(context.Background())
	assert.Error(t, err)
}

func TestTransactionNoteFallsBackToNodes(t *testing.T) {
	node := &fakeNode{name: "n", pending: map[string]PendingInfo{
		"RECENT":  {ConfirmedRound: 12, Note: []byte("recent")},
		"PENDING": {Note: []byte("pending")},
	}}
	r := NewAlgoReaderWithNodes(fakeNotes{"OLD": []byte("old")}, node)

	note, err := r.TransactionNote(context.Background(), "OLD")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), note)

	note, err = r.TransactionNote(context.Background(), "RECENT")
	require.NoError(t, err)
	assert.Equal(t, []byte("recent"), note)

	_, err = r.TransactionNote(context.Background(), "PENDING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = r.TransactionNote(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestIndexerReaderTransactionNote(t *testing.T) {
	note := []byte("3:1:2:3$abbccc")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !strings.HasSuffix(r.URL.Path, "/v2/transactions/SHARETX") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"no transaction found for transaction id"}`)
			return
		}
		fmt.Fprintf(w, `{"current-round":100,"transaction":{"id":"SHARETX","confirmed-round":90,"note":"%s","tx-type":"pay"}}`,
			base64.StdEncoding.EncodeToString(note))
	}))
	defer srv.Close()

	ir := NewIndexerReader(srv.URL, "")
	got, err := ir.TransactionNote(context.Background(), "SHARETX")
	require.NoError(t, err)
	assert.Equal(t, note, got)

	_, err = ir.TransactionNote(context.Background(), "OTHER")
	assert.Error(t, err)
}
