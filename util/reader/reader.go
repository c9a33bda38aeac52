package reader

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/algorand/go-algorand-sdk/v2/types"
	log "github.com/sirupsen/logrus"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// NoteSource returns the note of a confirmed transaction.
type NoteSource interface {
	TransactionNote(ctx context.Context, txid string) ([]byte, error)
}

// AlgoReader reads from every configured algod node concurrently and
// returns the first successful answer.
type AlgoReader struct {
	nodes   []AlgorandNode
	indexer NoteSource
}

// NewAlgoReader builds a reader over nodes, a map of node name to algod
// url sharing one token. indexer may be nil.
func NewAlgoReader(nodes map[string]string, token string, indexer NoteSource) *AlgoReader {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	ns := []AlgorandNode{}
	for _, name := range names {
		ns = append(ns, NewOneNodeReader(name, nodes[name], token))
	}
	return NewAlgoReaderWithNodes(indexer, ns...)
}

func NewAlgoReaderWithNodes(indexer NoteSource, nodes ...AlgorandNode) *AlgoReader {
	return &AlgoReader{
		nodes:   nodes,
		indexer: indexer,
	}
}

func (ar *AlgoReader) Nodes() []AlgorandNode {
	return ar.nodes
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess runs call on every node and returns the first result
// without error.
func firstSuccess[T any](ctx context.Context, nodes []AlgorandNode, call func(context.Context, AlgorandNode) (T, error)) (T, error) {
	var zero T
	if len(nodes) == 0 {
		return zero, fmt.Errorf("no algod node is configured")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	resCh := make(chan nodeResult[T], len(nodes))
	for i := range nodes {
		n := nodes[i]
		go func() {
			v, err := call(ctx, n)
			resCh <- nodeResult[T]{Value: v, Error: wrapError(err, n.NodeName())}
		}()
	}
	errs := []error{}
	for i := 0; i < len(nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (ar *AlgoReader) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return firstSuccess(ctx, ar.nodes, func(ctx context.Context, n AlgorandNode) (types.SuggestedParams, error) {
		return n.SuggestedParams(ctx)
	})
}

func (ar *AlgoReader) AssetDecimals(ctx context.Context, assetID uint64) (uint32, error) {
	decimals, err := firstSuccess(ctx, ar.nodes, func(ctx context.Context, n AlgorandNode) (uint32, error) {
		return n.AssetDecimals(ctx, assetID)
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"asset": assetID, "decimals": decimals}).Debug("asset decimals")
	return decimals, nil
}

// TransactionNote returns the note of txid from the indexer, falling back
// to the nodes which still know recently confirmed transactions.
func (ar *AlgoReader) TransactionNote(ctx context.Context, txid string) ([]byte, error) {
	var indexerErr error
	if ar.indexer != nil {
		note, err := ar.indexer.TransactionNote(ctx, txid)
		if err == nil {
			return note, nil
		}
		indexerErr = err
		log.WithError(err).WithField("txid", txid).Debug("indexer lookup failed, asking nodes")
	}
	info, err := firstSuccess(ctx, ar.nodes, func(ctx context.Context, n AlgorandNode) (PendingInfo, error) {
		return n.PendingTransaction(ctx, txid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransactionNotFound, txid, errors.Join(indexerErr, err))
	}
	if info.ConfirmedRound == 0 {
		return nil, fmt.Errorf("%w: %s is not confirmed yet", ErrTransactionNotFound, txid)
	}
	return info.Note, nil
}
