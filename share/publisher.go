// Package share hands a swap over between parties through the notes of
// ordinary payment transactions.
//
// The creator publishes the encoded unsigned group as zero amount payments
// to a well known collector address and shares their ids. Anyone holding
// the ids can fetch the notes back and rebuild the payload.
package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/note"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/util/account"
)

var ErrEmptyPayload = errors.New("nothing to share")

// Submitter sends a signed group to the ledger and returns the id of its
// first transaction.
type Submitter interface {
	Broadcast(ctx context.Context, signed [][]byte) (string, error)
}

// Confirmer waits for a submitted transaction to be confirmed.
type Confirmer interface {
	BlockingWait(ctx context.Context, txid string, rounds uint64) (uint64, error)
}

type Options struct {
	// Collector receives every share payment.
	Collector string
	// ChunkSize is the note size of each share payment.
	ChunkSize int
	// ConfirmRounds bounds the confirmation wait. Zero skips waiting.
	ConfirmRounds uint64
}

type Publisher struct {
	params    swap.ParamsProvider
	submitter Submitter
	confirmer Confirmer
	opts      Options
}

// NewPublisher returns a publisher. confirmer may be nil.
func NewPublisher(params swap.ParamsProvider, submitter Submitter, confirmer Confirmer, opts Options) *Publisher {
	if opts.ChunkSize <= 0 || opts.ChunkSize > config.MaxNoteSize {
		opts.ChunkSize = config.MaxNoteSize
	}
	return &Publisher{
		params:    params,
		submitter: submitter,
		confirmer: confirmer,
		opts:      opts,
	}
}

// BuildShareGroup splits payload into zero amount payments from sender to
// the collector, stamped with one group id even when there is a single
// chunk.
func (p *Publisher) BuildShareGroup(ctx context.Context, payload []byte, sender string) ([]types.Transaction, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	chunks, err := note.Chunk(payload, p.opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	if len(chunks) > config.MaxGroupSize {
		return nil, fmt.Errorf(
			"payload of %d bytes needs %d share transactions, at most %d fit in a group",
			len(payload), len(chunks), config.MaxGroupSize,
		)
	}
	params, err := p.params.SuggestedParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested params: %w", err)
	}

	txns := make([]types.Transaction, 0, len(chunks))
	for i, chunk := range chunks {
		txn, err := transaction.MakePaymentTxn(sender, p.opts.Collector, 0, chunk, "", params)
		if err != nil {
			return nil, fmt.Errorf("failed to build share transaction %d: %w", i+1, err)
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
	return txns, nil
}

// Publish signs and submits the share group for payload and returns the
// ids of its transactions in order.
func (p *Publisher) Publish(ctx context.Context, payload []byte, sender string, signer account.Signer) ([]string, error) {
	txns, err := p.BuildShareGroup(ctx, payload, sender)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = crypto.GetTxID(txn)
	}

	signed, err := signer.SignGroup(ctx, txns, sender)
	if err != nil {
		return nil, err
	}
	if len(signed) != len(txns) {
		return nil, fmt.Errorf("%w: got %d signatures for %d share transactions", account.ErrSigningFailed, len(signed), len(txns))
	}

	txid, err := p.submitter.Broadcast(ctx, signed)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"txid": txid, "count": len(ids)}).Info("share transactions submitted")

	if p.confirmer != nil && p.opts.ConfirmRounds > 0 {
		if _, err := p.confirmer.BlockingWait(ctx, ids[0], p.opts.ConfirmRounds); err != nil {
			return ids, err
		}
	}
	return ids, nil
}
