package monitor

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/clienterr"
	"github.com/algoswap/swapshop/util/reader"
)

// ErrConfirmationTimeout means the transaction was not confirmed within the
// round budget. It says nothing about whether the ledger rejected it.
var ErrConfirmationTimeout = errors.New("transaction was not confirmed in time")

// Node is the part of an algod node the monitor polls.
type Node interface {
	PendingTransaction(ctx context.Context, txid string) (reader.PendingInfo, error)
	LastRound(ctx context.Context) (uint64, error)
	WaitForRound(ctx context.Context, round uint64) (uint64, error)
}

type TxMonitor struct {
	node Node
}

func NewTxMonitor(node Node) *TxMonitor {
	return &TxMonitor{node}
}

// BlockingWait polls txid once per round for at most rounds rounds and
// returns the round it was confirmed in. A transaction the pool dropped
// is returned as a *clienterr.ParsedClientError.
func (self *TxMonitor) BlockingWait(ctx context.Context, txid string, rounds uint64) (uint64, error) {
	if rounds == 0 {
		rounds = 1
	}
	start, err := self.node.LastRound(ctx)
	if err != nil {
		return 0, fmt.Errorf("couldn't get node status: %w", err)
	}
	current := start
	for current < start+rounds {
		info, err := self.node.PendingTransaction(ctx, txid)
		switch {
		case err != nil:
			log.WithError(err).WithField("txid", txid).Debug("pending lookup failed")
		case info.ConfirmedRound > 0:
			log.WithFields(log.Fields{"txid": txid, "round": info.ConfirmedRound}).Info("transaction confirmed")
			return info.ConfirmedRound, nil
		case info.PoolError != "":
			return 0, clienterr.ParseMessage(info.PoolError)
		}
		current++
		if _, err := self.node.WaitForRound(ctx, current); err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			log.WithError(err).WithField("round", current).Warn("waiting for round failed")
		}
	}
	return 0, fmt.Errorf("%w: %s after %d rounds", ErrConfirmationTimeout, txid, rounds)
}
