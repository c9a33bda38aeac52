// Package workflow composes the swap, share and signing services into the
// two user journeys: creating a swap and claiming it.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/algoswap/swapshop/clienterr"
	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/share"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/util/addrbook"
	"github.com/algoswap/swapshop/util/monitor"
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("aborted by user")

// Deps are the services a workflow talks to. The util package wires the
// production ones, tests inject fakes.
type Deps struct {
	Resolver  swap.NameResolver
	Namer     addrbook.Namer
	Assets    swap.AssetInfo
	Params    swap.ParamsProvider
	Submitter share.Submitter
	Confirmer share.Confirmer
	Notes     share.NoteSource
}

func (d Deps) check() error {
	missing := []string{}
	if d.Resolver == nil {
		missing = append(missing, "resolver")
	}
	if d.Namer == nil {
		missing = append(missing, "namer")
	}
	if d.Assets == nil {
		missing = append(missing, "assets")
	}
	if d.Params == nil {
		missing = append(missing, "params")
	}
	if d.Submitter == nil {
		missing = append(missing, "submitter")
	}
	if d.Notes == nil {
		missing = append(missing, "notes")
	}
	if len(missing) > 0 {
		return fmt.Errorf("workflow is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Options change how a workflow ends.
type Options struct {
	// Yes skips the confirmation prompt.
	Yes bool
	// Dry stops before anything is submitted.
	Dry bool
}

// decodedLegs pairs validated legs with the transactions built from them.
func decodedLegs(batch *swap.Batch, group *swap.UnsignedGroup) []swap.DecodedLeg {
	blobs := group.Blobs()
	ids := group.TxIDs()
	legs := make([]swap.DecodedLeg, len(batch.Legs))
	for i, leg := range batch.Legs {
		intent := leg.Intent
		intent.ID = i + 1
		intent.Sender = leg.Sender
		intent.Receiver = leg.Receiver
		legs[i] = swap.DecodedLeg{
			Intent: intent,
			Txn:    group.Txns[i],
			Bytes:  blobs[i],
			TxID:   ids[i],
		}
	}
	return legs
}

// markSigned refreshes the signed flag and bytes of legs from merged.
func markSigned(legs []swap.DecodedLeg, merged [][]byte) ([]swap.DecodedLeg, error) {
	if len(merged) != len(legs) {
		return nil, fmt.Errorf("merged group has %d transactions, expected %d", len(merged), len(legs))
	}
	out := make([]swap.DecodedLeg, len(legs))
	for i, leg := range legs {
		_, signed, err := swap.DecodeBlob(merged[i])
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		leg.Signed = signed
		leg.Bytes = merged[i]
		out[i] = leg
	}
	return out, nil
}

func unsignedLegs(legs []swap.DecodedLeg) []int {
	res := []int{}
	for i, leg := range legs {
		if !leg.Signed {
			res = append(res, i+1)
		}
	}
	return res
}

// report prints err to u. Ledger rejections get their resolution hint and
// confirmation timeouts are told apart from rejections.
func report(u ui.UI, err error) {
	var rejected *clienterr.ParsedClientError
	switch {
	case errors.As(err, &rejected):
		u.Error("The network rejected the transactions: %s", rejected.Message)
		if rejected.Resolution != "" {
			u.Indent().Warn("%s", rejected.Resolution)
		}
	case errors.Is(err, monitor.ErrConfirmationTimeout):
		u.Warn("%s. It may still be confirmed later, check the explorer before retrying.", err)
	case errors.Is(err, ErrAborted):
		u.Info("Aborted.")
	default:
		u.Error("%s", err)
	}
}

func confirm(u ui.UI, opts Options, prompt string) error {
	if opts.Yes {
		return nil
	}
	if !u.Confirm(prompt, false) {
		return ErrAborted
	}
	return nil
}

func maxLegs(cfg *config.Config) int {
	if cfg.MaxLegs <= 0 {
		return swap.MaxLegs
	}
	return cfg.MaxLegs
}

func withSpinner[T any](u ui.UI, msg string, f func() (T, error)) (T, error) {
	stop := u.Spinner(msg)
	defer stop()
	return f()
}

func connect(ctx context.Context, u ui.UI, signer account.Signer) error {
	_, err := withSpinner(u, fmt.Sprintf("Connecting to %s", signer.Address()), func() (struct{}, error) {
		return struct{}{}, signer.Connect(ctx)
	})
	return err
}
