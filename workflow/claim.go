package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/types"
	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/note"
	"github.com/algoswap/swapshop/share"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/account"
)

// ErrIncomplete means some legs are still unsigned after the claimer
// signed, so the group cannot be submitted yet.
var ErrIncomplete = errors.New("swap is not fully signed")

// Shared is a swap fetched back from its share transactions.
type Shared struct {
	ShareTxIDs []string
	Blobs      [][]byte
	Legs       []swap.DecodedLeg
}

func (s *Shared) Txns() []types.Transaction {
	txns := make([]types.Transaction, len(s.Legs))
	for i, leg := range s.Legs {
		txns[i] = leg.Txn
	}
	return txns
}

type ClaimResult struct {
	Display *util.GroupDisplay
	Signed  [][]byte
	TxID    string
	Round   uint64
}

// Claimer loads a shared swap, signs the claimer's legs and submits the
// complete group.
type Claimer struct {
	cfg     *config.Config
	u       ui.UI
	deps    Deps
	fetcher *share.Fetcher
}

func NewClaimer(cfg *config.Config, u ui.UI, deps Deps) (*Claimer, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	return &Claimer{
		cfg:     cfg,
		u:       u,
		deps:    deps,
		fetcher: share.NewFetcher(deps.Notes),
	}, nil
}

// Load accepts share transaction ids or claim links, fetches their notes
// and decodes the swap group they carry.
func (c *Claimer) Load(ctx context.Context, refs []string) (*Shared, error) {
	ids, err := share.ParseRefs(refs)
	if err != nil {
		return nil, err
	}
	payload, err := withSpinner(c.u, "Fetching share transactions", func() ([]byte, error) {
		return c.fetcher.Fetch(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	blobs, err := note.Decode(payload)
	if err != nil {
		return nil, err
	}
	if len(blobs) == 0 {
		return nil, fmt.Errorf("%w: no transaction in payload", note.ErrMalformedPayload)
	}
	legs, err := swap.DecodeGroup(ctx, blobs, c.deps.Assets, c.cfg.MaxFee)
	if err != nil {
		return nil, err
	}
	shared := &Shared{ShareTxIDs: ids, Blobs: blobs, Legs: legs}
	if err := swap.CheckGroup(shared.Txns()); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"shares": len(ids), "legs": len(legs)}).Debug("loaded shared swap")
	return shared, nil
}

// Inspect loads and prints a shared swap without signing anything.
func (c *Claimer) Inspect(ctx context.Context, refs []string) (*util.GroupDisplay, error) {
	shared, err := c.Load(ctx, refs)
	if err != nil {
		report(c.u, err)
		return nil, err
	}
	return util.DisplayGroup(ctx, c.u, shared.Legs, c.deps.Namer, c.cfg.Network), nil
}

// Sign signs the legs sent by signer and merges them over the shared blobs.
func (c *Claimer) Sign(ctx context.Context, shared *Shared, signer account.Signer) ([][]byte, error) {
	if err := connect(ctx, c.u, signer); err != nil {
		return nil, fmt.Errorf("%w: %s", account.ErrSigningFailed, err)
	}
	signed, err := signer.SignGroup(ctx, shared.Txns(), signer.Address())
	if err != nil {
		return nil, err
	}
	return swap.Merge(signed, shared.Blobs)
}

// Submit broadcasts a fully signed group and waits for its confirmation.
func (c *Claimer) Submit(ctx context.Context, signed [][]byte) (string, uint64, error) {
	txid, err := withSpinner(c.u, "Submitting swap", func() (string, error) {
		return c.deps.Submitter.Broadcast(ctx, signed)
	})
	if err != nil {
		return "", 0, err
	}
	if c.deps.Confirmer == nil {
		return txid, 0, nil
	}
	round, err := withSpinner(c.u, fmt.Sprintf("Waiting for %s to be confirmed", txid), func() (uint64, error) {
		return c.deps.Confirmer.BlockingWait(ctx, txid, c.cfg.ConfirmRounds)
	})
	return txid, round, err
}

// Claim runs the whole claim: load, review, sign, merge and submit. With
// opts.Dry it stops before submitting.
func (c *Claimer) Claim(ctx context.Context, refs []string, signer account.Signer, opts Options) (*ClaimResult, error) {
	result, err := c.claim(ctx, refs, signer, opts)
	if err != nil {
		report(c.u, err)
	}
	return result, err
}

func (c *Claimer) claim(ctx context.Context, refs []string, signer account.Signer, opts Options) (*ClaimResult, error) {
	shared, err := c.Load(ctx, refs)
	if err != nil {
		return nil, err
	}
	result := &ClaimResult{
		Display: util.DisplayGroup(ctx, c.u, shared.Legs, c.deps.Namer, c.cfg.Network),
	}
	if err := confirm(c.u, opts, fmt.Sprintf("Sign the transactions sent by %s?", signer.Address())); err != nil {
		return result, err
	}

	merged, err := c.Sign(ctx, shared, signer)
	if err != nil {
		return result, err
	}
	result.Signed = merged
	legs, err := markSigned(shared.Legs, merged)
	if err != nil {
		return result, err
	}
	result.Display = util.BuildGroupDisplay(ctx, legs, c.deps.Namer, c.cfg.Network)
	if missing := unsignedLegs(legs); len(missing) > 0 {
		nos := make([]string, len(missing))
		for i, n := range missing {
			nos[i] = fmt.Sprintf("%d", n)
		}
		return result, fmt.Errorf("%w: transactions %s still need a signature", ErrIncomplete, strings.Join(nos, ", "))
	}
	c.u.Success("All %d transactions are signed.", len(legs))

	if opts.Dry {
		c.u.Info("Dry run, nothing was submitted.")
		return result, nil
	}

	txid, round, err := c.Submit(ctx, merged)
	result.TxID = txid
	result.Round = round
	if err != nil {
		return result, err
	}
	util.DisplaySubmitted(c.u, "Swap submitted", []string{txid}, c.cfg.Network)
	if round > 0 {
		c.u.Critical("Confirmed in round %d.", round)
	}
	return result, nil
}
