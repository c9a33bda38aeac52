package workflow

import (
	"context"
	"encoding/base64"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/note"
	"github.com/algoswap/swapshop/share"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/account"
)

// Draft is a validated and built swap that nobody has signed yet.
type Draft struct {
	Batch *swap.Batch
	Group *swap.UnsignedGroup
	Legs  []swap.DecodedLeg
}

func (d *Draft) GroupID() string {
	return base64.StdEncoding.EncodeToString(d.Group.GroupID[:])
}

type CreateResult struct {
	GroupID string
	Display *util.GroupDisplay
	// Signed is the group with the creator's signatures merged in.
	Signed [][]byte
	// Payload is the note payload shared with the counterparty.
	Payload    []byte
	ShareTxIDs []string
	ClaimLink  string
}

// Creator builds a swap, signs the creator's legs and publishes the result
// for the counterparty.
type Creator struct {
	cfg       *config.Config
	u         ui.UI
	deps      Deps
	validator *swap.Validator
	builder   *swap.Builder
	publisher *share.Publisher
}

func NewCreator(cfg *config.Config, u ui.UI, deps Deps) (*Creator, error) {
	if err := deps.check(); err != nil {
		return nil, err
	}
	return &Creator{
		cfg:       cfg,
		u:         u,
		deps:      deps,
		validator: swap.NewValidator(deps.Resolver, maxLegs(cfg)),
		builder:   swap.NewBuilder(deps.Assets, deps.Params),
		publisher: share.NewPublisher(deps.Params, deps.Submitter, deps.Confirmer, share.Options{
			Collector:     cfg.Collector,
			ChunkSize:     cfg.NoteChunkSize,
			ConfirmRounds: cfg.ConfirmRounds,
		}),
	}, nil
}

// Prepare validates intents and builds the unsigned group.
func (c *Creator) Prepare(ctx context.Context, intents []swap.Intent) (*Draft, error) {
	batch, err := c.validator.Validate(ctx, intents)
	if err != nil {
		return nil, err
	}
	group, err := withSpinner(c.u, "Building transactions", func() (*swap.UnsignedGroup, error) {
		return c.builder.Build(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	return &Draft{Batch: batch, Group: group, Legs: decodedLegs(batch, group)}, nil
}

// Sign signs the legs sent by signer and merges them into the unsigned
// group. The result keeps the group order.
func (c *Creator) Sign(ctx context.Context, draft *Draft, signer account.Signer) ([][]byte, error) {
	if err := connect(ctx, c.u, signer); err != nil {
		return nil, fmt.Errorf("%w: %s", account.ErrSigningFailed, err)
	}
	signed, err := signer.SignGroup(ctx, draft.Group.Txns, signer.Address())
	if err != nil {
		return nil, err
	}
	merged, err := swap.Merge(signed, draft.Group.Blobs())
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"signed": len(signed), "legs": len(merged)}).Debug("merged creator signatures")
	return merged, nil
}

// Share publishes merged as share transactions sent by signer and returns
// their ids and the claim link.
func (c *Creator) Share(ctx context.Context, merged [][]byte, signer account.Signer) ([]string, string, error) {
	payload := note.Encode(merged)
	ids, err := withSpinner(c.u, "Publishing share transactions", func() ([]string, error) {
		return c.publisher.Publish(ctx, payload, signer.Address(), signer)
	})
	if err != nil {
		return ids, "", err
	}
	return ids, share.ClaimLink(c.cfg.ClaimURL, ids), nil
}

// Create runs the whole creation: build, review, sign and share. With
// opts.Dry it stops after signing and returns the payload unpublished.
func (c *Creator) Create(ctx context.Context, intents []swap.Intent, signer account.Signer, opts Options) (*CreateResult, error) {
	result, err := c.create(ctx, intents, signer, opts)
	if err != nil {
		report(c.u, err)
	}
	return result, err
}

func (c *Creator) create(ctx context.Context, intents []swap.Intent, signer account.Signer, opts Options) (*CreateResult, error) {
	draft, err := c.Prepare(ctx, intents)
	if err != nil {
		return nil, err
	}
	result := &CreateResult{
		GroupID: draft.GroupID(),
		Display: util.DisplayGroup(ctx, c.u, draft.Legs, c.deps.Namer, c.cfg.Network),
	}
	if err := confirm(c.u, opts, fmt.Sprintf("Sign the transactions sent by %s?", signer.Address())); err != nil {
		return result, err
	}

	merged, err := c.Sign(ctx, draft, signer)
	if err != nil {
		return result, err
	}
	result.Signed = merged
	result.Payload = note.Encode(merged)
	legs, err := markSigned(draft.Legs, merged)
	if err != nil {
		return result, err
	}
	result.Display = util.BuildGroupDisplay(ctx, legs, c.deps.Namer, c.cfg.Network)
	c.u.Success("Signed %d of %d transactions.", result.Display.Signed, len(legs))

	if opts.Dry {
		c.u.Info("Dry run, nothing was published.")
		return result, nil
	}

	ids, link, err := c.Share(ctx, merged, signer)
	result.ShareTxIDs = ids
	if err != nil {
		return result, err
	}
	result.ClaimLink = link
	util.DisplaySubmitted(c.u, "Share transactions", ids, c.cfg.Network)
	c.u.Critical("Claim link: %s", link)
	log.WithFields(log.Fields{"group": result.GroupID, "shares": len(ids)}).Info("swap created")
	return result, nil
}
