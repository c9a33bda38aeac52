package swap

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/common"
)

const (
	MinLegs = 2
	MaxLegs = 16
	// MaxSenders is the number of distinct signing parties a swap may have.
	MaxSenders = 2
)

// Leg is a validated, normalized intent with canonical addresses.
type Leg struct {
	Intent   Intent
	Sender   string
	Receiver string
}

func (l Leg) AssetID() uint64 {
	return uint64(*l.Intent.AssetID)
}

// Batch is the output of a validation run. Aliases maps every alias that
// was resolved during the run to its canonical address and is owned by the
// caller once returned.
type Batch struct {
	Legs    []Leg
	Aliases map[string]string
}

// Senders returns the distinct sender addresses in order of first use.
func (b *Batch) Senders() []string {
	seen := map[string]bool{}
	res := []string{}
	for _, l := range b.Legs {
		if !seen[l.Sender] {
			seen[l.Sender] = true
			res = append(res, l.Sender)
		}
	}
	return res
}

type Validator struct {
	resolver NameResolver
	maxLegs  int
}

func NewValidator(resolver NameResolver, maxLegs int) *Validator {
	if maxLegs <= 0 || maxLegs > MaxLegs {
		maxLegs = MaxLegs
	}
	return &Validator{resolver: resolver, maxLegs: maxLegs}
}

// Validate normalizes intents and checks them in order, stopping at the
// first offending leg. Each alias is resolved at most once per call. The
// input slice is not modified.
func (v *Validator) Validate(ctx context.Context, intents []Intent) (*Batch, error) {
	if len(intents) < MinLegs || len(intents) > v.maxLegs {
		return nil, &ValidationError{
			Message: fmt.Sprintf(
				"A swap needs between %d and %d transactions, got %d.",
				MinLegs, v.maxLegs, len(intents),
			),
		}
	}

	normalized := make([]Intent, len(intents))
	for i, intent := range intents {
		normalized[i] = intent.Normalized()
	}

	batch := &Batch{
		Legs:    make([]Leg, 0, len(normalized)),
		Aliases: map[string]string{},
	}
	ids := map[int]bool{}
	senders := map[string]bool{}

	for i, intent := range normalized {
		legNo := i + 1
		if err := checkFields(legNo, intent); err != nil {
			return nil, err
		}
		if ids[intent.ID] {
			return nil, invalidLeg(legNo)
		}
		ids[intent.ID] = true

		sender, err := v.resolve(ctx, intent.Sender, batch.Aliases)
		if err != nil {
			return nil, invalidAddress(legNo, "sender", err)
		}
		receiver, err := v.resolve(ctx, intent.Receiver, batch.Aliases)
		if err != nil {
			return nil, invalidAddress(legNo, "receiver", err)
		}

		if !senders[sender] {
			senders[sender] = true
			if len(senders) > MaxSenders {
				return nil, &ValidationError{
					Leg:     legNo,
					Field:   "sender",
					Message: fmt.Sprintf("There can be up to two different sender wallet addresses. Transaction %d adds a third one.", legNo),
				}
			}
		}

		batch.Legs = append(batch.Legs, Leg{
			Intent:   intent,
			Sender:   sender,
			Receiver: receiver,
		})
	}
	return batch, nil
}

func checkFields(legNo int, intent Intent) error {
	if intent.ID <= 0 ||
		intent.TxType == TxTypeUnset ||
		intent.Sender == "" ||
		intent.Receiver == "" ||
		intent.AssetID == nil ||
		*intent.AssetID < 0 ||
		intent.Amount == nil ||
		intent.Amount.IsNegative() {
		return invalidLeg(legNo)
	}
	if !intent.TxType.Valid() {
		return invalidType(legNo, intent.TxType)
	}
	if intent.TxType == TxTypePayment {
		if _, err := common.AlgosToMicroalgos(*intent.Amount); err != nil {
			return invalidAmount(legNo)
		}
	}
	// asset legs need a real asset, not the native sentinel
	if intent.TxType != TxTypePayment && *intent.AssetID <= NativeAssetID {
		return invalidAssetID(legNo)
	}
	return nil
}

func (v *Validator) resolve(ctx context.Context, s string, aliases map[string]string) (string, error) {
	if common.IsAddress(s) {
		return s, nil
	}
	if addr, ok := aliases[s]; ok {
		return addr, nil
	}
	if v.resolver == nil {
		return "", fmt.Errorf("%q is not a valid address", s)
	}
	addr, err := v.resolver.Resolve(ctx, s)
	if err != nil {
		return "", err
	}
	if !common.IsAddress(addr) {
		return "", fmt.Errorf("alias %q resolved to invalid address %q", s, addr)
	}
	log.WithFields(log.Fields{"alias": s, "address": addr}).Debug("resolved alias")
	aliases[s] = addr
	return addr, nil
}
