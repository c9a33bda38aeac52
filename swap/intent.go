// Package swap turns user declared swap legs into an atomic Algorand
// transaction group and merges the signatures collected from each party
// back into it.
package swap

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTypeUnset         TxType = ""
	TxTypePayment       TxType = "pay"
	TxTypeAssetTransfer TxType = "axfer"
	TxTypeOptIn         TxType = "optin"
)

// NativeAssetID is the sentinel asset id used for ALGO payments.
const NativeAssetID int64 = 1

var txTypeAliases = map[string]TxType{
	"pay":            TxTypePayment,
	"payment":        TxTypePayment,
	"axfer":          TxTypeAssetTransfer,
	"asset-transfer": TxTypeAssetTransfer,
	"transfer":       TxTypeAssetTransfer,
	"optin":          TxTypeOptIn,
	"opt-in":         TxTypeOptIn,
}

// NormalizeTxType maps the accepted spellings to a TxType. Unknown values
// are returned lowercased so validation can report them.
func NormalizeTxType(s string) TxType {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := txTypeAliases[s]; ok {
		return t
	}
	return TxType(s)
}

func (t TxType) Valid() bool {
	switch t {
	case TxTypePayment, TxTypeAssetTransfer, TxTypeOptIn:
		return true
	}
	return false
}

func (t TxType) String() string {
	switch t {
	case TxTypePayment:
		return "payment"
	case TxTypeAssetTransfer:
		return "asset transfer"
	case TxTypeOptIn:
		return "opt-in"
	case TxTypeUnset:
		return "unset"
	}
	return string(t)
}

// Intent is one leg of a swap as declared by a user. Sender and receiver may
// be canonical addresses or aliases. Nil pointers mean the field is unset.
type Intent struct {
	ID       int              `json:"id"`
	TxType   TxType           `json:"type"`
	Sender   string           `json:"sender"`
	Receiver string           `json:"receiver"`
	AssetID  *int64           `json:"assetId"`
	Amount   *decimal.Decimal `json:"amount"`
}

// Normalized applies the forced fields: payments always move the native
// asset, opt-ins always move 0 units from the sender to itself.
func (i Intent) Normalized() Intent {
	switch i.TxType {
	case TxTypePayment:
		native := NativeAssetID
		i.AssetID = &native
	case TxTypeOptIn:
		zero := decimal.Zero
		i.Amount = &zero
		i.Receiver = i.Sender
	}
	return i
}

func (i Intent) String() string {
	asset, amount := "-", "-"
	if i.AssetID != nil {
		asset = fmt.Sprintf("%d", *i.AssetID)
	}
	if i.Amount != nil {
		amount = i.Amount.String()
	}
	return fmt.Sprintf("#%d %s %s -> %s asset=%s amount=%s", i.ID, i.TxType, i.Sender, i.Receiver, asset, amount)
}

// IntentFields is the textual form of an intent, as typed on the command
// line or read from a legs file. Empty strings mean unset.
type IntentFields struct {
	Type     string
	Sender   string
	Receiver string
	AssetID  string
	Amount   string
}

// ParseIntent converts the textual fields of leg number id (1-based) into an
// Intent. Only syntax is checked here, Validator.Validate does the rest.
func ParseIntent(id int, f IntentFields) (Intent, error) {
	intent := Intent{
		ID:       id,
		TxType:   NormalizeTxType(f.Type),
		Sender:   strings.TrimSpace(f.Sender),
		Receiver: strings.TrimSpace(f.Receiver),
	}
	if s := strings.TrimSpace(f.AssetID); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsInteger() || d.IsNegative() || !d.LessThan(decimal.New(1, 18)) {
			return Intent{}, invalidAssetID(id)
		}
		v := d.IntPart()
		intent.AssetID = &v
	}
	if s := strings.TrimSpace(f.Amount); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Intent{}, invalidAmount(id)
		}
		intent.Amount = &d
	}
	return intent, nil
}
