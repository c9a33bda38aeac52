package util_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoswap/swapshop/networks"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/addrbook"
)

const (
	alice = "BYKWLR65FS6IBLJO7SKBGBJ4C5T257LBL55OUY6363QBWX24B5QKT6DMEA"
	bob   = "RUDA4V6Z735GJJFRAMTRQKMSC7H57H323LLONSTSWUS55YE732ACXU6YMA"
)

func decodedLeg(id int, t swap.TxType, sender, receiver string, assetID int64, amount string, signed bool) swap.DecodedLeg {
	d := decimal.RequireFromString(amount)
	return swap.DecodedLeg{
		Intent: swap.Intent{
			ID:       id,
			TxType:   t,
			Sender:   sender,
			Receiver: receiver,
			AssetID:  &assetID,
			Amount:   &d,
		},
		Txn:    types.Transaction{Header: types.Header{Group: types.Digest{1, 2, 3}}},
		Signed: signed,
		TxID:   "TX" + string(rune('A'+id)),
	}
}

func fixtureLegs() []swap.DecodedLeg {
	return []swap.DecodedLeg{
		decodedLeg(1, swap.TxTypePayment, alice, bob, 1, "1.5", true),
		decodedLeg(2, swap.TxTypeAssetTransfer, bob, alice, 31566704, "1250", false),
		decodedLeg(3, swap.TxTypeOptIn, alice, alice, 31566704, "0", true),
	}
}

func TestBuildGroupDisplay(t *testing.T) {
	namer := addrbook.Map{"alice.algo": alice}
	d := util.BuildGroupDisplay(context.Background(), fixtureLegs(), namer, networks.AlgorandMainnet)

	assert.Equal(t, "mainnet", d.Network)
	gid := append([]byte{1, 2, 3}, make([]byte, 29)...)
	assert.Equal(t, base64.StdEncoding.EncodeToString(gid), d.GroupID)
	require.Len(t, d.Legs, 3)
	assert.Equal(t, 2, d.Signed)
	assert.False(t, d.Complete())

	pay := d.Legs[0]
	assert.Equal(t, "payment", pay.Type)
	assert.Equal(t, "ALGO", pay.Asset)
	assert.Equal(t, "1.5 ALGO", pay.Amount)
	assert.Equal(t, ui.SeveritySuccess, pay.Sender.Severity)
	assert.Equal(t, alice+" (alice.algo)", pay.Sender.Text)
	assert.Equal(t, ui.SeverityWarn, pay.Receiver.Severity)
	assert.Equal(t, "https://lora.algokit.io/mainnet/transaction/TXB", pay.TxURL)

	xfer := d.Legs[1]
	assert.Equal(t, "31566704", xfer.Asset)
	assert.Equal(t, "1,250", xfer.Amount)

	require.Len(t, d.Parties, 2)
	assert.Equal(t, []int{1, 3}, d.Parties[0].Legs)
	assert.Equal(t, 2, d.Parties[0].Signed)
	assert.Equal(t, []int{2}, d.Parties[1].Legs)
	assert.Equal(t, 0, d.Parties[1].Signed)
}

func TestDisplayGroupPrintsShortenedCells(t *testing.T) {
	namer := addrbook.Map{"alice.algo": alice}
	r := ui.NewRecordingUI()
	d := util.DisplayGroup(context.Background(), r, fixtureLegs(), namer, networks.AlgorandMainnet)

	assert.True(t, r.HasMessage("1 | payment | BYKW...DMEA (alice.algo) | RUDA...6YMA | ALGO | 1.5 ALGO | ✓ signed"))
	assert.True(t, r.HasMessage("2 | asset transfer | RUDA...6YMA | BYKW...DMEA (alice.algo) | 31566704 | 1,250 | unsigned"))
	assert.True(t, r.HasMessage("signed | 2/3"))
	assert.True(t, r.HasMessage(alice+" (alice.algo) | signs 1, 3 (2/2 signed)"))

	// the returned view-model keeps full addresses
	assert.Equal(t, alice+" (alice.algo)", d.Legs[0].Sender.Text)
}

func TestGroupDisplayJSON(t *testing.T) {
	d := util.BuildGroupDisplay(context.Background(), fixtureLegs()[:1], addrbook.Map{}, networks.AlgorandTestnet)
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	legs := out["legs"].([]interface{})
	leg := legs[0].(map[string]interface{})
	assert.Equal(t, alice+" (unknown)", leg["sender"])
	assert.Equal(t, true, leg["signed"])
}

func TestDisplaySubmitted(t *testing.T) {
	r := ui.NewRecordingUI()
	util.DisplaySubmitted(r, "Submitted", []string{"ABC"}, networks.AlgorandTestnet)
	assert.True(t, r.HasMessage("ABC | https://lora.algokit.io/testnet/transaction/ABC"))
}
