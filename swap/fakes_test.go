package swap

import (
	"context"
	"fmt"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"
)

const (
	addrA = "BYKWLR65FS6IBLJO7SKBGBJ4C5T257LBL55OUY6363QBWX24B5QKT6DMEA"
	addrB = "RUDA4V6Z735GJJFRAMTRQKMSC7H57H323LLONSTSWUS55YE732ACXU6YMA"
	addrC = "JQTNSB2ME7MJ5XSZE4GAVQKLOHQHDMKSHFIZ65KHJMXTXJRUQH2Q6A55F4"
)

type fakeResolver struct {
	mu      sync.Mutex
	aliases map[string]string
	calls   map[string]int
}

func newFakeResolver(aliases map[string]string) *fakeResolver {
	return &fakeResolver{aliases: aliases, calls: map[string]int{}}
}

func (r *fakeResolver) Resolve(_ context.Context, s string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[s]++
	addr, ok := r.aliases[s]
	if !ok {
		return "", fmt.Errorf("alias %s not found", s)
	}
	return addr, nil
}

type fakeAssets struct {
	decimals map[uint64]uint32
	calls    map[uint64]int
}

func newFakeAssets(decimals map[uint64]uint32) *fakeAssets {
	return &fakeAssets{decimals: decimals, calls: map[uint64]int{}}
}

func (a *fakeAssets) AssetDecimals(_ context.Context, id uint64) (uint32, error) {
	a.calls[id]++
	d, ok := a.decimals[id]
	if !ok {
		return 0, fmt.Errorf("asset %d does not exist", id)
	}
	return d, nil
}

type fakeParams struct{}

func (fakeParams) SuggestedParams(context.Context) (types.SuggestedParams, error) {
	return testParams(), nil
}

func testParams() types.SuggestedParams {
	return types.SuggestedParams{
		Fee:             0,
		MinFee:          1000,
		FirstRoundValid: 1000,
		LastRoundValid:  2000,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
	}
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func asset(id int64) *int64 {
	return &id
}

func pay(id int, from, to, amt string) Intent {
	return Intent{ID: id, TxType: TxTypePayment, Sender: from, Receiver: to, Amount: amount(amt)}
}

func axfer(id int, from, to string, assetID int64, amt string) Intent {
	return Intent{ID: id, TxType: TxTypeAssetTransfer, Sender: from, Receiver: to, AssetID: asset(assetID), Amount: amount(amt)}
}

func optin(id int, who string, assetID int64) Intent {
	return Intent{ID: id, TxType: TxTypeOptIn, Sender: who, AssetID: asset(assetID)}
}

// signWith signs every transaction of txns sent by acc, in order.
func signWith(acc crypto.Account, txns []types.Transaction) [][]byte {
	var out [][]byte
	for _, txn := range txns {
		if txn.Sender != acc.Address {
			continue
		}
		_, stx, err := crypto.SignTransaction(acc.PrivateKey, txn)
		if err != nil {
			panic(err)
		}
		out = append(out, stx)
	}
	return out
}
