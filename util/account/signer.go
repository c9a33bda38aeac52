package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// ErrSigningFailed is returned for every signing failure: no connected
// device, a rejected request or nothing to sign.
var ErrSigningFailed = errors.New("transaction signing failed")

// Signer signs the members of a transaction group that belong to one
// account.
type Signer interface {
	// Address returns the canonical address the signer holds keys for.
	Address() string
	// Connect prepares the signer. It is a no-op for software keys.
	Connect(ctx context.Context) error
	// SignGroup signs, in group order, only the transactions whose sender
	// is signerAddress and returns their signed msgpack encodings.
	SignGroup(ctx context.Context, txns []types.Transaction, signerAddress string) ([][]byte, error)
}

// SignMatching applies sign to every transaction sent by signerAddress and
// collects the results in group order. It is shared by Signer
// implementations.
func SignMatching(
	ctx context.Context,
	txns []types.Transaction,
	signerAddress string,
	sign func(types.Transaction) ([]byte, error),
) ([][]byte, error) {
	result := [][]byte{}
	for i, txn := range txns {
		if txn.Sender.String() != signerAddress {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSigningFailed, err)
		}
		blob, err := sign(txn)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %s", ErrSigningFailed, i+1, err)
		}
		result = append(result, blob)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no transaction is sent by %s", ErrSigningFailed, signerAddress)
	}
	return result, nil
}
