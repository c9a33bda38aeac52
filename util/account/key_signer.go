package account

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// KeySigner signs with an ed25519 key held in memory.
type KeySigner struct {
	key     ed25519.PrivateKey
	address string
}

func NewKeySigner(key ed25519.PrivateKey) (*KeySigner, error) {
	address, err := AddressFromPrivateKey(key)
	if err != nil {
		return nil, err
	}
	return &KeySigner{key, address}, nil
}

// NewMnemonicSigner unlocks a 25 word Algorand mnemonic.
func NewMnemonicSigner(phrase string) (*KeySigner, error) {
	key, err := mnemonic.ToPrivateKey(phrase)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return NewKeySigner(key)
}

func (self *KeySigner) Address() string {
	return self.address
}

func (self *KeySigner) Connect(ctx context.Context) error {
	return nil
}

func (self *KeySigner) SignGroup(ctx context.Context, txns []types.Transaction, signerAddress string) ([][]byte, error) {
	if signerAddress != self.address {
		return nil, fmt.Errorf("%w: key of %s cannot sign for %s", ErrSigningFailed, self.address, signerAddress)
	}
	return SignMatching(ctx, txns, signerAddress, func(txn types.Transaction) ([]byte, error) {
		_, stx, err := crypto.SignTransaction(self.key, txn)
		return stx, err
	})
}
