package account

import (
	"crypto/ed25519"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

func AddressFromPublicKey(pk ed25519.PublicKey) (string, error) {
	if len(pk) != ed25519.PublicKeySize {
		return "", fmt.Errorf("invalid public key length %d", len(pk))
	}
	var addr types.Address
	copy(addr[:], pk)
	return addr.String(), nil
}

func AddressFromPrivateKey(key ed25519.PrivateKey) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("invalid private key length %d", len(key))
	}
	return AddressFromPublicKey(key.Public().(ed25519.PublicKey))
}

// PrivateKeyFromMnemonic returns the address and key of a 25 word mnemonic.
func PrivateKeyFromMnemonic(phrase string) (string, ed25519.PrivateKey, error) {
	key, err := mnemonic.ToPrivateKey(strings.Join(strings.Fields(phrase), " "))
	if err != nil {
		return "", nil, err
	}
	address, err := AddressFromPrivateKey(key)
	if err != nil {
		return "", nil, err
	}
	return address, key, nil
}

// PathToAddress returns the address a record or keystore file is named
// after.
func PathToAddress(path string) (string, error) {
	_, name := filepath.Split(path)
	address := strings.TrimSuffix(name, filepath.Ext(name))
	if _, err := types.DecodeAddress(address); err != nil {
		return "", fmt.Errorf("%s is not named after an address: %w", path, err)
	}
	return address, nil
}
