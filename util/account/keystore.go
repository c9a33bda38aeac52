package account

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	keystoreVersion = 1
	keyHeaderKDF    = "scrypt"
	keyCipher       = "secretbox"

	// StandardScryptN and StandardScryptP are the parameters written by the
	// wallet commands.
	StandardScryptN = 1 << 18
	StandardScryptP = 1

	// LightScryptN and LightScryptP trade strength for speed.
	LightScryptN = 1 << 12
	LightScryptP = 6

	scryptR     = 8
	scryptDKLen = 32
)

var ErrDecrypt = errors.New("could not decrypt key with given passphrase")

type keystoreJSON struct {
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Address string     `json:"address"`
	Crypto  cryptoJSON `json:"crypto"`
}

type cryptoJSON struct {
	KDF        string       `json:"kdf"`
	KDFParams  scryptParams `json:"kdfparams"`
	Cipher     string       `json:"cipher"`
	CipherText string       `json:"ciphertext"`
	Nonce      string       `json:"nonce"`
}

type scryptParams struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

// EncryptKey seals the ed25519 seed of key under passphrase.
func EncryptKey(key ed25519.PrivateKey, passphrase string, scryptN, scryptP int) ([]byte, error) {
	address, err := AddressFromPrivateKey(key)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("reading from crypto/rand failed: %w", err)
	}
	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("reading from crypto/rand failed: %w", err)
	}
	var secret [32]byte
	copy(secret[:], derived)
	sealed := secretbox.Seal(nil, key.Seed(), &nonce, &secret)

	return json.Marshal(keystoreJSON{
		Version: keystoreVersion,
		ID:      id.String(),
		Address: address,
		Crypto: cryptoJSON{
			KDF: keyHeaderKDF,
			KDFParams: scryptParams{
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				DKLen: scryptDKLen,
				Salt:  hexutil.Encode(salt),
			},
			Cipher:     keyCipher,
			CipherText: hexutil.Encode(sealed),
			Nonce:      hexutil.Encode(nonce[:]),
		},
	})
}

// DecryptKey opens a keystore produced by EncryptKey and returns the
// address and key it holds.
func DecryptKey(keyjson []byte, passphrase string) (string, ed25519.PrivateKey, error) {
	k := keystoreJSON{}
	if err := json.Unmarshal(keyjson, &k); err != nil {
		return "", nil, fmt.Errorf("invalid keystore: %w", err)
	}
	if k.Version != keystoreVersion {
		return "", nil, fmt.Errorf("unsupported keystore version %d", k.Version)
	}
	if k.Crypto.KDF != keyHeaderKDF || k.Crypto.Cipher != keyCipher {
		return "", nil, fmt.Errorf("unsupported keystore kdf %q or cipher %q", k.Crypto.KDF, k.Crypto.Cipher)
	}
	params := k.Crypto.KDFParams
	salt, err := hexutil.Decode(params.Salt)
	if err != nil {
		return "", nil, fmt.Errorf("invalid keystore salt: %w", err)
	}
	sealed, err := hexutil.Decode(k.Crypto.CipherText)
	if err != nil {
		return "", nil, fmt.Errorf("invalid keystore ciphertext: %w", err)
	}
	nonceBytes, err := hexutil.Decode(k.Crypto.Nonce)
	if err != nil || len(nonceBytes) != 24 {
		return "", nil, fmt.Errorf("invalid keystore nonce")
	}
	derived, err := scrypt.Key([]byte(passphrase), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", nil, err
	}
	var nonce [24]byte
	copy(nonce[:], nonceBytes)
	var secret [32]byte
	copy(secret[:], derived)
	seed, ok := secretbox.Open(nil, sealed, &nonce, &secret)
	if !ok || len(seed) != ed25519.SeedSize {
		return "", nil, ErrDecrypt
	}
	key := ed25519.NewKeyFromSeed(seed)
	address, err := AddressFromPrivateKey(key)
	if err != nil {
		return "", nil, err
	}
	if k.Address != "" && k.Address != address {
		return "", nil, fmt.Errorf("keystore holds %s but is labeled %s", address, k.Address)
	}
	return address, key, nil
}

// StoreKeystore encrypts key and writes it to dir/<address>.json.
func StoreKeystore(dir string, key ed25519.PrivateKey, passphrase string, scryptN, scryptP int) (string, error) {
	address, err := AddressFromPrivateKey(key)
	if err != nil {
		return "", err
	}
	content, err := EncryptKey(key, passphrase, scryptN, scryptP)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", address))
	return path, os.WriteFile(path, content, 0o600)
}

// VerifyKeystore returns the address a keystore file is labeled with
// without decrypting it.
func VerifyKeystore(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	k := keystoreJSON{}
	if err := json.Unmarshal(content, &k); err != nil {
		return "", err
	}
	if k.Address == "" {
		return "", fmt.Errorf("keystore %s has no address", path)
	}
	return k.Address, nil
}

func NewKeystoreSigner(path string, passphrase string) (*KeySigner, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, key, err := DecryptKey(content, passphrase)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(key)
}
