// Package ledger signs Algorand transactions with the Algorand app of a
// Ledger hardware wallet over USB HID.
package ledger

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	kusb "github.com/karalabe/usb"
	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/util/account"
)

const (
	LEDGER_VENDOR_ID   uint16 = 0x2c97
	LEDGER_USAGE_ID    uint16 = 0xffa0
	LEDGER_ENDPOINT_ID int    = 0
)

var LEDGER_PRODUCT_IDS []uint16 = []uint16{
	0x0000, /* Ledger Blue */
	0x0001, /* Ledger Nano S */
	0x0004, /* Ledger Nano X */
	0x0005, /* Ledger Nano S Plus */

	0x0015, /* HID + U2F + WebUSB Ledger Blue */
	0x1015, /* HID + U2F + WebUSB Ledger Nano S */
	0x4015, /* HID + U2F + WebUSB Ledger Nano X */
	0x5015, /* HID + U2F + WebUSB Ledger Nano S Plus */
	0x0011, /* HID + WebUSB Ledger Blue */
	0x1011, /* HID + WebUSB Ledger Nano S */
	0x4011, /* HID + WebUSB Ledger Nano X */
	0x5011, /* HID + WebUSB Ledger Nano S Plus */
}

// Algorand app instruction set.
const (
	claAlgorand = 0x80

	insGetPublicKey = 0x03
	insSignMsgpack  = 0x08

	p1First          = 0x00
	p1FirstAccountID = 0x01
	p1More           = 0x80
	p2Last           = 0x00
	p2More           = 0x80

	chunkSize = 250
)

// Device is an opened HID endpoint. kusb.Device satisfies it.
type Device interface {
	io.ReadWriteCloser
}

type LedgerSigner struct {
	account uint32
	address string
	open    func() (Device, error)
	device  Device
	mu      sync.Mutex
}

// NewLedgerSigner returns a signer for the given account index of the
// Algorand app. If address is not empty Connect verifies the device holds
// it.
func NewLedgerSigner(accountIndex uint32, address string) *LedgerSigner {
	return &LedgerSigner{
		account: accountIndex,
		address: address,
		open:    openDevice,
	}
}

func newLedgerSignerWithDevice(accountIndex uint32, address string, device Device) *LedgerSigner {
	return &LedgerSigner{
		account: accountIndex,
		address: address,
		open:    func() (Device, error) { return device, nil },
	}
}

func openDevice() (Device, error) {
	infos, err := kusb.Enumerate(LEDGER_VENDOR_ID, 0)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		for _, id := range LEDGER_PRODUCT_IDS {
			// Windows and Macos use UsageID matching, Linux uses Interface matching
			if info.ProductID == id && (info.UsagePage == LEDGER_USAGE_ID || info.Interface == LEDGER_ENDPOINT_ID) {
				return info.Open()
			}
		}
	}
	return nil, fmt.Errorf("Ledger device is not found")
}

func (self *LedgerSigner) Address() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.address
}

func (self *LedgerSigner) Connect(ctx context.Context) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.connect()
}

func (self *LedgerSigner) connect() error {
	if self.device != nil {
		return nil
	}
	device, err := self.open()
	if err != nil {
		return err
	}
	pk, err := publicKey(device, self.account)
	if err != nil {
		device.Close()
		return err
	}
	address, err := account.AddressFromPublicKey(pk)
	if err != nil {
		device.Close()
		return err
	}
	if self.address != "" && self.address != address {
		device.Close()
		return fmt.Errorf("ledger account %d is %s, expected %s", self.account, address, self.address)
	}
	log.WithFields(log.Fields{"account": self.account, "address": address}).Debug("ledger connected")
	self.device = device
	self.address = address
	return nil
}

func (self *LedgerSigner) SignGroup(ctx context.Context, txns []types.Transaction, signerAddress string) ([][]byte, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if err := self.connect(); err != nil {
		return nil, fmt.Errorf("%w: %s", account.ErrSigningFailed, err)
	}
	if signerAddress != self.address {
		return nil, fmt.Errorf("%w: ledger holds %s, not %s", account.ErrSigningFailed, self.address, signerAddress)
	}
	return account.SignMatching(ctx, txns, signerAddress, func(txn types.Transaction) ([]byte, error) {
		sig, err := signMsgpack(self.device, self.account, msgpack.Encode(txn))
		if err != nil {
			return nil, err
		}
		stx := types.SignedTxn{Txn: txn}
		copy(stx.Sig[:], sig)
		return msgpack.Encode(stx), nil
	})
}

func (self *LedgerSigner) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.device == nil {
		return nil
	}
	err := self.device.Close()
	self.device = nil
	return err
}

func accountBytes(accountIndex uint32) []byte {
	result := make([]byte, 4)
	binary.BigEndian.PutUint32(result, accountIndex)
	return result
}

func publicKey(device io.ReadWriter, accountIndex uint32) (ed25519.PublicKey, error) {
	reply, err := exchange(device, claAlgorand, insGetPublicKey, p1First, p2Last, accountBytes(accountIndex))
	if err != nil {
		return nil, err
	}
	if len(reply) < ed25519.PublicKeySize {
		return nil, fmt.Errorf("ledger: public key reply of %d bytes", len(reply))
	}
	return ed25519.PublicKey(reply[:ed25519.PublicKeySize]), nil
}

// signMsgpack streams the account index followed by the encoded
// transaction in chunks and returns the signature from the last reply.
func signMsgpack(device io.ReadWriter, accountIndex uint32, encoded []byte) ([]byte, error) {
	data := append(accountBytes(accountIndex), encoded...)
	var reply []byte
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		p2 := byte(p2More)
		if end >= len(data) {
			end = len(data)
			p2 = p2Last
		}
		p1 := byte(p1More)
		if offset == 0 {
			p1 = p1FirstAccountID
		}
		var err error
		reply, err = exchange(device, claAlgorand, insSignMsgpack, p1, p2, data[offset:end])
		if err != nil {
			return nil, err
		}
	}
	if len(reply) < ed25519.SignatureSize {
		return nil, fmt.Errorf("ledger: signature reply of %d bytes", len(reply))
	}
	return reply[:ed25519.SignatureSize], nil
}
