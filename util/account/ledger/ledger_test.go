package ledger

import (
	"context"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"io"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoswap/swapshop/util/account"
)

type fakeDevice struct {
	handler  func(apdu []byte) []byte
	pending  []byte
	expected int
	out      []byte
	apdus    [][]byte
	closed   bool
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	if len(p) != packetSize {
		return 0, fmt.Errorf("packet of %d bytes", len(p))
	}
	payload := p[headerSize:]
	if binary.BigEndian.Uint16(p[3:5]) == 0 {
		d.expected = int(binary.BigEndian.Uint16(payload[:2]))
		d.pending = nil
		payload = payload[2:]
	}
	if left := d.expected - len(d.pending); left < len(payload) {
		payload = payload[:left]
	}
	d.pending = append(d.pending, payload...)
	if len(d.pending) == d.expected {
		d.apdus = append(d.apdus, d.pending)
		for _, packet := range frame(d.handler(d.pending)) {
			d.out = append(d.out, packet...)
		}
	}
	return len(p), nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if len(d.out) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.out)
	d.out = d.out[n:]
	return n, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

// algorandApp answers like the Algorand app holding sk.
func algorandApp(sk ed25519.PrivateKey) func([]byte) []byte {
	var signing []byte
	return func(apdu []byte) []byte {
		ins, p1, p2, data := apdu[1], apdu[2], apdu[3], apdu[5:]
		switch ins {
		case insGetPublicKey:
			return append(sk.Public().(ed25519.PublicKey), 0x90, 0x00)
		case insSignMsgpack:
			if p1 == p1FirstAccountID {
				signing = append([]byte{}, data[4:]...)
			} else {
				signing = append(signing, data...)
			}
			if p2 == p2More {
				return []byte{0x90, 0x00}
			}
			sig := ed25519.Sign(sk, append([]byte("TX"), signing...))
			return append(sig, 0x90, 0x00)
		}
		return []byte{0x6d, 0x00}
	}
}

func testParams() types.SuggestedParams {
	return types.SuggestedParams{
		MinFee:          1000,
		FirstRoundValid: 1000,
		LastRoundValid:  2000,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
	}
}

func TestFrame(t *testing.T) {
	packets := frame(make([]byte, 200))
	require.Len(t, packets, 4)
	for i, p := range packets {
		assert.Len(t, p, packetSize)
		assert.Equal(t, []byte{channelHi, channelLo, tagAPDU}, p[:3])
		assert.Equal(t, uint16(i), binary.BigEndian.Uint16(p[3:5]))
	}
	assert.Equal(t, uint16(200), binary.BigEndian.Uint16(packets[0][5:7]))
}

func TestSignGroupOnlySignsOwnLegs(t *testing.T) {
	ours := crypto.GenerateAccount()
	theirs := crypto.GenerateAccount()

	note := make([]byte, 600)
	mine, err := transaction.MakePaymentTxn(ours.Address.String(), theirs.Address.String(), 1000, note, "", testParams())
	require.NoError(t, err)
	other, err := transaction.MakePaymentTxn(theirs.Address.String(), ours.Address.String(), 5000, nil, "", testParams())
	require.NoError(t, err)

	device := &fakeDevice{handler: algorandApp(ours.PrivateKey)}
	signer := newLedgerSignerWithDevice(0, ours.Address.String(), device)
	require.NoError(t, signer.Connect(context.Background()))
	assert.Equal(t, ours.Address.String(), signer.Address())

	blobs, err := signer.SignGroup(context.Background(), []types.Transaction{other, mine}, ours.Address.String())
	require.NoError(t, err)
	require.Len(t, blobs, 1)

	_, expected, err := crypto.SignTransaction(ours.PrivateKey, mine)
	require.NoError(t, err)
	assert.Equal(t, expected, blobs[0])
	chunks := (4 + len(msgpack.Encode(mine)) + chunkSize - 1) / chunkSize
	assert.Greater(t, chunks, 1)
	assert.Len(t, device.apdus, 1+chunks)

	require.NoError(t, signer.Close())
	assert.True(t, device.closed)
}

func TestConnectRejectsUnexpectedAddress(t *testing.T) {
	ours := crypto.GenerateAccount()
	theirs := crypto.GenerateAccount()
	device := &fakeDevice{handler: algorandApp(ours.PrivateKey)}
	signer := newLedgerSignerWithDevice(2, theirs.Address.String(), device)

	err := signer.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected "+theirs.Address.String())
	assert.True(t, device.closed)
}

func TestSignGroupRejectedOnDevice(t *testing.T) {
	ours := crypto.GenerateAccount()
	app := algorandApp(ours.PrivateKey)
	device := &fakeDevice{handler: func(apdu []byte) []byte {
		if apdu[1] == insSignMsgpack {
			return []byte{0x69, 0x85}
		}
		return app(apdu)
	}}
	txn, err := transaction.MakePaymentTxn(ours.Address.String(), ours.Address.String(), 0, nil, "", testParams())
	require.NoError(t, err)

	signer := newLedgerSignerWithDevice(0, "", device)
	_, err = signer.SignGroup(context.Background(), []types.Transaction{txn}, ours.Address.String())
	require.ErrorIs(t, err, account.ErrSigningFailed)
	assert.Contains(t, err.Error(), "rejected")
}
