package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoswap/swapshop/clienterr"
	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/networks"
	"github.com/algoswap/swapshop/note"
	"github.com/algoswap/swapshop/share"
	"github.com/algoswap/swapshop/swap"
	"github.com/algoswap/swapshop/ui"
	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/util/addrbook"
)

const collector = "NUUWKIGPPLRPZQOBPOEA6EYYPRHRTSKLXI474QAKPAWVVZ372MVQP2KJMY"

type fakeAssets map[uint64]uint32

func (a fakeAssets) AssetDecimals(_ context.Context, id uint64) (uint32, error) {
	d, ok := a[id]
	if !ok {
		return 0, fmt.Errorf("asset %d does not exist", id)
	}
	return d, nil
}

type fakeParams struct{}

func (fakeParams) SuggestedParams(context.Context) (types.SuggestedParams, error) {
	return types.SuggestedParams{
		MinFee:          1000,
		FirstRoundValid: 1000,
		LastRoundValid:  2000,
		GenesisID:       "testnet-v1.0",
		GenesisHash:     make([]byte, 32),
	}, nil
}

// fakeLedger accepts signed groups, remembers the notes it has seen and
// can be told to reject the next submission.
type fakeLedger struct {
	submitted  [][][]byte
	notes      map[string][]byte
	rejectNext error
	waited     []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{notes: map[string][]byte{}}
}

func (l *fakeLedger) Broadcast(_ context.Context, signed [][]byte) (string, error) {
	if l.rejectNext != nil {
		err := l.rejectNext
		l.rejectNext = nil
		return "", clienterr.Parse(err)
	}
	first := ""
	for i, blob := range signed {
		var stx types.SignedTxn
		if err := msgpack.Decode(blob, &stx); err != nil {
			return "", fmt.Errorf("transaction %d is not signed: %w", i+1, err)
		}
		if stx.Sig == (types.Signature{}) {
			return "", fmt.Errorf("transaction %d has no signature", i+1)
		}
		id := crypto.GetTxID(stx.Txn)
		if first == "" {
			first = id
		}
		l.notes[id] = stx.Txn.Note
	}
	l.submitted = append(l.submitted, signed)
	return first, nil
}

func (l *fakeLedger) TransactionNote(_ context.Context, txid string) ([]byte, error) {
	n, ok := l.notes[txid]
	if !ok {
		return nil, errors.New("transaction not found")
	}
	return n, nil
}

func (l *fakeLedger) BlockingWait(_ context.Context, txid string, rounds uint64) (uint64, error) {
	l.waited = append(l.waited, txid)
	return 1005, nil
}

type env struct {
	cfg    *config.Config
	ledger *fakeLedger
	book   addrbook.Map
	alice  *account.KeySigner
	bob    *account.KeySigner
	carol  *account.KeySigner
}

func newEnv(t *testing.T) *env {
	t.Helper()
	signer := func() *account.KeySigner {
		s, err := account.NewKeySigner(crypto.GenerateAccount().PrivateKey)
		require.NoError(t, err)
		return s
	}
	e := &env{
		cfg: &config.Config{
			Network:       networks.AlgorandTestnet,
			Collector:     collector,
			NoteChunkSize: 200,
			ConfirmRounds: 3,
			MaxLegs:       config.MaxGroupSize,
			ClaimURL:      "https://swapshop.app",
		},
		ledger: newFakeLedger(),
		alice:  signer(),
		bob:    signer(),
		carol:  signer(),
	}
	e.book = addrbook.Map{"alice.algo": e.alice.Address()}
	return e
}

func (e *env) deps() Deps {
	return Deps{
		Resolver:  e.book,
		Namer:     e.book,
		Assets:    fakeAssets{700: 2},
		Params:    fakeParams{},
		Submitter: e.ledger,
		Confirmer: e.ledger,
		Notes:     e.ledger,
	}
}

func intent(id int, txType swap.TxType, sender, receiver string, assetID int64, amount string) swap.Intent {
	d := decimal.RequireFromString(amount)
	i := swap.Intent{ID: id, TxType: txType, Sender: sender, Receiver: receiver, Amount: &d}
	if assetID > 0 {
		i.AssetID = &assetID
	}
	return i
}

func (e *env) swapIntents() []swap.Intent {
	return []swap.Intent{
		intent(1, swap.TxTypePayment, "alice.algo", e.bob.Address(), 0, "1.5"),
		intent(2, swap.TxTypeAssetTransfer, e.bob.Address(), "alice.algo", 700, "10"),
	}
}

func (e *env) create(t *testing.T, u ui.UI, opts Options) (*CreateResult, error) {
	t.Helper()
	creator, err := NewCreator(e.cfg, u, e.deps())
	require.NoError(t, err)
	return creator.Create(context.Background(), e.swapIntents(), e.alice, opts)
}

func TestCreateThenClaim(t *testing.T) {
	e := newEnv(t)
	cu := ui.NewRecordingUI()
	created, err := e.create(t, cu, Options{Yes: true})
	require.NoError(t, err)

	assert.Equal(t, 1, created.Display.Signed)
	assert.Greater(t, len(created.ShareTxIDs), 1)
	assert.True(t, strings.HasPrefix(created.ClaimLink, "https://swapshop.app/claim?txid="))
	assert.True(t, cu.HasMessage("claim link"))
	require.Len(t, e.ledger.submitted, 1)

	blobs, err := note.Decode(created.Payload)
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	_, signed, err := swap.DecodeBlob(blobs[0])
	require.NoError(t, err)
	assert.True(t, signed)
	_, signed, err = swap.DecodeBlob(blobs[1])
	require.NoError(t, err)
	assert.False(t, signed)

	claimer, err := NewClaimer(e.cfg, ui.NewRecordingUI(), e.deps())
	require.NoError(t, err)
	claimed, err := claimer.Claim(context.Background(), []string{created.ClaimLink}, e.bob, Options{Yes: true})
	require.NoError(t, err)

	assert.True(t, claimed.Display.Complete())
	assert.Equal(t, uint64(1005), claimed.Round)
	require.Len(t, e.ledger.submitted, 2)
	group := e.ledger.submitted[1]
	require.Len(t, group, 2)

	var pay, xfer types.SignedTxn
	require.NoError(t, msgpack.Decode(group[0], &pay))
	require.NoError(t, msgpack.Decode(group[1], &xfer))
	assert.Equal(t, types.PaymentTx, pay.Txn.Type)
	assert.Equal(t, e.alice.Address(), pay.Txn.Sender.String())
	assert.Equal(t, types.MicroAlgos(1500000), pay.Txn.Amount)
	assert.Equal(t, types.AssetTransferTx, xfer.Txn.Type)
	assert.Equal(t, uint64(1000), xfer.Txn.AssetAmount)
	assert.Equal(t, pay.Txn.Group, xfer.Txn.Group)
	assert.Equal(t, crypto.GetTxID(pay.Txn), claimed.TxID)
	assert.Equal(t, []string{created.ShareTxIDs[0], claimed.TxID}, e.ledger.waited)
}

func TestCreateDryRunPublishesNothing(t *testing.T) {
	e := newEnv(t)
	u := ui.NewRecordingUI()
	created, err := e.create(t, u, Options{Yes: true, Dry: true})
	require.NoError(t, err)

	assert.Empty(t, e.ledger.submitted)
	assert.Empty(t, created.ShareTxIDs)
	assert.Len(t, created.Signed, 2)
	assert.NotEmpty(t, created.GroupID)
	assert.True(t, u.HasMessage("dry run"))
}

func TestCreateDeclined(t *testing.T) {
	e := newEnv(t)
	u := ui.NewRecordingUI("n")
	_, err := e.create(t, u, Options{})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, e.ledger.submitted)
	assert.True(t, u.HasMessage("aborted"))
}

func TestCreateRejectsInvalidIntents(t *testing.T) {
	e := newEnv(t)
	u := ui.NewRecordingUI()
	creator, err := NewCreator(e.cfg, u, e.deps())
	require.NoError(t, err)

	_, err = creator.Create(context.Background(), e.swapIntents()[:1], e.alice, Options{Yes: true})
	var verr *swap.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, u.ErrorMessages(), 1)
	assert.Empty(t, e.ledger.submitted)
}

func TestCreateBySignerOutsideTheSwap(t *testing.T) {
	e := newEnv(t)
	creator, err := NewCreator(e.cfg, ui.NewRecordingUI(), e.deps())
	require.NoError(t, err)
	_, err = creator.Create(context.Background(), e.swapIntents(), e.carol, Options{Yes: true})
	assert.ErrorIs(t, err, account.ErrSigningFailed)
	assert.Empty(t, e.ledger.submitted)
}

func TestClaimStillIncomplete(t *testing.T) {
	e := newEnv(t)
	created, err := e.create(t, ui.NewRecordingUI(), Options{Yes: true})
	require.NoError(t, err)

	claimer, err := NewClaimer(e.cfg, ui.NewRecordingUI(), e.deps())
	require.NoError(t, err)
	_, err = claimer.Claim(context.Background(), created.ShareTxIDs, e.alice, Options{Yes: true})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "transactions 2 still need")
	assert.Len(t, e.ledger.submitted, 1)
}

func TestClaimRefusesAssetCloseLeg(t *testing.T) {
	e := newEnv(t)
	creator, err := NewCreator(e.cfg, ui.NewRecordingUI(), e.deps())
	require.NoError(t, err)
	draft, err := creator.Prepare(context.Background(), e.swapIntents())
	require.NoError(t, err)

	// bob's leg also closes his holding of the asset to alice
	alice, err := types.DecodeAddress(e.alice.Address())
	require.NoError(t, err)
	txns := append([]types.Transaction{}, draft.Group.Txns...)
	txns[1].AssetCloseTo = alice
	blobs := make([][]byte, len(txns))
	for i, txn := range txns {
		blobs[i] = msgpack.Encode(txn)
	}
	publisher := share.NewPublisher(fakeParams{}, e.ledger, nil, share.Options{Collector: collector, ChunkSize: 200})
	ids, err := publisher.Publish(context.Background(), note.Encode(blobs), e.alice.Address(), e.alice)
	require.NoError(t, err)

	u := ui.NewRecordingUI()
	claimer, err := NewClaimer(e.cfg, u, e.deps())
	require.NoError(t, err)
	_, err = claimer.Claim(context.Background(), ids, e.bob, Options{Yes: true})
	require.ErrorIs(t, err, swap.ErrUnsafeLeg)
	var verr *swap.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Leg)
	assert.Equal(t, "assetCloseTo", verr.Field)
	assert.Len(t, e.ledger.submitted, 1)
	assert.True(t, u.HasMessage("Refusing to sign"))
}

func TestClaimRejectedByLedger(t *testing.T) {
	e := newEnv(t)
	created, err := e.create(t, ui.NewRecordingUI(), Options{Yes: true})
	require.NoError(t, err)

	e.ledger.rejectNext = errors.New(`HTTP 400 Bad Request: {"message":"TransactionPool.Remember: transaction ABC123: asset 700 does not exist or has been deleted"}`)
	u := ui.NewRecordingUI()
	claimer, err := NewClaimer(e.cfg, u, e.deps())
	require.NoError(t, err)
	_, err = claimer.Claim(context.Background(), []string{created.ClaimLink}, e.bob, Options{Yes: true})

	var rejected *clienterr.ParsedClientError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, clienterr.AssetDoesNotExist, rejected.Kind)
	assert.Equal(t, uint64(700), rejected.Data.AssetID)
	assert.Equal(t, 400, rejected.Status)
	assert.True(t, u.HasMessage("rejected"))
}

func TestInspect(t *testing.T) {
	e := newEnv(t)
	created, err := e.create(t, ui.NewRecordingUI(), Options{Yes: true})
	require.NoError(t, err)

	u := ui.NewRecordingUI()
	claimer, err := NewClaimer(e.cfg, u, e.deps())
	require.NoError(t, err)
	d, err := claimer.Inspect(context.Background(), created.ShareTxIDs)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Signed)
	require.Len(t, d.Legs, 2)
	assert.Equal(t, "10", d.Legs[1].Amount)
	assert.True(t, u.HasMessage("alice.algo"))

	_, err = claimer.Inspect(context.Background(), []string{"not-an-id"})
	assert.Error(t, err)
}

func TestDepsAreChecked(t *testing.T) {
	e := newEnv(t)
	deps := e.deps()
	deps.Notes = nil
	_, err := NewClaimer(e.cfg, ui.NewRecordingUI(), deps)
	assert.ErrorContains(t, err, "notes")
}
