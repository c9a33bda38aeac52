package swap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, intents ...Intent) (*Batch, error) {
	t.Helper()
	v := NewValidator(newFakeResolver(map[string]string{"alice.algo": addrA}), MaxLegs)
	return v.Validate(context.Background(), intents)
}

func requireValidationError(t *testing.T, err error, leg int, msg string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, leg, verr.Leg)
	if msg != "" {
		assert.Equal(t, msg, verr.Error())
	}
	return verr
}

func TestTwoSenderCap(t *testing.T) {
	_, err := validate(t,
		pay(1, addrA, addrB, "1"),
		pay(2, addrB, addrA, "1"),
		pay(3, addrC, addrA, "1"),
	)
	verr := requireValidationError(t, err, 3, "")
	assert.Contains(t, verr.Error(), "up to two different sender")

	batch, err := validate(t,
		pay(1, addrA, addrB, "1"),
		pay(2, addrB, addrA, "1"),
		pay(3, addrA, addrC, "1"),
		pay(4, "alice.algo", addrC, "1"),
		pay(5, addrB, addrC, "1"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{addrA, addrB}, batch.Senders())
}

func TestOptInNormalization(t *testing.T) {
	in := Intent{ID: 1, TxType: TxTypeOptIn, Sender: addrB, Receiver: addrC, AssetID: asset(700), Amount: amount("42")}
	batch, err := validate(t, in, pay(2, addrA, addrB, "1"))
	require.NoError(t, err)

	leg := batch.Legs[0]
	assert.Equal(t, addrB, leg.Receiver)
	assert.Equal(t, addrB, leg.Intent.Receiver)
	assert.True(t, leg.Intent.Amount.IsZero())
	// caller's intent untouched
	assert.Equal(t, addrC, in.Receiver)
	assert.Equal(t, "42", in.Amount.String())
}

func TestPaymentForcesNativeAsset(t *testing.T) {
	in := pay(1, addrA, addrB, "1")
	in.AssetID = asset(31566704)
	batch, err := validate(t, in, pay(2, addrB, addrA, "2"))
	require.NoError(t, err)
	assert.Equal(t, uint64(NativeAssetID), batch.Legs[0].AssetID())
}

func TestAliasResolvedOnce(t *testing.T) {
	resolver := newFakeResolver(map[string]string{"alice.algo": addrA})
	v := NewValidator(resolver, MaxLegs)
	batch, err := v.Validate(context.Background(), []Intent{
		pay(1, "alice.algo", addrB, "1"),
		axfer(2, addrB, "alice.algo", 700, "10"),
		optin(3, "alice.algo", 700),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls["alice.algo"])
	assert.Zero(t, resolver.calls[addrB])
	assert.Equal(t, map[string]string{"alice.algo": addrA}, batch.Aliases)
	assert.Equal(t, addrA, batch.Legs[1].Receiver)
}

func TestValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		intents []Intent
		leg     int
		msg     string
	}{
		{
			name:    "too few legs",
			intents: []Intent{pay(1, addrA, addrB, "1")},
			leg:     0,
			msg:     "A swap needs between 2 and 16 transactions, got 1.",
		},
		{
			name:    "missing sender",
			intents: []Intent{pay(1, addrA, addrB, "1"), pay(2, "", addrB, "1")},
			leg:     2,
			msg:     "Invalid transaction! Please check the transaction 2.",
		},
		{
			name:    "missing amount",
			intents: []Intent{{ID: 1, TxType: TxTypePayment, Sender: addrA, Receiver: addrB}, pay(2, addrA, addrB, "1")},
			leg:     1,
			msg:     "Invalid transaction! Please check the transaction 1.",
		},
		{
			name:    "negative amount",
			intents: []Intent{pay(1, addrA, addrB, "1"), pay(2, addrA, addrB, "-1")},
			leg:     2,
			msg:     "Invalid transaction! Please check the transaction 2.",
		},
		{
			name:    "missing asset",
			intents: []Intent{pay(1, addrA, addrB, "1"), {ID: 2, TxType: TxTypeAssetTransfer, Sender: addrA, Receiver: addrB, Amount: amount("1")}},
			leg:     2,
			msg:     "Invalid transaction! Please check the transaction 2.",
		},
		{
			name:    "unset type",
			intents: []Intent{{ID: 1, Sender: addrA, Receiver: addrB, AssetID: asset(1), Amount: amount("1")}, pay(2, addrA, addrB, "1")},
			leg:     1,
			msg:     "Invalid transaction! Please check the transaction 1.",
		},
		{
			name:    "unknown type",
			intents: []Intent{pay(1, addrA, addrB, "1"), {ID: 2, TxType: "keyreg", Sender: addrA, Receiver: addrB, AssetID: asset(5), Amount: amount("1")}},
			leg:     2,
			msg:     `Transaction 2 has an invalid type "keyreg". It must be one of "pay", "axfer" or "optin".`,
		},
		{
			name:    "duplicate id",
			intents: []Intent{pay(1, addrA, addrB, "1"), pay(1, addrA, addrB, "1")},
			leg:     2,
			msg:     "Invalid transaction! Please check the transaction 2.",
		},
		{
			name:    "too precise payment",
			intents: []Intent{pay(1, addrA, addrB, "0.0000001"), pay(2, addrA, addrB, "1")},
			leg:     1,
			msg:     "Invalid Amount for transaction 1",
		},
		{
			name:    "native sentinel on asset leg",
			intents: []Intent{pay(1, addrA, addrB, "1"), axfer(2, addrA, addrB, 1, "1")},
			leg:     2,
			msg:     "Invalid Asset Id for transaction 2",
		},
		{
			name:    "unresolved sender",
			intents: []Intent{pay(1, addrA, addrB, "1"), pay(2, "bob.algo", addrA, "1")},
			leg:     2,
			msg:     "Invalid Sender for transaction 2",
		},
		{
			name:    "bad receiver",
			intents: []Intent{pay(1, addrA, "not-an-address", "1"), pay(2, addrB, addrA, "1")},
			leg:     1,
			msg:     "Invalid Receiver for transaction 1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validate(t, tc.intents...)
			requireValidationError(t, err, tc.leg, tc.msg)
		})
	}
}

func TestValidateTooManyLegs(t *testing.T) {
	intents := make([]Intent, 0, 17)
	for i := 1; i <= 17; i++ {
		intents = append(intents, pay(i, addrA, addrB, "1"))
	}
	_, err := validate(t, intents...)
	requireValidationError(t, err, 0, "A swap needs between 2 and 16 transactions, got 17.")
}

func TestUnresolvedAliasIsWrapped(t *testing.T) {
	_, err := validate(t, pay(1, "ghost.algo", addrB, "1"), pay(2, addrB, addrA, "1"))
	verr := requireValidationError(t, err, 1, "Invalid Sender for transaction 1")
	assert.Error(t, verr.Unwrap())
}

func TestParseIntent(t *testing.T) {
	in, err := ParseIntent(3, IntentFields{Type: "Asset-Transfer", Sender: " alice.algo ", Receiver: addrB, AssetID: "700", Amount: "10.5"})
	require.NoError(t, err)
	assert.Equal(t, 3, in.ID)
	assert.Equal(t, TxTypeAssetTransfer, in.TxType)
	assert.Equal(t, "alice.algo", in.Sender)
	assert.Equal(t, int64(700), *in.AssetID)
	assert.Equal(t, "10.5", in.Amount.String())

	in, err = ParseIntent(1, IntentFields{Type: "payment", Sender: addrA, Receiver: addrB, Amount: "1"})
	require.NoError(t, err)
	assert.Nil(t, in.AssetID)

	_, err = ParseIntent(2, IntentFields{Type: "axfer", AssetID: "1.5"})
	requireValidationError(t, err, 2, "Invalid Asset Id for transaction 2")
	_, err = ParseIntent(2, IntentFields{Type: "axfer", AssetID: "-3"})
	requireValidationError(t, err, 2, "Invalid Asset Id for transaction 2")
	_, err = ParseIntent(4, IntentFields{Type: "pay", Amount: "abc"})
	requireValidationError(t, err, 4, "Invalid Amount for transaction 4")
}
