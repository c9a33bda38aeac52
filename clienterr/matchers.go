package clienterr

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/algoswap/swapshop/common"
)

const (
	prefix = `^TransactionPool.Remember: transaction ([A-Z0-9]+): `
	addr   = `([A-Z2-7]+)`
)

type matcher struct {
	kind    Kind
	pattern *regexp.Regexp
	build   func(m []string, n *numbers) (string, Data)
}

var resolutions = map[Kind]string{
	AssetDoesNotExist:    "Double check the asset id and try again",
	AssetNotInAccount:    "Double check the asset id, make sure all relevant accounts are opted-in and try again",
	AccountNotOptedIn:    "Make sure the account has opted in to the asset. You can do this with an opt-in leg in the swap or from your wallet.",
	BelowMin:             "Algorand accounts have a minimum balance dependent on the number of assets and applications you have opted into. This transaction will put you below your minimum balance. Opt-out of some assets or applications, or increase your algo balance.",
	Overspend:            "Check the amount of algo in your account, remember you need to be able to afford transaction fees and minimum balance.",
	NotEnoughAssets:      "The transaction will cause an account to drop below its available balance of one or more assets. Check the transaction and make sure all accounts meet the requirements.",
	AccountTooLarge:      "Each algorand account has a size limit, based on the number of assets, and size of applications it can opt into. This transaction would put the account over the limit. Opt-out of some assets or applications, or use a different wallet.",
	InvalidGroup:         `Algorand transactions can be grouped together as part of an "Atomic Transaction". If one transaction in the group fails, all the others are invalid too. In this case the group as a whole could not be processed.`,
	MalformedTransaction: "Something was wrong with the transaction. Get in touch with the sender to try resolving the problem.",
	TransactionExpired:   "Get the sender of this transaction to create you a new transaction to sign.",
	IncorrectWallet:      "Not all transactions can be signed by all wallets. Ensure you are the correct recipient for this transaction and sign with the matching account.",
	Unknown:              "Please contact support if the problem persists.",
}

// numbers parses the numeric groups of a match. The first failure is kept
// in err and later calls return 0.
type numbers struct {
	err error
}

func (n *numbers) u64(s string) uint64 {
	if n.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		n.err = fmt.Errorf("number %q: %w", s, err)
	}
	return v
}

func invalidGroup(pattern string, title func(m []string) string) matcher {
	return matcher{
		kind:    InvalidGroup,
		pattern: regexp.MustCompile(prefix + pattern),
		build: func(m []string, n *numbers) (string, Data) {
			return "Invalid group transaction: " + title(m), Data{TransactionID: m[1]}
		},
	}
}

func malformedTransaction(pattern string) matcher {
	return matcher{
		kind:    MalformedTransaction,
		pattern: regexp.MustCompile(prefix + pattern),
		build: func(m []string, n *numbers) (string, Data) {
			return "Malformed Transaction: " + m[2], Data{TransactionID: m[1]}
		},
	}
}

// matchers is evaluated top to bottom. Add new rejection shapes here.
var matchers = []matcher{
	{
		kind:    AssetDoesNotExist,
		pattern: regexp.MustCompile(prefix + `asset (\d+) does not exist or has been deleted$`),
		build: func(m []string, n *numbers) (string, Data) {
			id := n.u64(m[2])
			return fmt.Sprintf("Asset %d does not exist or has been deleted.", id),
				Data{TransactionID: m[1], AssetID: id}
		},
	},
	{
		kind:    AssetNotInAccount,
		pattern: regexp.MustCompile(prefix + `asset index (\d+) not found in account ` + addr + `$`),
		build: func(m []string, n *numbers) (string, Data) {
			id := n.u64(m[2])
			return fmt.Sprintf("Asset %d not found in account %s", id, m[3]),
				Data{TransactionID: m[1], AssetID: id, Account: m[3]}
		},
	},
	{
		kind:    AccountNotOptedIn,
		pattern: regexp.MustCompile(prefix + `account ` + addr + ` has not opted in to asset (\d+)$`),
		build: func(m []string, n *numbers) (string, Data) {
			id := n.u64(m[3])
			return fmt.Sprintf("Account %s has not opted in to asset %d", m[2], id),
				Data{TransactionID: m[1], AssetID: id, Account: m[2]}
		},
	},
	{
		kind:    AccountNotOptedIn,
		pattern: regexp.MustCompile(prefix + `asset (\d+) missing from ` + addr + `$`),
		build: func(m []string, n *numbers) (string, Data) {
			id := n.u64(m[2])
			return fmt.Sprintf("Account %s has not opted in to asset %d", m[3], id),
				Data{TransactionID: m[1], AssetID: id, Account: m[3]}
		},
	},
	{
		kind:    BelowMin,
		pattern: regexp.MustCompile(prefix + `account ` + addr + ` balance (\d+) below min (\d+) \((\d+) assets?\)$`),
		build: func(m []string, n *numbers) (string, Data) {
			balance := common.MicroalgosToAlgos(n.u64(m[3]))
			minBalance := common.MicroalgosToAlgos(n.u64(m[4]))
			return fmt.Sprintf("Transaction will put %s below min balance of %s.", common.ShortenAddress(m[2]), minBalance),
				Data{TransactionID: m[1], Account: m[2], Balance: balance, MinBalance: minBalance}
		},
	},
	{
		kind:    Overspend,
		pattern: regexp.MustCompile(prefix + `overspend \(account ` + addr + `.*MicroAlgos:\{Raw:(\d+)`),
		build: func(m []string, n *numbers) (string, Data) {
			current := common.MicroalgosToAlgos(n.u64(m[3]))
			return fmt.Sprintf("Not enough algo to cover transaction. %s contains %s algo.", common.ShortenAddress(m[2]), current),
				Data{TransactionID: m[1], Account: m[2], CurrentAmount: current}
		},
	},
	{
		kind:    TransactionExpired,
		pattern: regexp.MustCompile(prefix + `endOfBlock found .* round \((\d+)\) was not less than current round \((\d+)\)$`),
		build: func(m []string, n *numbers) (string, Data) {
			return fmt.Sprintf("Transaction expired in round %s. Current round is %s.", m[2], m[3]),
				Data{TransactionID: m[1], MaxRound: n.u64(m[2]), CurrentRound: n.u64(m[3])}
		},
	},
	{
		kind:    TransactionExpired,
		pattern: regexp.MustCompile(`^TransactionPool.Remember: txn dead: round (\d+) outside of (\d+)--(\d+)$`),
		build: func(m []string, n *numbers) (string, Data) {
			return fmt.Sprintf("Transaction only valid between rounds %s-%s. Current round is %s.", m[2], m[3], m[1]),
				Data{TransactionID: "dead", MinRound: n.u64(m[2]), MaxRound: n.u64(m[3]), CurrentRound: n.u64(m[1])}
		},
	},
	{
		kind: IncorrectWallet,
		// "authroized" is how algod spells it
		pattern: regexp.MustCompile(prefix + `should have been authorized by ` + addr + ` but was actually authroized by ` + addr + `$`),
		build: func(m []string, n *numbers) (string, Data) {
			return fmt.Sprintf("Transaction was signed by the incorrect wallet. Was signed by %s. Expected %s.", m[3], m[2]),
				Data{TransactionID: m[1], CorrectWallet: m[2], ReceivedWallet: m[3]}
		},
	},
	invalidGroup(`group size \d+ exceeds maximum (\d+)`, func(m []string) string {
		return fmt.Sprintf("Too many transactions in this group. Maximum %s.", m[2])
	}),
	invalidGroup(`transactionGroup: incomplete group`, func([]string) string {
		return "Not all transactions belonging to this group were submitted."
	}),
	invalidGroup(`transactionGroup: \[(\d+)\] had zero Group but was submitted in a group`, func([]string) string {
		return "Transaction does not belong to a group, but was submitted as part of one."
	}),
	invalidGroup(`transactionGroup: inconsistent group values`, func([]string) string {
		return "Transaction submitted as part of wrong group."
	}),
	{
		kind:    NotEnoughAssets,
		pattern: regexp.MustCompile(prefix + `underflow on subtracting (\d+) from sender amount (\d+)$`),
		build: func(m []string, n *numbers) (string, Data) {
			return "Not enough of one or more assets.",
				Data{TransactionID: m[1], TransactionAmount: n.u64(m[2]), ActualAmount: n.u64(m[3])}
		},
	},
	malformedTransaction(`(Unknown transaction type .*)$`),
	malformedTransaction(`malformed (.*)$`),
	{
		kind:    AccountTooLarge,
		pattern: regexp.MustCompile(prefix + `account ` + addr + ` would use too much space after this transaction`),
		build: func(m []string, n *numbers) (string, Data) {
			return fmt.Sprintf("Account %s is larger than algorand network allows.", m[2]),
				Data{TransactionID: m[1], Account: m[2]}
		},
	},
}
