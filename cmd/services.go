package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/util/account/ledger"
	"github.com/algoswap/swapshop/util/addrbook"
	"github.com/algoswap/swapshop/workflow"
)

// services are the production adapters every swap command needs.
type services struct {
	cfg   *config.Config
	names *addrbook.Default
	book  *addrbook.Book
	deps  workflow.Deps
}

func newServices() (*services, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	names, book, err := util.AddressBook(cfg)
	if err != nil {
		return nil, err
	}
	r := util.AlgoReader(cfg)
	m, err := util.AlgoTxMonitor(r)
	if err != nil {
		return nil, err
	}
	return &services{
		cfg:   cfg,
		names: names,
		book:  book,
		deps: workflow.Deps{
			Resolver:  names,
			Namer:     names,
			Assets:    r,
			Params:    r,
			Submitter: util.AlgoBroadcaster(r),
			Confirmer: m,
			Notes:     r,
		},
	}, nil
}

func walletStore(cfg *config.Config) *account.Store {
	return account.NewStore(filepath.Join(cfg.Datadir, "wallets"))
}

// pickWallet returns the wallet matching from, or lets the user choose one
// when from is empty.
func pickWallet(cfg *config.Config, from string) (account.AccDesc, error) {
	store := walletStore(cfg)
	if from != "" {
		return store.GetAccount(from)
	}
	accs := store.List()
	switch len(accs) {
	case 0:
		return account.AccDesc{}, fmt.Errorf("you have no wallet, add one with \"swapshop wallet add-keystore\", \"add-mnemonic\" or \"add-ledger\"")
	case 1:
		return accs[0], nil
	}
	options := make([]string, len(accs))
	for i, acc := range accs {
		options[i] = fmt.Sprintf("%s: %s (%s)", acc.Address, acc.Kind, acc.Desc)
	}
	return accs[appUI.Choose("Which wallet signs?", options)], nil
}

// unlockSigner turns a registered wallet into a Signer. Keystores ask for
// their passphrase, ledgers are opened on first use.
func unlockSigner(acc account.AccDesc) (account.Signer, error) {
	switch acc.Kind {
	case account.KindKeystore:
		passphrase := appUI.AskSecret(fmt.Sprintf("Passphrase of %s: ", acc.Address))
		signer, err := account.NewKeystoreSigner(acc.Keypath, passphrase)
		if err != nil {
			return nil, fmt.Errorf("couldn't unlock %s: %w", acc.Address, err)
		}
		if signer.Address() != acc.Address {
			return nil, fmt.Errorf("keystore %s holds %s, not %s", acc.Keypath, signer.Address(), acc.Address)
		}
		return signer, nil
	case account.KindLedger:
		index, err := strconv.ParseUint(acc.Derpath, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid ledger account index %q: %w", acc.Derpath, err)
		}
		return ledger.NewLedgerSigner(uint32(index), acc.Address), nil
	}
	return nil, fmt.Errorf("wallet kind %q is not supported", acc.Kind)
}

// signerFor resolves the signer of a swap command from --from or
// --mnemonic.
func signerFor(cfg *config.Config, from string, mnemonic bool) (account.Signer, error) {
	if mnemonic {
		phrase := appUI.AskSecret("Paste your 25 word mnemonic: ")
		return account.NewMnemonicSigner(phrase)
	}
	acc, err := pickWallet(cfg, from)
	if err != nil {
		return nil, err
	}
	appUI.Info("Signing with %s (%s)", acc.Address, acc.Desc)
	return unlockSigner(acc)
}

func closeSigner(signer account.Signer) {
	if c, ok := signer.(io.Closer); ok {
		c.Close()
	}
}

func withSigner(cfg *config.Config, from string, mnemonic bool, f func(account.Signer) error) error {
	signer, err := signerFor(cfg, from, mnemonic)
	if err != nil {
		return fail(err)
	}
	defer closeSigner(signer)
	return f(signer)
}
