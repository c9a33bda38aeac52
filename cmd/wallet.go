package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/util/account/ledger"
)

var LedgerIndex uint32

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallets",
	Long:  ``,
}

func askDescription() string {
	appUI.Info("Description of the wallet, used to find it with --from:")
	return appUI.Ask(func(s string) error {
		if s == "" {
			return fmt.Errorf("description can't be empty")
		}
		return nil
	})
}

func saveWallet(store *account.Store, acc account.AccDesc) error {
	if err := store.StoreAccountRecord(acc); err != nil {
		return fail(err)
	}
	appUI.Success("Wallet %s (%s) added.", acc.Address, acc.Desc)
	return nil
}

var addKeystoreCmd = &cobra.Command{
	Use:   "add-keystore <path>",
	Short: "Register an encrypted keystore file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(err)
		}
		address, err := account.VerifyKeystore(args[0])
		if err != nil {
			return fail(fmt.Errorf("%s is not a valid keystore: %w", args[0], err))
		}
		appUI.Interpret(address)
		return saveWallet(walletStore(cfg), account.AccDesc{
			Address: address,
			Kind:    account.KindKeystore,
			Keypath: args[0],
			Desc:    askDescription(),
		})
	},
}

var addMnemonicCmd = &cobra.Command{
	Use:   "add-mnemonic",
	Short: "Import a 25 word mnemonic into a new encrypted keystore",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(err)
		}
		address, key, err := account.PrivateKeyFromMnemonic(appUI.AskSecret("Mnemonic: "))
		if err != nil {
			return fail(err)
		}
		appUI.Interpret(address)
		pass := appUI.AskSecret("New passphrase: ")
		if pass != appUI.AskSecret("Repeat passphrase: ") {
			return fail(fmt.Errorf("passphrases don't match"))
		}
		store := walletStore(cfg)
		path, err := account.StoreKeystore(store.KeystoreDir(), key, pass, account.StandardScryptN, account.StandardScryptP)
		if err != nil {
			return fail(err)
		}
		return saveWallet(store, account.AccDesc{
			Address: address,
			Kind:    account.KindKeystore,
			Keypath: path,
			Desc:    askDescription(),
		})
	},
}

var addLedgerCmd = &cobra.Command{
	Use:   "add-ledger",
	Short: "Register an account of the Algorand app on a Ledger device",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(err)
		}
		signer := ledger.NewLedgerSigner(LedgerIndex, "")
		defer signer.Close()
		if err := signer.Connect(cmd.Context()); err != nil {
			return fail(err)
		}
		appUI.Interpret(signer.Address())
		return saveWallet(walletStore(cfg), account.AccDesc{
			Address: signer.Address(),
			Kind:    account.KindLedger,
			Derpath: strconv.FormatUint(uint64(LedgerIndex), 10),
			Desc:    askDescription(),
		})
	},
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "List all of your registered wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(err)
		}
		accs := walletStore(cfg).List()
		if len(accs) == 0 {
			appUI.Warn("You have no wallet yet.")
			return nil
		}
		rows := make([][]string, len(accs))
		for i, acc := range accs {
			location := acc.Keypath
			if acc.Kind == account.KindLedger {
				location = "account " + acc.Derpath
			}
			rows[i] = []string{strconv.Itoa(i + 1), acc.Address, acc.Kind, location, acc.Desc}
		}
		appUI.Table([]string{"#", "Address", "Kind", "Location", "Description"}, rows)
		return nil
	},
}

func init() {
	addLedgerCmd.Flags().Uint32VarP(&LedgerIndex, "index", "i", 0, "Account index in the Algorand app of the device.")
	walletCmd.AddCommand(addKeystoreCmd)
	walletCmd.AddCommand(addMnemonicCmd)
	walletCmd.AddCommand(addLedgerCmd)
	walletCmd.AddCommand(listWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
