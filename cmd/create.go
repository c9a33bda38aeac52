package cmd

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/workflow"
)

var (
	From        string
	UseMnemonic bool
	DryRun      bool
	Yes         bool
	LegFlags    []string
	LegsFile    string
)

func addSigningFlags(c *cobra.Command) {
	c.Flags().StringVarP(&From, "from", "f", "", "Wallet that signs. An address or words of its description, see \"swapshop wallet list\".")
	c.Flags().BoolVarP(&UseMnemonic, "mnemonic", "m", false, "Sign with a mnemonic typed at the prompt instead of a registered wallet.")
	c.Flags().BoolVarP(&DryRun, "dry", "d", false, "Sign but don't submit anything, print the signed transactions in hex instead.")
	c.Flags().BoolVarP(&Yes, "yes", "y", false, "Don't ask for confirmation before signing.")
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a swap, sign your legs and publish it for the counterparty",
	Long: `Legs are given with --leg type:sender:receiver:asset:amount (repeatable) or
with --legs-file, a json array of {"type", "sender", "receiver", "assetId", "amount"}.

Types are pay, axfer and optin. Amounts are in display units (1.5 ALGO, not
microalgos). Payments ignore the asset, opt-ins ignore the receiver and the
amount. Examples:

	swapshop create \
		--leg pay:alice.algo:bob.algo::25 \
		--leg optin:alice.algo::31566704: \
		--leg axfer:bob.algo:alice.algo:31566704:1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		intents, err := collectIntents(LegsFile, LegFlags)
		if err != nil {
			return fail(err)
		}
		s, err := newServices()
		if err != nil {
			return fail(err)
		}
		creator, err := workflow.NewCreator(s.cfg, appUI, s.deps)
		if err != nil {
			return fail(err)
		}
		return withSigner(s.cfg, From, UseMnemonic, func(signer account.Signer) error {
			result, err := creator.Create(cmd.Context(), intents, signer, workflow.Options{Yes: Yes, Dry: DryRun})
			if err != nil {
				return err
			}
			if DryRun {
				printSigned(result.Signed)
				appUI.Section("Share payload")
				appUI.Info("%s", hexutil.Encode(result.Payload))
			}
			return nil
		})
	},
}

func printSigned(signed [][]byte) {
	appUI.Section("Signed transactions")
	for i, blob := range signed {
		appUI.Info("%d. %s", i+1, hexutil.Encode(blob))
	}
}

func init() {
	addSigningFlags(createCmd)
	createCmd.Flags().StringArrayVarP(&LegFlags, "leg", "l", nil, "A leg of the swap as type:sender:receiver:asset:amount. Repeatable.")
	createCmd.Flags().StringVar(&LegsFile, "legs-file", "", "Json file with the legs of the swap.")
	rootCmd.AddCommand(createCmd)
}
