package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/share"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/account"
	"github.com/algoswap/swapshop/workflow"
)

// shareRefs returns args as given when they are ids or claim links and
// otherwise scans them for transaction ids, so pasted text works too.
func shareRefs(args []string) []string {
	if _, err := share.ParseRefs(args); err == nil {
		return args
	}
	if ids := util.ScanForTxs(strings.Join(args, " ")); len(ids) > 0 {
		return ids
	}
	return args
}

var claimCmd = &cobra.Command{
	Use:   "claim <share txid|claim link>...",
	Short: "Sign your legs of a shared swap and submit it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return fail(err)
		}
		claimer, err := workflow.NewClaimer(s.cfg, appUI, s.deps)
		if err != nil {
			return fail(err)
		}
		return withSigner(s.cfg, From, UseMnemonic, func(signer account.Signer) error {
			result, err := claimer.Claim(cmd.Context(), shareRefs(args), signer, workflow.Options{Yes: Yes, Dry: DryRun})
			if err != nil {
				return err
			}
			if DryRun {
				printSigned(result.Signed)
			}
			return nil
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <share txid|claim link>...",
	Short: "Show the legs of a shared swap without signing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return fail(err)
		}
		claimer, err := workflow.NewClaimer(s.cfg, appUI, s.deps)
		if err != nil {
			return fail(err)
		}
		_, err = claimer.Inspect(cmd.Context(), shareRefs(args))
		return err
	},
}

func init() {
	addSigningFlags(claimCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(inspectCmd)
}
