// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/ui"
)

var (
	v     = viper.New()
	appUI ui.UI = ui.NewTerminalUI()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swapshop",
	Short: "Create and claim atomic multi-party swaps on Algorand",
	Long: fmt.Sprintf(`Swapshop builds atomic swaps between two parties on Algorand. A swap is
a group of up to 16 transactions (payments, asset transfers and asset
opt-ins) that either all execute or none does.

	1. The creator declares the legs with "swapshop create", reviews them,
	signs the legs sent from their own wallet and publishes the group in the
	notes of a few share transactions. They get back the share transaction
	ids and a claim link.

	2. The counterparty runs "swapshop claim" with those ids or the link,
	reviews the same legs, signs theirs and submits the complete group.

Senders and receivers can be addresses, NFD names (alice.algo) or names
from your local address book (see "swapshop address").

Swapshop keeps its wallets, address book and custom networks under the
data directory (default %s). Every flag below can also be set in
<datadir>/config.yaml or with a SWAPSHOP_ prefixed env var, for example
SWAPSHOP_NODE or SWAPSHOP_NFD_API.`, config.DefaultDatadir()),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		log.SetLevel(log.WarnLevel)
		if v.GetBool(config.Verbose) {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log.WithField("config", cfg.String()).Debug("config loaded")
	return cfg, nil
}

// fail prints err for commands whose errors are not already reported by a
// workflow.
func fail(err error) error {
	appUI.Error("%s", err)
	return err
}

func bindFlag(cmd *cobra.Command, key string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(key)); err != nil {
		panic(err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.Datadir, config.DefaultDatadir(), "Directory holding wallets, the address book, caches and custom networks.")
	flags.StringP(config.Network, "k", "mainnet", "Algorand network: mainnet, testnet, betanet or a custom network name.")
	flags.StringSlice(config.Node, nil, "Algod url. Repeat to broadcast through several nodes. Defaults to the network's public nodes.")
	flags.String(config.NodeToken, "", "Algod api token.")
	flags.String(config.Indexer, "", "Indexer url used to read share transactions.")
	flags.String(config.IndexerToken, "", "Indexer api token.")
	flags.String(config.NFDAPI, "", "NFD api url used to resolve .algo names.")
	flags.String(config.Collector, "", "Receiver address of share transactions.")
	flags.Uint64(config.ConfirmRounds, 0, "Rounds to wait for a submitted group to be confirmed.")
	flags.String(config.ClaimURL, "", "Base url of the claim links.")
	flags.Uint64(config.MaxFee, 0, "Highest fee in microalgos a shared transaction may carry before claim refuses to sign it.")
	flags.BoolP(config.Verbose, "v", false, "Print debug logs.")

	for _, key := range []string{
		config.Datadir, config.Network, config.Node, config.NodeToken,
		config.Indexer, config.IndexerToken, config.NFDAPI, config.Collector,
		config.ConfirmRounds, config.ClaimURL, config.MaxFee, config.Verbose,
	} {
		bindFlag(rootCmd, key)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
