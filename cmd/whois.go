package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/util"
)

var whoisCmd = &cobra.Command{
	Use:   "whois",
	Short: "Show name of one or multiple addresses",
	Long:  `Every address found in the arguments is looked up in your address book and the NFD name service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addresses := util.ScanForAddresses(strings.Join(args, " "))
		if len(addresses) == 0 {
			appUI.Warn("Couldn't find any addresses in the params")
			return nil
		}
		_, names, _, err := openAddressBook()
		if err != nil {
			return fail(err)
		}
		rows := make([][2]string, 0, len(addresses))
		for _, address := range addresses {
			rows = append(rows, [2]string{address, names.Name(cmd.Context(), address).Desc})
		}
		appUI.KeyValue(rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoisCmd)
}
