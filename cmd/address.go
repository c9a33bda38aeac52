package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/common"
	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/util"
	"github.com/algoswap/swapshop/util/addrbook"
)

func openAddressBook() (*config.Config, *addrbook.Default, *addrbook.Book, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	names, book, err := util.AddressBook(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, names, book, nil
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Resolve names and manage your address book",
}

var resolveAddressCmd = &cobra.Command{
	Use:   "resolve <name|address>",
	Short: "Show the address of a name, or the name of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, names, _, err := openAddressBook()
		if err != nil {
			return fail(err)
		}
		addr, err := names.Resolve(cmd.Context(), args[0])
		if err != nil {
			return fail(err)
		}
		named := names.Name(cmd.Context(), addr)
		appUI.KeyValue([][2]string{
			{"Address", addr},
			{"Name", named.Desc},
		})
		return nil
	},
}

var searchAddressCmd = &cobra.Command{
	Use:   "search <keywords>",
	Short: "Find at max 10 matching entries of your address book",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, book, err := openAddressBook()
		if err != nil {
			return fail(err)
		}
		entries := book.Search(strings.Join(args, " "))
		if len(entries) == 0 {
			appUI.Warn("No entry matches.")
			return nil
		}
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = []string{e.Name, e.Address}
		}
		appUI.Table([]string{"Name", "Address"}, rows)
		return nil
	},
}

var addAddressCmd = &cobra.Command{
	Use:   "add <name> <address|nfd name>",
	Short: "Save a name for an address in your address book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, names, book, err := openAddressBook()
		if err != nil {
			return fail(err)
		}
		addr := args[1]
		if !common.IsAddress(addr) {
			if addr, err = names.Resolve(cmd.Context(), args[1]); err != nil {
				return fail(err)
			}
			appUI.Interpret(addr)
		}
		if err := book.Add(args[0], addr); err != nil {
			return fail(err)
		}
		appUI.Success("Saved %s as %s in %s/addresses.json.", addr, args[0], cfg.Datadir)
		return nil
	},
}

func init() {
	addressCmd.AddCommand(resolveAddressCmd)
	addressCmd.AddCommand(searchAddressCmd)
	addressCmd.AddCommand(addAddressCmd)
	rootCmd.AddCommand(addressCmd)
}
