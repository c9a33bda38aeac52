package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/networks"
)

var NetworkConfig string

func networkRegistry() (*networks.Registry, error) {
	config.SetDefaults(v)
	return networks.NewRegistry(filepath.Join(v.GetString(config.Datadir), "networks"))
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "List and add the Algorand networks swapshop can use",
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "List all supported networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := networkRegistry()
		if err != nil {
			return fail(err)
		}
		rows := [][]string{}
		for _, name := range registry.GetSupportedNetworkNames() {
			n, err := registry.GetNetwork(name)
			if err != nil {
				return fail(err)
			}
			rows = append(rows, []string{name, n.GetName(), n.GetGenesisID(), n.GetNativeTokenSymbol()})
		}
		appUI.Table([]string{"Name", "Network", "Genesis", "Token"}, rows)
		return nil
	},
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config takes a json file path or a json string in the following format:
	{
		"name": "localnet",
		"alternative_names": ["sandbox"],
		"genesis_id": "sandnet-v1",
		"native_token_symbol": "ALGO",
		"native_token_decimal": 6,
		"block_time": 2.8,
		"default_nodes": {
			"local": "http://localhost:4001"
		},
		"default_indexer": "http://localhost:8980",
		"name_service_url": "",
		"explorer_url": ""
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(NetworkConfig)
		if content == "" {
			return fail(fmt.Errorf("--config is required"))
		}
		raw := []byte(content)
		if !strings.HasPrefix(content, "{") {
			var err error
			if raw, err = os.ReadFile(content); err != nil {
				return fail(fmt.Errorf("couldn't read the network config: %w", err))
			}
		}
		network, err := networks.NewNetworkFromJSON(raw)
		if err != nil {
			return fail(fmt.Errorf("the provided json is not valid: %w", err))
		}
		registry, err := networkRegistry()
		if err != nil {
			return fail(err)
		}
		if err := registry.AddNetwork(network); err != nil {
			return fail(err)
		}
		appUI.Success("Network %s added.", network.GetName())
		return nil
	},
}

func init() {
	addNetworkCmd.Flags().StringVar(&NetworkConfig, "config", "", "Network config as a json string or the path of a json file.")
	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
