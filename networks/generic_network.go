package networks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type GenericAlgorandNetworkConfig struct {
	Name               string            `json:"name"`
	AlternativeNames   []string          `json:"alternative_names"`
	GenesisID          string            `json:"genesis_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol"`
	NativeTokenDecimal int32             `json:"native_token_decimal"`
	BlockTime          float64           `json:"block_time"`
	DefaultNodes       map[string]string `json:"default_nodes"`
	DefaultIndexer     string            `json:"default_indexer"`
	NameServiceURL     string            `json:"name_service_url"`
	ExplorerURL        string            `json:"explorer_url"`
}

// GenericAlgorandNetwork is a Network backed entirely by its config. The
// built-in networks and the custom ones loaded from disk are all instances
// of it.
type GenericAlgorandNetwork struct {
	config GenericAlgorandNetworkConfig
}

func NewGenericAlgorandNetwork(config GenericAlgorandNetworkConfig) *GenericAlgorandNetwork {
	if config.NativeTokenSymbol == "" {
		config.NativeTokenSymbol = "ALGO"
	}
	if config.NativeTokenDecimal == 0 {
		config.NativeTokenDecimal = 6
	}
	if config.BlockTime == 0 {
		config.BlockTime = 2.8
	}
	return &GenericAlgorandNetwork{config: config}
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	config := GenericAlgorandNetworkConfig{}
	if err := json.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("network config has no name")
	}
	if len(config.DefaultNodes) == 0 {
		return nil, fmt.Errorf("network %s has no default nodes", config.Name)
	}
	return NewGenericAlgorandNetwork(config), nil
}

func (gn *GenericAlgorandNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericAlgorandNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericAlgorandNetwork) GetGenesisID() string {
	return gn.config.GenesisID
}

func (gn *GenericAlgorandNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericAlgorandNetwork) GetNativeTokenDecimal() int32 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericAlgorandNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime * float64(time.Second))
}

func (gn *GenericAlgorandNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericAlgorandNetwork) GetDefaultIndexer() string {
	return gn.config.DefaultIndexer
}

func (gn *GenericAlgorandNetwork) GetNameServiceURL() string {
	return gn.config.NameServiceURL
}

func (gn *GenericAlgorandNetwork) explorer(kind, id string) string {
	if gn.config.ExplorerURL == "" {
		return id
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(gn.config.ExplorerURL, "/"), kind, id)
}

func (gn *GenericAlgorandNetwork) TxURL(txid string) string {
	return gn.explorer("transaction", txid)
}

func (gn *GenericAlgorandNetwork) AccountURL(address string) string {
	return gn.explorer("account", address)
}

func (gn *GenericAlgorandNetwork) AssetURL(assetID uint64) string {
	return gn.explorer("asset", fmt.Sprintf("%d", assetID))
}

func (gn *GenericAlgorandNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}
