package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetAlternativeNames() []string
	GetGenesisID() string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() int32
	GetBlockTime() time.Duration

	// GetDefaultNodes returns algod endpoints keyed by a short label.
	GetDefaultNodes() map[string]string
	GetDefaultIndexer() string
	// GetNameServiceURL returns the NFD API base url, empty when the
	// network has no name service.
	GetNameServiceURL() string

	TxURL(txid string) string
	AccountURL(address string) string
	AssetURL(assetID uint64) string

	MarshalJSON() ([]byte, error)
}
