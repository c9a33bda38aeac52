package swap

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// NameResolver maps an alias or a canonical address to a canonical address.
type NameResolver interface {
	Resolve(ctx context.Context, aliasOrAddress string) (string, error)
}

// AssetInfo describes assets by id.
type AssetInfo interface {
	AssetDecimals(ctx context.Context, assetID uint64) (uint32, error)
}

// ParamsProvider returns the current suggested transaction parameters.
type ParamsProvider interface {
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
}
