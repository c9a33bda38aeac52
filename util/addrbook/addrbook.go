// Package addrbook maps human aliases to canonical Algorand addresses and
// back.
//
// Production code uses [Default], which consults the local address book
// first and then the NFD name service for ".algo" names. Tests inject [Map],
// a plain map that resolves without any network or disk access.
package addrbook

import (
	"context"
	"fmt"

	"github.com/algoswap/swapshop/common"
)

// Resolver maps an alias or a canonical address to a canonical address.
// Canonical addresses are returned unchanged. Implementations must be safe
// for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, aliasOrAddress string) (string, error)
}

// Namer maps a canonical address to a human description for display.
//
// Contract: if the address is not known, Desc must be set to "unknown".
type Namer interface {
	Name(ctx context.Context, address string) common.Address
}

type UnresolvedAliasError struct {
	Alias string
	Err   error
}

func (e *UnresolvedAliasError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %q: %s", e.Alias, e.Err)
	}
	return fmt.Sprintf("could not resolve %q", e.Alias)
}

func (e *UnresolvedAliasError) Unwrap() error {
	return e.Err
}
