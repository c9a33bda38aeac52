package addrbook

import (
	"context"
	"strings"

	"github.com/algoswap/swapshop/common"
)

// Map is a lightweight Resolver and Namer for tests. It maps lower cased
// aliases to addresses; unknown aliases fail with UnresolvedAliasError.
//
// Example:
//
//	r := addrbook.Map{
//	    "alice.algo": "BYKWLR65FS6IBLJO7SKBGBJ4C5T257LBL55OUY6363QBWX24B5QKT6DMEA",
//	}
type Map map[string]string

func (m Map) Resolve(_ context.Context, s string) (string, error) {
	if common.IsAddress(s) {
		return s, nil
	}
	if addr, ok := m[strings.ToLower(s)]; ok {
		return addr, nil
	}
	return "", &UnresolvedAliasError{Alias: s}
}

func (m Map) Name(_ context.Context, address string) common.Address {
	best := ""
	for alias, addr := range m {
		if addr == address && (best == "" || alias < best) {
			best = alias
		}
	}
	if best == "" {
		return common.Address{Address: address, Desc: "unknown"}
	}
	return common.Address{Address: address, Desc: best}
}
