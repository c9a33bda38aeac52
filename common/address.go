package common

import (
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Address pairs a canonical address with a human description (an NFD name,
// an address book entry or "unknown").
type Address struct {
	Address string
	Desc    string
}

// IsAddress reports whether s is a canonical 58 char Algorand address with a
// valid checksum.
func IsAddress(s string) bool {
	_, err := types.DecodeAddress(s)
	return err == nil
}

// ShortenAddress keeps the first and last 4 characters of addr.
func ShortenAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return fmt.Sprintf("%s...%s", addr[:4], addr[len(addr)-4:])
}

// IsNFDName reports whether s looks like an NFD alias such as "alice.algo".
func IsNFDName(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return len(s) > len(".algo") && strings.HasSuffix(s, ".algo")
}
