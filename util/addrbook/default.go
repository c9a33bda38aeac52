package addrbook

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/common"
	"github.com/algoswap/swapshop/util/cache"
)

// Default is the production Resolver and Namer.
//
// Resolution order: canonical addresses pass through, then an exact match in
// the local book, then the NFD service for ".algo" names. Anything else is an
// UnresolvedAliasError.
//
// Reverse names come from the book, then from NFD reverse lookups which are
// cached on disk.
type Default struct {
	book  *Book
	nfd   *NFDClient
	cache *cache.FileCache
}

// NewDefault wires a Default. book, nfd and c may each be nil.
func NewDefault(book *Book, nfd *NFDClient, c *cache.FileCache) *Default {
	return &Default{book: book, nfd: nfd, cache: c}
}

func (r *Default) Resolve(ctx context.Context, s string) (string, error) {
	s = strings.TrimSpace(s)
	if common.IsAddress(s) {
		return s, nil
	}
	if r.book != nil {
		if addr, ok := r.book.Lookup(s); ok {
			return addr, nil
		}
	}
	if common.IsNFDName(s) {
		if r.nfd == nil {
			return "", &UnresolvedAliasError{Alias: s, Err: fmt.Errorf("no name service configured")}
		}
		return r.nfd.Lookup(ctx, s)
	}
	return "", &UnresolvedAliasError{Alias: s}
}

func nfdCacheKey(address string) string {
	return "nfd_" + address
}

func (r *Default) Name(ctx context.Context, address string) common.Address {
	if r.book != nil {
		if name, ok := r.book.NameOf(address); ok {
			return common.Address{Address: address, Desc: name}
		}
	}
	if r.cache != nil {
		if name, found := r.cache.Get(nfdCacheKey(address)); found && name != "" {
			return common.Address{Address: address, Desc: name}
		}
	}
	if r.nfd != nil {
		name, err := r.nfd.ReverseLookup(ctx, address)
		if err != nil {
			log.WithError(err).Debug("reverse lookup failed")
		} else if name != "" {
			if r.cache != nil {
				if err := r.cache.Set(nfdCacheKey(address), name); err != nil {
					log.WithError(err).Warn("failed to cache nfd name")
				}
			}
			return common.Address{Address: address, Desc: name}
		}
	}
	return common.Address{Address: address, Desc: "unknown"}
}
