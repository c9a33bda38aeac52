package account

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	log "github.com/sirupsen/logrus"
)

const (
	KindKeystore = "keystore"
	KindLedger   = "ledger"
)

// AccDesc describes a wallet the user registered. Keypath is the keystore
// file of keystore wallets, Derpath the Algorand app account index of
// ledger wallets.
type AccDesc struct {
	Address string
	Kind    string
	Keypath string
	Derpath string
	Desc    string
}

// Store keeps one json record per wallet, named after its address.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir}
}

func (self *Store) KeystoreDir() string {
	return filepath.Join(self.dir, "keystores")
}

func (self *Store) StoreAccountRecord(accDesc AccDesc) error {
	if err := os.MkdirAll(self.dir, 0o700); err != nil {
		return err
	}
	path := filepath.Join(self.dir, fmt.Sprintf("%s.json", accDesc.Address))
	content, err := json.MarshalIndent(accDesc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

// GetAccounts returns a map address -> account description.
func (self *Store) GetAccounts() map[string]AccDesc {
	paths, err := filepath.Glob(filepath.Join(self.dir, "*.json"))
	if err != nil {
		log.WithError(err).Warn("getting wallets failed")
		return map[string]AccDesc{}
	}
	result := map[string]AccDesc{}
	for _, p := range paths {
		addr, err := PathToAddress(p)
		if err != nil {
			continue
		}
		content, err := os.ReadFile(p)
		if err != nil {
			log.WithError(err).WithField("file", p).Warn("reading wallet description failed, ignore and continue")
			continue
		}
		desc := AccDesc{}
		if err := json.Unmarshal(content, &desc); err != nil {
			log.WithError(err).WithField("file", p).Warn("parsing wallet description failed, ignore and continue")
			continue
		}
		result[addr] = desc
	}
	return result
}

// List returns every wallet sorted by address.
func (self *Store) List() []AccDesc {
	accounts := self.GetAccounts()
	result := make([]AccDesc, 0, len(accounts))
	for _, acc := range accounts {
		result = append(result, acc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result
}

// GetAccount finds the wallet that best matches input, an address or
// words from its description.
func (self *Store) GetAccount(input string) (AccDesc, error) {
	source := FuzzySource(self.List())
	if acc, found := self.GetAccounts()[input]; found {
		return acc, nil
	}
	matches := fuzzy.FindFrom(strings.ReplaceAll(input, " ", "_"), source)
	if len(matches) == 0 {
		return AccDesc{}, fmt.Errorf("no wallet is found with '%s'", input)
	}
	return source[matches[0].Index], nil
}

type FuzzySource []AccDesc

func (self FuzzySource) Len() int {
	return len(self)
}

func (self FuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", self[i].Address, strings.ReplaceAll(self[i].Desc, " ", "_"))
}
