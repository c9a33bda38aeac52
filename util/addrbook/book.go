package addrbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"github.com/sahilm/fuzzy"
	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/common"
)

const maxSearchResults = 10

type Entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Book is the local address book, a json object of name to address kept on
// disk and indexed in memory for search.
type Book struct {
	path string

	mu      sync.RWMutex
	entries map[string]Entry // keyed by lower cased name
	index   bleve.Index
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("name", textFieldMapping)
	defaultMapping.AddFieldMappingsAt("address", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)
	indexMapping.DefaultAnalyzer = en.AnalyzerName
	return indexMapping
}

// OpenBook loads the address book at path. A missing file is an empty book.
// An empty path gives a book that is never persisted.
func OpenBook(path string) (*Book, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create address index: %w", err)
	}
	b := &Book{
		path:    path,
		entries: map[string]Entry{},
		index:   index,
	}
	if path == "" {
		return b, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read address book: %w", err)
	}
	raw := map[string]string{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse address book %s: %w", path, err)
	}

	batch := index.NewBatch()
	for name, addr := range raw {
		if !common.IsAddress(addr) {
			log.WithFields(log.Fields{"name": name, "address": addr}).Warn("skipping invalid address book entry")
			continue
		}
		entry := Entry{Name: name, Address: addr}
		b.entries[strings.ToLower(name)] = entry
		if err := batch.Index(strings.ToLower(name), entry); err != nil {
			return nil, fmt.Errorf("failed to index %s: %w", name, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to index address book: %w", err)
	}
	return b, nil
}

// Add stores name -> address, replacing an existing entry of the same name,
// and persists the book.
func (b *Book) Add(name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if common.IsAddress(name) {
		return fmt.Errorf("name must not be an address")
	}
	if !common.IsAddress(address) {
		return fmt.Errorf("%q is not a valid address", address)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entry := Entry{Name: name, Address: address}
	b.entries[strings.ToLower(name)] = entry
	if err := b.index.Index(strings.ToLower(name), entry); err != nil {
		return fmt.Errorf("failed to index %s: %w", name, err)
	}
	return b.persist()
}

func (b *Book) persist() error {
	if b.path == "" {
		return nil
	}
	raw := make(map[string]string, len(b.entries))
	for _, e := range b.entries {
		raw[e.Name] = e.Address
	}
	content, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create address book dir: %w", err)
	}
	return os.WriteFile(b.path, content, 0o644)
}

// Lookup finds an entry by exact, case insensitive name.
func (b *Book) Lookup(name string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[strings.ToLower(strings.TrimSpace(name))]
	return e.Address, ok
}

// NameOf returns the book name of address.
func (b *Book) NameOf(address string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, e := range b.sortedLocked() {
		if e.Address == address {
			return e.Name, true
		}
	}
	return "", false
}

func (b *Book) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortedLocked()
}

func (b *Book) sortedLocked() []Entry {
	res := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

// Search returns up to 10 entries matching input. Full text hits come first,
// then fuzzy subsequence matches over "name_address".
func (b *Book) Search(input string) []Entry {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := map[string]bool{}
	results := []Entry{}
	add := func(e Entry) {
		key := strings.ToLower(e.Name)
		if seen[key] || len(results) >= maxSearchResults {
			return
		}
		seen[key] = true
		results = append(results, e)
	}

	for _, e := range b.bleveSearchLocked(input) {
		add(e)
	}

	source := fuzzySource(b.sortedLocked())
	for _, m := range fuzzy.FindFrom(strings.ReplaceAll(input, " ", "_"), source) {
		add(source[m.Index])
	}
	return results
}

func (b *Book) bleveSearchLocked(input string) []Entry {
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(input))
	fuzzyQuery.Fuzziness = 1
	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(input))
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery, prefixQuery)

	request := bleve.NewSearchRequestOptions(query, maxSearchResults, 0, false)
	searchResults, err := b.index.Search(request)
	if err != nil {
		log.WithError(err).Warn("address book search failed")
		return nil
	}
	res := []Entry{}
	for _, hit := range searchResults.Hits {
		if e, ok := b.entries[hit.ID]; ok {
			res = append(res, e)
		}
	}
	return res
}

type fuzzySource []Entry

func (s fuzzySource) Len() int {
	return len(s)
}

func (s fuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", strings.ReplaceAll(s[i].Name, " ", "_"), s[i].Address)
}
