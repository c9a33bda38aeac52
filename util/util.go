package util

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/algoswap/swapshop/common"
	"github.com/algoswap/swapshop/config"
	"github.com/algoswap/swapshop/networks"
	"github.com/algoswap/swapshop/util/addrbook"
	"github.com/algoswap/swapshop/util/broadcaster"
	"github.com/algoswap/swapshop/util/cache"
	"github.com/algoswap/swapshop/util/monitor"
	"github.com/algoswap/swapshop/util/reader"
)

var separators = regexp.MustCompile(`[^A-Z2-7]+`)

const (
	txIDLength    = 52
	addressLength = 58
)

// CalculateTimeDurationFromRounds estimates how long the network takes to
// go from round from to round to.
func CalculateTimeDurationFromRounds(network networks.Network, from, to uint64) time.Duration {
	if from >= to {
		return time.Duration(0)
	}
	return time.Duration(to-from) * network.GetBlockTime()
}

// ScanForTxs returns every transaction id found in para, in order.
func ScanForTxs(para string) []string {
	return scan(para, txIDLength)
}

// ScanForAddresses returns every canonical address found in para, in order.
func ScanForAddresses(para string) []string {
	result := []string{}
	for _, candidate := range scan(para, addressLength) {
		if common.IsAddress(candidate) {
			result = append(result, candidate)
		}
	}
	return result
}

func scan(para string, length int) []string {
	result := []string{}
	for _, token := range separators.Split(para, -1) {
		if len(token) == length {
			result = append(result, token)
		}
	}
	return result
}

// GetNodes names the configured algod urls node-1, node-2...
func GetNodes(cfg *config.Config) map[string]string {
	nodes := map[string]string{}
	for i, url := range cfg.Nodes {
		nodes[fmt.Sprintf("node-%d", i+1)] = url
	}
	return nodes
}

func AlgoReader(cfg *config.Config) *reader.AlgoReader {
	var indexer reader.NoteSource
	if cfg.Indexer != "" {
		indexer = reader.NewIndexerReader(cfg.Indexer, cfg.IndexerToken)
	}
	return reader.NewAlgoReader(GetNodes(cfg), cfg.NodeToken, indexer)
}

func AlgoBroadcaster(r *reader.AlgoReader) *broadcaster.Broadcaster {
	senders := []broadcaster.RawSender{}
	for _, n := range r.Nodes() {
		senders = append(senders, n)
	}
	return broadcaster.NewBroadcaster(senders...)
}

// AlgoTxMonitor polls the first configured node.
func AlgoTxMonitor(r *reader.AlgoReader) (*monitor.TxMonitor, error) {
	nodes := r.Nodes()
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no algod node is configured")
	}
	return monitor.NewTxMonitor(nodes[0]), nil
}

// AddressBook opens the local address book and wires it with the name
// service of the configured network.
func AddressBook(cfg *config.Config) (*addrbook.Default, *addrbook.Book, error) {
	book, err := addrbook.OpenBook(filepath.Join(cfg.Datadir, "addresses.json"))
	if err != nil {
		return nil, nil, err
	}
	var nfd *addrbook.NFDClient
	if cfg.NFDAPI != "" {
		nfd = addrbook.NewNFDClient(cfg.NFDAPI)
	}
	c := cache.NewFileCache(filepath.Join(cfg.Datadir, "cache.json"))
	return addrbook.NewDefault(book, nfd, c), book, nil
}
