package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/algoswap/swapshop/common"
	"github.com/algoswap/swapshop/networks"
)

const (
	// MaxNoteSize is the ledger's hard limit for a transaction note.
	MaxNoteSize = 1024
	// MaxGroupSize is the ledger's hard limit for an atomic group.
	MaxGroupSize = 16
	MinLegs      = 2
	// minFee is the ledger's minimum transaction fee in microalgos.
	minFee = 1000
)

// Keys shared by viper, env vars (SWAPSHOP_ prefixed, dashes become
// underscores) and cobra flags.
const (
	Datadir       = "datadir"
	Network       = "network"
	Node          = "node"
	NodeToken     = "node-token"
	Indexer       = "indexer"
	IndexerToken  = "indexer-token"
	NFDAPI        = "nfd-api"
	Collector     = "collector"
	NoteChunkSize = "note-chunk-size"
	ConfirmRounds = "confirm-rounds"
	MaxLegs       = "max-legs"
	ClaimURL      = "claim-url"
	MaxFee        = "max-fee"
	Verbose       = "verbose"
)

var (
	defaultNetwork       = "mainnet"
	defaultCollector     = "NUUWKIGPPLRPZQOBPOEA6EYYPRHRTSKLXI474QAKPAWVVZ372MVQP2KJMY"
	defaultNoteChunkSize = 1000
	defaultConfirmRounds = 3
	defaultMaxLegs       = MaxGroupSize
	defaultClaimURL      = "https://swapshop.app"
	defaultMaxFee        = 10000
)

type Config struct {
	Datadir       string
	Network       networks.Network
	Nodes         []string
	NodeToken     string
	Indexer       string
	IndexerToken  string
	NFDAPI        string
	Collector     string
	NoteChunkSize int
	ConfirmRounds uint64
	MaxLegs       int
	ClaimURL      string
	MaxFee        uint64
	Verbose       bool
}

func (c *Config) String() string {
	out := map[string]interface{}{
		"datadir":         c.Datadir,
		"nodes":           c.Nodes,
		"indexer":         c.Indexer,
		"nfd_api":         c.NFDAPI,
		"collector":       c.Collector,
		"note_chunk_size": c.NoteChunkSize,
		"confirm_rounds":  c.ConfirmRounds,
		"max_legs":        c.MaxLegs,
		"claim_url":       c.ClaimURL,
		"max_fee":         c.MaxFee,
	}
	if c.Network != nil {
		out["network"] = c.Network.GetName()
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(b)
}

func DefaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swapshop"
	}
	return filepath.Join(home, ".swapshop")
}

// SetDefaults registers defaults and env bindings on v. Load calls it, it is
// exported so commands can bind flags before loading.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix("SWAPSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(Datadir, DefaultDatadir())
	v.SetDefault(Network, defaultNetwork)
	v.SetDefault(Collector, defaultCollector)
	v.SetDefault(NoteChunkSize, defaultNoteChunkSize)
	v.SetDefault(ConfirmRounds, defaultConfirmRounds)
	v.SetDefault(MaxLegs, defaultMaxLegs)
	v.SetDefault(ClaimURL, defaultClaimURL)
	v.SetDefault(MaxFee, defaultMaxFee)
}

// Load builds a Config from v, reading <datadir>/config.yaml when it exists.
// Endpoints left empty fall back to the selected network's defaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	datadir := v.GetString(Datadir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(datadir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.WithField("datadir", datadir).Debug("no config file found, using defaults")
	}

	registry, err := networks.NewRegistry(filepath.Join(datadir, "networks"))
	if err != nil {
		return nil, err
	}
	network, err := registry.GetNetwork(v.GetString(Network))
	if err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}

	cfg := &Config{
		Datadir:       datadir,
		Network:       network,
		Nodes:         v.GetStringSlice(Node),
		NodeToken:     v.GetString(NodeToken),
		Indexer:       v.GetString(Indexer),
		IndexerToken:  v.GetString(IndexerToken),
		NFDAPI:        v.GetString(NFDAPI),
		Collector:     v.GetString(Collector),
		NoteChunkSize: v.GetInt(NoteChunkSize),
		ConfirmRounds: v.GetUint64(ConfirmRounds),
		MaxLegs:       v.GetInt(MaxLegs),
		ClaimURL:      strings.TrimRight(v.GetString(ClaimURL), "/"),
		MaxFee:        v.GetUint64(MaxFee),
		Verbose:       v.GetBool(Verbose),
	}
	cfg.applyNetworkDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyNetworkDefaults() {
	if len(c.Nodes) == 0 {
		nodes := c.Network.GetDefaultNodes()
		labels := make([]string, 0, len(nodes))
		for label := range nodes {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			c.Nodes = append(c.Nodes, nodes[label])
		}
	}
	if c.Indexer == "" {
		c.Indexer = c.Network.GetDefaultIndexer()
	}
	if c.NFDAPI == "" {
		c.NFDAPI = c.Network.GetNameServiceURL()
	}
}

func (c *Config) validate() error {
	if len(c.Nodes) == 0 {
		return fmt.Errorf("no algod node configured for network %s", c.Network.GetName())
	}
	if c.Indexer == "" {
		return fmt.Errorf("no indexer configured for network %s", c.Network.GetName())
	}
	if !common.IsAddress(c.Collector) {
		return fmt.Errorf("collector %q is not a valid address", c.Collector)
	}
	if c.NoteChunkSize < 1 || c.NoteChunkSize > MaxNoteSize {
		return fmt.Errorf("note chunk size must be between 1 and %d, got %d", MaxNoteSize, c.NoteChunkSize)
	}
	if c.ConfirmRounds == 0 {
		return fmt.Errorf("confirm rounds must be positive")
	}
	if c.MaxFee < minFee {
		return fmt.Errorf("max fee must be at least %d microalgos, got %d", minFee, c.MaxFee)
	}
	if c.MaxLegs < MinLegs || c.MaxLegs > MaxGroupSize {
		return fmt.Errorf("max legs must be between %d and %d, got %d", MinLegs, MaxGroupSize, c.MaxLegs)
	}
	return nil
}
