package networks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Insert more Network implementation here to support
// more Algorand based chains
var supportedNetworks = []Network{
	AlgorandMainnet,
	AlgorandTestnet,
	AlgorandBetanet,
}

var ErrNetworkNotFound = fmt.Errorf("network not found")

// Registry resolves networks by name or alternative name. Custom networks
// are json files under dir and override built-in networks of the same name.
type Registry struct {
	dir      string
	networks map[string]Network
}

func NewRegistry(dir string) (*Registry, error) {
	result := &Registry{
		dir:      dir,
		networks: map[string]Network{},
	}
	for _, n := range supportedNetworks {
		if err := result.register(n, false); err != nil {
			return nil, err
		}
	}
	if dir == "" {
		return result, nil
	}

	customNetworks, err := loadCustomNetworks(dir)
	if err != nil {
		log.WithError(err).Warn("failed to load custom networks, continue with built-in networks")
		return result, nil
	}
	for _, n := range customNetworks {
		if _, found := result.networks[n.GetName()]; found {
			log.WithField("network", n.GetName()).Info("network already exists, using custom network")
		}
		if err := result.register(n, true); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Registry) register(n Network, override bool) error {
	if _, found := r.networks[n.GetName()]; found && !override {
		return fmt.Errorf("network with name or alternative name of '%s' already exists", n.GetName())
	}
	r.networks[n.GetName()] = n
	for _, an := range n.GetAlternativeNames() {
		if existing, found := r.networks[an]; found && existing.GetName() != n.GetName() && !override {
			return fmt.Errorf("network with name or alternative name of '%s' already exists", an)
		}
		r.networks[an] = n
	}
	return nil
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	networks := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		network, err := NewNetworkFromJSON(content)
		if err != nil {
			log.WithError(err).WithField("file", file).Warn("failed to parse custom network, skipping")
			continue
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func (r *Registry) GetNetwork(name string) (Network, error) {
	res, found := r.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

// GetSupportedNetworkNames returns every name and alternative name, sorted.
func (r *Registry) GetSupportedNetworkNames() []string {
	res := make([]string, 0, len(r.networks))
	for name := range r.networks {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// AddNetwork registers network and persists it to the registry directory.
func (r *Registry) AddNetwork(network Network) error {
	if err := r.register(network, true); err != nil {
		return err
	}
	if r.dir == "" {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create networks dir: %w", err)
	}
	content, err := network.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	err = os.WriteFile(filepath.Join(r.dir, fmt.Sprintf("%s.json", network.GetName())), content, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write the new network to file: %w", err)
	}
	return nil
}
