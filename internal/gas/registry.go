package gas

import (
	"fmt"
	"sort"
)

// Config carries the tunable estimator parameters and the client factories
// tests substitute. Zero-value fields fall back to production defaults.
type Config struct {
	EVM EVMFeeConfig
	TON TONFeeConfig
	// TONAPIKey is sent as X-API-Key to the TON JSON-RPC endpoints.
	TONAPIKey string
	// EVMDialer overrides how EVM RPC clients are created (tests).
	EVMDialer EVMDialer
	// TONClientFactory overrides how TON clients are created (tests).
	TONClientFactory func(desc NetworkDescriptor) TONClient
}

// DefaultConfig returns the production estimator configuration.
func DefaultConfig() Config {
	return Config{
		EVM: DefaultEVMFeeConfig(),
		TON: DefaultTONFeeConfig(),
	}
}

// Registry maps a network key to its fee estimator. The mapping is built once
// at startup and never mutated; it is the single extension point for adding a
// network.
type Registry struct {
	estimators map[string]Estimator
	networks   []NetworkDescriptor
}

// NewRegistry builds estimators for every descriptor. Descriptors with a
// missing RPC URL or unknown chain family are rejected: a network we cannot
// reach at all is a configuration error, not a degraded estimate.
func NewRegistry(networks []NetworkDescriptor, cfg Config) (*Registry, error) {
	r := &Registry{
		estimators: make(map[string]Estimator, len(networks)),
		networks:   make([]NetworkDescriptor, 0, len(networks)),
	}
	for _, desc := range networks {
		if desc.Key == "" {
			return nil, fmt.Errorf("network descriptor missing key")
		}
		if desc.RPCURL == "" {
			return nil, fmt.Errorf("network %s: missing RPC URL", desc.Key)
		}
		var est Estimator
		switch desc.ChainFamily {
		case ChainFamilyEVM:
			est = NewEVMEstimator(desc, cfg.EVM, cfg.EVMDialer)
		case ChainFamilyTON:
			est = NewTONEstimator(desc, cfg.TON, tonClientFor(desc, cfg))
		default:
			return nil, fmt.Errorf("network %s: unknown chain family %q", desc.Key, desc.ChainFamily)
		}
		if _, exists := r.estimators[desc.Key]; exists {
			return nil, fmt.Errorf("duplicate network key %q", desc.Key)
		}
		r.estimators[desc.Key] = est
		r.networks = append(r.networks, desc)
	}
	sort.Slice(r.networks, func(i, j int) bool { return r.networks[i].Key < r.networks[j].Key })
	return r, nil
}

// Resolve returns the estimator for a network key. Resolution performs no RPC
// work; estimator clients dial lazily on first use.
func (r *Registry) Resolve(networkKey string) (Estimator, error) {
	est, ok := r.estimators[networkKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNetwork, networkKey)
	}
	return est, nil
}

// Networks returns the registered descriptors, sorted by key.
func (r *Registry) Networks() []NetworkDescriptor {
	return r.networks
}
