package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nusapay/nusapay-api/internal/db"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/nusapay/nusapay-api/internal/logger"
	"go.uber.org/zap"
)

// NetworkService is the network-directory collaborator: it resolves network
// keys against the catalog table and converts rows into the immutable
// descriptors the fee engine is configured with.
type NetworkService struct {
	queries db.Querier
	logger  *zap.Logger
}

// NewNetworkService creates a new network service.
func NewNetworkService(queries db.Querier) *NetworkService {
	return &NetworkService{
		queries: queries,
		logger:  logger.Log,
	}
}

// GetNetworkByKey retrieves a network by its lookup key.
func (s *NetworkService) GetNetworkByKey(ctx context.Context, key string) (*db.Network, error) {
	network, err := s.queries.GetNetworkByKey(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("network not found")
		}
		s.logger.Error("Failed to get network",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve network: %w", err)
	}

	return &network, nil
}

// LoadDescriptors builds the fee engine's network table from the catalog.
// When the catalog is empty or unreachable the built-in defaults are
// returned, so a fresh deployment can estimate before seeding the table.
func (s *NetworkService) LoadDescriptors(ctx context.Context) []gas.NetworkDescriptor {
	networks, err := s.queries.ListActiveNetworks(ctx)
	if err != nil || len(networks) == 0 {
		if err != nil {
			s.logger.Warn("Failed to load networks from catalog, using defaults",
				zap.Error(err))
		}
		return gas.DefaultNetworks()
	}

	defaults := make(map[string]gas.NetworkDescriptor)
	for _, d := range gas.DefaultNetworks() {
		defaults[d.Key] = d
	}

	descriptors := make([]gas.NetworkDescriptor, 0, len(networks))
	for _, n := range networks {
		desc := gas.NetworkDescriptor{
			Key:            n.Key,
			ChainFamily:    gas.ChainFamily(n.ChainFamily),
			ChainID:        n.ChainID,
			NativeSymbol:   n.NativeSymbol,
			NativeDecimals: uint8(n.NativeDecimals),
			PriceSymbol:    n.PriceSymbol,
		}
		if n.RpcUrl.Valid && n.RpcUrl.String != "" {
			desc.RPCURL = n.RpcUrl.String
		} else if d, ok := defaults[n.Key]; ok {
			desc.RPCURL = d.RPCURL
		}
		if d, ok := defaults[n.Key]; ok && desc.ChainFamily == gas.ChainFamilyTON {
			desc.AddrStateRPCURL = d.AddrStateRPCURL
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors
}
