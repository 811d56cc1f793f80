package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nusapay/nusapay-api/internal/db"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/nusapay/nusapay-api/internal/logger"
	"go.uber.org/zap"
)

// TokenService is the token-directory collaborator: it resolves token symbols
// on a network to the asset descriptors the fee engine estimates with.
type TokenService struct {
	queries db.Querier
	logger  *zap.Logger
}

// NewTokenService creates a new token service.
func NewTokenService(queries db.Querier) *TokenService {
	return &TokenService{
		queries: queries,
		logger:  logger.Log,
	}
}

// ResolveAsset looks up a token symbol on a network and returns its asset
// descriptor. An empty symbol resolves to the network's native coin.
func (s *TokenService) ResolveAsset(ctx context.Context, network *db.Network, symbol string) (gas.AssetDescriptor, error) {
	if symbol == "" || symbol == network.NativeSymbol {
		return gas.NativeAsset(uint8(network.NativeDecimals)), nil
	}

	token, err := s.queries.GetTokenBySymbolAndNetwork(ctx, db.GetTokenBySymbolAndNetworkParams{
		NetworkID: network.ID,
		Symbol:    symbol,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return gas.AssetDescriptor{}, fmt.Errorf("token %s not found on network %s", symbol, network.Key)
		}
		s.logger.Error("Failed to get token",
			zap.String("symbol", symbol),
			zap.String("network", network.Key),
			zap.Error(err))
		return gas.AssetDescriptor{}, fmt.Errorf("failed to retrieve token: %w", err)
	}

	if token.IsNative {
		return gas.NativeAsset(uint8(token.Decimals)), nil
	}
	if !token.ContractAddress.Valid || token.ContractAddress.String == "" {
		return gas.AssetDescriptor{}, fmt.Errorf("token %s on network %s has no contract address", symbol, network.Key)
	}
	return gas.AssetDescriptor{
		ContractAddress: token.ContractAddress.String,
		Decimals:        uint8(token.Decimals),
	}, nil
}

// ListTokens returns the active tokens on a network.
func (s *TokenService) ListTokens(ctx context.Context, networkID uuid.UUID) ([]db.Token, error) {
	tokens, err := s.queries.ListActiveTokensByNetwork(ctx, networkID)
	if err != nil {
		s.logger.Error("Failed to list tokens by network",
			zap.String("network_id", networkID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve tokens: %w", err)
	}

	return tokens, nil
}
