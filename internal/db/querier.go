package db

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the query interface implemented by Queries. Services depend on
// this interface so tests can substitute a mock.
type Querier interface {
	GetCryptoPrice(ctx context.Context, symbol string) (CryptoPrice, error)
	GetExchangeRate(ctx context.Context, currencyPair string) (ExchangeRate, error)
	GetNetworkByKey(ctx context.Context, key string) (Network, error)
	ListActiveNetworks(ctx context.Context) ([]Network, error)
	GetTokenBySymbolAndNetwork(ctx context.Context, arg GetTokenBySymbolAndNetworkParams) (Token, error)
	ListActiveTokensByNetwork(ctx context.Context, networkID uuid.UUID) ([]Token, error)
}

var _ Querier = (*Queries)(nil)
