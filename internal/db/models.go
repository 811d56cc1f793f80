package db

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CryptoPrice is a row from the crypto_prices table. Prices are written by an
// external price-sync worker; this API only reads them.
type CryptoPrice struct {
	Symbol    string
	PriceUsd  float64
	UpdatedAt pgtype.Timestamptz
}

// ExchangeRate is a row from the exchange_rates table (fiat conversion rates,
// e.g. currency_pair = "usd_idr").
type ExchangeRate struct {
	CurrencyPair string
	Rate         float64
	UpdatedAt    pgtype.Timestamptz
}

// Network is a row from the networks table.
type Network struct {
	ID             uuid.UUID
	Key            string
	Name           string
	ChainFamily    string
	ChainID        int64
	NativeSymbol   string
	NativeDecimals int32
	PriceSymbol    string
	RpcUrl         pgtype.Text
	Active         bool
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

// Token is a row from the tokens table.
type Token struct {
	ID              uuid.UUID
	NetworkID       uuid.UUID
	Symbol          string
	Name            string
	ContractAddress pgtype.Text
	Decimals        int32
	IsNative        bool
	Active          bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}
