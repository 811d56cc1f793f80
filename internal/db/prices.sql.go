package db

import (
	"context"
)

const getCryptoPrice = `
SELECT symbol, price_usd::float8, updated_at
FROM crypto_prices
WHERE symbol = $1
LIMIT 1
`

// GetCryptoPrice returns the latest stored USD price for a price symbol
// (e.g. "ethusdt", "tonusdt").
func (q *Queries) GetCryptoPrice(ctx context.Context, symbol string) (CryptoPrice, error) {
	row := q.db.QueryRow(ctx, getCryptoPrice, symbol)
	var i CryptoPrice
	err := row.Scan(&i.Symbol, &i.PriceUsd, &i.UpdatedAt)
	return i, err
}

const getExchangeRate = `
SELECT currency_pair, rate::float8, updated_at
FROM exchange_rates
WHERE currency_pair = $1
LIMIT 1
`

// GetExchangeRate returns the latest stored fiat conversion rate for a
// currency pair (e.g. "usd_idr").
func (q *Queries) GetExchangeRate(ctx context.Context, currencyPair string) (ExchangeRate, error) {
	row := q.db.QueryRow(ctx, getExchangeRate, currencyPair)
	var i ExchangeRate
	err := row.Scan(&i.CurrencyPair, &i.Rate, &i.UpdatedAt)
	return i, err
}
