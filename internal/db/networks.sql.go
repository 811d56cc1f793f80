package db

import (
	"context"
)

const getNetworkByKey = `
SELECT id, key, name, chain_family, chain_id, native_symbol, native_decimals,
       price_symbol, rpc_url, active, created_at, updated_at
FROM networks
WHERE key = $1
LIMIT 1
`

// GetNetworkByKey returns a network by its lookup key (e.g. "ethereum", "ton").
func (q *Queries) GetNetworkByKey(ctx context.Context, key string) (Network, error) {
	row := q.db.QueryRow(ctx, getNetworkByKey, key)
	var i Network
	err := row.Scan(
		&i.ID,
		&i.Key,
		&i.Name,
		&i.ChainFamily,
		&i.ChainID,
		&i.NativeSymbol,
		&i.NativeDecimals,
		&i.PriceSymbol,
		&i.RpcUrl,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveNetworks = `
SELECT id, key, name, chain_family, chain_id, native_symbol, native_decimals,
       price_symbol, rpc_url, active, created_at, updated_at
FROM networks
WHERE active = true
ORDER BY name
`

// ListActiveNetworks returns all networks enabled for fee estimation.
func (q *Queries) ListActiveNetworks(ctx context.Context) ([]Network, error) {
	rows, err := q.db.Query(ctx, listActiveNetworks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Network
	for rows.Next() {
		var i Network
		if err := rows.Scan(
			&i.ID,
			&i.Key,
			&i.Name,
			&i.ChainFamily,
			&i.ChainID,
			&i.NativeSymbol,
			&i.NativeDecimals,
			&i.PriceSymbol,
			&i.RpcUrl,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
