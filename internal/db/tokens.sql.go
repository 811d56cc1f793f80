package db

import (
	"context"

	"github.com/google/uuid"
)

const getTokenBySymbolAndNetwork = `
SELECT id, network_id, symbol, name, contract_address, decimals, is_native,
       active, created_at, updated_at
FROM tokens
WHERE network_id = $1 AND lower(symbol) = lower($2) AND active = true
LIMIT 1
`

// GetTokenBySymbolAndNetworkParams holds the lookup key for a token.
type GetTokenBySymbolAndNetworkParams struct {
	NetworkID uuid.UUID
	Symbol    string
}

// GetTokenBySymbolAndNetwork returns an active token by symbol on a network.
func (q *Queries) GetTokenBySymbolAndNetwork(ctx context.Context, arg GetTokenBySymbolAndNetworkParams) (Token, error) {
	row := q.db.QueryRow(ctx, getTokenBySymbolAndNetwork, arg.NetworkID, arg.Symbol)
	var i Token
	err := row.Scan(
		&i.ID,
		&i.NetworkID,
		&i.Symbol,
		&i.Name,
		&i.ContractAddress,
		&i.Decimals,
		&i.IsNative,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveTokensByNetwork = `
SELECT id, network_id, symbol, name, contract_address, decimals, is_native,
       active, created_at, updated_at
FROM tokens
WHERE network_id = $1 AND active = true
ORDER BY symbol
`

// ListActiveTokensByNetwork returns all active tokens on a network.
func (q *Queries) ListActiveTokensByNetwork(ctx context.Context, networkID uuid.UUID) ([]Token, error) {
	rows, err := q.db.Query(ctx, listActiveTokensByNetwork, networkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Token
	for rows.Next() {
		var i Token
		if err := rows.Scan(
			&i.ID,
			&i.NetworkID,
			&i.Symbol,
			&i.Name,
			&i.ContractAddress,
			&i.Decimals,
			&i.IsNative,
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
