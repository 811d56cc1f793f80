package gas

import (
	"fmt"
	"os"
	"strings"
)

// Default public RPC endpoints. Deployments override these per network via
// <KEY>_RPC_URL environment variables or the networks table.
var defaultNetworks = []NetworkDescriptor{
	{Key: "ethereum", ChainFamily: ChainFamilyEVM, ChainID: 1, NativeSymbol: "ETH", NativeDecimals: 18, PriceSymbol: "ethusdt", RPCURL: "https://eth.llamarpc.com"},
	{Key: "bsc", ChainFamily: ChainFamilyEVM, ChainID: 56, NativeSymbol: "BNB", NativeDecimals: 18, PriceSymbol: "bnbusdt", RPCURL: "https://bsc-dataseed.binance.org"},
	{Key: "polygon", ChainFamily: ChainFamilyEVM, ChainID: 137, NativeSymbol: "MATIC", NativeDecimals: 18, PriceSymbol: "maticusdt", RPCURL: "https://polygon-rpc.com"},
	{Key: "optimism", ChainFamily: ChainFamilyEVM, ChainID: 10, NativeSymbol: "ETH", NativeDecimals: 18, PriceSymbol: "ethusdt", RPCURL: "https://mainnet.optimism.io"},
	{Key: "arbitrum", ChainFamily: ChainFamilyEVM, ChainID: 42161, NativeSymbol: "ETH", NativeDecimals: 18, PriceSymbol: "ethusdt", RPCURL: "https://arb1.arbitrum.io/rpc"},
	{Key: "base", ChainFamily: ChainFamilyEVM, ChainID: 8453, NativeSymbol: "ETH", NativeDecimals: 18, PriceSymbol: "ethusdt", RPCURL: "https://mainnet.base.org"},
	{Key: "gravity", ChainFamily: ChainFamilyEVM, ChainID: 1625, NativeSymbol: "G", NativeDecimals: 18, PriceSymbol: "gusdt", RPCURL: "https://rpc.gravity.xyz"},
	{Key: "ton", ChainFamily: ChainFamilyTON, NativeSymbol: "TON", NativeDecimals: 9, PriceSymbol: "tonusdt", RPCURL: "https://toncenter.com/api/v2/jsonRPC"},
}

// DefaultNetworks returns the built-in network table with environment
// overrides applied.
func DefaultNetworks() []NetworkDescriptor {
	networks := make([]NetworkDescriptor, len(defaultNetworks))
	copy(networks, defaultNetworks)
	for i := range networks {
		envKey := fmt.Sprintf("%s_RPC_URL", strings.ToUpper(networks[i].Key))
		if url := os.Getenv(envKey); url != "" {
			networks[i].RPCURL = url
		}
		if networks[i].ChainFamily == ChainFamilyTON {
			if url := os.Getenv("TON_ADDR_STATE_RPC_URL"); url != "" {
				networks[i].AddrStateRPCURL = url
			}
		}
	}
	return networks
}
