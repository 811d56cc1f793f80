package gas

import (
	"context"
	"errors"
	"math/big"
	"time"
)

// ChainFamily distinguishes fee mechanics, not deployments. All EVM chains
// share one estimator implementation; TON has its own.
type ChainFamily string

const (
	ChainFamilyEVM ChainFamily = "evm"
	ChainFamilyTON ChainFamily = "ton"
)

// NetworkDescriptor is the per-network configuration an estimator is
// parameterized with. Descriptors are immutable and loaded once per process;
// adding an EVM chain is a data change, not a code change.
type NetworkDescriptor struct {
	Key            string
	ChainFamily    ChainFamily
	ChainID        int64
	NativeSymbol   string
	NativeDecimals uint8
	PriceSymbol    string
	RPCURL         string
	// AddrStateRPCURL is a second endpoint used by the TON estimator to
	// resolve destination account state; falls back to RPCURL when empty.
	AddrStateRPCURL string
}

// AssetDescriptor describes what is being transferred: the native coin or a
// fungible token identified by its contract address.
type AssetDescriptor struct {
	IsNative        bool
	ContractAddress string
	Decimals        uint8
}

// NativeAsset returns the descriptor for a network's native coin.
func NativeAsset(decimals uint8) AssetDescriptor {
	return AssetDescriptor{IsNative: true, Decimals: decimals}
}

// FeeQuoteRequest is the input to a fee estimate. Amount is in the chain's
// smallest unit; nil or zero amounts are simulated as 1 smallest unit to
// avoid zero-value-transfer reverts.
type FeeQuoteRequest struct {
	NetworkKey string
	From       string
	To         string
	Asset      AssetDescriptor
	Amount     *big.Int
}

// FeeBreakdown exposes the inputs of the TON safety-fee policy so callers and
// tests can audit which multiplier was applied.
type FeeBreakdown struct {
	BaseFeeNano        *big.Int `json:"base_fee_nano"`
	InitBufferNano     *big.Int `json:"init_buffer_nano"`
	Multiplier         float64  `json:"multiplier"`
	DestUninitialized  bool     `json:"dest_uninitialized"`
	RecommendedFeeNano *big.Int `json:"recommended_fee_nano"`
}

// Quote is a fee model's native-unit output, before fiat normalization.
// GasLimit and GasPrice are zero/nil for chains without a gas market.
type Quote struct {
	GasLimit  uint64
	GasPrice  *big.Int
	FeeNative float64
	Breakdown *FeeBreakdown
	Warnings  []string
}

// FeeQuoteResult is the canonical, chain-agnostic estimate returned to
// callers. FeeFiat is floored to a whole unit of the fiat target (IDR has no
// subunits). It is never persisted by this subsystem.
type FeeQuoteResult struct {
	NetworkKey       string        `json:"network"`
	ChainFamily      ChainFamily   `json:"chain_family"`
	ChainID          int64         `json:"chain_id,omitempty"`
	NativeSymbol     string        `json:"symbol"`
	GasLimit         uint64        `json:"gas_limit,omitempty"`
	GasPrice         string        `json:"gas_price,omitempty"`
	FeeNative        float64       `json:"fee_native"`
	FeeNativeDisplay string        `json:"fee_native_display"`
	FeeUSD           float64       `json:"fee_usd"`
	FeeFiat          int64         `json:"fee_fiat"`
	FiatCurrency     string        `json:"fiat_currency"`
	Breakdown        *FeeBreakdown `json:"breakdown,omitempty"`
	Warnings         []string      `json:"warnings,omitempty"`
}

// PriceSnapshot is a cached read of the two price legs needed to express a
// native fee in the fiat target. A missing leg is reported as 0 plus a
// warning, never as an error.
type PriceSnapshot struct {
	NativeUSD   float64
	USDFiatRate float64
	FetchedAt   time.Time
	Warnings    []string
}

// PriceOracle produces price snapshots for a native-asset symbol and a fiat
// conversion pair. Implementations cache with a short TTL.
type PriceOracle interface {
	Snapshot(ctx context.Context, priceSymbol, fiatPair string) PriceSnapshot
}

// Estimator computes the native-unit fee for a prospective transfer on one
// network. Implementations must not fail on degraded RPC data; they fall back
// to safe constants and annotate Warnings instead.
type Estimator interface {
	Network() NetworkDescriptor
	EstimateNativeFee(ctx context.Context, req FeeQuoteRequest) (*Quote, error)
}

// Warning messages attached to degraded estimates.
const (
	WarnSimulationFallback    = "gas simulation failed; using fallback gas limit"
	WarnGasPriceFloor         = "gas price discovery failed; using floor gas price"
	WarnNativePriceMissing    = "native price missing or zero"
	WarnFiatRateMissing       = "fiat conversion rate missing or zero"
	WarnFeeEstimateShape      = "fee estimate response shape unsupported"
	WarnFeeEstimateUnavailable = "node fee estimation unavailable"
)

var (
	// ErrUnsupportedNetwork is returned when a network key has no estimator.
	ErrUnsupportedNetwork = errors.New("unsupported network")
	// ErrInvalidAddress is returned for addresses the target chain cannot parse.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrUnsupportedAsset is returned for asset kinds an estimator cannot
	// quote (e.g. jetton transfers on TON).
	ErrUnsupportedAsset = errors.New("unsupported asset")
)

// simulationAmount returns the amount to use in a simulated transfer:
// the request amount when positive, otherwise 1 smallest unit.
func simulationAmount(amount *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(1)
	}
	return amount
}
