package gas

import (
	"context"

	"github.com/nusapay/nusapay-api/internal/logger"
	"go.uber.org/zap"
)

// Engine is the public entry point of the fee estimation subsystem: it
// resolves the fee model for a network, prices the prospective transfer in
// native units, and normalizes the result into the fiat target.
type Engine struct {
	registry     *Registry
	oracle       PriceOracle
	fiatPair     string
	fiatCurrency string
	logger       *zap.Logger
}

// NewEngine wires the registry and price oracle together. fiatPair is the
// exchange-rate lookup key (e.g. "usd_idr"), fiatCurrency the display code.
func NewEngine(registry *Registry, oracle PriceOracle, fiatPair, fiatCurrency string) *Engine {
	return &Engine{
		registry:     registry,
		oracle:       oracle,
		fiatPair:     fiatPair,
		fiatCurrency: fiatCurrency,
		logger:       logger.Log,
	}
}

// EstimateFee produces a best-effort, explicitly caveated fee estimate. Only
// requests that cannot be interpreted at all fail: unknown network keys,
// malformed addresses, assets the fee model cannot quote. Degraded RPC or
// price data yields fallback values plus warnings instead of errors.
func (e *Engine) EstimateFee(ctx context.Context, req FeeQuoteRequest) (*FeeQuoteResult, error) {
	estimator, err := e.registry.Resolve(req.NetworkKey)
	if err != nil {
		return nil, err
	}
	desc := estimator.Network()

	quote, err := estimator.EstimateNativeFee(ctx, req)
	if err != nil {
		return nil, err
	}

	snapshot := e.oracle.Snapshot(ctx, desc.PriceSymbol, e.fiatPair)
	result := normalizeQuote(desc, quote, snapshot, e.fiatCurrency)

	e.logger.Debug("computed fee estimate",
		zap.String("network", desc.Key),
		zap.Uint64("gas_limit", result.GasLimit),
		zap.String("gas_price", result.GasPrice),
		zap.Float64("fee_native", result.FeeNative),
		zap.Float64("fee_usd", result.FeeUSD),
		zap.Int64("fee_fiat", result.FeeFiat),
		zap.Strings("warnings", result.Warnings))

	return result, nil
}

// Networks returns the descriptors this engine can estimate for.
func (e *Engine) Networks() []NetworkDescriptor {
	return e.registry.Networks()
}
