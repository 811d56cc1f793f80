package gas

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nusapay/nusapay-api/internal/logger"
	"go.uber.org/zap"
)

// EVMClient is the subset of ethclient.Client the estimator needs.
type EVMClient interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// EVMDialer creates an RPC client for an endpoint.
type EVMDialer func(rpcURL string) (EVMClient, error)

// EVMFeeConfig holds the empirically tuned fallback constants for EVM
// estimation. The values mirror production behavior; deployments may override
// them but should not expect a derivation.
type EVMFeeConfig struct {
	// NativeFallbackGasLimit is used when simulation of a native transfer
	// fails; it is also the clamp floor for simulated native transfers.
	NativeFallbackGasLimit uint64
	// TokenFallbackGasLimit is a conservative constant for ERC-20 transfers
	// whose simulation fails.
	TokenFallbackGasLimit uint64
	// FloorGasPrice is the safe minimum when all price discovery fails.
	FloorGasPrice *big.Int
	RetryAttempts uint64
	RetryDelay    time.Duration
}

// DefaultEVMFeeConfig returns the production constants: 21000 / 100000 gas,
// 1 gwei floor, 3 attempts with 200ms spacing.
func DefaultEVMFeeConfig() EVMFeeConfig {
	return EVMFeeConfig{
		NativeFallbackGasLimit: 21000,
		TokenFallbackGasLimit:  100000,
		FloorGasPrice:          big.NewInt(1_000_000_000),
		RetryAttempts:          3,
		RetryDelay:             200 * time.Millisecond,
	}
}

const erc20TransferABI = `[{"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		panic("invalid ERC-20 transfer ABI: " + err.Error())
	}
	return parsed
}()

// EVMEstimator estimates transfer fees on an EIP-1559-style chain. One
// implementation serves every EVM network; per-chain differences are data in
// the NetworkDescriptor.
type EVMEstimator struct {
	desc   NetworkDescriptor
	cfg    EVMFeeConfig
	dial   EVMDialer
	logger *zap.Logger

	mu     sync.Mutex
	client EVMClient
}

// NewEVMEstimator creates an estimator for one EVM network. A nil dialer
// means ethclient.Dial; the client is dialed lazily on first estimate so that
// registry construction and Resolve stay free of network I/O.
func NewEVMEstimator(desc NetworkDescriptor, cfg EVMFeeConfig, dial EVMDialer) *EVMEstimator {
	if cfg.FloorGasPrice == nil {
		cfg = DefaultEVMFeeConfig()
	}
	if dial == nil {
		dial = func(rpcURL string) (EVMClient, error) {
			return ethclient.Dial(rpcURL)
		}
	}
	return &EVMEstimator{
		desc:   desc,
		cfg:    cfg,
		dial:   dial,
		logger: logger.Log,
	}
}

// Network returns the descriptor this estimator was built from.
func (e *EVMEstimator) Network() NetworkDescriptor {
	return e.desc
}

func (e *EVMEstimator) rpc() (EVMClient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	client, err := e.dial(e.desc.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s RPC: %w", e.desc.Key, err)
	}
	e.client = client
	return client, nil
}

// EstimateNativeFee computes gas limit and gas price for the prospective
// transfer and returns the fee in native display units. Simulation and price
// discovery failures degrade to fallback constants with warnings; only
// uninterpretable requests (bad addresses, token without bytecode) fail.
func (e *EVMEstimator) EstimateNativeFee(ctx context.Context, req FeeQuoteRequest) (*Quote, error) {
	from, err := e.parseFrom(req.From)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(req.To) {
		return nil, fmt.Errorf("%w: %q on chain %d", ErrInvalidAddress, req.To, e.desc.ChainID)
	}
	to := common.HexToAddress(req.To)

	client, err := e.rpc()
	if err != nil {
		// Cannot even construct a client: degrade the whole estimate to
		// fallback constants rather than failing the request.
		e.logger.Warn("EVM RPC dial failed, using fallback constants",
			zap.String("network", e.desc.Key),
			zap.Error(err))
		return e.fallbackQuote(req.Asset), nil
	}

	quote := &Quote{}

	if req.Asset.IsNative {
		quote.GasLimit = e.nativeGasLimit(ctx, client, from, to, req.Amount, quote)
	} else {
		limit, err := e.tokenGasLimit(ctx, client, from, to, req.Asset, req.Amount, quote)
		if err != nil {
			return nil, err
		}
		quote.GasLimit = limit
	}

	quote.GasPrice = e.gasPrice(ctx, client, quote)
	quote.FeeNative = feeInNativeUnits(quote.GasLimit, quote.GasPrice, e.desc.NativeDecimals)
	return quote, nil
}

func (e *EVMEstimator) parseFrom(from string) (common.Address, error) {
	if from == "" {
		// Sender is optional for an estimate; the zero address simulates fine
		// for transfers.
		return common.Address{}, nil
	}
	if !common.IsHexAddress(from) {
		return common.Address{}, fmt.Errorf("%w: %q on chain %d", ErrInvalidAddress, from, e.desc.ChainID)
	}
	return common.HexToAddress(from), nil
}

func (e *EVMEstimator) fallbackQuote(asset AssetDescriptor) *Quote {
	limit := e.cfg.NativeFallbackGasLimit
	if !asset.IsNative {
		limit = e.cfg.TokenFallbackGasLimit
	}
	price := new(big.Int).Set(e.cfg.FloorGasPrice)
	return &Quote{
		GasLimit:  limit,
		GasPrice:  price,
		FeeNative: feeInNativeUnits(limit, price, e.desc.NativeDecimals),
		Warnings:  []string{WarnSimulationFallback, WarnGasPriceFloor},
	}
}

// nativeGasLimit simulates a native-coin transfer. The simulated value is the
// requested amount or 1 wei, never zero.
func (e *EVMEstimator) nativeGasLimit(ctx context.Context, client EVMClient, from, to common.Address, amount *big.Int, quote *Quote) uint64 {
	msg := ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: simulationAmount(amount),
	}

	var limit uint64
	err := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		limit, callErr = client.EstimateGas(ctx, msg)
		return callErr
	})
	if err != nil {
		e.logger.Warn("native gas simulation failed, using fallback",
			zap.String("network", e.desc.Key),
			zap.Uint64("fallback_gas", e.cfg.NativeFallbackGasLimit),
			zap.Error(err))
		quote.Warnings = append(quote.Warnings, WarnSimulationFallback)
		return e.cfg.NativeFallbackGasLimit
	}
	if limit < e.cfg.NativeFallbackGasLimit {
		limit = e.cfg.NativeFallbackGasLimit
	}
	return limit
}

// tokenGasLimit simulates an ERC-20 transfer(to, amount) against the token
// contract. A contract with no bytecode is a hard error; a failed simulation
// falls back to the conservative constant.
func (e *EVMEstimator) tokenGasLimit(ctx context.Context, client EVMClient, from, to common.Address, asset AssetDescriptor, amount *big.Int, quote *Quote) (uint64, error) {
	if !common.IsHexAddress(asset.ContractAddress) {
		return 0, fmt.Errorf("%w: token contract %q on chain %d", ErrInvalidAddress, asset.ContractAddress, e.desc.ChainID)
	}
	contract := common.HexToAddress(asset.ContractAddress)

	var code []byte
	err := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		code, callErr = client.CodeAt(ctx, contract, nil)
		return callErr
	})
	if err == nil && len(code) == 0 {
		return 0, fmt.Errorf("token %s has no bytecode on chain %d", asset.ContractAddress, e.desc.ChainID)
	}
	if err != nil {
		e.logger.Warn("bytecode check failed, continuing",
			zap.String("network", e.desc.Key),
			zap.Error(err))
	}

	data, err := erc20ABI.Pack("transfer", to, simulationAmount(amount))
	if err != nil {
		return 0, fmt.Errorf("failed to encode transfer calldata: %w", err)
	}

	msg := ethereum.CallMsg{
		From: from,
		To:   &contract,
		Data: data,
	}

	var limit uint64
	err = withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		limit, callErr = client.EstimateGas(ctx, msg)
		return callErr
	})
	if err != nil {
		e.logger.Warn("token gas simulation failed, using fallback",
			zap.String("network", e.desc.Key),
			zap.String("token", asset.ContractAddress),
			zap.Uint64("fallback_gas", e.cfg.TokenFallbackGasLimit),
			zap.Error(err))
		quote.Warnings = append(quote.Warnings, WarnSimulationFallback)
		return e.cfg.TokenFallbackGasLimit, nil
	}
	return limit, nil
}

// gasPrice reads the chain's current fee suggestion: baseFeePerGas plus the
// suggested priority tip when the chain exposes EIP-1559 fields, the legacy
// suggested price otherwise, and the configured floor when everything fails.
// The returned price is always positive.
func (e *EVMEstimator) gasPrice(ctx context.Context, client EVMClient, quote *Quote) *big.Int {
	var tip *big.Int
	tipErr := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		tip, callErr = client.SuggestGasTipCap(ctx)
		return callErr
	})

	var header *types.Header
	headerErr := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		header, callErr = client.HeaderByNumber(ctx, nil)
		return callErr
	})

	priority := tip
	if tipErr != nil || priority == nil {
		var legacy *big.Int
		legacyErr := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
			var callErr error
			legacy, callErr = client.SuggestGasPrice(ctx)
			return callErr
		})
		if legacyErr != nil || legacy == nil {
			e.logger.Warn("gas price discovery failed, using floor",
				zap.String("network", e.desc.Key),
				zap.String("floor_wei", e.cfg.FloorGasPrice.String()))
			quote.Warnings = append(quote.Warnings, WarnGasPriceFloor)
			return new(big.Int).Set(e.cfg.FloorGasPrice)
		}
		priority = legacy
	}

	price := priority
	if headerErr == nil && header != nil && header.BaseFee != nil {
		price = new(big.Int).Add(header.BaseFee, priority)
	}
	if price.Sign() <= 0 {
		quote.Warnings = append(quote.Warnings, WarnGasPriceFloor)
		return new(big.Int).Set(e.cfg.FloorGasPrice)
	}
	return price
}

// feeInNativeUnits converts gasLimit*gasPrice from the smallest unit to the
// chain's display unit.
func feeInNativeUnits(gasLimit uint64, gasPrice *big.Int, decimals uint8) float64 {
	if gasPrice == nil {
		return 0
	}
	total := new(big.Int).Mul(new(big.Int).SetUint64(gasLimit), gasPrice)
	return smallestUnitToNative(total, decimals)
}

// smallestUnitToNative divides an integer amount by 10^decimals.
func smallestUnitToNative(amount *big.Int, decimals uint8) float64 {
	if amount == nil {
		return 0
	}
	f := new(big.Float).SetInt(amount)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	result, _ := new(big.Float).Quo(f, divisor).Float64()
	return result
}
