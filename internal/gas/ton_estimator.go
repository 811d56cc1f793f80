package gas

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/nusapay/nusapay-api/internal/client/toncenter"
	"github.com/nusapay/nusapay-api/internal/logger"
	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"go.uber.org/zap"
)

// TONClient is the RPC surface the TON estimator needs. Implemented by
// toncenter.Client; substituted in tests.
type TONClient interface {
	Seqno(ctx context.Context, address string) (uint64, error)
	AddressState(ctx context.Context, address string) (string, error)
	EstimateFee(ctx context.Context, address string, bodyBOC []byte) (json.RawMessage, error)
}

// TONFeeConfig is the safety-fee policy applied on top of the node's raw
// estimate. Raw TON estimates systematically undercount real inclusion cost,
// so the recommended fee is ceil((raw + buffer) * multiplier). The asymmetry
// is deliberate: an uninitialized destination gets the flat init buffer and a
// small multiplier, an initialized one gets no buffer and a large multiplier.
// The values are empirically tuned; override them, don't derive them.
type TONFeeConfig struct {
	InitBufferNano          int64
	UninitializedMultiplier float64
	InitializedMultiplier   float64
	RetryAttempts           uint64
	RetryDelay              time.Duration
}

// DefaultTONFeeConfig returns the production policy: 0.005135735 TON buffer,
// 1.2x uninitialized, 3.56x initialized.
func DefaultTONFeeConfig() TONFeeConfig {
	return TONFeeConfig{
		InitBufferNano:          5_135_735,
		UninitializedMultiplier: 1.2,
		InitializedMultiplier:   3.56,
		RetryAttempts:           3,
		RetryDelay:              200 * time.Millisecond,
	}
}

// Wallet v4 external-message fields for the prospective transfer.
const (
	walletV4Subwallet    = 698983191
	walletV4TransferOp   = 0
	walletV4SendMode     = 3
	messageValidityGrace = 60 * time.Second
)

// TONEstimator estimates forward/storage fees on TON. The accounting model is
// message-passing, not a gas auction: the node prices a prospective wallet
// message and the estimator inflates that raw price per TONFeeConfig.
type TONEstimator struct {
	desc   NetworkDescriptor
	cfg    TONFeeConfig
	client TONClient
	logger *zap.Logger
}

func tonClientFor(desc NetworkDescriptor, cfg Config) TONClient {
	if cfg.TONClientFactory != nil {
		return cfg.TONClientFactory(desc)
	}
	return toncenter.NewClient(desc.RPCURL, desc.AddrStateRPCURL, cfg.TONAPIKey)
}

// NewTONEstimator creates the estimator for the TON network descriptor.
func NewTONEstimator(desc NetworkDescriptor, cfg TONFeeConfig, client TONClient) *TONEstimator {
	if cfg.UninitializedMultiplier == 0 || cfg.InitializedMultiplier == 0 {
		cfg = DefaultTONFeeConfig()
	}
	return &TONEstimator{
		desc:   desc,
		cfg:    cfg,
		client: client,
		logger: logger.Log,
	}
}

// Network returns the descriptor this estimator was built from.
func (e *TONEstimator) Network() NetworkDescriptor {
	return e.desc
}

// EstimateNativeFee prices a prospective native transfer. Jetton transfers
// are not supported. Fee-estimation failures degrade to a zero-fee result
// with a warning; only malformed addresses fail the request.
func (e *TONEstimator) EstimateNativeFee(ctx context.Context, req FeeQuoteRequest) (*Quote, error) {
	if !req.Asset.IsNative {
		return nil, fmt.Errorf("%w: jetton transfers need a jetton-specific estimator", ErrUnsupportedAsset)
	}
	if req.From == "" || req.To == "" {
		return nil, fmt.Errorf("%w: TON estimates require both from and to", ErrInvalidAddress)
	}
	from, err := address.ParseAddr(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, req.From, err)
	}
	to, err := address.ParseAddr(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, req.To, err)
	}

	seqnoFrom := e.seqno(ctx, from.String())
	seqnoTo := e.seqno(ctx, to.String())
	destUninit := e.destinationUninitialized(ctx, to.String(), seqnoTo)

	body, err := e.buildTransferBody(to, simulationAmount(req.Amount), seqnoFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to build prospective transfer: %w", err)
	}

	var raw json.RawMessage
	err = withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		raw, callErr = e.client.EstimateFee(ctx, from.String(), body)
		return callErr
	})
	if err != nil {
		e.logger.Warn("TON fee estimation unavailable, returning zero fee",
			zap.String("network", e.desc.Key),
			zap.Error(err))
		return &Quote{Warnings: []string{WarnFeeEstimateUnavailable}}, nil
	}

	baseNano, ok := normalizeFeeNano(raw)
	if !ok {
		e.logger.Warn("TON fee response shape unsupported, returning zero fee",
			zap.String("network", e.desc.Key))
		return &Quote{Warnings: []string{WarnFeeEstimateShape}}, nil
	}

	breakdown := e.applySafetyPolicy(baseNano, destUninit)
	return &Quote{
		FeeNative: smallestUnitToNative(breakdown.RecommendedFeeNano, e.desc.NativeDecimals),
		Breakdown: breakdown,
	}, nil
}

// seqno resolves an account's sequence number; uninitialized accounts have no
// seqno method to run, so any failure reads as 0.
func (e *TONEstimator) seqno(ctx context.Context, addr string) uint64 {
	var n uint64
	err := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		n, callErr = e.client.Seqno(ctx, addr)
		return callErr
	})
	if err != nil {
		return 0
	}
	return n
}

// destinationUninitialized resolves the recipient account state from the
// address-state endpoint, falling back to the seqno==0 heuristic when that
// endpoint is unavailable.
func (e *TONEstimator) destinationUninitialized(ctx context.Context, addr string, seqnoTo uint64) bool {
	var state string
	err := withRetry(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func() error {
		var callErr error
		state, callErr = e.client.AddressState(ctx, addr)
		return callErr
	})
	if err != nil || state == "" {
		return seqnoTo == 0
	}
	return strings.EqualFold(state, "uninitialized")
}

// buildTransferBody assembles the unsigned wallet-v4 external message the
// node will price: subwallet, validity window, seqno, transfer op, and one
// internal message carrying the amount.
func (e *TONEstimator) buildTransferBody(to *address.Address, amountNano *big.Int, seqno uint64) ([]byte, error) {
	internal := tlb.InternalMessage{
		IHRDisabled: true,
		Bounce:      false,
		DstAddr:     to,
		Amount:      tlb.FromNanoTON(amountNano),
		Body:        cell.BeginCell().EndCell(),
	}
	internalCell, err := tlb.ToCell(internal)
	if err != nil {
		return nil, err
	}

	validUntil := uint64(time.Now().Add(messageValidityGrace).Unix())
	body := cell.BeginCell().
		MustStoreUInt(walletV4Subwallet, 32).
		MustStoreUInt(validUntil, 32).
		MustStoreUInt(seqno, 32).
		MustStoreUInt(walletV4TransferOp, 8).
		MustStoreUInt(walletV4SendMode, 8).
		MustStoreRef(internalCell).
		EndCell()

	return body.ToBOC(), nil
}

// applySafetyPolicy computes recommended = ceil((base + buffer) * multiplier)
// with the buffer and multiplier chosen by destination state.
func (e *TONEstimator) applySafetyPolicy(baseNano *big.Int, destUninit bool) *FeeBreakdown {
	buffer := big.NewInt(0)
	multiplier := e.cfg.InitializedMultiplier
	if destUninit {
		buffer = big.NewInt(e.cfg.InitBufferNano)
		multiplier = e.cfg.UninitializedMultiplier
	}

	total := new(big.Float).SetInt(new(big.Int).Add(baseNano, buffer))
	total.Mul(total, big.NewFloat(multiplier))
	recommended, _ := total.Int(nil)
	if total.Cmp(new(big.Float).SetInt(recommended)) > 0 {
		recommended.Add(recommended, big.NewInt(1))
	}
	if recommended.Sign() < 0 {
		recommended = big.NewInt(0)
	}

	return &FeeBreakdown{
		BaseFeeNano:        new(big.Int).Set(baseNano),
		InitBufferNano:     buffer,
		Multiplier:         multiplier,
		DestUninitialized:  destUninit,
		RecommendedFeeNano: recommended,
	}
}
