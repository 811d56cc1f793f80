package gas_test

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Well-known mainnet addresses with valid checksums.
	testTONFrom = "EQCD39VS5jcptHL8vMjEXrzGaRcCVYto7HUn4bpAOg8xqB2N"
	testTONTo   = "EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c"
)

// fakeTONClient implements gas.TONClient with overridable behavior.
type fakeTONClient struct {
	seqno        func(ctx context.Context, addr string) (uint64, error)
	addressState func(ctx context.Context, addr string) (string, error)
	estimateFee  func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error)
}

func (f *fakeTONClient) Seqno(ctx context.Context, addr string) (uint64, error) {
	if f.seqno == nil {
		return 0, errors.New("Seqno not stubbed")
	}
	return f.seqno(ctx, addr)
}

func (f *fakeTONClient) AddressState(ctx context.Context, addr string) (string, error) {
	if f.addressState == nil {
		return "", errors.New("AddressState not stubbed")
	}
	return f.addressState(ctx, addr)
}

func (f *fakeTONClient) EstimateFee(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
	if f.estimateFee == nil {
		return nil, errors.New("EstimateFee not stubbed")
	}
	return f.estimateFee(ctx, addr, bodyBOC)
}

func testTONDescriptor() gas.NetworkDescriptor {
	return gas.NetworkDescriptor{
		Key:            "ton",
		ChainFamily:    gas.ChainFamilyTON,
		NativeSymbol:   "TON",
		NativeDecimals: 9,
		PriceSymbol:    "tonusdt",
		RPCURL:         "http://localhost:8081/jsonRPC",
	}
}

func testTONConfig() gas.TONFeeConfig {
	return gas.TONFeeConfig{
		InitBufferNano:          5_135_735,
		UninitializedMultiplier: 1.2,
		InitializedMultiplier:   3.56,
		RetryAttempts:           1,
		RetryDelay:              time.Millisecond,
	}
}

func nativeTONRequest() gas.FeeQuoteRequest {
	return gas.FeeQuoteRequest{
		NetworkKey: "ton",
		From:       testTONFrom,
		To:         testTONTo,
		Asset:      gas.NativeAsset(9),
		Amount:     big.NewInt(1_000_000_000),
	}
}

func TestTONEstimator_InitializedDestination_AppliesLargeMultiplier(t *testing.T) {
	client := &fakeTONClient{
		seqno: func(ctx context.Context, addr string) (uint64, error) {
			return 42, nil
		},
		addressState: func(ctx context.Context, addr string) (string, error) {
			return "active", nil
		},
		estimateFee: func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
			assert.NotEmpty(t, bodyBOC)
			return json.RawMessage(`1000000`), nil
		},
	}

	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), client)
	quote, err := est.EstimateNativeFee(context.Background(), nativeTONRequest())
	require.NoError(t, err)

	require.NotNil(t, quote.Breakdown)
	b := quote.Breakdown
	assert.Equal(t, big.NewInt(1_000_000), b.BaseFeeNano)
	assert.Zero(t, b.InitBufferNano.Sign())
	assert.Equal(t, 3.56, b.Multiplier)
	assert.False(t, b.DestUninitialized)
	// ceil(1_000_000 * 3.56)
	recommended, _ := new(big.Float).SetInt(b.RecommendedFeeNano).Float64()
	assert.InDelta(t, 3_560_000, recommended, 1)
	assert.InDelta(t, recommended/1e9, quote.FeeNative, 1e-12)
	assert.Empty(t, quote.Warnings)
}

func TestTONEstimator_UninitializedDestination_AppliesInitBuffer(t *testing.T) {
	client := &fakeTONClient{
		seqno: func(ctx context.Context, addr string) (uint64, error) {
			if addr == testTONFrom {
				return 7, nil
			}
			return 0, nil
		},
		addressState: func(ctx context.Context, addr string) (string, error) {
			return "uninitialized", nil
		},
		estimateFee: func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
			return json.RawMessage(`1000000`), nil
		},
	}

	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), client)
	quote, err := est.EstimateNativeFee(context.Background(), nativeTONRequest())
	require.NoError(t, err)

	require.NotNil(t, quote.Breakdown)
	b := quote.Breakdown
	assert.Equal(t, big.NewInt(5_135_735), b.InitBufferNano)
	assert.Equal(t, 1.2, b.Multiplier)
	assert.True(t, b.DestUninitialized)
	// ceil((1_000_000 + 5_135_735) * 1.2)
	recommended, _ := new(big.Float).SetInt(b.RecommendedFeeNano).Float64()
	assert.InDelta(t, 7_362_882, recommended, 1)
}

func TestTONEstimator_StateEndpointDown_SeqnoHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		seqnoTo    uint64
		wantUninit bool
	}{
		{name: "zero seqno reads as uninitialized", seqnoTo: 0, wantUninit: true},
		{name: "positive seqno reads as initialized", seqnoTo: 3, wantUninit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeTONClient{
				seqno: func(ctx context.Context, addr string) (uint64, error) {
					if addr == testTONFrom {
						return 7, nil
					}
					return tt.seqnoTo, nil
				},
				addressState: func(ctx context.Context, addr string) (string, error) {
					return "", errors.New("endpoint unavailable")
				},
				estimateFee: func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
					return json.RawMessage(`500000`), nil
				},
			}

			est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), client)
			quote, err := est.EstimateNativeFee(context.Background(), nativeTONRequest())
			require.NoError(t, err)
			require.NotNil(t, quote.Breakdown)
			assert.Equal(t, tt.wantUninit, quote.Breakdown.DestUninitialized)
		})
	}
}

func TestTONEstimator_FeeEstimationDown_ZeroFeeWithWarning(t *testing.T) {
	client := &fakeTONClient{
		seqno: func(ctx context.Context, addr string) (uint64, error) {
			return 1, nil
		},
		addressState: func(ctx context.Context, addr string) (string, error) {
			return "active", nil
		},
		estimateFee: func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
			return nil, errors.New("503 service unavailable")
		},
	}

	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), client)
	quote, err := est.EstimateNativeFee(context.Background(), nativeTONRequest())
	require.NoError(t, err)

	assert.Zero(t, quote.FeeNative)
	assert.Nil(t, quote.Breakdown)
	assert.Equal(t, []string{gas.WarnFeeEstimateUnavailable}, quote.Warnings)
}

func TestTONEstimator_UnsupportedFeeShape_ZeroFeeWithWarning(t *testing.T) {
	client := &fakeTONClient{
		seqno: func(ctx context.Context, addr string) (uint64, error) {
			return 1, nil
		},
		addressState: func(ctx context.Context, addr string) (string, error) {
			return "active", nil
		},
		estimateFee: func(ctx context.Context, addr string, bodyBOC []byte) (json.RawMessage, error) {
			return json.RawMessage(`{"unexpected":"payload"}`), nil
		},
	}

	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), client)
	quote, err := est.EstimateNativeFee(context.Background(), nativeTONRequest())
	require.NoError(t, err)

	assert.Zero(t, quote.FeeNative)
	assert.Equal(t, []string{gas.WarnFeeEstimateShape}, quote.Warnings)
}

func TestTONEstimator_JettonTransfer_Unsupported(t *testing.T) {
	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), &fakeTONClient{})

	req := nativeTONRequest()
	req.Asset = gas.AssetDescriptor{ContractAddress: testTONTo, Decimals: 9}
	quote, err := est.EstimateNativeFee(context.Background(), req)
	assert.Nil(t, quote)
	assert.ErrorIs(t, err, gas.ErrUnsupportedAsset)
}

func TestTONEstimator_InvalidAddresses(t *testing.T) {
	est := gas.NewTONEstimator(testTONDescriptor(), testTONConfig(), &fakeTONClient{})

	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "missing from", from: "", to: testTONTo},
		{name: "missing to", from: testTONFrom, to: ""},
		{name: "malformed to", from: testTONFrom, to: "not-a-ton-address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := nativeTONRequest()
			req.From = tt.from
			req.To = tt.to
			quote, err := est.EstimateNativeFee(context.Background(), req)
			assert.Nil(t, quote)
			assert.ErrorIs(t, err, gas.ErrInvalidAddress)
		})
	}
}
