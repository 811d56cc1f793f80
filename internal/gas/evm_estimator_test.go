package gas_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFromAddr  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testToAddr    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	testTokenAddr = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

// fakeEVMClient implements gas.EVMClient with overridable behavior. Unset
// functions fail, so each test declares exactly the RPC surface it expects.
type fakeEVMClient struct {
	estimateGas      func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	headerByNumber   func(ctx context.Context, number *big.Int) (*types.Header, error)
	suggestGasTipCap func(ctx context.Context) (*big.Int, error)
	suggestGasPrice  func(ctx context.Context) (*big.Int, error)
	codeAt           func(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

func (f *fakeEVMClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if f.estimateGas == nil {
		return 0, errors.New("EstimateGas not stubbed")
	}
	return f.estimateGas(ctx, msg)
}

func (f *fakeEVMClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	if f.headerByNumber == nil {
		return nil, errors.New("HeaderByNumber not stubbed")
	}
	return f.headerByNumber(ctx, number)
}

func (f *fakeEVMClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if f.suggestGasTipCap == nil {
		return nil, errors.New("SuggestGasTipCap not stubbed")
	}
	return f.suggestGasTipCap(ctx)
}

func (f *fakeEVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if f.suggestGasPrice == nil {
		return nil, errors.New("SuggestGasPrice not stubbed")
	}
	return f.suggestGasPrice(ctx)
}

func (f *fakeEVMClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if f.codeAt == nil {
		return nil, errors.New("CodeAt not stubbed")
	}
	return f.codeAt(ctx, account, blockNumber)
}

func testEVMDescriptor() gas.NetworkDescriptor {
	return gas.NetworkDescriptor{
		Key:            "ethereum",
		ChainFamily:    gas.ChainFamilyEVM,
		ChainID:        1,
		NativeSymbol:   "ETH",
		NativeDecimals: 18,
		PriceSymbol:    "ethusdt",
		RPCURL:         "http://localhost:8545",
	}
}

func testEVMConfig() gas.EVMFeeConfig {
	return gas.EVMFeeConfig{
		NativeFallbackGasLimit: 21000,
		TokenFallbackGasLimit:  100000,
		FloorGasPrice:          big.NewInt(1_000_000_000),
		RetryAttempts:          1,
		RetryDelay:             time.Millisecond,
	}
}

func newTestEVMEstimator(client gas.EVMClient) *gas.EVMEstimator {
	return gas.NewEVMEstimator(testEVMDescriptor(), testEVMConfig(), func(rpcURL string) (gas.EVMClient, error) {
		return client, nil
	})
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestEVMEstimator_NativeTransfer_BaseFeePlusTip(t *testing.T) {
	client := &fakeEVMClient{
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			assert.Equal(t, testToAddr, msg.To.Hex())
			assert.Equal(t, big.NewInt(1000), msg.Value)
			return 21000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(2), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: gwei(10)}, nil
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		NetworkKey: "ethereum",
		From:       testFromAddr,
		To:         testToAddr,
		Asset:      gas.NativeAsset(18),
		Amount:     big.NewInt(1000),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), quote.GasLimit)
	assert.Equal(t, gwei(12), quote.GasPrice)
	// 21000 * 12 gwei = 0.000252 ETH
	assert.InDelta(t, 0.000252, quote.FeeNative, 1e-12)
	assert.Empty(t, quote.Warnings)
}

func TestEVMEstimator_NativeTransfer_ClampsToMinimumGas(t *testing.T) {
	client := &fakeEVMClient{
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			return 20000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(1), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: gwei(5)}, nil
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.NativeAsset(18),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), quote.GasLimit)
}

func TestEVMEstimator_NativeTransfer_ZeroAmountSimulatesOneWei(t *testing.T) {
	var simulated *big.Int
	client := &fakeEVMClient{
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			simulated = msg.Value
			return 21000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(1), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return nil, errors.New("header unavailable")
		},
	}

	est := newTestEVMEstimator(client)
	_, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:     testToAddr,
		Asset:  gas.NativeAsset(18),
		Amount: big.NewInt(0),
	})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), simulated)
}

func TestEVMEstimator_EverythingDown_FallbackConstants(t *testing.T) {
	down := errors.New("connection refused")
	client := &fakeEVMClient{
		estimateGas:      func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) { return 0, down },
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) { return nil, down },
		suggestGasPrice:  func(ctx context.Context) (*big.Int, error) { return nil, down },
		headerByNumber:   func(ctx context.Context, number *big.Int) (*types.Header, error) { return nil, down },
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.NativeAsset(18),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), quote.GasLimit)
	assert.Equal(t, big.NewInt(1_000_000_000), quote.GasPrice)
	// 21000 gas at the 1 gwei floor = 0.000021 ETH
	assert.InDelta(t, 0.000021, quote.FeeNative, 1e-12)
	assert.Contains(t, quote.Warnings, gas.WarnSimulationFallback)
	assert.Contains(t, quote.Warnings, gas.WarnGasPriceFloor)
}

func TestEVMEstimator_DialFailure_FallbackQuote(t *testing.T) {
	est := gas.NewEVMEstimator(testEVMDescriptor(), testEVMConfig(), func(rpcURL string) (gas.EVMClient, error) {
		return nil, errors.New("no route to host")
	})

	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.NativeAsset(18),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), quote.GasLimit)
	assert.Equal(t, big.NewInt(1_000_000_000), quote.GasPrice)
	assert.Contains(t, quote.Warnings, gas.WarnSimulationFallback)
	assert.Contains(t, quote.Warnings, gas.WarnGasPriceFloor)
}

func TestEVMEstimator_LegacyGasPriceWhenTipUnavailable(t *testing.T) {
	client := &fakeEVMClient{
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			return 21000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return nil, errors.New("method not found")
		},
		suggestGasPrice: func(ctx context.Context) (*big.Int, error) {
			return gwei(5), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{}, nil // pre-1559 chain: no base fee
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.NativeAsset(18),
	})
	require.NoError(t, err)

	assert.Equal(t, gwei(5), quote.GasPrice)
	assert.Empty(t, quote.Warnings)
}

func TestEVMEstimator_InvalidAddresses(t *testing.T) {
	est := newTestEVMEstimator(&fakeEVMClient{})

	tests := []struct {
		name string
		req  gas.FeeQuoteRequest
	}{
		{
			name: "bad to address",
			req:  gas.FeeQuoteRequest{To: "not-an-address", Asset: gas.NativeAsset(18)},
		},
		{
			name: "bad from address",
			req:  gas.FeeQuoteRequest{From: "0x123", To: testToAddr, Asset: gas.NativeAsset(18)},
		},
		{
			name: "bad token contract",
			req:  gas.FeeQuoteRequest{To: testToAddr, Asset: gas.AssetDescriptor{ContractAddress: "usdt"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := est.EstimateNativeFee(context.Background(), tt.req)
			assert.Nil(t, quote)
			assert.ErrorIs(t, err, gas.ErrInvalidAddress)
		})
	}
}

func TestEVMEstimator_TokenTransfer_EncodesCalldata(t *testing.T) {
	var calldata []byte
	client := &fakeEVMClient{
		codeAt: func(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
			assert.Equal(t, testTokenAddr, account.Hex())
			return []byte{0x60, 0x80}, nil
		},
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			assert.Equal(t, testTokenAddr, msg.To.Hex())
			calldata = msg.Data
			return 65000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(1), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: gwei(9)}, nil
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		From:   testFromAddr,
		To:     testToAddr,
		Asset:  gas.AssetDescriptor{ContractAddress: testTokenAddr, Decimals: 6},
		Amount: nil, // simulate 1 smallest unit
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(65000), quote.GasLimit)
	require.Len(t, calldata, 68)
	// transfer(address,uint256) selector
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, calldata[:4])
	assert.Equal(t, common.HexToAddress(testToAddr), common.BytesToAddress(calldata[4:36]))
	assert.Equal(t, int64(1), new(big.Int).SetBytes(calldata[36:68]).Int64())
}

func TestEVMEstimator_TokenTransfer_SimulationFallback(t *testing.T) {
	client := &fakeEVMClient{
		codeAt: func(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
			return []byte{0x60}, nil
		},
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			return 0, errors.New("execution reverted")
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(1), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: gwei(9)}, nil
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.AssetDescriptor{ContractAddress: testTokenAddr},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(100000), quote.GasLimit)
	assert.Contains(t, quote.Warnings, gas.WarnSimulationFallback)
}

func TestEVMEstimator_TokenTransfer_NoBytecodeIsHardError(t *testing.T) {
	client := &fakeEVMClient{
		codeAt: func(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
			return nil, nil
		},
	}

	est := newTestEVMEstimator(client)
	quote, err := est.EstimateNativeFee(context.Background(), gas.FeeQuoteRequest{
		To:    testToAddr,
		Asset: gas.AssetDescriptor{ContractAddress: testTokenAddr},
	})
	assert.Nil(t, quote)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bytecode")
}

func TestEVMEstimator_DialsOnceAcrossEstimates(t *testing.T) {
	client := &fakeEVMClient{
		estimateGas: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
			return 21000, nil
		},
		suggestGasTipCap: func(ctx context.Context) (*big.Int, error) {
			return gwei(1), nil
		},
		headerByNumber: func(ctx context.Context, number *big.Int) (*types.Header, error) {
			return &types.Header{BaseFee: gwei(1)}, nil
		},
	}

	dialCount := 0
	est := gas.NewEVMEstimator(testEVMDescriptor(), testEVMConfig(), func(rpcURL string) (gas.EVMClient, error) {
		dialCount++
		return client, nil
	})

	req := gas.FeeQuoteRequest{To: testToAddr, Asset: gas.NativeAsset(18)}
	for i := 0; i < 3; i++ {
		_, err := est.EstimateNativeFee(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, dialCount)
}
