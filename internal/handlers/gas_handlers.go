package handlers

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/nusapay/nusapay-api/internal/services"
)

// GasHandler exposes the fee estimation engine over HTTP.
type GasHandler struct {
	common         *CommonServices
	engine         *gas.Engine
	networkService *services.NetworkService
	tokenService   *services.TokenService
}

// NewGasHandler creates a new instance of GasHandler
func NewGasHandler(common *CommonServices, engine *gas.Engine, networkService *services.NetworkService, tokenService *services.TokenService) *GasHandler {
	return &GasHandler{
		common:         common,
		engine:         engine,
		networkService: networkService,
		tokenService:   tokenService,
	}
}

// EstimateGasRequest represents the request body for a fee estimate.
// Amount is the transfer amount in the chain's smallest unit; when omitted
// the engine simulates 1 smallest unit.
type EstimateGasRequest struct {
	Network      string `json:"network" binding:"required"`
	From         string `json:"from"`
	To           string `json:"to" binding:"required"`
	TokenSymbol  string `json:"token_symbol"`
	TokenAddress string `json:"token_address"`
	Amount       string `json:"amount"`
}

// EstimateGas godoc
// @Summary Estimate transaction fee
// @Description Estimate the fee for a prospective transfer on a supported network, in native units, USD and IDR
// @Tags gas
// @Accept json
// @Produce json
// @Param request body EstimateGasRequest true "Estimate parameters"
// @Success 200 {object} gas.FeeQuoteResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /gas/estimate [post]
func (h *GasHandler) EstimateGas(c *gin.Context) {
	var req EstimateGasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	asset, ok := h.resolveAsset(c, &req)
	if !ok {
		return
	}

	var amount *big.Int
	if req.Amount != "" {
		parsed, valid := new(big.Int).SetString(req.Amount, 10)
		if !valid || parsed.Sign() < 0 {
			sendError(c, http.StatusBadRequest, "Invalid amount: expected a non-negative integer in smallest units", nil)
			return
		}
		amount = parsed
	}

	result, err := h.engine.EstimateFee(c.Request.Context(), gas.FeeQuoteRequest{
		NetworkKey: req.Network,
		From:       req.From,
		To:         req.To,
		Asset:      asset,
		Amount:     amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, gas.ErrUnsupportedNetwork):
			sendError(c, http.StatusNotFound, "Unsupported network", err)
		case errors.Is(err, gas.ErrInvalidAddress), errors.Is(err, gas.ErrUnsupportedAsset):
			sendError(c, http.StatusBadRequest, err.Error(), err)
		default:
			sendError(c, http.StatusInternalServerError, "Failed to estimate fee", err)
		}
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// resolveAsset turns the request's token fields into an asset descriptor:
// explicit contract address first, then catalog lookup by symbol, then the
// network's native coin.
func (h *GasHandler) resolveAsset(c *gin.Context, req *EstimateGasRequest) (gas.AssetDescriptor, bool) {
	if req.TokenAddress != "" {
		return gas.AssetDescriptor{ContractAddress: req.TokenAddress}, true
	}
	if req.TokenSymbol == "" {
		return gas.AssetDescriptor{IsNative: true}, true
	}

	network, err := h.networkService.GetNetworkByKey(c.Request.Context(), req.Network)
	if err != nil {
		// The engine validates the network key itself; an unknown key in the
		// catalog only matters for token lookups.
		sendError(c, http.StatusNotFound, "Unknown network for token lookup", err)
		return gas.AssetDescriptor{}, false
	}

	asset, err := h.tokenService.ResolveAsset(c.Request.Context(), network, req.TokenSymbol)
	if err != nil {
		sendError(c, http.StatusNotFound, err.Error(), err)
		return gas.AssetDescriptor{}, false
	}
	return asset, true
}

// NetworkListItem is one supported network in the list response.
type NetworkListItem struct {
	Key          string `json:"key"`
	ChainFamily  string `json:"chain_family"`
	ChainID      int64  `json:"chain_id,omitempty"`
	NativeSymbol string `json:"native_symbol"`
}

// ListNetworks godoc
// @Summary List supported networks
// @Tags gas
// @Produce json
// @Router /gas/networks [get]
func (h *GasHandler) ListNetworks(c *gin.Context) {
	descriptors := h.engine.Networks()
	items := make([]NetworkListItem, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, NetworkListItem{
			Key:          d.Key,
			ChainFamily:  string(d.ChainFamily),
			ChainID:      d.ChainID,
			NativeSymbol: d.NativeSymbol,
		})
	}
	sendList(c, items)
}
