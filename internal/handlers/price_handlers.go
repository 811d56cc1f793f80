package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PriceHandler exposes stored prices and fiat rates.
type PriceHandler struct {
	common *CommonServices
}

// NewPriceHandler creates a new instance of PriceHandler
func NewPriceHandler(common *CommonServices) *PriceHandler {
	return &PriceHandler{common: common}
}

// PriceResponse represents a stored crypto price.
type PriceResponse struct {
	Symbol   string  `json:"symbol"`
	PriceUSD float64 `json:"price_usd"`
}

// GetPrice godoc
// @Summary Get stored price for a symbol
// @Tags prices
// @Produce json
// @Param symbol path string true "Price symbol, e.g. ethusdt"
// @Success 200 {object} PriceResponse
// @Failure 404 {object} ErrorResponse
// @Router /prices/{symbol} [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	symbol := c.Param("symbol")

	price, err := h.common.db.GetCryptoPrice(c.Request.Context(), symbol)
	if err != nil {
		handleDBError(c, err, "Price symbol not found")
		return
	}

	sendSuccess(c, http.StatusOK, PriceResponse{
		Symbol:   price.Symbol,
		PriceUSD: price.PriceUsd,
	})
}

// RateResponse represents a stored fiat conversion rate.
type RateResponse struct {
	CurrencyPair string  `json:"currency_pair"`
	Rate         float64 `json:"rate"`
}

// GetExchangeRate godoc
// @Summary Get stored fiat conversion rate for a currency pair
// @Tags prices
// @Produce json
// @Param pair path string true "Currency pair, e.g. usd_idr"
// @Success 200 {object} RateResponse
// @Failure 404 {object} ErrorResponse
// @Router /rates/{pair} [get]
func (h *PriceHandler) GetExchangeRate(c *gin.Context) {
	pair := c.Param("pair")

	rate, err := h.common.db.GetExchangeRate(c.Request.Context(), pair)
	if err != nil {
		handleDBError(c, err, "Currency pair not found")
		return
	}

	sendSuccess(c, http.StatusOK, RateResponse{
		CurrencyPair: rate.CurrencyPair,
		Rate:         rate.Rate,
	})
}
