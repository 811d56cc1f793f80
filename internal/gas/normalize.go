package gas

import (
	"fmt"
	"math"
)

// normalizeQuote collapses a fee model's native-unit quote and a price
// snapshot into the canonical result. A missing price leg zeroes the affected
// fiat values; it never fails the estimate.
func normalizeQuote(desc NetworkDescriptor, quote *Quote, snapshot PriceSnapshot, fiatCurrency string) *FeeQuoteResult {
	feeUSD := 0.0
	if snapshot.NativeUSD > 0 {
		feeUSD = quote.FeeNative * snapshot.NativeUSD
	}

	feeFiat := int64(0)
	if snapshot.USDFiatRate > 0 && feeUSD > 0 {
		// The fiat target has no subunits; floor to a whole amount.
		feeFiat = int64(math.Floor(feeUSD * snapshot.USDFiatRate))
	}
	if feeFiat < 0 {
		feeFiat = 0
	}

	warnings := make([]string, 0, len(quote.Warnings)+len(snapshot.Warnings))
	warnings = append(warnings, quote.Warnings...)
	warnings = append(warnings, snapshot.Warnings...)

	result := &FeeQuoteResult{
		NetworkKey:       desc.Key,
		ChainFamily:      desc.ChainFamily,
		ChainID:          desc.ChainID,
		NativeSymbol:     desc.NativeSymbol,
		GasLimit:         quote.GasLimit,
		FeeNative:        quote.FeeNative,
		FeeNativeDisplay: fmt.Sprintf("%.8f %s", quote.FeeNative, desc.NativeSymbol),
		FeeUSD:           feeUSD,
		FeeFiat:          feeFiat,
		FiatCurrency:     fiatCurrency,
		Breakdown:        quote.Breakdown,
		Warnings:         warnings,
	}
	if quote.GasPrice != nil {
		result.GasPrice = quote.GasPrice.String()
	}
	return result
}
