package gas

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// The closed set of response shapes a TON fee-estimation endpoint produces:
// a bare scalar, a query.fees breakdown with named component fees, a flat
// object carrying either a single total field or component fields, or
// something unrecognizable (normalized to nil / unsupported).

// componentFeeKeys are the recognized per-component fee fields, covering the
// snake_case and camelCase spellings seen across providers.
var componentFeeKeys = []string{
	"in_fwd_fee", "inFwdFee",
	"storage_fee", "storageFee",
	"gas_fee", "gasFee",
	"fwd_fee", "fwdFee",
	"forward_fee", "forwardFee",
	"fee",
}

// singleFeeKeys are fields that alone carry the whole fee.
var singleFeeKeys = []string{
	"total", "fee", "totalFee", "forward_fee", "forwardFee", "inFwdFee", "value",
}

// normalizeFeeNano reduces any recognized fee payload to a single
// smallest-unit (nanoton) integer. The second return value is false when no
// shape matched, meaning the endpoint's answer is unusable.
func normalizeFeeNano(raw json.RawMessage) (*big.Int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}

	// Scalar shape: a bare number or numeric string.
	if n, ok := parseFeeValue(raw); ok {
		return n, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	// query.fees breakdown: sum recognized components of source_fees and every
	// destination_fees entry.
	if typ, ok := obj["@type"]; ok && string(typ) == `"query.fees"` {
		if sum, found := sumQueryFees(obj); found {
			return sum, true
		}
	}

	// Flat object with one field carrying the whole fee.
	for _, key := range singleFeeKeys {
		if v, ok := obj[key]; ok {
			if n, ok := parseFeeValue(v); ok {
				return n, true
			}
		}
	}

	// Flat object with component fields: sum them.
	if sum, found := sumComponents(obj); found {
		return sum, true
	}

	return nil, false
}

func sumQueryFees(obj map[string]json.RawMessage) (*big.Int, bool) {
	sum := new(big.Int)
	found := false

	if rawSource, ok := obj["source_fees"]; ok {
		var source map[string]json.RawMessage
		if err := json.Unmarshal(rawSource, &source); err == nil {
			if s, f := sumComponents(source); f {
				sum.Add(sum, s)
				found = true
			}
		}
	}

	if rawDest, ok := obj["destination_fees"]; ok {
		var dests []json.RawMessage
		if err := json.Unmarshal(rawDest, &dests); err == nil {
			for _, d := range dests {
				if n, ok := parseFeeValue(d); ok {
					sum.Add(sum, n)
					found = true
					continue
				}
				var destObj map[string]json.RawMessage
				if err := json.Unmarshal(d, &destObj); err == nil {
					if s, f := sumComponents(destObj); f {
						sum.Add(sum, s)
						found = true
					}
				}
			}
		}
	}

	return sum, found
}

func sumComponents(obj map[string]json.RawMessage) (*big.Int, bool) {
	sum := new(big.Int)
	found := false
	for _, key := range componentFeeKeys {
		if v, ok := obj[key]; ok {
			if n, ok := parseFeeValue(v); ok {
				sum.Add(sum, n)
				found = true
			}
		}
	}
	return sum, found
}

// parseFeeValue accepts a JSON number or a numeric string and returns it as
// an integer nanoton amount. Fractional values are truncated.
func parseFeeValue(raw json.RawMessage) (*big.Int, bool) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return numberToNano(num.String())
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return numberToNano(strings.TrimSpace(s))
	}
	return nil, false
}

func numberToNano(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, true
	}
	// Scientific or fractional notation from sloppy providers.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return big.NewInt(int64(f)), true
}
