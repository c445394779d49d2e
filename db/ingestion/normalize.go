package ingestion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
)

// sentinelValue marks placeholder rates in the source data
var sentinelValue = decimal.RequireFromString("999999.99")

// ParseDecimalComma parses a Norwegian-formatted number ("1.234,50").
// ok is false for blank or malformed input.
func ParseDecimalComma(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsSentinel reports whether v is a placeholder rather than a real rate
func IsSentinel(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(sentinelValue)
}

// ParseDate parses YYYY-MM-DD; blank or malformed input yields nil
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// unitBasis maps a source unit code to a rate basis, currency and unit.
// P is percent, K is per kilogram, anything else is per item.
func unitBasis(code string) (types.RateBasis, *string, *string) {
	nok := types.StringPtr(string(types.CurrencyNOK))
	switch code {
	case "P":
		return types.BasisPercent, nil, nil
	case "K":
		return types.BasisPerKg, nok, types.StringPtr("kg")
	default:
		return types.BasisPerItem, nok, nil
	}
}
