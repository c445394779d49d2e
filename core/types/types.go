// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions
// and the small predicates every layer needs to agree on.
package types

import "fmt"

// Currency represents a currency code
type Currency string

const (
	CurrencyNOK Currency = "NOK"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// RateBasis is the unit of measure a rate value is expressed in
type RateBasis string

const (
	// BasisPercent is a percentage of the customs value
	BasisPercent RateBasis = "percent"

	// BasisPerKg is an amount per kilogram
	BasisPerKg RateBasis = "per_kg"

	// BasisPerItem is an amount per item
	BasisPerItem RateBasis = "per_item"
)

// String returns the string representation
func (b RateBasis) String() string {
	return string(b)
}

// IsValid checks if the basis is a known basis
func (b RateBasis) IsValid() bool {
	switch b {
	case BasisPercent, BasisPerKg, BasisPerItem:
		return true
	default:
		return false
	}
}

// ParseRateBasis parses the wire form of a basis
func ParseRateBasis(s string) (RateBasis, error) {
	b := RateBasis(s)
	if !b.IsValid() {
		return "", fmt.Errorf("unknown rate basis: %q", s)
	}
	return b, nil
}

// WildcardScope is the origin scope of rates that apply to every origin
const WildcardScope = "*"

// OrdinaryLabel names the bucket of rates granted without any agreement
const OrdinaryLabel = "Ordinary (no agreement)"

// ordinaryGroups are agreement codes that denote the ordinary (MFN) duty
var ordinaryGroups = map[string]struct{}{
	"TAL":  {},
	"TALL": {},
	"ALLE": {},
}

// OrdinaryGroupCodes returns the reserved ordinary-duty codes
func OrdinaryGroupCodes() []string {
	return []string{"TAL", "TALL", "ALLE"}
}

// IsOrdinaryGroup reports whether code is one of the reserved ordinary codes
func IsOrdinaryGroup(code string) bool {
	_, ok := ordinaryGroups[code]
	return ok
}

// IsOrdinaryAgreement reports whether an optional agreement code means
// "ordinary duty, no preference": absent, empty or a reserved code.
func IsOrdinaryAgreement(code *string) bool {
	if code == nil || *code == "" {
		return true
	}
	return IsOrdinaryGroup(*code)
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences an optional string
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
