package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is a single duty rate of a commodity. Rates are immutable once loaded.
type Rate struct {
	// OriginScope is "*" for all origins or a specific origin-group code
	OriginScope string `json:"country_iso"`

	// Basis determines how Value converts into money
	Basis RateBasis `json:"rate_type"`

	// Value is the non-negative magnitude of the rate
	Value decimal.Decimal `json:"value"`

	// Currency is set for per-unit bases (e.g. NOK)
	Currency *string `json:"currency,omitempty"`

	// Unit is the physical unit for per-unit bases (e.g. kg)
	Unit *string `json:"unit,omitempty"`

	// IsExemption is informational
	IsExemption bool `json:"is_exemption"`

	// AgreementCode is the preferential group; nil or TAL/TALL/ALLE is ordinary duty
	AgreementCode *string `json:"agreement,omitempty"`

	// Conditions is free text carried from the source
	Conditions *string `json:"conditions,omitempty"`

	// ValidFrom and ValidTo bound the validity window; not enforced here
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`

	// SourceURL records where the rate was imported from
	SourceURL string `json:"source_url,omitempty"`

	// Priority is 0 for ordinary and 10 for preferential imports
	Priority int `json:"priority,omitempty"`
}

// Agreement returns the agreement code or "" when absent
func (r Rate) Agreement() string {
	return StringValue(r.AgreementCode)
}

// IsOrdinary reports whether the rate is an ordinary (MFN) rate
func (r Rate) IsOrdinary() bool {
	return IsOrdinaryAgreement(r.AgreementCode)
}

// IsPercent reports whether the rate is percent-based
func (r Rate) IsPercent() bool {
	return r.Basis == BasisPercent
}

// IsZero reports whether the rate value is exactly zero
func (r Rate) IsZero() bool {
	return r.Value.IsZero()
}
