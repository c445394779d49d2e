// Package tariff interprets a commodity's duty rates: which rates apply to an
// origin group, which agreements are duty free, and which preferential
// agreements exist at all.
//
// Every function here is pure. Commodities and directory snapshots are
// read-only inputs; callers may invoke these concurrently.
package tariff

import (
	"tolltariff/core/types"
)

// GroupResolver is the part of the group directory this package consults
type GroupResolver interface {
	GroupNamePtr(code *string) *string
	GroupCountries(code string) []types.Country
}

// countriesOf resolves an optional agreement code to its members
func countriesOf(dir GroupResolver, code *string) []types.Country {
	if code == nil {
		return []types.Country{}
	}
	return dir.GroupCountries(*code)
}
