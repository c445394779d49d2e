package tariff

import (
	"sort"

	"tolltariff/core/types"
)

// ZeroDutyAgreement is a rate that exempts goods from customs duty
type ZeroDutyAgreement struct {
	AgreementCode *string         `json:"agreement"`
	Name          *string         `json:"agreement_name"`
	Countries     []types.Country `json:"countries"`
	Basis         types.RateBasis `json:"type"`
	Unit          *string         `json:"unit"`
	Currency      *string         `json:"currency"`
}

// FindZeroDutyAgreements lists every non-percent rate of c whose value is
// exactly zero, in rate order. Duplicates are kept; the agreement may be
// absent when the ordinary duty is itself zero.
func FindZeroDutyAgreements(c *types.Commodity, dir GroupResolver) []ZeroDutyAgreement {
	out := []ZeroDutyAgreement{}
	for _, r := range c.Rates {
		if r.IsPercent() || !r.IsZero() {
			continue
		}
		out = append(out, ZeroDutyAgreement{
			AgreementCode: r.AgreementCode,
			Name:          dir.GroupNamePtr(r.AgreementCode),
			Countries:     countriesOf(dir, r.AgreementCode),
			Basis:         r.Basis,
			Unit:          r.Unit,
			Currency:      r.Currency,
		})
	}
	return out
}

// ZeroDutyCountries returns the members of every distinct zero-duty
// agreement of c, agreements visited in sorted code order. Ordinary
// rates do not contribute.
func ZeroDutyCountries(c *types.Commodity, dir GroupResolver) []types.Country {
	seen := map[string]struct{}{}
	var codes []string
	for _, z := range FindZeroDutyAgreements(c, dir) {
		if z.AgreementCode == nil || *z.AgreementCode == "" {
			continue
		}
		if _, ok := seen[*z.AgreementCode]; ok {
			continue
		}
		seen[*z.AgreementCode] = struct{}{}
		codes = append(codes, *z.AgreementCode)
	}
	sort.Strings(codes)

	countries := []types.Country{}
	for _, code := range codes {
		countries = append(countries, dir.GroupCountries(code)...)
	}
	return countries
}
