package tariff

import (
	"sort"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
)

// AgreementRate is one rate backing an agreement
type AgreementRate struct {
	Basis    types.RateBasis `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Unit     *string         `json:"unit"`
	Currency *string         `json:"currency"`
}

// Agreement is a preferential group present on a commodity
type Agreement struct {
	AgreementCode string          `json:"agreement"`
	Name          *string         `json:"agreement_name"`
	Countries     []types.Country `json:"countries"`
	Rates         []AgreementRate `json:"rates"`
}

// ListAgreements groups the preferential rates of c by agreement code.
// Percent rates and ordinary rates are excluded. Agreements appear in
// order of first occurrence; each is resolved against dir once.
func ListAgreements(c *types.Commodity, dir GroupResolver) []Agreement {
	out := []Agreement{}
	index := map[string]int{}

	for _, r := range c.Rates {
		if r.IsPercent() || r.IsOrdinary() {
			continue
		}
		code := r.Agreement()
		i, ok := index[code]
		if !ok {
			out = append(out, Agreement{
				AgreementCode: code,
				Name:          dir.GroupNamePtr(r.AgreementCode),
				Countries:     dir.GroupCountries(code),
			})
			i = len(out) - 1
			index[code] = i
		}
		out[i].Rates = append(out[i].Rates, AgreementRate{
			Basis:    r.Basis,
			Value:    r.Value,
			Unit:     r.Unit,
			Currency: r.Currency,
		})
	}
	return out
}

// CatalogEntry is an agreement code seen across the rate store
type CatalogEntry struct {
	Code  string  `json:"code"`
	Name  *string `json:"name"`
	Count int     `json:"count"`
}

// BuildCatalog names agreement occurrence counts, sorted by code
func BuildCatalog(counts map[string]int, dir GroupResolver) []CatalogEntry {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]CatalogEntry, 0, len(codes))
	for _, code := range codes {
		code := code
		out = append(out, CatalogEntry{
			Code:  code,
			Name:  dir.GroupNamePtr(&code),
			Count: counts[code],
		})
	}
	return out
}
