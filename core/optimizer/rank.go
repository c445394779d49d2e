package optimizer

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
)

// NoCandidatesHint is returned when no rate could be priced
const NoCandidatesHint = "No computable customs duty. Provide weight_kg, quantity, or customs_value, or import duty rates (tollavgiftssats)."

// GroupResolver is the part of the group directory the optimizer consults
type GroupResolver interface {
	GroupNamePtr(code *string) *string
	GroupCountries(code string) []types.Country
}

// Options control the shape of the ranking
type Options struct {
	// TopN keeps the N cheapest candidates; 0 or less keeps all
	TopN int

	// Flatten adds the deduplicated member countries of the ranked groups
	Flatten bool
}

// Candidate is the cheapest rate of one origin group
type Candidate struct {
	AgreementCode *string         `json:"agreement"`
	AgreementName *string         `json:"agreement_name"`
	Countries     []types.Country `json:"countries"`
	RateType      types.RateBasis `json:"rate_type"`
	RateValue     decimal.Decimal `json:"rate_value"`
	Unit          *string         `json:"unit"`
	Currency      *string         `json:"currency"`
	Cost          decimal.Decimal `json:"cost"`
	Basis         string          `json:"basis"`
}

// GroupRef names a group that contributed to a flattened country list
type GroupRef struct {
	AgreementCode *string `json:"agreement"`
	AgreementName *string `json:"agreement_name"`
}

// RankedResult is the outcome of RankOrigins. An empty ranking is a valid
// result and carries Hint.
type RankedResult struct {
	Code            string          `json:"code"`
	Recommendations []Candidate     `json:"recommendations"`
	Countries       []types.Country `json:"countries,omitempty"`
	FromGroups      []GroupRef      `json:"from_groups,omitempty"`
	Flattened       bool            `json:"flattened,omitempty"`
	Hint            string          `json:"hint,omitempty"`
}

// MarshalJSON emits countries and from_groups on every flattened result,
// as empty lists when no group has members.
func (r RankedResult) MarshalJSON() ([]byte, error) {
	type plain RankedResult
	out := struct {
		plain
		Countries  *[]types.Country `json:"countries,omitempty"`
		FromGroups *[]GroupRef      `json:"from_groups,omitempty"`
	}{plain: plain(r)}

	if r.Flattened {
		countries, groups := r.Countries, r.FromGroups
		if countries == nil {
			countries = []types.Country{}
		}
		if groups == nil {
			groups = []GroupRef{}
		}
		out.Countries, out.FromGroups = &countries, &groups
	}
	return json.Marshal(out)
}

// Empty reports whether no candidate could be ranked
func (r *RankedResult) Empty() bool {
	return len(r.Recommendations) == 0
}

// RankOrigins prices every rate of c, keeps the cheapest rate per origin
// group and ranks the groups by ascending cost.
//
// All ordinary codes share one group. Rates whose cost is unknown are
// dropped. Percent rates are priced like any other basis.
func RankOrigins(c *types.Commodity, dir GroupResolver, params ShipmentParams, opts Options) *RankedResult {
	result := &RankedResult{
		Code:            c.Code,
		Recommendations: bestPerGroup(c.Rates, dir, params),
	}

	if len(result.Recommendations) == 0 {
		result.Hint = NoCandidatesHint
		return result
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].Cost.LessThan(result.Recommendations[j].Cost)
	})

	if opts.TopN > 0 && opts.TopN < len(result.Recommendations) {
		result.Recommendations = result.Recommendations[:opts.TopN]
	}

	if opts.Flatten {
		result.Countries, result.FromGroups = flatten(result.Recommendations)
		result.Flattened = true
	}
	return result
}

// bestPerGroup returns one candidate per group in order of each group's
// first priced rate. A later rate replaces the candidate only when strictly
// cheaper.
func bestPerGroup(rates []types.Rate, dir GroupResolver, params ShipmentParams) []Candidate {
	var order []string
	best := map[string]types.Rate{}
	costs := map[string]decimal.Decimal{}
	bases := map[string]string{}

	for _, r := range rates {
		amount, basis, known := Cost(r, params)
		if !known {
			continue
		}

		key := groupKey(r)
		current, seen := costs[key]
		if !seen {
			order = append(order, key)
		} else if !amount.LessThan(current) {
			continue
		}
		best[key] = r
		costs[key] = amount
		bases[key] = basis
	}

	candidates := make([]Candidate, 0, len(order))
	for _, key := range order {
		candidates = append(candidates, newCandidate(best[key], costs[key], bases[key], dir))
	}
	return candidates
}

// groupKey collapses every ordinary code into the empty key
func groupKey(r types.Rate) string {
	if r.IsOrdinary() {
		return ""
	}
	return r.Agreement()
}

func newCandidate(r types.Rate, cost decimal.Decimal, basis string, dir GroupResolver) Candidate {
	c := Candidate{
		AgreementCode: r.AgreementCode,
		RateType:      r.Basis,
		RateValue:     r.Value,
		Unit:          r.Unit,
		Currency:      r.Currency,
		Cost:          cost,
		Basis:         basis,
	}
	if r.AgreementCode == nil || *r.AgreementCode == "" {
		label := types.OrdinaryLabel
		c.AgreementName = &label
		c.Countries = []types.Country{}
		return c
	}
	c.AgreementName = dir.GroupNamePtr(r.AgreementCode)
	c.Countries = dir.GroupCountries(*r.AgreementCode)
	return c
}

// flatten walks the ranking in order and collects member countries,
// deduplicated by ISO code in first-seen order
func flatten(ranked []Candidate) ([]types.Country, []GroupRef) {
	seen := map[string]struct{}{}
	countries := []types.Country{}
	groups := make([]GroupRef, 0, len(ranked))

	for _, cand := range ranked {
		for _, country := range cand.Countries {
			if country.ISO == "" {
				continue
			}
			if _, dup := seen[country.ISO]; dup {
				continue
			}
			seen[country.ISO] = struct{}{}
			name := country.Name
			if name == "" {
				name = country.ISO
			}
			countries = append(countries, types.Country{ISO: country.ISO, Name: name})
		}
		groups = append(groups, GroupRef{
			AgreementCode: cand.AgreementCode,
			AgreementName: cand.AgreementName,
		})
	}
	return countries, groups
}
