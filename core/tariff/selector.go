package tariff

import (
	"tolltariff/core/types"
)

// SelectApplicableRates picks the rates that apply to originGroup.
//
// Without an origin group every rate is returned. Otherwise preferential
// rates of that group win over ordinary rates, which win over the full
// list. Percent-basis rates never count as preferential or ordinary duty
// at either level.
func SelectApplicableRates(c *types.Commodity, originGroup string) []types.Rate {
	if originGroup == "" {
		return c.Rates
	}

	var preferred, ordinary []types.Rate
	for _, r := range c.Rates {
		if r.IsPercent() {
			continue
		}
		if r.Agreement() == originGroup {
			preferred = append(preferred, r)
		}
		if r.IsOrdinary() {
			ordinary = append(ordinary, r)
		}
	}

	switch {
	case len(preferred) > 0:
		return preferred
	case len(ordinary) > 0:
		return ordinary
	default:
		return c.Rates
	}
}

// DescribedRate is a rate annotated with its agreement's display name
type DescribedRate struct {
	types.Rate
	AgreementName *string `json:"agreement_name"`
}

// DescribeRates annotates rates with agreement names
func DescribeRates(rates []types.Rate, dir GroupResolver) []DescribedRate {
	out := make([]DescribedRate, 0, len(rates))
	for _, r := range rates {
		out = append(out, DescribedRate{
			Rate:          r,
			AgreementName: dir.GroupNamePtr(r.AgreementCode),
		})
	}
	return out
}

// CommodityView is a commodity with the rates selected for an origin group
type CommodityView struct {
	types.CommoditySummary
	Rates []DescribedRate `json:"rates"`
}

// View selects and describes the rates of c for originGroup
func View(c *types.Commodity, originGroup string, dir GroupResolver) CommodityView {
	return CommodityView{
		CommoditySummary: c.Summary(),
		Rates:            DescribeRates(SelectApplicableRates(c, originGroup), dir),
	}
}
