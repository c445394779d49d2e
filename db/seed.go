package db

import (
	"context"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
)

type demoCommodity struct {
	summary types.CommoditySummary
	rates   []types.Rate
}

func demoRate(scope string, basis types.RateBasis, value, agreement string, exemption bool) types.Rate {
	r := types.Rate{
		OriginScope:   scope,
		Basis:         basis,
		Value:         decimal.RequireFromString(value),
		IsExemption:   exemption,
		AgreementCode: types.StringPtr(agreement),
		SourceURL:     "demo",
	}
	if basis != types.BasisPercent {
		r.Currency = types.StringPtr(string(types.CurrencyNOK))
	}
	if basis == types.BasisPerKg {
		r.Unit = types.StringPtr("kg")
	}
	if agreement != "" && !types.IsOrdinaryGroup(agreement) {
		r.Priority = 10
	}
	return r
}

func demoData() []demoCommodity {
	return []demoCommodity{
		{
			summary: types.CommoditySummary{
				Code:        "0101.21",
				Name:        types.StringPtr("Live horses"),
				Description: types.StringPtr("Pure-bred breeding animals"),
			},
			rates: []types.Rate{
				demoRate(types.WildcardScope, types.BasisPercent, "10.0", "", false),
				demoRate("EU", types.BasisPercent, "0.0", "EUE", true),
			},
		},
		{
			summary: types.CommoditySummary{
				Code:        "02013000",
				Name:        types.StringPtr("Boneless bovine meat, fresh or chilled"),
				Description: types.StringPtr("Demo data with per-kg duty"),
			},
			rates: []types.Rate{
				demoRate(types.WildcardScope, types.BasisPerKg, "344.00", "TAL", false),
				demoRate(types.WildcardScope, types.BasisPerKg, "0", "TGS1", true),
				demoRate(types.WildcardScope, types.BasisPerKg, "120.50", "TEF", false),
				demoRate(types.WildcardScope, types.BasisPerItem, "2", "TUK", false),
			},
		},
	}
}

// SeedDemo inserts a small demo data set. It is safe to run repeatedly.
func SeedDemo(ctx context.Context, w Writer) (int, error) {
	added := 0
	for _, dc := range demoData() {
		if _, err := w.EnsureCommodity(ctx, dc.summary); err != nil {
			return added, err
		}
		for _, r := range dc.rates {
			_, exists, err := w.FindRate(ctx, dc.summary.Code, RateMatch{
				Scope:          r.OriginScope,
				Basis:          r.Basis,
				MatchAgreement: true,
				Agreement:      r.AgreementCode,
			})
			if err != nil {
				return added, err
			}
			if exists {
				continue
			}
			if _, err := w.InsertRate(ctx, dc.summary.Code, r); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}
