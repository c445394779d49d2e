package tariff

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"tolltariff/core/directory"
	"tolltariff/core/types"
)

func rate(agreement string, basis types.RateBasis, value string) types.Rate {
	r := types.Rate{
		OriginScope:   types.WildcardScope,
		Basis:         basis,
		Value:         decimal.RequireFromString(value),
		AgreementCode: types.StringPtr(agreement),
	}
	if basis != types.BasisPercent {
		r.Currency = types.StringPtr("NOK")
	}
	if basis == types.BasisPerKg {
		r.Unit = types.StringPtr("kg")
	}
	return r
}

func commodity(rates ...types.Rate) *types.Commodity {
	return &types.Commodity{Code: "25081000", Rates: rates}
}

func agreements(rates []types.Rate) []string {
	out := make([]string, 0, len(rates))
	for _, r := range rates {
		out = append(out, r.Agreement()+":"+string(r.Basis)+":"+r.Value.String())
	}
	return out
}

func TestSelectApplicableRates(t *testing.T) {
	tests := []struct {
		name   string
		rates  []types.Rate
		origin string
		want   []string
	}{
		{
			name: "no origin returns everything",
			rates: []types.Rate{
				rate("", types.BasisPercent, "25"),
				rate("EUE", types.BasisPerKg, "0"),
			},
			origin: "",
			want:   []string{":percent:25", "EUE:per_kg:0"},
		},
		{
			name: "preferential beats ordinary",
			rates: []types.Rate{
				rate("TAL", types.BasisPerKg, "3.5"),
				rate("EUE", types.BasisPerKg, "0"),
				rate("EUE", types.BasisPerItem, "1"),
				rate("TIN", types.BasisPerKg, "1"),
			},
			origin: "EUE",
			want:   []string{"EUE:per_kg:0", "EUE:per_item:1"},
		},
		{
			name: "ordinary variants when no preference",
			rates: []types.Rate{
				rate("", types.BasisPerKg, "3.5"),
				rate("TALL", types.BasisPerItem, "2"),
				rate("ALLE", types.BasisPerKg, "1"),
				rate("TIN", types.BasisPerKg, "0"),
			},
			origin: "EUE",
			want:   []string{":per_kg:3.5", "TALL:per_item:2", "ALLE:per_kg:1"},
		},
		{
			name: "percent preferential is not preferential",
			rates: []types.Rate{
				rate("TAL", types.BasisPerKg, "3.5"),
				rate("EUE", types.BasisPercent, "0"),
			},
			origin: "EUE",
			want:   []string{"TAL:per_kg:3.5"},
		},
		{
			name: "falls back to everything",
			rates: []types.Rate{
				rate("", types.BasisPercent, "10"),
				rate("EUE", types.BasisPercent, "0"),
			},
			origin: "EUE",
			want:   []string{":percent:10", "EUE:percent:0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agreements(SelectApplicableRates(commodity(tt.rates...), tt.origin))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// A matching non-percent rate must never be replaced by the ordinary set.
func TestSelectPrecedenceProperty(t *testing.T) {
	ordinary := rate("", types.BasisPerKg, "2")
	origins := []string{"EUE", "TIN", "TUK", "TEF"}

	for _, origin := range origins {
		for _, basis := range []types.RateBasis{types.BasisPerKg, types.BasisPerItem} {
			pref := rate(origin, basis, "1")
			c := commodity(ordinary, pref, rate("TOES", types.BasisPerKg, "0"))

			got := SelectApplicableRates(c, origin)
			if reflect.DeepEqual(got, []types.Rate{ordinary}) {
				t.Errorf("origin %s basis %s: got the ordinary set", origin, basis)
			}
			for _, r := range got {
				if r.Agreement() != origin {
					t.Errorf("origin %s: unexpected rate %s", origin, r.Agreement())
				}
			}
		}
	}
}

func TestSelectPercentOnlyFallsBackToAllRates(t *testing.T) {
	exempt := rate("EUE", types.BasisPercent, "0")
	exempt.IsExemption = true
	c := &types.Commodity{
		Code:  "0101.21",
		Rates: []types.Rate{rate("", types.BasisPercent, "10"), exempt},
	}

	got := SelectApplicableRates(c, "EU")
	if len(got) != 2 {
		t.Fatalf("percent-only commodity should fall back to all rates, got %v", agreements(got))
	}
}

func TestFindZeroDutyAgreements(t *testing.T) {
	dir := directory.New()
	c := commodity(
		rate("", types.BasisPercent, "0"),
		rate("EUE", types.BasisPerKg, "0.00"),
		rate("TIN", types.BasisPerKg, "0.01"),
		rate("", types.BasisPerItem, "0"),
		rate("EUE", types.BasisPerItem, "0"),
	)

	got := FindZeroDutyAgreements(c, dir)
	if len(got) != 3 {
		t.Fatalf("expected 3 zero-duty entries, got %d", len(got))
	}

	if got[0].AgreementCode == nil || *got[0].AgreementCode != "EUE" {
		t.Errorf("first entry should be EUE, got %v", got[0].AgreementCode)
	}
	if got[0].Name == nil || *got[0].Name != "European Union" {
		t.Errorf("expected EU name, got %v", got[0].Name)
	}
	if len(got[0].Countries) != 27 {
		t.Errorf("expected 27 EU countries, got %d", len(got[0].Countries))
	}
	if got[0].Unit == nil || *got[0].Unit != "kg" {
		t.Errorf("expected unit kg, got %v", got[0].Unit)
	}

	if got[1].AgreementCode != nil || got[1].Name != nil || len(got[1].Countries) != 0 {
		t.Errorf("ordinary zero entry should carry no agreement, got %+v", got[1])
	}
	if got[1].Basis != types.BasisPerItem {
		t.Errorf("expected per_item, got %s", got[1].Basis)
	}

	// duplicates are kept
	if got[2].AgreementCode == nil || *got[2].AgreementCode != "EUE" {
		t.Errorf("duplicate EUE entry missing: %+v", got[2])
	}
}

func TestFindZeroDutyEmpty(t *testing.T) {
	got := FindZeroDutyAgreements(commodity(rate("", types.BasisPercent, "0")), directory.New())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestZeroDutyCountries(t *testing.T) {
	dir := directory.New()
	c := commodity(
		rate("TUK", types.BasisPerKg, "0"),
		rate("TEF", types.BasisPerKg, "0"),
		rate("TUK", types.BasisPerItem, "0"),
		rate("", types.BasisPerKg, "0"),
	)

	got := ZeroDutyCountries(c, dir)
	isos := make([]string, 0, len(got))
	for _, c := range got {
		isos = append(isos, c.ISO)
	}
	want := []string{"NO", "IS", "LI", "CH", "GB"}
	if !reflect.DeepEqual(isos, want) {
		t.Errorf("got %v, want %v", isos, want)
	}
}

func TestListAgreements(t *testing.T) {
	dir := directory.New()
	c := commodity(
		rate("TIN", types.BasisPerKg, "1.5"),
		rate("", types.BasisPerKg, "4"),
		rate("EUE", types.BasisPercent, "0"),
		rate("EUE", types.BasisPerKg, "0"),
		rate("TAL", types.BasisPerKg, "4"),
		rate("TIN", types.BasisPerItem, "2"),
		rate("ZZZ", types.BasisPerItem, "1"),
	)

	got := ListAgreements(c, dir)
	codes := make([]string, 0, len(got))
	for _, a := range got {
		codes = append(codes, a.AgreementCode)
	}
	if !reflect.DeepEqual(codes, []string{"TIN", "EUE", "ZZZ"}) {
		t.Fatalf("unexpected agreement order %v", codes)
	}

	tin := got[0]
	if len(tin.Rates) != 2 || tin.Rates[0].Basis != types.BasisPerKg || tin.Rates[1].Basis != types.BasisPerItem {
		t.Errorf("unexpected TIN rates %+v", tin.Rates)
	}
	if !tin.Rates[0].Value.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("unexpected TIN value %s", tin.Rates[0].Value)
	}
	if len(got[1].Rates) != 1 {
		t.Errorf("EUE percent rate should be excluded, got %d rates", len(got[1].Rates))
	}
	if got[2].Name != nil || len(got[2].Countries) != 0 {
		t.Errorf("unknown agreement should have no name or countries: %+v", got[2])
	}
}

func TestBuildCatalog(t *testing.T) {
	got := BuildCatalog(map[string]int{"TIN": 3, "EUE": 5, "": 2, "XYZ": 1}, directory.New())
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Code != "EUE" || got[0].Count != 5 || got[0].Name == nil {
		t.Errorf("unexpected first entry %+v", got[0])
	}
	if got[2].Code != "XYZ" || got[2].Name != nil {
		t.Errorf("unexpected last entry %+v", got[2])
	}
}

func TestDescribeFTA(t *testing.T) {
	got := DescribeFTA([]FTAClassifier{
		{Classifier: "FREE", LandCodes: []string{"EU", "GCC"}},
	}, directory.New())

	if len(got) != 1 || len(got[0].Groups) != 2 {
		t.Fatalf("unexpected views %+v", got)
	}
	eu := got[0].Groups[0]
	if eu.Code != "EU" || eu.Name == nil || *eu.Name != "European Union" {
		t.Errorf("alias should resolve, got %+v", eu)
	}
	gcc := got[0].Groups[1]
	if gcc.Name != nil || len(gcc.Countries) != 0 {
		t.Errorf("unmapped group should be empty, got %+v", gcc)
	}
}

func TestViewDescribesSelectedRates(t *testing.T) {
	name := "Sand"
	c := commodity(rate("TAL", types.BasisPerKg, "3"), rate("TIN", types.BasisPerKg, "1"))
	c.Name = &name

	v := View(c, "IN", directory.New())
	if v.Code != c.Code || v.Name == nil || *v.Name != "Sand" {
		t.Errorf("summary not carried: %+v", v.CommoditySummary)
	}
	// "IN" is an alias, not an agreement code, so only ordinary rates match
	if len(v.Rates) != 1 || v.Rates[0].Agreement() != "TAL" {
		t.Fatalf("unexpected rates %+v", v.Rates)
	}
	if v.Rates[0].AgreementName == nil || *v.Rates[0].AgreementName != "Ordinary tariff (baseline)" {
		t.Errorf("unexpected agreement name %v", v.Rates[0].AgreementName)
	}
}

func TestIdempotence(t *testing.T) {
	dir := directory.New()
	c := commodity(
		rate("TIN", types.BasisPerKg, "0"),
		rate("", types.BasisPerKg, "2"),
		rate("EUE", types.BasisPerItem, "0"),
	)

	if !reflect.DeepEqual(SelectApplicableRates(c, "TIN"), SelectApplicableRates(c, "TIN")) {
		t.Error("SelectApplicableRates not idempotent")
	}
	if !reflect.DeepEqual(FindZeroDutyAgreements(c, dir), FindZeroDutyAgreements(c, dir)) {
		t.Error("FindZeroDutyAgreements not idempotent")
	}
	if !reflect.DeepEqual(ListAgreements(c, dir), ListAgreements(c, dir)) {
		t.Error("ListAgreements not idempotent")
	}
}
