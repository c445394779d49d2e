package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tolltariff/core/directory"
	"tolltariff/core/types"
	"tolltariff/db"
	"tolltariff/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const structureJSON = `{
  "sections": [{
    "type": "section",
    "chapters": [{
      "type": "chapter",
      "headings": [
        {"type": "commodity", "id": "25081000", "item": "Bentonite"},
        {"type": "heading", "subchapters": [
          {"type": "commodity", "hsNumber": 25082000, "description": "Decolourising earths"},
          {"type": "commodity", "id": "25081000", "item": "Duplicate"}
        ]}
      ]
    }]
  }]
}`

const dutyJSON = `{
  "versjon": "1",
  "varer": [
    {"id": "25081000", "avtalesatser": [
      {"landgruppe": "TALL", "sats": [{"satsVerdi": "1.234,50", "satsEnhet": "K", "fomdato": "2024-01-01", "tomdato": ""}]},
      {"landgruppe": "EUE", "sats": [
        {"satsVerdi": "0,00", "satsEnhet": "K", "fomdato": "2024-01-01"},
        {"satsVerdi": "999999,99", "satsEnhet": "K"},
        {"satsVerdi": "5", "satsEnhet": ""}
      ]},
      {"landgruppe": "TIN", "sats": [{"satsVerdi": "2,5", "satsEnhet": "S"}]},
      {"landgruppe": "TGB", "sats": [{"satsVerdi": "10", "satsEnhet": "P"}]}
    ]},
    {"id": "99999999", "avtalesatser": [
      {"landgruppe": "TALL", "sats": [{"satsVerdi": "1", "satsEnhet": "K"}]}
    ]}
  ]
}`

const feesJSON = `{
  "varer": [
    {"id": "25081000", "avgiftssatser": [
      {"landgruppe": "EUE", "avgiftstyper": [{"avgiftstype": "MV", "avgiftsgrupper": [{"enhet": "P", "sats": "0"}]}]},
      {"landgruppe": "ALLE", "avgiftstyper": [
        {"avgiftstype": "XX", "avgiftsgrupper": [{"enhet": "P", "sats": "1"}]},
        {"avgiftstype": "MV", "avgiftsgrupper": [
          {"enhet": "K", "sats": "3"},
          {"enhet": "P", "sats": "25,00", "fomdato": "2024-01-01"}
        ]}
      ]}
    ]}
  ]
}`

func TestParseDecimalComma(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0,00", "0", true},
		{"1.234,50", "1234.5", true},
		{" 12,5 ", "12.5", true},
		{"1 234,00", "1234", true},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDecimalComma(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDecimalComma(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParseDecimalComma(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestUnitBasis(t *testing.T) {
	basis, currency, unit := unitBasis("P")
	assert.Equal(t, types.BasisPercent, basis)
	assert.Nil(t, currency)
	assert.Nil(t, unit)

	basis, currency, unit = unitBasis("K")
	assert.Equal(t, types.BasisPerKg, basis)
	assert.Equal(t, "NOK", types.StringValue(currency))
	assert.Equal(t, "kg", types.StringValue(unit))

	basis, _, unit = unitBasis("S")
	assert.Equal(t, types.BasisPerItem, basis)
	assert.Nil(t, unit)
}

func TestParseStructure(t *testing.T) {
	items, err := ParseStructure([]byte(structureJSON))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "25081000", items[0].Code)
	assert.Equal(t, "Bentonite", types.StringValue(items[0].Name))
	assert.Equal(t, "25082000", items[1].Code)
	assert.Equal(t, "Decolourising earths", types.StringValue(items[1].Name))
}

func importAll(t *testing.T, store db.Store) *Result {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()
	p := NewPipeline(store).WithLogger(zaptest.NewLogger(t))

	res, err := p.ImportStructure(ctx, writeFile(t, dir, "structure.json", structureJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.NotEmpty(t, res.Hash)

	res, err = p.ImportDuty(ctx, writeFile(t, dir, "duty.json", dutyJSON), "https://example.test/duty")
	require.NoError(t, err)
	return res
}

func TestImportDuty(t *testing.T) {
	store := db.NewMemoryStore()
	res := importAll(t, store)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, 2, res.Skipped, "sentinel and unit-less entries")
	assert.Equal(t, 2, res.Processed)

	c, err := store.Lookup(context.Background(), "25081000")
	require.NoError(t, err)
	require.Len(t, c.Rates, 4)

	ordinary := c.Rates[0]
	assert.Nil(t, ordinary.AgreementCode, "ordinary groups carry no agreement")
	assert.Equal(t, 0, ordinary.Priority)
	assert.True(t, ordinary.Value.Equal(decimal.RequireFromString("1234.5")))
	assert.Equal(t, types.BasisPerKg, ordinary.Basis)
	require.NotNil(t, ordinary.ValidFrom)
	assert.Nil(t, ordinary.ValidTo)

	eu := c.Rates[1]
	assert.Equal(t, "EUE", eu.Agreement())
	assert.Equal(t, 10, eu.Priority)
	assert.True(t, eu.IsZero())

	assert.Equal(t, types.BasisPerItem, c.Rates[2].Basis)
	assert.Equal(t, types.BasisPercent, c.Rates[3].Basis)
	assert.Nil(t, c.Rates[3].Currency)

	_, err = store.Lookup(context.Background(), "99999999")
	assert.True(t, errors.IsType(err, errors.TypeNotFound), "unknown commodities are not created")
}

func TestImportDutyIsIdempotent(t *testing.T) {
	store := db.NewMemoryStore()
	importAll(t, store)

	dir := t.TempDir()
	res, err := NewPipeline(store).ImportDuty(context.Background(), writeFile(t, dir, "duty.json", dutyJSON), "")
	require.NoError(t, err)
	assert.Zero(t, res.Added)

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, st.Rates)
}

func TestAddRateNormalizesGroupedOrdinary(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := store.EnsureCommodity(ctx, types.CommoditySummary{Code: "01"})
	require.NoError(t, err)

	legacy := types.Rate{
		OriginScope:   types.WildcardScope,
		Basis:         types.BasisPerKg,
		Value:         decimal.NewFromInt(3),
		AgreementCode: types.StringPtr("TALL"),
		Priority:      10,
	}
	_, err = store.InsertRate(ctx, "01", legacy)
	require.NoError(t, err)

	incoming := legacy
	incoming.AgreementCode = nil
	incoming.Priority = 0
	o, err := AddRate(ctx, store, "01", incoming, "TALL")
	require.NoError(t, err)
	assert.Equal(t, Updated, o)

	c, err := store.Lookup(ctx, "01")
	require.NoError(t, err)
	require.Len(t, c.Rates, 1)
	assert.Nil(t, c.Rates[0].AgreementCode)
	assert.Equal(t, 0, c.Rates[0].Priority)
}

func TestImportFees(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	importAll(t, store)

	dir := t.TempDir()
	path := writeFile(t, dir, "fees.json", feesJSON)
	p := NewPipeline(store)

	res, err := p.ImportFees(ctx, path, "fees")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	c, err := store.Lookup(ctx, "25081000")
	require.NoError(t, err)
	var percent []types.Rate
	for _, r := range c.Rates {
		if r.IsPercent() {
			percent = append(percent, r)
		}
	}
	require.Len(t, percent, 2)
	assert.Equal(t, "TGB", percent[0].Agreement(), "preferential percent rate untouched")
	assert.True(t, percent[0].Value.Equal(decimal.NewFromInt(10)))
	assert.True(t, percent[1].IsOrdinary())
	assert.True(t, percent[1].Value.Equal(decimal.NewFromInt(25)))

	// a changed source updates the default in place
	res, err = p.ImportFees(ctx, writeFile(t, dir, "fees2.json", strings.Replace(feesJSON, "25,00", "15,00", 1)), "fees")
	require.NoError(t, err)
	assert.Zero(t, res.Added)
	assert.Equal(t, 1, res.Updated)

	res, err = p.ImportFees(ctx, path, "fees")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	res, err = p.ImportFees(ctx, path, "fees")
	require.NoError(t, err)
	assert.Zero(t, res.Updated)
}

func TestImportFeesInsertsDefault(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	_, err := store.EnsureCommodity(ctx, types.CommoditySummary{Code: "25081000"})
	require.NoError(t, err)

	dir := t.TempDir()
	res, err := NewPipeline(store).ImportFees(ctx, writeFile(t, dir, "fees.json", feesJSON), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	c, err := store.Lookup(ctx, "25081000")
	require.NoError(t, err)
	require.Len(t, c.Rates, 1)
	assert.True(t, c.Rates[0].Value.Equal(decimal.NewFromInt(25)))
	assert.True(t, c.Rates[0].IsOrdinary())
}

func TestImportRequiresStore(t *testing.T) {
	_, err := NewPipeline(nil).ImportDuty(context.Background(), "x.json", "")
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestImportMissingSource(t *testing.T) {
	_, err := NewPipeline(db.NewMemoryStore()).ImportStructure(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestImportInvalidSource(t *testing.T) {
	dir := t.TempDir()
	_, err := NewPipeline(db.NewMemoryStore()).ImportDuty(context.Background(), writeFile(t, dir, "bad.json", "{"), "")
	assert.True(t, errors.IsType(err, errors.TypeParsing))
}

func TestImportLandgroups(t *testing.T) {
	dir := t.TempDir()
	groups := writeFile(t, dir, "landgruppe.json", `{
	  "landgrupper": [
	    {"landgruppekode": "TGCC", "landgruppenavn": " Gulf states "},
	    {"landgruppekode": "TEF", "landgruppenavn": "EFTA", "land": ["CH"]}
	  ]
	}`)
	members := writeFile(t, dir, "medlemsland.json", `{
	  "medlemsland": [
	    {"landkode": "SA", "landgrupper": ["TGCC"]},
	    {"landkode": "AE", "landgrupper": [{"landgruppekode": "TGCC"}]},
	    {"landkode": "CH", "landgrupper": ["TEF"]},
	    {"landkode": "IS", "landgrupper": ["TEF"]}
	  ]
	}`)
	fta := writeFile(t, dir, "fta.json", `{
	  "agreements": [
	    {"agreementcode": "TSAC", "agreementname": "SACU", "countries": ["ZA", {"iso": "BW"}]},
	    {"agreementcode": "TEF", "countries": ["LI"]}
	  ]
	}`)
	out := filepath.Join(dir, "out", "landgroups_map.json")

	res, err := NewPipeline(nil).ImportLandgroups(context.Background(), LandgroupSources{
		Groups: groups, Members: members, FTA: fta,
	}, out)
	require.NoError(t, err)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, 3, res.Added)

	overrides, err := directory.LoadOverridesJSON(out)
	require.NoError(t, err)
	assert.Equal(t, "Gulf states", overrides["TGCC"].Name)
	assert.Equal(t, []string{"AE", "SA"}, overrides["TGCC"].Countries)
	assert.Equal(t, []string{"CH", "IS", "LI"}, overrides["TEF"].Countries)
	assert.Equal(t, "EFTA", overrides["TEF"].Name)
	assert.Equal(t, []string{"BW", "ZA"}, overrides["TSAC"].Countries)

	dir2, err := directory.Load(directory.Sources{LandgroupsMap: out})
	require.NoError(t, err)
	name, ok := dir2.GroupName("GCC")
	assert.True(t, ok)
	assert.Equal(t, "Gulf states", name)
}

func TestImportLandgroupsWithoutMembers(t *testing.T) {
	dir := t.TempDir()
	groups := writeFile(t, dir, "landgruppe.json", `{"groups": [{"kode": "TEF", "navn": "EFTA", "countries": ["CH", "NO"]}]}`)
	out := filepath.Join(dir, "map.json")

	_, err := NewPipeline(nil).ImportLandgroups(context.Background(), LandgroupSources{Groups: groups}, out)
	require.NoError(t, err)

	overrides, err := directory.LoadOverridesJSON(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"CH", "NO"}, overrides["TEF"].Countries)
}

func TestImportFTA(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "ratetradeagreements.json", `{
	  "commodities": [
	    {"id": "25081000", "rateTradeAgreements": [
	      {"customDuty": {"classifier": "FREE"}, "landCodes": ["EU", "IN"]},
	      {"customDuty": {"classifier": "FREE"}, "landCodes": ["EU", "GB"]},
	      {"customDuty": {"classifier": "NA"}, "landCodes": ["CN"]},
	      {"customDuty": null, "landCodes": ["XX"]}
	    ]},
	    {"id": "", "rateTradeAgreements": []}
	  ]
	}`)
	out := filepath.Join(dir, "index.json")

	res, err := NewPipeline(nil).ImportFTA(context.Background(), src, out)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	idx, err := LoadFTAIndex(out)
	require.NoError(t, err)
	got := idx.Classifiers("25081000")
	require.Len(t, got, 2)
	assert.Equal(t, "FREE", got[0].Classifier)
	assert.Equal(t, []string{"EU", "IN", "GB"}, got[0].LandCodes)
	assert.Equal(t, "NA", got[1].Classifier)

	assert.Empty(t, idx.Classifiers("0000"))

	empty, err := LoadFTAIndex(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
