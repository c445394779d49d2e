package directory

import (
	"reflect"
	"testing"
)

func TestGroupNameAliasTransparency(t *testing.T) {
	d := New()

	tests := []struct {
		alias     string
		canonical string
	}{
		{"EU", "EUE"},
		{"EEA", "TOES"},
		{"EFTA", "TEF"},
		{"GB", "TUK"},
		{"GSP-LDC", "TGS1"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			aliasName, aliasOK := d.GroupName(tt.alias)
			canonName, canonOK := d.GroupName(tt.canonical)
			if aliasOK != canonOK || aliasName != canonName {
				t.Errorf("GroupName(%q) = %q,%v; GroupName(%q) = %q,%v",
					tt.alias, aliasName, aliasOK, tt.canonical, canonName, canonOK)
			}
			if !reflect.DeepEqual(d.GroupCountries(tt.alias), d.GroupCountries(tt.canonical)) {
				t.Errorf("countries differ between %q and %q", tt.alias, tt.canonical)
			}
		})
	}
}

func TestGroupNameUnknownAndEmpty(t *testing.T) {
	d := New()

	if _, ok := d.GroupName(""); ok {
		t.Error("empty code should have no name")
	}
	if _, ok := d.GroupName("ZZZ"); ok {
		t.Error("unknown code should have no name")
	}
	// GCC aliases to a code without a static name
	if _, ok := d.GroupName("GCC"); ok {
		t.Error("TGCC has no built-in name")
	}
	if got := d.GroupCountries(""); got == nil || len(got) != 0 {
		t.Errorf("empty code should give an empty, non-nil list, got %#v", got)
	}
}

func TestOverrideNamePrecedence(t *testing.T) {
	d := New(WithOverrides(map[string]Override{
		"EUE": {Name: "EU (dynamic)"},
		"TEF": {Name: ""},
		"NEW": {Name: "New bloc"},
	}))

	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"EUE", "EU (dynamic)", true},
		{"EU", "EU (dynamic)", true},
		{"TEF", "EFTA", true}, // empty dynamic name falls back
		{"NEW", "New bloc", true},
		{"TIN", "India", true},
	}
	for _, tt := range tests {
		got, ok := d.GroupName(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GroupName(%q) = %q,%v; want %q,%v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOverrideCountriesPresenceWins(t *testing.T) {
	d := New(WithOverrides(map[string]Override{
		"TEF":  {Countries: []string{}},
		"TUK":  {Name: "UK"},
		"TGB":  {Countries: []string{"bd", "XX"}},
		"TOES": {Countries: []string{"NO"}},
	}))

	if got := d.GroupCountries("TEF"); len(got) != 0 {
		t.Errorf("explicit empty override should win, got %v", got)
	}
	if got := d.GroupCountries("TUK"); len(got) != 1 || got[0].ISO != "GB" {
		t.Errorf("override without countries should fall back, got %v", got)
	}

	got := d.GroupCountries("GSP")
	if len(got) != 2 {
		t.Fatalf("expected 2 countries, got %v", got)
	}
	if got[0].ISO != "bd" || got[0].Name != "Bangladesh" {
		t.Errorf("country name lookup should be case-insensitive, got %+v", got[0])
	}
	if got[1].Name != "XX" {
		t.Errorf("unknown country should default to its ISO code, got %+v", got[1])
	}
}

func TestCountryNameExtraTakesPrecedence(t *testing.T) {
	d := New(WithCountryNames(map[string]string{"no": "Noreg", "XK": "Kosovo"}))

	if name, _ := d.CountryName("NO"); name != "Noreg" {
		t.Errorf("expected extra name, got %q", name)
	}
	if name, ok := d.CountryName("xk"); !ok || name != "Kosovo" {
		t.Errorf("expected Kosovo, got %q", name)
	}
	if name, _ := d.CountryName("SE"); name != "Sweden" {
		t.Errorf("expected built-in name, got %q", name)
	}
}

func TestResolveAndCodes(t *testing.T) {
	d := New(WithOverrides(map[string]Override{"TGCC": {Name: "Gulf Cooperation Council"}}))

	info := d.Resolve("GCC")
	if info.Code != "GCC" || info.Name == nil || *info.Name != "Gulf Cooperation Council" {
		t.Errorf("unexpected resolve result: %+v", info)
	}

	codes := d.Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	found := false
	for _, c := range codes {
		if c == "TGCC" {
			found = true
		}
	}
	if !found {
		t.Error("override code missing from Codes()")
	}
}

func TestHolderSwap(t *testing.T) {
	h := NewHolder(nil, Sources{})
	first := h.Current()
	if first == nil {
		t.Fatal("holder should start with a directory")
	}

	next := New(WithOverrides(map[string]Override{"EUE": {Name: "Union"}}))
	if prev := h.Swap(next); prev != first {
		t.Error("Swap should return the previous snapshot")
	}
	if name, _ := h.Current().GroupName("EU"); name != "Union" {
		t.Errorf("expected swapped snapshot, got %q", name)
	}
	// the old snapshot is unchanged
	if name, _ := first.GroupName("EU"); name != "European Union" {
		t.Errorf("old snapshot mutated: %q", name)
	}
}
