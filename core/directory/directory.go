// Package directory resolves origin-group codes to display names and member
// countries.
//
// A Directory is an immutable snapshot. Lookups run in two explicit stages:
// the dynamic override table first, then the static built-in table. Codes are
// always passed through the alias table before either stage.
package directory

import (
	"sort"
	"strings"

	"tolltariff/core/types"
)

// Override is a dynamically loaded group entry.
// A nil Countries slice means the entry carries no country list;
// an empty non-nil slice is an explicit empty list.
type Override struct {
	Name      string   `json:"name,omitempty"`
	Countries []string `json:"countries"`
}

// Directory is a read-only view of group and country data
type Directory struct {
	aliases         map[string]string
	staticNames     map[string]string
	staticCountries map[string][]string
	overrides       map[string]Override
	countryNames    map[string]string
	extraCountries  map[string]string
}

// Option configures a Directory
type Option func(*Directory)

// WithOverrides sets the dynamic override table
func WithOverrides(overrides map[string]Override) Option {
	return func(d *Directory) {
		d.overrides = overrides
	}
}

// WithCountryNames sets extra country names that take precedence over
// the built-in names. Keys are upper-cased.
func WithCountryNames(names map[string]string) Option {
	return func(d *Directory) {
		d.extraCountries = make(map[string]string, len(names))
		for iso, name := range names {
			d.extraCountries[strings.ToUpper(iso)] = name
		}
	}
}

// WithStatic replaces the built-in static tables
func WithStatic(names map[string]string, countries map[string][]string) Option {
	return func(d *Directory) {
		d.staticNames = names
		d.staticCountries = countries
	}
}

// WithAliases replaces the built-in alias table
func WithAliases(aliases map[string]string) Option {
	return func(d *Directory) {
		d.aliases = aliases
	}
}

// New creates a directory over the built-in tables
func New(opts ...Option) *Directory {
	d := &Directory{
		aliases:         builtinAliases,
		staticNames:     builtinGroupNames,
		staticCountries: builtinGroupCountries,
		overrides:       map[string]Override{},
		countryNames:    builtinCountryNames,
		extraCountries:  map[string]string{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CanonicalCode passes code through the alias table
func (d *Directory) CanonicalCode(code string) string {
	if canonical, ok := d.aliases[code]; ok {
		return canonical
	}
	return code
}

// GroupName returns the display name of a group code.
// Many valid codes have no known name; that is reported as ok=false.
func (d *Directory) GroupName(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	code = d.CanonicalCode(code)

	if dyn, ok := d.overrides[code]; ok && dyn.Name != "" {
		return dyn.Name, true
	}

	name, ok := d.staticNames[code]
	return name, ok
}

// GroupNamePtr is GroupName for optional codes, nil when unknown
func (d *Directory) GroupNamePtr(code *string) *string {
	if code == nil {
		return nil
	}
	name, ok := d.GroupName(*code)
	if !ok {
		return nil
	}
	return &name
}

// GroupCountries returns the members of a group with display names.
// A dynamic entry with a country list wins even when the list is empty.
func (d *Directory) GroupCountries(code string) []types.Country {
	if code == "" {
		return []types.Country{}
	}
	code = d.CanonicalCode(code)

	var isoList []string
	if dyn, ok := d.overrides[code]; ok && dyn.Countries != nil {
		isoList = dyn.Countries
	} else {
		isoList = d.staticCountries[code]
	}

	countries := make([]types.Country, 0, len(isoList))
	for _, iso := range isoList {
		name, ok := d.CountryName(iso)
		if !ok {
			name = iso
		}
		countries = append(countries, types.Country{ISO: iso, Name: name})
	}
	return countries
}

// CountryName looks up an ISO-2 code, case-insensitively
func (d *Directory) CountryName(iso string) (string, bool) {
	iso = strings.ToUpper(iso)
	if name := d.extraCountries[iso]; name != "" {
		return name, true
	}
	name, ok := d.countryNames[iso]
	return name, ok
}

// Resolve returns name and countries of a group in one value
func (d *Directory) Resolve(code string) types.GroupInfo {
	info := types.GroupInfo{
		Code:      code,
		Countries: d.GroupCountries(code),
	}
	if name, ok := d.GroupName(code); ok {
		info.Name = &name
	}
	return info
}

// Codes lists every canonical group code known to either table, sorted
func (d *Directory) Codes() []string {
	seen := make(map[string]struct{}, len(d.staticNames)+len(d.overrides))
	for code := range d.staticNames {
		seen[code] = struct{}{}
	}
	for code := range d.staticCountries {
		seen[code] = struct{}{}
	}
	for code := range d.overrides {
		seen[code] = struct{}{}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// OverrideCount returns the number of dynamic entries
func (d *Directory) OverrideCount() int {
	return len(d.overrides)
}
