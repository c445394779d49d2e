package ingestion

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"tolltariff/core/directory"
	"tolltariff/internal/errors"
)

// LandgroupSources are the inputs of the landgroups import. Members and
// FTA are optional.
type LandgroupSources struct {
	Groups  string
	Members string
	FTA     string
}

// landgroupsOutput mirrors the file read by directory.LoadOverridesJSON
type landgroupsOutput struct {
	Groups map[string]directory.Override `json:"groups"`
}

// listUnder returns the first array found under keys, then under any key
func listUnder(doc map[string]json.RawMessage, keys ...string) []map[string]json.RawMessage {
	try := func(raw json.RawMessage) ([]map[string]json.RawMessage, bool) {
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, false
		}
		return rows, true
	}
	for _, k := range keys {
		if raw, ok := doc[k]; ok {
			if rows, ok := try(raw); ok {
				return rows
			}
		}
	}
	names := make([]string, 0, len(doc))
	for k := range doc {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if rows, ok := try(doc[k]); ok {
			return rows
		}
	}
	return nil
}

// field returns the first non-empty string or number field
func field(row map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := row[k]
		if !ok {
			continue
		}
		var f flexString
		if err := json.Unmarshal(raw, &f); err == nil && f != "" {
			return f.String()
		}
	}
	return ""
}

// codeList decodes a list of plain codes or objects carrying a code
func codeList(row map[string]json.RawMessage, listKeys []string, objectKeys ...string) ([]string, bool) {
	for _, k := range listKeys {
		raw, ok := row[k]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		out := []string{}
		for _, item := range items {
			var s flexString
			if err := json.Unmarshal(item, &s); err == nil {
				if s != "" {
					out = append(out, s.String())
				}
				continue
			}
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err == nil {
				if code := field(obj, objectKeys...); code != "" {
					out = append(out, code)
				}
			}
		}
		return out, true
	}
	return nil, false
}

// BuildLandgroups merges the group list, the member-country list and the
// FTA list into directory overrides
func BuildLandgroups(groupsData, membersData, ftaData []byte) (map[string]directory.Override, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(groupsData, &doc); err != nil {
		return nil, err
	}

	groups := map[string]directory.Override{}
	for _, row := range listUnder(doc, "landgrupper", "groups", "data") {
		code := field(row, "landgruppekode", "kode", "landgruppe", "id")
		if code == "" {
			continue
		}
		countries, _ := codeList(row, []string{"land", "landkoder", "countries"})
		if countries == nil {
			countries = []string{}
		}
		groups[code] = directory.Override{
			Name:      field(row, "landgruppenavn", "navn", "beskrivelse", "name"),
			Countries: countries,
		}
	}

	// membership replaces the group-file country lists when present
	if len(membersData) > 0 {
		var members map[string]json.RawMessage
		if err := json.Unmarshal(membersData, &members); err != nil {
			return nil, err
		}
		reverse := map[string]map[string]bool{}
		for _, row := range listUnder(members, "medlemsland", "countries") {
			iso := field(row, "landkode", "iso")
			if iso == "" {
				continue
			}
			codes, _ := codeList(row, []string{"landgrupper", "groups"}, "landgruppekode", "kode")
			for _, code := range codes {
				if reverse[code] == nil {
					reverse[code] = map[string]bool{}
				}
				reverse[code][iso] = true
			}
		}
		for code, o := range groups {
			o.Countries = sortedKeys(reverse[code])
			groups[code] = o
		}
	}

	// FTA data is best effort: a malformed file is ignored
	if len(ftaData) > 0 {
		var fta map[string]json.RawMessage
		if err := json.Unmarshal(ftaData, &fta); err == nil {
			mergeFTAGroups(groups, listUnder(fta, "agreements", "freeTradeAgreements", "data"))
		}
	}

	return groups, nil
}

func mergeFTAGroups(groups map[string]directory.Override, rows []map[string]json.RawMessage) {
	for _, row := range rows {
		code := field(row, "agreementcode", "kode", "id")
		if code == "" {
			continue
		}
		entry, ok := groups[code]
		if !ok {
			entry = directory.Override{Countries: []string{}}
		}
		if name := field(row, "agreementname", "name", "navn"); name != "" {
			entry.Name = name
		}
		isos, _ := codeList(row, []string{"countries"}, "iso", "countrycode", "landkode")
		if len(isos) > 0 {
			set := map[string]bool{}
			for _, iso := range entry.Countries {
				set[iso] = true
			}
			for _, iso := range isos {
				set[iso] = true
			}
			entry.Countries = sortedKeys(set)
		}
		groups[code] = entry
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, strings.TrimSpace(k))
	}
	sort.Strings(out)
	return out
}

// ImportLandgroups writes the directory override file to outPath
func (p *Pipeline) ImportLandgroups(ctx context.Context, src LandgroupSources, outPath string) (*Result, error) {
	data, err := readSource(src.Groups)
	if err != nil {
		return nil, err
	}
	members, err := readOptionalSource(src.Members)
	if err != nil {
		return nil, err
	}
	fta, err := readOptionalSource(src.FTA)
	if err != nil {
		return nil, err
	}

	r := p.begin(KindLandgroups, src.Groups, data)
	groups, err := BuildLandgroups(data, members, fta)
	if err != nil {
		return nil, r.fail(errors.Parsing("invalid landgroups file", err).WithContext("path", src.Groups))
	}
	r.expect(len(groups))
	for range groups {
		r.count(Added)
		r.tick()
	}

	if err := checkContext(ctx); err != nil {
		return nil, r.fail(err)
	}
	if err := writeJSON(outPath, landgroupsOutput{Groups: groups}); err != nil {
		return nil, r.fail(err)
	}
	r.result.Output = outPath
	return r.finish(), nil
}

func readOptionalSource(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return readSource(path)
}
