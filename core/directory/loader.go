package directory

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"tolltariff/internal/errors"
)

// Sources names the files a directory snapshot is built from.
// Empty paths and missing files are skipped.
type Sources struct {
	// LandgroupsMap is the JSON override file written by the landgroups import
	LandgroupsMap string

	// CountryNames is a JSON object of ISO-2 code to display name
	CountryNames string

	// GroupsHCL is a hand-maintained HCL file of group and country blocks
	GroupsHCL string
}

// landgroupsMap is the on-disk schema of the override file
type landgroupsMap struct {
	Groups map[string]Override `json:"groups"`
}

// hclGroupsFile is the schema of the HCL group file:
//
//	group "EUE" {
//	  name      = "European Union"
//	  countries = ["AT", "BE"]
//	}
//
//	country "XK" {
//	  name = "Kosovo"
//	}
type hclGroupsFile struct {
	Groups    []hclGroup   `hcl:"group,block"`
	Countries []hclCountry `hcl:"country,block"`
}

type hclGroup struct {
	Code      string   `hcl:"code,label"`
	Name      string   `hcl:"name,optional"`
	Countries []string `hcl:"countries,optional"`
}

type hclCountry struct {
	ISO  string `hcl:"iso,label"`
	Name string `hcl:"name"`
}

// Load builds a directory snapshot from src. HCL entries replace JSON
// entries of the same code.
func Load(src Sources) (*Directory, error) {
	overrides, err := LoadOverridesJSON(src.LandgroupsMap)
	if err != nil {
		return nil, err
	}

	names, err := LoadCountryNamesJSON(src.CountryNames)
	if err != nil {
		return nil, err
	}

	hclOverrides, hclNames, err := LoadHCL(src.GroupsHCL)
	if err != nil {
		return nil, err
	}
	for code, o := range hclOverrides {
		overrides[code] = o
	}
	for iso, name := range hclNames {
		names[iso] = name
	}

	return New(WithOverrides(overrides), WithCountryNames(names)), nil
}

// LoadOverridesJSON reads a landgroups map file
func LoadOverridesJSON(path string) (map[string]Override, error) {
	out := map[string]Override{}
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return out, err
	}

	var m landgroupsMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Parsing("invalid landgroups map", err).WithContext("path", path)
	}
	for code, o := range m.Groups {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		o.Name = strings.TrimSpace(o.Name)
		out[code] = o
	}
	return out, nil
}

// LoadCountryNamesJSON reads an ISO-2 to name JSON object
func LoadCountryNamesJSON(path string) (map[string]string, error) {
	out := map[string]string{}
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return out, err
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Parsing("invalid country names file", err).WithContext("path", path)
	}
	return out, nil
}

// LoadHCL reads group and country blocks from an HCL file
func LoadHCL(path string) (map[string]Override, map[string]string, error) {
	overrides := map[string]Override{}
	names := map[string]string{}
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return overrides, names, err
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, nil, errors.Parsing("invalid groups file", diagError(diags)).WithContext("path", path)
	}

	var parsed hclGroupsFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, nil, errors.Parsing("invalid groups file", diagError(diags)).WithContext("path", path)
	}

	for _, g := range parsed.Groups {
		overrides[g.Code] = Override{Name: g.Name, Countries: g.Countries}
	}
	for _, c := range parsed.Countries {
		names[strings.ToUpper(c.ISO)] = c.Name
	}
	return overrides, names, nil
}

func readOptional(path string) ([]byte, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(errors.TypeConfig, err, "failed to read %s", path)
	}
	return data, true, nil
}

func diagError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity == hcl.DiagError {
			return d
		}
	}
	return diags
}
