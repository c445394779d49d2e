package ingestion

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

// structureChildren are the container keys of the tariff structure tree
var structureChildren = []string{"sections", "chapters", "divisions", "headings", "subchapters", "subsubheadings"}

// ParseStructure extracts commodity nodes (type "commodity") from a
// customs tariff structure document, depth first, deduplicated by code
func ParseStructure(data []byte) ([]types.CommoditySummary, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	out := []types.CommoditySummary{}
	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case []any:
			for _, child := range n {
				walk(child)
			}
		case map[string]any:
			if n["type"] == "commodity" {
				code := scalarString(n["id"])
				if code == "" {
					code = scalarString(n["hsNumber"])
				}
				if code != "" && !seen[code] {
					seen[code] = true
					name := scalarString(n["item"])
					if name == "" {
						name = scalarString(n["description"])
					}
					out = append(out, types.CommoditySummary{Code: code, Name: types.StringPtr(name)})
				}
			}
			for _, key := range structureChildren {
				if child, ok := n[key]; ok {
					walk(child)
				}
			}
		}
	}
	walk(doc)
	return out, nil
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// ImportStructure adds new commodities from customstariffstructure.json
func (p *Pipeline) ImportStructure(ctx context.Context, path string) (*Result, error) {
	if err := p.requireStore(); err != nil {
		return nil, err
	}
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	r := p.begin(KindStructure, path, data)
	items, err := ParseStructure(data)
	if err != nil {
		return nil, r.fail(errors.Parsing("invalid structure file", err).WithContext("path", path))
	}
	r.expect(len(items))

	for _, item := range items {
		if err := checkContext(ctx); err != nil {
			return nil, r.fail(err)
		}
		created, err := p.store.EnsureCommodity(ctx, item)
		if err != nil {
			return nil, r.fail(err)
		}
		if created {
			r.count(Added)
		} else {
			r.count(Skipped)
		}
		r.tick()
	}
	return r.finish(), nil
}
