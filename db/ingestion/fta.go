package ingestion

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"tolltariff/core/tariff"
	"tolltariff/internal/errors"
)

// FTAIndex maps commodity code to duty classifier to land codes
type FTAIndex map[string]map[string][]string

// Classifiers returns the classifiers of code sorted by name
func (idx FTAIndex) Classifiers(code string) []tariff.FTAClassifier {
	entry := idx[code]
	names := make([]string, 0, len(entry))
	for name := range entry {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]tariff.FTAClassifier, 0, len(names))
	for _, name := range names {
		out = append(out, tariff.FTAClassifier{Classifier: name, LandCodes: entry[name]})
	}
	return out
}

// BuildFTAIndex groups land codes per commodity and classifier, keeping
// first-seen order and dropping repeats
func BuildFTAIndex(data []byte) (FTAIndex, error) {
	var file ftaFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	idx := FTAIndex{}
	for _, c := range file.Commodities {
		code := c.ID.String()
		if code == "" {
			continue
		}
		acc, ok := idx[code]
		if !ok {
			acc = map[string][]string{}
			idx[code] = acc
		}
		for _, a := range c.Agreements {
			if a.CustomDuty == nil || a.CustomDuty.Classifier == "" || a.LandCodes == nil {
				continue
			}
			classifier := a.CustomDuty.Classifier.String()
			if _, ok := acc[classifier]; !ok {
				acc[classifier] = []string{}
			}
			for _, lc := range a.LandCodes {
				if lc != "" && !contains(acc[classifier], lc.String()) {
					acc[classifier] = append(acc[classifier], lc.String())
				}
			}
		}
	}
	return idx, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LoadFTAIndex reads an index written by ImportFTA. A missing file is an
// empty index.
func LoadFTAIndex(path string) (FTAIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FTAIndex{}, nil
		}
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to read %s", path)
	}
	idx := FTAIndex{}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Parsing("invalid FTA index", err).WithContext("path", path)
	}
	return idx, nil
}

// ImportFTA writes the per-commodity trade agreement index to outPath
func (p *Pipeline) ImportFTA(ctx context.Context, path, outPath string) (*Result, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	r := p.begin(KindFTA, path, data)
	idx, err := BuildFTAIndex(data)
	if err != nil {
		return nil, r.fail(errors.Parsing("invalid FTA file", err).WithContext("path", path))
	}
	r.expect(len(idx))
	for range idx {
		r.count(Added)
		r.tick()
	}

	if err := checkContext(ctx); err != nil {
		return nil, r.fail(err)
	}
	if err := writeJSON(outPath, idx); err != nil {
		return nil, r.fail(err)
	}
	r.result.Output = outPath
	return r.finish(), nil
}
