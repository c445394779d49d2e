package ingestion

import (
	"context"

	"tolltariff/core/types"
)

const (
	feesLandgroup = "ALLE"
	feesVATType   = "MV"
	feesPercent   = "P"
)

// defaultVAT returns the first percent MV entry of the ALLE group
func defaultVAT(item feesItem, sourceURL string) (types.Rate, bool) {
	for _, g := range item.Groups {
		if g.Landgroup.String() != feesLandgroup {
			continue
		}
		for _, t := range g.FeeTypes {
			if t.FeeType.String() != feesVATType {
				continue
			}
			for _, e := range t.Entries {
				if e.Unit.String() != feesPercent {
					continue
				}
				value, ok := ParseDecimalComma(e.Value.String())
				if !ok {
					continue
				}
				return types.Rate{
					OriginScope: types.WildcardScope,
					Basis:       types.BasisPercent,
					Value:       value,
					ValidFrom:   ParseDate(e.ValidFrom.String()),
					ValidTo:     ParseDate(e.ValidTo.String()),
					SourceURL:   sourceURL,
				}, true
			}
		}
	}
	return types.Rate{}, false
}

// ImportFees imports the default VAT percent rate per commodity from
// innfoerselsavgift.json, updating an existing default rate in place
func (p *Pipeline) ImportFees(ctx context.Context, path, sourceURL string) (*Result, error) {
	if err := p.requireStore(); err != nil {
		return nil, err
	}
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	r := p.begin(KindFees, path, data)
	var file feesFile
	if err := decodeSource(path, data, &file); err != nil {
		return nil, r.fail(err)
	}
	r.expect(len(file.Items))

	for _, item := range file.Items {
		if err := checkContext(ctx); err != nil {
			return nil, r.fail(err)
		}
		code := item.ID.String()
		rate, ok := defaultVAT(item, sourceURL)
		if code == "" || !ok {
			r.tick()
			continue
		}
		known, err := p.store.HasCommodity(ctx, code)
		if err != nil {
			return nil, r.fail(err)
		}
		if known {
			o, err := SetDefaultPercent(ctx, p.store, code, rate)
			if err != nil {
				return nil, r.fail(err)
			}
			r.count(o)
		}
		r.tick()
	}
	return r.finish(), nil
}
