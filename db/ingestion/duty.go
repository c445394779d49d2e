package ingestion

import (
	"context"

	"tolltariff/core/types"
)

// dutyRates converts one source agreement entry into rates. Ordinary
// groups (TAL, TALL, ALLE) become rates with no agreement; sentinel
// values and entries without a unit code are dropped.
func dutyRates(a dutyAgreement, sourceURL string) ([]types.Rate, int) {
	landgroup := a.Landgroup.String()
	ordinary := types.IsOrdinaryGroup(landgroup)

	var out []types.Rate
	dropped := 0
	for _, s := range a.Rates {
		value, ok := ParseDecimalComma(s.Value.String())
		if !ok || IsSentinel(value) {
			dropped++
			continue
		}
		unitCode := s.Unit.String()
		if unitCode == "" {
			dropped++
			continue
		}

		basis, currency, unit := unitBasis(unitCode)
		r := types.Rate{
			OriginScope: types.WildcardScope,
			Basis:       basis,
			Value:       value,
			Currency:    currency,
			Unit:        unit,
			ValidFrom:   ParseDate(s.ValidFrom.String()),
			ValidTo:     ParseDate(s.ValidTo.String()),
			SourceURL:   sourceURL,
		}
		if !ordinary {
			r.AgreementCode = types.StringPtr(landgroup)
			r.Priority = 10
		}
		out = append(out, r)
	}
	return out, dropped
}

// ImportDuty imports ordinary and preferential customs duty from
// tollavgiftssats.json. Unknown commodity codes are skipped.
func (p *Pipeline) ImportDuty(ctx context.Context, path, sourceURL string) (*Result, error) {
	if err := p.requireStore(); err != nil {
		return nil, err
	}
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}

	r := p.begin(KindDuty, path, data)
	var file dutyFile
	if err := decodeSource(path, data, &file); err != nil {
		return nil, r.fail(err)
	}
	r.expect(len(file.Items))

	for _, item := range file.Items {
		if err := checkContext(ctx); err != nil {
			return nil, r.fail(err)
		}
		if err := p.importDutyItem(ctx, r, item, sourceURL); err != nil {
			return nil, r.fail(err)
		}
		r.tick()
	}
	return r.finish(), nil
}

func (p *Pipeline) importDutyItem(ctx context.Context, r *run, item dutyItem, sourceURL string) error {
	code := item.ID.String()
	if code == "" {
		return nil
	}
	known, err := p.store.HasCommodity(ctx, code)
	if err != nil || !known {
		return err
	}

	for _, a := range item.Agreements {
		rates, dropped := dutyRates(a, sourceURL)
		r.result.Skipped += dropped
		for _, rate := range rates {
			o, err := AddRate(ctx, p.store, code, rate, a.Landgroup.String())
			if err != nil {
				return err
			}
			r.count(o)
		}
	}
	return nil
}
