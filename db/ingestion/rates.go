package ingestion

import (
	"context"
	"time"

	"tolltariff/core/types"
	"tolltariff/db"
)

// Outcome is what a write did to the store
type Outcome int

const (
	Skipped Outcome = iota
	Added
	Updated
)

func (r *run) count(o Outcome) {
	switch o {
	case Added:
		r.result.Added++
	case Updated:
		r.result.Updated++
	default:
		r.result.Skipped++
	}
}

// AddRate stores a duty rate unless an identical one exists. An ordinary
// rate previously stored under its ordinary group code (e.g. TALL) is
// normalized to carry no agreement instead of being duplicated.
func AddRate(ctx context.Context, w db.Writer, code string, r types.Rate, landgroup string) (Outcome, error) {
	match := db.RateMatch{
		Scope:          r.OriginScope,
		Basis:          r.Basis,
		Value:          &r.Value,
		MatchValidity:  true,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		MatchAgreement: true,
		Agreement:      r.AgreementCode,
	}
	_, exists, err := w.FindRate(ctx, code, match)
	if err != nil || exists {
		return Skipped, err
	}

	if r.AgreementCode == nil && landgroup != "" {
		match.Agreement = &landgroup
		grouped, found, err := w.FindRate(ctx, code, match)
		if err != nil {
			return Skipped, err
		}
		if found {
			normalized := grouped.Rate
			normalized.AgreementCode = nil
			normalized.Priority = 0
			if err := w.UpdateRate(ctx, grouped.ID, normalized); err != nil {
				return Skipped, err
			}
			return Updated, nil
		}
	}

	if _, err := w.InsertRate(ctx, code, r); err != nil {
		return Skipped, err
	}
	return Added, nil
}

// SetDefaultPercent inserts or updates in place the default wildcard
// percent rate of a commodity. Preferential percent rates are left alone.
func SetDefaultPercent(ctx context.Context, w db.Writer, code string, r types.Rate) (Outcome, error) {
	notExempt := false
	existing, found, err := w.FindRate(ctx, code, db.RateMatch{
		Scope:          types.WildcardScope,
		Basis:          types.BasisPercent,
		MatchAgreement: true,
		Exemption:      &notExempt,
	})
	if err != nil {
		return Skipped, err
	}
	if !found {
		if _, err := w.InsertRate(ctx, code, r); err != nil {
			return Skipped, err
		}
		return Added, nil
	}

	updated := existing.Rate
	changed := false
	if !updated.Value.Equal(r.Value) {
		updated.Value = r.Value
		changed = true
	}
	if !sameDay(updated.ValidFrom, r.ValidFrom) {
		updated.ValidFrom = r.ValidFrom
		changed = true
	}
	if !sameDay(updated.ValidTo, r.ValidTo) {
		updated.ValidTo = r.ValidTo
		changed = true
	}
	if r.SourceURL != "" && updated.SourceURL != r.SourceURL {
		updated.SourceURL = r.SourceURL
		changed = true
	}
	if !changed {
		return Skipped, nil
	}
	if err := w.UpdateRate(ctx, existing.ID, updated); err != nil {
		return Skipped, err
	}
	return Updated, nil
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
