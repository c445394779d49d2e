package db

import (
	"time"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

// rateColumns is the select list shared by the SQL stores. Values and
// dates are read as text so both drivers scan into the same row.
const rateColumns = `id, country_iso, rate_type, value, currency, unit, is_exemption,
	agreement, conditions, valid_from, valid_to, source_url, priority`

// rowScanner is satisfied by *sql.Rows, *sql.Row, pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

type rateRow struct {
	id         int64
	scope      string
	basis      string
	value      string
	currency   *string
	unit       *string
	exemption  bool
	agreement  *string
	conditions *string
	validFrom  *string
	validTo    *string
	sourceURL  string
	priority   int
}

func scanRate(s rowScanner) (int64, types.Rate, error) {
	var row rateRow
	err := s.Scan(&row.id, &row.scope, &row.basis, &row.value, &row.currency, &row.unit,
		&row.exemption, &row.agreement, &row.conditions, &row.validFrom, &row.validTo,
		&row.sourceURL, &row.priority)
	if err != nil {
		return 0, types.Rate{}, errors.Storage("failed to scan rate", err)
	}
	r, err := row.rate()
	return row.id, r, err
}

func (row rateRow) rate() (types.Rate, error) {
	value, err := decimal.NewFromString(row.value)
	if err != nil {
		return types.Rate{}, errors.Storage("invalid stored rate value", err).WithContext("rate_id", row.id)
	}
	basis, err := types.ParseRateBasis(row.basis)
	if err != nil {
		return types.Rate{}, errors.Storage("invalid stored rate type", err).WithContext("rate_id", row.id)
	}

	r := types.Rate{
		OriginScope:   row.scope,
		Basis:         basis,
		Value:         value,
		Currency:      row.currency,
		Unit:          row.unit,
		IsExemption:   row.exemption,
		AgreementCode: row.agreement,
		Conditions:    row.conditions,
		SourceURL:     row.sourceURL,
		Priority:      row.priority,
	}
	if r.ValidFrom, err = parseDate(row.validFrom); err != nil {
		return types.Rate{}, err
	}
	if r.ValidTo, err = parseDate(row.validTo); err != nil {
		return types.Rate{}, err
	}
	return r, nil
}

// rateArgs returns the insert/update arguments in rateColumns order, minus id
func rateArgs(r types.Rate) []any {
	scope := r.OriginScope
	if scope == "" {
		scope = types.WildcardScope
	}
	return []any{
		scope,
		string(r.Basis),
		r.Value.String(),
		r.Currency,
		r.Unit,
		r.IsExemption,
		types.StringPtr(types.StringValue(r.AgreementCode)),
		r.Conditions,
		formatDate(r.ValidFrom),
		formatDate(r.ValidTo),
		r.SourceURL,
		r.Priority,
	}
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	raw := *s
	if len(raw) > len(dateLayout) {
		raw = raw[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.Storage("invalid stored date", err).WithContext("value", *s)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func firstMatch(ids []int64, rates []types.Rate, m RateMatch) (StoredRate, bool) {
	for i, r := range rates {
		if m.Matches(r) {
			return StoredRate{ID: ids[i], Rate: r}, true
		}
	}
	return StoredRate{}, false
}
