// Package db provides the rate stores the engine reads commodities from.
//
// Stores hold imported commodities and their rates. Reads return detached
// copies; the engine treats them as immutable snapshots.
package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

// Driver names a store backend
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// CommodityStore is the read interface used by the API and CLI
type CommodityStore interface {
	// Lookup returns a commodity with all rates, or a NOT_FOUND error
	Lookup(ctx context.Context, code string) (*types.Commodity, error)

	// Search matches code substrings and case-insensitive name substrings
	Search(ctx context.Context, query string, limit int) ([]types.CommoditySummary, error)

	// Codes lists all commodity codes in order
	Codes(ctx context.Context) ([]string, error)

	// AgreementCounts counts rates per non-empty agreement code
	AgreementCounts(ctx context.Context) (map[string]int, error)

	// Stats returns row counts
	Stats(ctx context.Context) (Stats, error)

	// Close releases the store
	Close() error
}

// Writer is the write interface used by ingestion
type Writer interface {
	// EnsureCommodity inserts the commodity when its code is new
	EnsureCommodity(ctx context.Context, c types.CommoditySummary) (bool, error)

	// HasCommodity reports whether code exists
	HasCommodity(ctx context.Context, code string) (bool, error)

	// FindRate returns the first rate of code matching m
	FindRate(ctx context.Context, code string, m RateMatch) (StoredRate, bool, error)

	// InsertRate appends a rate to the commodity
	InsertRate(ctx context.Context, code string, r types.Rate) (int64, error)

	// UpdateRate replaces the stored fields of a rate
	UpdateRate(ctx context.Context, id int64, r types.Rate) error
}

// Store is a readable and writable rate store
type Store interface {
	CommodityStore
	Writer
}

// StoredRate is a rate with its store ID
type StoredRate struct {
	ID int64
	types.Rate
}

// Stats are store row counts
type Stats struct {
	Commodities int `json:"htc_count"`
	Rates       int `json:"rate_count"`
}

// RateMatch selects stored rates. Nil pointer fields match anything,
// except Agreement, which is compared exactly when MatchAgreement is set.
type RateMatch struct {
	Scope          string
	Basis          types.RateBasis
	Value          *decimal.Decimal
	MatchValidity  bool
	ValidFrom      *time.Time
	ValidTo        *time.Time
	MatchAgreement bool
	Agreement      *string
	Exemption      *bool
}

// Matches reports whether r satisfies m
func (m RateMatch) Matches(r types.Rate) bool {
	if m.Scope != "" && r.OriginScope != m.Scope {
		return false
	}
	if m.Basis != "" && r.Basis != m.Basis {
		return false
	}
	if m.Value != nil && !r.Value.Equal(*m.Value) {
		return false
	}
	if m.MatchValidity && (!sameDate(r.ValidFrom, m.ValidFrom) || !sameDate(r.ValidTo, m.ValidTo)) {
		return false
	}
	if m.MatchAgreement && types.StringValue(r.AgreementCode) != types.StringValue(m.Agreement) {
		return false
	}
	if m.Exemption != nil && r.IsExemption != *m.Exemption {
		return false
	}
	return true
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format(dateLayout) == b.Format(dateLayout)
}

const dateLayout = "2006-01-02"

// Options configures Open
type Options struct {
	Driver Driver
	URL    string
}

// Open creates the store named by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch Driver(strings.ToLower(string(opts.Driver))) {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		return OpenPostgres(ctx, opts.URL)
	case DriverSQLite, "":
		return OpenSQLite(ctx, opts.URL)
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown database driver: %s", opts.Driver)
	}
}

// matchesQuery implements the Search predicate for in-process stores
func matchesQuery(c types.CommoditySummary, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(c.Code, query) {
		return true
	}
	return c.Name != nil && strings.Contains(strings.ToLower(*c.Name), strings.ToLower(query))
}

// clampLimit bounds search limits to [1, 200]
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 200 {
		return 200
	}
	return limit
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
