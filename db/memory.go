package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

type memoryRate struct {
	id   int64
	rate types.Rate
}

type memoryCommodity struct {
	summary types.CommoditySummary
	rates   []memoryRate
}

// MemoryStore is an in-process store for tests and demos
type MemoryStore struct {
	mu          sync.RWMutex
	commodities map[string]*memoryCommodity
	rateOwner   map[int64]string
	nextID      int64
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		commodities: make(map[string]*memoryCommodity),
		rateOwner:   make(map[int64]string),
	}
}

func (s *MemoryStore) Lookup(ctx context.Context, code string) (*types.Commodity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mc, ok := s.commodities[code]
	if !ok {
		return nil, errors.NotFound("commodity", code)
	}

	c := &types.Commodity{
		Code:        mc.summary.Code,
		Name:        cloneString(mc.summary.Name),
		Description: cloneString(mc.summary.Description),
		Rates:       make([]types.Rate, 0, len(mc.rates)),
	}
	for _, r := range mc.rates {
		c.Rates = append(c.Rates, cloneRate(r.rate))
	}
	return c, nil
}

func (s *MemoryStore) Search(ctx context.Context, query string, limit int) ([]types.CommoditySummary, error) {
	codes, _ := s.Codes(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = clampLimit(limit)
	out := []types.CommoditySummary{}
	for _, code := range codes {
		summary := s.commodities[code].summary
		if !matchesQuery(summary, query) {
			continue
		}
		out = append(out, summary)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Codes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.commodities))
	for code := range s.commodities {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *MemoryStore) AgreementCounts(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{}
	for _, mc := range s.commodities {
		for _, r := range mc.rates {
			if code := r.rate.Agreement(); code != "" {
				counts[code]++
			}
		}
	}
	return counts, nil
}

func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Commodities: len(s.commodities), Rates: len(s.rateOwner)}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) EnsureCommodity(ctx context.Context, c types.CommoditySummary) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.commodities[c.Code]; ok {
		return false, nil
	}
	s.commodities[c.Code] = &memoryCommodity{summary: c}
	return true, nil
}

func (s *MemoryStore) HasCommodity(ctx context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.commodities[code]
	return ok, nil
}

func (s *MemoryStore) FindRate(ctx context.Context, code string, m RateMatch) (StoredRate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mc, ok := s.commodities[code]
	if !ok {
		return StoredRate{}, false, nil
	}
	for _, r := range mc.rates {
		if m.Matches(r.rate) {
			return StoredRate{ID: r.id, Rate: cloneRate(r.rate)}, true, nil
		}
	}
	return StoredRate{}, false, nil
}

func (s *MemoryStore) InsertRate(ctx context.Context, code string, r types.Rate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mc, ok := s.commodities[code]
	if !ok {
		return 0, errors.NotFound("commodity", code)
	}
	s.nextID++
	mc.rates = append(mc.rates, memoryRate{id: s.nextID, rate: cloneRate(r)})
	s.rateOwner[s.nextID] = code
	return s.nextID, nil
}

func (s *MemoryStore) UpdateRate(ctx context.Context, id int64, r types.Rate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.rateOwner[id]
	if !ok {
		return errors.NotFound("rate", formatID(id))
	}
	mc := s.commodities[code]
	for i := range mc.rates {
		if mc.rates[i].id == id {
			mc.rates[i].rate = cloneRate(r)
			return nil
		}
	}
	return errors.NotFound("rate", formatID(id))
}

// cloneRate copies r including the values behind its optional fields
func cloneRate(r types.Rate) types.Rate {
	r.Currency = cloneString(r.Currency)
	r.Unit = cloneString(r.Unit)
	r.AgreementCode = cloneString(r.AgreementCode)
	r.Conditions = cloneString(r.Conditions)
	r.ValidFrom = cloneTime(r.ValidFrom)
	r.ValidTo = cloneTime(r.ValidTo)
	return r
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
