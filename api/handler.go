package api

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"tolltariff/core/optimizer"
	"tolltariff/core/tariff"
	"tolltariff/core/types"
	"tolltariff/db/ingestion"
	"tolltariff/internal/errors"
)

const defaultSearchLimit = 20

// commodity loads the commodity named by the {code} path parameter
func (s *Server) commodity(ctx context.Context, r *http.Request) (*types.Commodity, error) {
	if s.store == nil {
		return nil, errors.New(errors.TypeStorage, "no rate store configured")
	}
	return s.store.Lookup(ctx, chi.URLParam(r, "code"))
}

// handleSearch handles GET /htc?q=&limit=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultSearchLimit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if s.store == nil {
		s.writeFailure(w, r, errors.New(errors.TypeStorage, "no rate store configured"))
		return
	}
	items, err := s.store.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, items, http.StatusOK)
}

// handleLookup handles GET /htc/{code}?origin_group=
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	c, err := s.commodity(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	view := tariff.View(c, r.URL.Query().Get("origin_group"), s.dirs.Current())
	s.writeJSON(w, view, http.StatusOK)
}

// handleZeroDuty handles GET /htc/{code}/zero-duty
func (s *Server) handleZeroDuty(w http.ResponseWriter, r *http.Request) {
	c, err := s.commodity(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"code":      c.Code,
		"zero_duty": tariff.FindZeroDutyAgreements(c, s.dirs.Current()),
	}, http.StatusOK)
}

// handleAgreements handles GET /htc/{code}/agreements
func (s *Server) handleAgreements(w http.ResponseWriter, r *http.Request) {
	c, err := s.commodity(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"code":       c.Code,
		"agreements": tariff.ListAgreements(c, s.dirs.Current()),
	}, http.StatusOK)
}

// handleFTA handles GET /htc/{code}/fta. The commodity need not be in the
// rate store; a code missing from the index has no agreements.
func (s *Server) handleFTA(w http.ResponseWriter, r *http.Request) {
	path := s.config.Data.FTAIndex
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, string(errors.TypeNotFound), "FTA index not imported", http.StatusNotFound)
		return
	}
	idx, err := ingestion.LoadFTAIndex(path)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	code := chi.URLParam(r, "code")
	s.writeJSON(w, map[string]interface{}{
		"code":       code,
		"agreements": tariff.DescribeFTA(idx.Classifiers(code), s.dirs.Current()),
	}, http.StatusOK)
}

// handleBestOrigin handles GET /htc/{code}/best-origin
func (s *Server) handleBestOrigin(w http.ResponseWriter, r *http.Request) {
	params, opts, err := shipmentQuery(r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	c, err := s.commodity(r.Context(), r)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, optimizer.RankOrigins(c, s.dirs.Current(), params, opts), http.StatusOK)
}

// handleCatalog handles GET /agreements/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeFailure(w, r, errors.New(errors.TypeStorage, "no rate store configured"))
		return
	}
	counts, err := s.store.AgreementCounts(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"agreements": tariff.BuildCatalog(counts, s.dirs.Current()),
	}, http.StatusOK)
}
