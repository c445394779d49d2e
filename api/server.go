// Package api - Thin HTTP layer over the tariff core
// The API is ONLY responsible for: parameter parsing, store lookups, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tolltariff/core/directory"
	"tolltariff/db"
	"tolltariff/internal/config"
	"tolltariff/internal/errors"
	"tolltariff/internal/logging"
)

// Server is the API server
type Server struct {
	router  chi.Router
	version string
	store   db.CommodityStore
	dirs    *directory.Holder
	config  *config.Config
	log     *zap.Logger
	started time.Time
}

// NewServer creates a new API server. A nil holder serves the built-in
// directory; a nil config uses the defaults.
func NewServer(version string, store db.CommodityStore, dirs *directory.Holder, cfg *config.Config) *Server {
	if dirs == nil {
		dirs = directory.NewHolder(nil, directory.Sources{})
	}
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		router:  chi.NewRouter(),
		version: version,
		store:   store,
		dirs:    dirs,
		config:  cfg,
		log:     logging.Named("api"),
		started: time.Now().UTC(),
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	// Supporting endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/debug/info", s.handleDebugInfo)

	// Tariff endpoints
	r.Get("/htc", s.handleSearch)
	r.Route("/htc/{code}", func(r chi.Router) {
		r.Get("/", s.handleLookup)
		r.Get("/zero-duty", s.handleZeroDuty)
		r.Get("/agreements", s.handleAgreements)
		r.Get("/fta", s.handleFTA)
		r.Get("/best-origin", s.handleBestOrigin)
	})
	r.Get("/agreements/catalog", s.handleCatalog)

	if dir := s.config.Server.UIDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/ui/", http.StatusFound)
			})
			r.Handle("/ui/*", http.StripPrefix("/ui/", http.FileServer(http.Dir(dir))))
		} else {
			s.log.Warn("ui directory not found, static files disabled", zap.String("dir", dir))
		}
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "tolltariff",
		"api_version": "v1",
	}, http.StatusOK)
}

// debugInfo reports the store counts and the paths the server reads
type debugInfo struct {
	Driver             string `json:"driver"`
	HTCCount           *int   `json:"htc_count"`
	RateCount          *int   `json:"rate_count"`
	DataDir            string `json:"data_dir"`
	DataDirExists      bool   `json:"data_dir_exists"`
	UIDirExists        bool   `json:"frontend_dir_exists"`
	DirectoryOverrides int    `json:"directory_overrides"`
	Uptime             string `json:"uptime"`
}

// handleDebugInfo handles GET /debug/info. Store failures are reported as
// null counts rather than an error.
func (s *Server) handleDebugInfo(w http.ResponseWriter, r *http.Request) {
	info := debugInfo{
		Driver:             s.config.Data.Driver,
		DataDir:            s.config.Data.Dir,
		DataDirExists:      dirExists(s.config.Data.Dir),
		UIDirExists:        dirExists(s.config.Server.UIDir),
		DirectoryOverrides: s.dirs.Current().OverrideCount(),
		Uptime:             time.Since(s.started).Round(time.Second).String(),
	}
	if s.store != nil {
		if stats, err := s.store.Stats(r.Context()); err == nil {
			info.HTCCount = &stats.Commodities
			info.RateCount = &stats.Rates
		} else {
			s.log.Warn("stats unavailable", zap.Error(err))
		}
	}
	s.writeJSON(w, info, http.StatusOK)
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// writeFailure maps a domain error to its HTTP status
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	t := errors.TypeOf(err)
	status := http.StatusInternalServerError
	message := "internal error"
	switch t {
	case errors.TypeInput, errors.TypeParsing:
		status, message = http.StatusBadRequest, errors.MessageOf(err)
	case errors.TypeNotFound:
		status, message = http.StatusNotFound, errors.MessageOf(err)
	case errors.TypeNotSupported:
		status, message = http.StatusNotImplemented, errors.MessageOf(err)
	default:
		s.log.Error("request failed",
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.writeError(w, string(t), message, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down when ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request with zap
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("request_id", ww.Header().Get(requestIDHeader)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	})
}
