// Package server exposes the latest readiness report over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazz-dev/readyprobe/internal/storage"
)

//go:embed assets
var assets embed.FS

// Store defines the storage queries the server needs.
type Store interface {
	LatestRun(ctx context.Context) (*storage.Run, []storage.Result, error)
	RunHistory(ctx context.Context, limit, offset int) ([]storage.Run, int, error)
	ReadyRatePercent(ctx context.Context, last int) (float64, error)
}

// Server holds the chi router and its dependencies.
type Server struct {
	store  Store
	app    string
	router chi.Router
	logger *slog.Logger
}

// New creates a new Server and registers all routes.
func New(store Store, app string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  store,
		app:    app,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.registerRoutes()
	return s
}

// Router returns the chi router (for mounting or testing).
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/report", s.handleReport)
	r.Get("/api/runs", s.handleRuns)

	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// "assets" is embedded, so Sub cannot fail.
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))
}

// --- Response helpers ---

type envelope struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: msg})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type reportResponse struct {
	App       string           `json:"app"`
	Run       *storage.Run     `json:"run"`
	Results   []storage.Result `json:"results"`
	ReadyRate float64          `json:"ready_rate_percent"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	run, results, err := s.store.LatestRun(r.Context())
	if err != nil {
		s.logger.Error("LatestRun", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "no verification runs recorded yet")
		return
	}

	rate, _ := s.store.ReadyRatePercent(r.Context(), 100)
	writeJSON(w, http.StatusOK, reportResponse{
		App:       s.app,
		Run:       run,
		Results:   results,
		ReadyRate: rate,
	})
}

type runsResponse struct {
	Runs  []storage.Run `json:"runs"`
	Total int           `json:"total"`
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 1000

	limit := 50
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		if n > maxLimit {
			n = maxLimit
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset parameter")
			return
		}
		offset = n
	}

	runs, total, err := s.store.RunHistory(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("RunHistory", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, runsResponse{Runs: runs, Total: total})
}

// --- Middleware ---

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
