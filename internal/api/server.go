// Package api provides the HTTP server for the society backend.
// Every write endpoint delegates to the ledger engine; reads go through
// the report service. The engine's sentinel errors are mapped to HTTP
// status codes here and nowhere else.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/docstore"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/report"
)

// Server is the HTTP API server.
type Server struct {
	engine         *engine.Engine
	reports        *report.Service
	db             *sqlite.DB
	docs           *docstore.Store // nil disables document endpoints
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(eng *engine.Engine, reports *report.Service, db *sqlite.DB) *Server {
	return &Server{engine: eng, reports: reports, db: db}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetDocumentStore enables the investment document endpoints.
func (s *Server) SetDocumentStore(docs *docstore.Store) { s.docs = docs }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/deposits/batch", s.handleDepositBatch)
		r.Post("/expenses", s.handleAddExpense)
		r.Post("/transfers", s.handleTransfer)
		r.Post("/fines/waivers", s.handleAddWaiver)

		r.Get("/ledger", s.handleListLedger)
		r.Delete("/ledger/{id}", s.handleDeleteEntry)

		r.Post("/investments", s.handleFundInvestment)
		r.Get("/investments", s.handleListInvestments)
		r.Get("/investments/{id}", s.handleGetInvestment)
		r.Post("/investments/{id}/outcome", s.handleInvestmentOutcome)
		r.Post("/investments/{id}/liquidate", s.handleLiquidateInvestment)
		r.Post("/investments/{id}/document", s.handleUploadDocument)

		r.Get("/members", s.handleListMembers)
		r.Post("/members", s.handleCreateMember)
		r.Get("/members/{id}", s.handleGetMember)
		r.Patch("/members/{id}", s.handleUpdateMember)
		r.Get("/members/{id}/dashboard", s.handleDashboard)
		r.Get("/defaulters", s.handleDefaulters)

		r.Get("/accounts", s.handleListAccounts)
		r.Post("/accounts", s.handleCreateAccount)
		r.Post("/accounts/{id}/primary", s.handleSetPrimary)

		r.Get("/policy", s.handleGetPolicy)
		r.Put("/policy", s.handleSetPolicy)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/{id}/read", s.handleMarkNotificationRead)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// actor extracts the acting admin's identity. Every write entry records
// who made it.
func actor(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeEngineError maps the domain sentinels to HTTP status codes.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInvestmentNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPolicy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNoPrimaryAccount):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for the web client.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Actor")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
