package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Investment Endpoints ───────────────────────────────────────────────────

// handleFundInvestment allocates capital into a new project.
// POST /api/investments
func (s *Server) handleFundInvestment(w http.ResponseWriter, r *http.Request) {
	var req engine.FundInvestmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	inv, err := s.engine.FundInvestment(r.Context(), actor(r), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// handleListInvestments returns all open investments.
// GET /api/investments
func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	invs, err := s.db.Investments()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"investments": invs})
}

// handleGetInvestment returns one investment.
// GET /api/investments/{id}
func (s *Server) handleGetInvestment(w http.ResponseWriter, r *http.Request) {
	inv, err := s.db.Investment(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type outcomeRequest struct {
	Amount    int64              `json:"amount"`
	Kind      domain.OutcomeKind `json:"kind"`
	AccountID string             `json:"account_id"`
	Remarks   string             `json:"remarks,omitempty"`
}

// handleInvestmentOutcome records a profit or expense from a project.
// POST /api/investments/{id}/outcome
func (s *Server) handleInvestmentOutcome(w http.ResponseWriter, r *http.Request) {
	var req outcomeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	err := s.engine.RecordInvestmentOutcome(r.Context(), actor(r), id, req.Amount, req.Kind, req.AccountID, req.Remarks)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

type liquidateRequest struct {
	ClosingValue int64  `json:"closing_value"`
	AccountID    string `json:"account_id,omitempty"`
}

// handleLiquidateInvestment closes a project.
// POST /api/investments/{id}/liquidate
func (s *Server) handleLiquidateInvestment(w http.ResponseWriter, r *http.Request) {
	var req liquidateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.engine.LiquidateInvestment(r.Context(), actor(r), id, req.ClosingValue, req.AccountID); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "liquidated"})
}

// handleUploadDocument stores a supporting document and attaches it to
// the investment, replacing any previous one.
// POST /api/investments/{id}/document (multipart field "document")
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if s.docs == nil {
		writeError(w, http.StatusServiceUnavailable, "document store not configured")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing document file")
		return
	}
	defer file.Close()

	ref, err := s.docs.Save(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.engine.ReplaceInvestmentDocument(r.Context(), id, ref); err != nil {
		// The orphaned file is removed so a failed attach leaves no trace.
		s.docs.Delete(ref)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"document_ref": ref})
}
