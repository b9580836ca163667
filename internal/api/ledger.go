package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

// ─── Ledger Endpoints ───────────────────────────────────────────────────────

type depositBatchRequest struct {
	MemberIDs  []string      `json:"member_ids"`
	Period     domain.Period `json:"period"`
	FinePayers []string      `json:"fine_payers,omitempty"`
}

// handleDepositBatch records one contribution period for a set of members.
// POST /api/deposits/batch
func (s *Server) handleDepositBatch(w http.ResponseWriter, r *http.Request) {
	var req depositBatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payers := make(map[string]bool, len(req.FinePayers))
	for _, id := range req.FinePayers {
		payers[id] = true
	}

	res, err := s.engine.ProcessDepositBatch(r.Context(), actor(r), req.MemberIDs, req.Period, payers)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleAddExpense records a society expense.
// POST /api/expenses
func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req engine.ExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.engine.AddExpense(r.Context(), actor(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

type transferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	Remarks       string `json:"remarks,omitempty"`
}

// handleTransfer moves funds between treasury accounts.
// POST /api/transfers
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.engine.TransferBalance(r.Context(), actor(r), req.FromAccountID, req.ToAccountID, req.Amount, req.Remarks)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "transferred"})
}

type waiverRequest struct {
	MemberID string `json:"member_id"`
	Amount   int64  `json:"amount"`
	Remarks  string `json:"remarks,omitempty"`
}

// handleAddWaiver forgives part of a member's fine accrual.
// POST /api/fines/waivers
func (s *Server) handleAddWaiver(w http.ResponseWriter, r *http.Request) {
	var req waiverRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.engine.AddFineWaiver(r.Context(), actor(r), req.MemberID, req.Amount, req.Remarks); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "waived"})
}

// handleListLedger returns filtered ledger history.
// GET /api/ledger?member=&account=&investment=&category=&kind=&limit=
func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := sqlite.EntryFilter{
		MemberID:      q.Get("member"),
		AccountID:     q.Get("account"),
		InvestmentRef: q.Get("investment"),
		Category:      q.Get("category"),
		Kind:          domain.EntryKind(q.Get("kind")),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = n
	}

	entries, err := s.reports.Statement(f)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// handleDeleteEntry reverses and removes one ledger entry.
// DELETE /api/ledger/{id}
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.DeleteLedgerEntry(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reversed"})
}
