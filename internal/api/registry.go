package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

// ─── Member Endpoints ───────────────────────────────────────────────────────

// handleListMembers returns all members.
// GET /api/members
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.db.Members()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// handleCreateMember registers a new member.
// POST /api/members
func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req engine.CreateMemberRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := s.engine.CreateMember(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleGetMember returns one member.
// GET /api/members/{id}
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.db.Member(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type updateMemberRequest struct {
	Name        *string              `json:"name,omitempty"`
	Phone       *string              `json:"phone,omitempty"`
	Shares      *int                 `json:"shares,omitempty"`
	MonthlyRate *int64               `json:"monthly_rate,omitempty"`
	Status      *domain.MemberStatus `json:"status,omitempty"`
}

// handleUpdateMember applies partial administrative edits.
// PATCH /api/members/{id}
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := s.db.Member(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.Shares != nil {
		m.Shares = *req.Shares
	}
	if req.MonthlyRate != nil {
		m.MonthlyRate = *req.MonthlyRate
	}
	if req.Status != nil {
		m.Status = *req.Status
	}

	if err := s.engine.UpdateMember(r.Context(), m); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDashboard returns a member's home-screen snapshot.
// GET /api/members/{id}/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.MemberDashboard(chi.URLParam(r, "id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleDefaulters lists members with unpaid fines.
// GET /api/defaulters
func (s *Server) handleDefaulters(w http.ResponseWriter, r *http.Request) {
	list, err := s.reports.Defaulters()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"defaulters": list})
}

// ─── Account Endpoints ──────────────────────────────────────────────────────

// handleListAccounts returns the treasury overview.
// GET /api/accounts
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ov, err := s.reports.Treasury()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// handleCreateAccount registers a treasury account.
// POST /api/accounts
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req engine.CreateAccountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	acct, err := s.engine.CreateAccount(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

// handleSetPrimary moves the primary flag to this account.
// POST /api/accounts/{id}/primary
func (s *Server) handleSetPrimary(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.SetPrimaryAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "primary set"})
}

// ─── Policy Endpoints ───────────────────────────────────────────────────────

// handleGetPolicy returns the fine policy.
// GET /api/policy
func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.Policy()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleSetPolicy replaces the fine policy.
// PUT /api/policy
func (s *Server) handleSetPolicy(w http.ResponseWriter, r *http.Request) {
	var p domain.FinePolicy
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.engine.SetFinePolicy(r.Context(), p); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ─── Notification Endpoints ─────────────────────────────────────────────────

// handleListNotifications returns a member's bell feed.
// GET /api/notifications?member=&unread=
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	memberID := q.Get("member")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member query parameter is required")
		return
	}
	unreadOnly := q.Get("unread") == "true"

	list, err := s.db.Notifications(memberID, unreadOnly, 100)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": list})
}

// handleMarkNotificationRead marks one bell notification as read.
// POST /api/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.db.MarkNotificationRead(id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
