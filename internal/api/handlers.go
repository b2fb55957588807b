package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/RohithDharshan/campusflow/internal/approval"
	"github.com/RohithDharshan/campusflow/internal/auth"
	"github.com/RohithDharshan/campusflow/internal/ledger"
	"github.com/RohithDharshan/campusflow/pkg/types"
)

type Handler struct {
	Auth    auth.Authenticator
	Service *WorkflowService
}

// ProposalRequest is the submission payload. Identity fields come from the
// authenticated claims, not the body.
type ProposalRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	EventType    string  `json:"event_type"`
	Budget       float64 `json:"budget"`
	Requirements string  `json:"requirements,omitempty"`
	Venue        string  `json:"venue,omitempty"`
	ExpectedDate string  `json:"expected_date,omitempty"`
	Attendees    int     `json:"expected_attendees,omitempty"`
}

type DecisionRequest struct {
	Decision string `json:"decision"`
	Comments string `json:"comments,omitempty"`
}

func (h *Handler) Proposals(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.ensureAuth(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req ProposalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		result, err := h.Service.Submit(types.Proposal{
			Title:        req.Title,
			Description:  req.Description,
			EventType:    req.EventType,
			Budget:       req.Budget,
			Requirements: req.Requirements,
			Venue:        req.Venue,
			ExpectedDate: req.ExpectedDate,
			Attendees:    req.Attendees,
			SubmittedBy:  claims.Subject,
			Department:   claims.Department,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, result)

	case http.MethodGet:
		filter := ledger.ProposalFilter{
			Department: r.URL.Query().Get("department"),
		}
		if status := r.URL.Query().Get("status"); status != "" {
			filter.Statuses = []types.ProposalStatus{types.ProposalStatus(status)}
		}
		proposals, err := h.Service.List(filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, proposals)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

// ProposalSubtree serves /v1/proposals/{id}, /v1/proposals/{id}/procurement,
// and /v1/proposals/{id}/audit.
func (h *Handler) ProposalSubtree(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ensureAuth(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/proposals/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing proposal id"})
		return
	}

	switch sub {
	case "":
		view, err := h.Service.Get(id)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case "procurement":
		order, err := h.Service.Procurement(id)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)

	case "audit":
		trail, err := h.Service.Audit(id, 100)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, trail)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

// Steps serves POST /v1/steps/{id}/decide.
func (h *Handler) Steps(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.ensureAuth(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/steps/")
	stepID, action, _ := strings.Cut(rest, "/")
	if stepID == "" || action != "decide" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if claims.Role == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "actor role required"})
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := h.Service.Approvals.Decide(stepID, types.StepStatus(req.Decision), req.Comments, claims.Role)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Pending serves GET /v1/approvals/pending for the caller's role.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.ensureAuth(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if claims.Role == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "actor role required"})
		return
	}

	pending, err := h.Service.PendingForRole(claims.Role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (h *Handler) ScoreVendors(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ensureAuth(w, r); !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Category string `json:"category,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	rec, err := h.Service.ScoreVendors(req.Category)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) SelectQuotation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ensureAuth(w, r); !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required"})
		return
	}

	best, err := h.Service.SelectQuotation(req.OrderID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ensureAuth(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	counts, err := h.Service.Dashboard()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProposalNotFound), errors.Is(err, ErrOrderNotFound), errors.Is(err, approval.ErrStepNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, approval.ErrNotAuthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, approval.ErrInvalidDecision), errors.Is(err, ErrNoQuotations):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, approval.ErrAlreadyDecided), errors.Is(err, approval.ErrProposalClosed):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) ensureAuth(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, err := h.Auth.Authenticate(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return auth.Claims{}, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
