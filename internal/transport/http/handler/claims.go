package handler

import (
	"encoding/json"
	"net/http"

	"github.com/deals-api/internal/application/claim"
	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/validate"
	"github.com/deals-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ClaimHandler handles claim creation, the caller's claim listing, and the
// admin status-transition endpoint.
type ClaimHandler struct {
	svc claim.Service
}

func NewClaimHandler(svc claim.Service) *ClaimHandler { return &ClaimHandler{svc: svc} }

func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	c, err := h.svc.Create(r.Context(), user, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ClaimEnvelope{Claim: c})
}

func (h *ClaimHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	page, limit := parsePagination(r)
	status := r.URL.Query().Get("status")
	if status != "" && !domain.ValidClaimStatus(status) {
		writeError(w, http.StatusBadRequest, "unknown claim status")
		return
	}
	claims, total, err := h.svc.ListMine(r.Context(), user.UserID, page, limit, status)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClaimsEnvelope{
		Claims:     claims,
		Pagination: newPagination(page, limit, total),
	})
}

// UpdateStatus performs the administrative lifecycle transition
// (pending→approved|rejected, approved→redeemed).
func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	c, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClaimEnvelope{Claim: c})
}
