package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/deals-api/internal/application/verification"
	"github.com/deals-api/internal/pkg/validate"
	"github.com/deals-api/internal/transport/http/middleware"
)

// VerificationHandler handles the account verification endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

func (h *VerificationHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	// Body is optional; an empty body is a plain verification request.
	var req verification.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.svc.Request(r.Context(), user, req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification approved"})
}

func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	st, err := h.svc.Status(r.Context(), user.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
