package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/deals-api/internal/application/deal"
	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// DealHandler handles the public deal catalog and the admin create endpoint.
type DealHandler struct {
	svc deal.Service
}

func NewDealHandler(svc deal.Service) *DealHandler { return &DealHandler{svc: svc} }

func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	q := domain.DealQuery{
		Text:  r.URL.Query().Get("q"),
		Page:  page,
		Limit: limit,
	}
	if tags := r.URL.Query().Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Tags = append(q.Tags, t)
			}
		}
	}
	deals, total, err := h.svc.List(r.Context(), q)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DealsEnvelope{
		Deals:      deals,
		Pagination: newPagination(page, limit, total),
	})
}

func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DealEnvelope{Deal: d})
}

// Create is admin-only; the catalog is otherwise read-only through the API.
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, DealEnvelope{Deal: d})
}
