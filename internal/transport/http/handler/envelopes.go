package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps register/login responses.
type AuthEnvelope struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Pagination reports offset-pagination bookkeeping: pages = ceil(total/limit).
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// DealsEnvelope wraps paginated deal list responses.
type DealsEnvelope struct {
	Deals      []domain.Deal `json:"deals"`
	Pagination Pagination    `json:"pagination"`
}

// DealEnvelope wraps single-deal responses.
type DealEnvelope struct {
	Deal *domain.Deal `json:"deal"`
}

// ClaimsEnvelope wraps paginated claim list responses.
type ClaimsEnvelope struct {
	Claims     []domain.Claim `json:"claims"`
	Pagination Pagination     `json:"pagination"`
}

// ClaimEnvelope wraps single-claim responses.
type ClaimEnvelope struct {
	Claim *domain.Claim `json:"claim"`
}

// ValidationEnvelope reports per-field validation failures.
type ValidationEnvelope struct {
	Error   string                `json:"error"`
	Details []validate.FieldError `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a service error to its HTTP status via the domain sentinels.
// Unclassified errors are logged server-side and rendered generically.
func httpError(w http.ResponseWriter, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ValidationEnvelope{Error: "validation failed", Details: verr.Fields})
		return
	}
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parsePagination reads page/limit query params with the API's defaults.
func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return
}
