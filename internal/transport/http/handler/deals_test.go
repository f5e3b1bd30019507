package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deals-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDealService struct{ mock.Mock }

func (m *mockDealService) List(ctx context.Context, q domain.DealQuery) ([]domain.Deal, int, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Deal), args.Int(1), args.Error(2)
}

func (m *mockDealService) Get(ctx context.Context, dealID string) (*domain.Deal, error) {
	args := m.Called(ctx, dealID)
	if d, _ := args.Get(0).(*domain.Deal); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDealService) Create(ctx context.Context, req domain.CreateDealRequest) (*domain.Deal, error) {
	args := m.Called(ctx, req)
	if d, _ := args.Get(0).(*domain.Deal); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func dealsRouter(svc *mockDealService) http.Handler {
	h := NewDealHandler(svc)
	r := chi.NewRouter()
	r.Get("/deals", h.List)
	r.Get("/deals/{id}", h.Get)
	r.Post("/deals", h.Create)
	return r
}

func TestDealList_ParsesQuery(t *testing.T) {
	svc := &mockDealService{}
	svc.On("List", mock.Anything, domain.DealQuery{
		Text:  "stripe",
		Tags:  []string{"Payments", "Finance"},
		Page:  2,
		Limit: 5,
	}).Return([]domain.Deal{{DealID: "d1"}}, 6, nil)

	req := httptest.NewRequest(http.MethodGet, "/deals?q=stripe&tags=Payments,%20Finance&page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body DealsEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Pages)
	svc.AssertExpectations(t)
}

func TestDealList_DefaultsPagination(t *testing.T) {
	svc := &mockDealService{}
	svc.On("List", mock.Anything, domain.DealQuery{Page: 1, Limit: 10}).
		Return([]domain.Deal{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDealGet_OK(t *testing.T) {
	svc := &mockDealService{}
	svc.On("Get", mock.Anything, "d1").Return(&domain.Deal{DealID: "d1", Title: "Stripe - Startup Program"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/deals/d1", nil)
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body DealEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Deal)
	assert.Equal(t, "d1", body.Deal.DealID)
}

func TestDealGet_NotFound(t *testing.T) {
	svc := &mockDealService{}
	svc.On("Get", mock.Anything, "missing").Return(nil, fmt.Errorf("deal not found: %w", domain.ErrNotFound))

	req := httptest.NewRequest(http.MethodGet, "/deals/missing", nil)
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDealCreate_Created(t *testing.T) {
	svc := &mockDealService{}
	svc.On("Create", mock.Anything, mock.AnythingOfType("domain.CreateDealRequest")).
		Return(&domain.Deal{DealID: "d9", Title: "Linear - Free for Teams"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/deals",
		strings.NewReader(`{"title":"Linear - Free for Teams","description":"Free plan for small teams.","provider":"Linear"}`))
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDealCreate_Validation(t *testing.T) {
	svc := &mockDealService{}

	// Title too short, terms_url not a URL.
	req := httptest.NewRequest(http.MethodPost, "/deals",
		strings.NewReader(`{"title":"ab","description":"long enough description","provider":"Linear","terms_url":"not a url"}`))
	rec := httptest.NewRecorder()
	dealsRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ValidationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["terms_url"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
