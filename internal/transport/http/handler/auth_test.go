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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *mockAuthService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRegister_Created(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Register", mock.Anything, domain.RegisterRequest{Name: "John Doe", Email: "john@example.com", Password: "demo1234"}).
		Return(&domain.User{UserID: "u1", Name: "John Doe", Email: "john@example.com"}, "signed-token", nil)
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com","password":"demo1234"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "u1", body.User.UserID)
	// The password hash must never be serialized.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_ValidationDetails(t *testing.T) {
	svc := &mockAuthService{}
	h := NewAuthHandler(svc)

	// Name too short, email malformed, password too short.
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"J","email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ValidationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("email already in use: %w", domain.ErrConflict))
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com","password":"demo1234"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_OK(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Email: "john@example.com", Password: "demo1234"}).
		Return(&domain.User{UserID: "u1"}, "signed-token", nil)
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"john@example.com","password":"demo1234"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body AuthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "signed-token", body.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))
	h := NewAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"john@example.com","password":"wrong-password"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
