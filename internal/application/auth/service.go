package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deals-api/internal/domain"
	jwtinfra "github.com/deals-api/internal/infrastructure/jwt"
	"github.com/deals-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials is deliberately generic: the caller must not be able
// to tell an unknown email apart from a wrong password.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	// ResolveToken verifies the bearer token and fetches the user's current
	// record. Authorization decisions never rely on claims embedded in the
	// token beyond the user identifier.
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type tokenProvider interface {
	Sign(userID, role string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type service struct {
	repo userStore
	jwt  tokenProvider
}

func NewService(repo userStore, jwt tokenProvider) Service {
	return &service{repo: repo, jwt: jwt}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		IsVerified:   false,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, "", err
	}
	if !created {
		return nil, "", fmt.Errorf("email already in use: %w", domain.ErrConflict)
	}
	token, err := s.jwt.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", errInvalidCredentials
	}
	token, err := s.jwt.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user no longer exists: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
