package deal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/id"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Service interface {
	// List returns the filtered page of deals plus the total match count.
	List(ctx context.Context, q domain.DealQuery) ([]domain.Deal, int, error)
	Get(ctx context.Context, dealID string) (*domain.Deal, error)
	Create(ctx context.Context, req domain.CreateDealRequest) (*domain.Deal, error)
}

type dealStore interface {
	Scan(ctx context.Context) ([]domain.Deal, error)
	Get(ctx context.Context, dealID string) (*domain.Deal, error)
	Put(ctx context.Context, d *domain.Deal) error
}

type service struct {
	repo dealStore
}

func NewService(repo dealStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, q domain.DealQuery) ([]domain.Deal, int, error) {
	all, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]domain.Deal, 0, len(all))
	text := strings.ToLower(strings.TrimSpace(q.Text))
	for _, d := range all {
		if text != "" && !matchesText(&d, text) {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(&d, q.Tags) {
			continue
		}
		filtered = append(filtered, d)
	}

	// Newest first.
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	page, limit := clampPage(q.Page, q.Limit)
	return slicePage(filtered, page, limit), len(filtered), nil
}

func (s *service) Get(ctx context.Context, dealID string) (*domain.Deal, error) {
	return s.repo.Get(ctx, dealID)
}

func (s *service) Create(ctx context.Context, req domain.CreateDealRequest) (*domain.Deal, error) {
	var expiresAt *time.Time
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("expires_at must be RFC 3339: %w", domain.ErrBadRequest)
		}
		expiresAt = &t
	}
	now := time.Now().UTC()
	d := &domain.Deal{
		DealID:      id.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Provider:    strings.TrimSpace(req.Provider),
		IsLocked:    req.IsLocked,
		Tags:        req.Tags,
		TermsURL:    req.TermsURL,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if err := s.repo.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// matchesText reports whether the lowercased query appears in the deal's
// title, description or provider.
func matchesText(d *domain.Deal, text string) bool {
	return strings.Contains(strings.ToLower(d.Title), text) ||
		strings.Contains(strings.ToLower(d.Description), text) ||
		strings.Contains(strings.ToLower(d.Provider), text)
}

// hasAnyTag reports whether the deal's tag set intersects the requested set.
func hasAnyTag(d *domain.Deal, tags []string) bool {
	for _, want := range tags {
		for _, have := range d.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func slicePage(deals []domain.Deal, page, limit int) []domain.Deal {
	skip := (page - 1) * limit
	if skip >= len(deals) {
		return []domain.Deal{}
	}
	end := skip + limit
	if end > len(deals) {
		end = len(deals)
	}
	return deals[skip:end]
}
