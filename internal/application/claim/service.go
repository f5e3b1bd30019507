package claim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/id"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// errAlreadyClaimed is returned for a duplicate (user, deal) pair whether it
// was caught by the optimistic pre-check or by the store's key constraint.
// One value guarantees the two paths are indistinguishable to the caller.
var errAlreadyClaimed = fmt.Errorf("you have already claimed this deal: %w", domain.ErrConflict)

type Service interface {
	// Create claims the deal for the user. The user record must be the
	// current one (the auth middleware re-fetches it on every request), since
	// the verification check below must not act on stale token state.
	Create(ctx context.Context, user *domain.User, req domain.CreateClaimRequest) (*domain.Claim, error)
	// ListMine returns the page of the user's claims, newest first, each with
	// its Deal populated, plus the total count after the status filter.
	ListMine(ctx context.Context, userID string, page, limit int, status string) ([]domain.Claim, int, error)
	// UpdateStatus performs an administrative lifecycle transition.
	UpdateStatus(ctx context.Context, claimID, status string) (*domain.Claim, error)
}

type dealStore interface {
	Get(ctx context.Context, dealID string) (*domain.Deal, error)
}

type claimStore interface {
	Insert(ctx context.Context, c *domain.Claim) (bool, error)
	Get(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Claim, error)
	GetByClaimID(ctx context.Context, claimID string) (*domain.Claim, error)
	UpdateStatus(ctx context.Context, userID, dealID, from, to string) (bool, error)
}

type eventPublisher interface {
	PublishClaimCreated(ctx context.Context, c *domain.Claim) error
}

type service struct {
	claims claimStore
	deals  dealStore
	events eventPublisher
}

// NewService builds the claim service. events may be nil when no publisher is
// configured.
func NewService(claims claimStore, deals dealStore, events eventPublisher) Service {
	return &service{claims: claims, deals: deals, events: events}
}

func (s *service) Create(ctx context.Context, user *domain.User, req domain.CreateClaimRequest) (*domain.Claim, error) {
	deal, err := s.deals.Get(ctx, req.DealID)
	if err != nil {
		return nil, err
	}

	// Authorization: locked deals require verified users.
	if deal.IsLocked && !user.IsVerified {
		return nil, fmt.Errorf("deal locked: verification required: %w", domain.ErrForbidden)
	}

	// Optimistic pre-check. Cheap fast path for the common duplicate case;
	// the conditional insert below is what actually guarantees uniqueness.
	if _, err := s.claims.Get(ctx, user.UserID, deal.DealID); err == nil {
		return nil, errAlreadyClaimed
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	now := time.Now().UTC()
	c := &domain.Claim{
		ClaimID:   id.New(),
		UserID:    user.UserID,
		DealID:    deal.DealID,
		Status:    domain.ClaimStatusPending,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.claims.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the race: another request inserted between the pre-check and
		// the put. Must be reported exactly like the pre-check path.
		return nil, errAlreadyClaimed
	}

	if s.events != nil {
		if err := s.events.PublishClaimCreated(ctx, c); err != nil {
			slog.Warn("failed to publish claim.created event", "claim_id", c.ClaimID, "err", err)
		}
	}

	c.Deal = deal
	return c, nil
}

func (s *service) ListMine(ctx context.Context, userID string, page, limit int, status string) ([]domain.Claim, int, error) {
	all, err := s.claims.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	filtered := all
	if status != "" {
		filtered = make([]domain.Claim, 0, len(all))
		for _, c := range all {
			if c.Status == status {
				filtered = append(filtered, c)
			}
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	total := len(filtered)
	skip := (page - 1) * limit
	if skip >= total {
		return []domain.Claim{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	pageClaims := filtered[skip:end]

	// Populate each claim's deal; one lookup per distinct deal.
	dealsByID := make(map[string]*domain.Deal)
	for i := range pageClaims {
		d, ok := dealsByID[pageClaims[i].DealID]
		if !ok {
			d, err = s.deals.Get(ctx, pageClaims[i].DealID)
			if err != nil {
				slog.Warn("could not populate deal for claim", "claim_id", pageClaims[i].ClaimID, "deal_id", pageClaims[i].DealID, "err", err)
				continue
			}
			dealsByID[pageClaims[i].DealID] = d
		}
		pageClaims[i].Deal = d
	}

	return pageClaims, total, nil
}

func (s *service) UpdateStatus(ctx context.Context, claimID, status string) (*domain.Claim, error) {
	if !domain.ValidClaimStatus(status) {
		return nil, fmt.Errorf("unknown claim status %q: %w", status, domain.ErrBadRequest)
	}
	c, err := s.claims.GetByClaimID(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidClaimTransition(c.Status, status) {
		return nil, fmt.Errorf("cannot move claim from %s to %s: %w", c.Status, status, domain.ErrBadRequest)
	}
	ok, err := s.claims.UpdateStatus(ctx, c.UserID, c.DealID, c.Status, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("claim status changed concurrently: %w", domain.ErrConflict)
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}
