package http

import (
	"context"
	"time"

	"github.com/deals-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	// Create inserts the user unless the email is already registered; the
	// bool reports whether the insert won.
	Create(ctx context.Context, u *domain.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

// DealRepository is the minimal interface the router requires from a deal store.
type DealRepository interface {
	Put(ctx context.Context, d *domain.Deal) error
	Get(ctx context.Context, dealID string) (*domain.Deal, error)
	Scan(ctx context.Context) ([]domain.Deal, error)
}

// ClaimRepository is the minimal interface the router requires from a claim store.
type ClaimRepository interface {
	// Insert writes the claim unless the (user, deal) pair is already
	// claimed; the bool reports whether the insert won.
	Insert(ctx context.Context, c *domain.Claim) (bool, error)
	Get(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Claim, error)
	GetByClaimID(ctx context.Context, claimID string) (*domain.Claim, error)
	UpdateStatus(ctx context.Context, userID, dealID, from, to string) (bool, error)
}

// ObjectStore is the minimal interface the router requires from document storage.
type ObjectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Mailer sends transactional email.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// EventPublisher publishes claim lifecycle events.
type EventPublisher interface {
	PublishClaimCreated(ctx context.Context, c *domain.Claim) error
}
