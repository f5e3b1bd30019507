package verification

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/deals-api/internal/domain"
	"github.com/deals-api/internal/pkg/id"
)

const documentURLTTL = 15 * time.Minute

type Request struct {
	// Optional base64-encoded supporting document.
	Document string `json:"document"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
}

type Status struct {
	IsVerified  bool       `json:"is_verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	DocumentURL string     `json:"document_url,omitempty"`
}

type Service interface {
	Request(ctx context.Context, user *domain.User, req Request) error
	Status(ctx context.Context, userID string) (*Status, error)
}

type userStore interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type service struct {
	users     userStore
	documents objectStore
	mailer    mailer
}

func NewService(users userStore, documents objectStore, m mailer) Service {
	return &service{users: users, documents: documents, mailer: m}
}

// Request verifies the calling user. Verification is auto-approved: the flag
// flips true immediately. A production flow would hold the request for manual
// review of the submitted document instead.
func (s *service) Request(ctx context.Context, user *domain.User, req Request) error {
	if user.IsVerified {
		return fmt.Errorf("user is already verified: %w", domain.ErrBadRequest)
	}

	updates := map[string]interface{}{"is_verified": true}

	if req.Document != "" {
		filename := req.Filename
		if filename == "" {
			filename = "document"
		}
		key := fmt.Sprintf("verification/%s/%s%s", user.UserID, id.New(), path.Ext(filename))
		if err := s.documents.UploadBase64(ctx, key, req.Document); err != nil {
			return fmt.Errorf("store verification document: %w", err)
		}
		updates["verification_document"] = key
	}

	if err := s.users.Update(ctx, user.Email, updates); err != nil {
		return err
	}

	if err := s.mailer.SendEmail(user.Email, "Verification approved", "Your account has been verified. Locked deals are now available to you."); err != nil {
		slog.Warn("failed to send verification email", "user_id", user.UserID, "err", err)
	}
	return nil
}

// Status reads the user's current verification state from the store; the
// request's own user record is not trusted to be fresh here.
func (s *service) Status(ctx context.Context, userID string) (*Status, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := &Status{IsVerified: u.IsVerified}
	if u.IsVerified {
		verifiedAt := u.UpdatedAt
		st.VerifiedAt = &verifiedAt
	}
	if u.VerificationDocument != "" {
		url, err := s.documents.PresignedURL(ctx, u.VerificationDocument, documentURLTTL)
		if err != nil {
			slog.Warn("failed to presign verification document", "user_id", u.UserID, "err", err)
		} else {
			st.DocumentURL = url
		}
	}
	return st, nil
}
