package verification

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deals-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	return m.Called(ctx, email, updates).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) UploadBase64(ctx context.Context, key, b64Data string) error {
	return m.Called(ctx, key, b64Data).Error(0)
}

func (m *mockObjectStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestRequest_AlreadyVerified(t *testing.T) {
	users := &mockUserStore{}
	svc := NewService(users, &mockObjectStore{}, &mockMailer{})

	err := svc.Request(context.Background(), &domain.User{UserID: "u1", IsVerified: true}, Request{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequest_AutoApprovesWithoutDocument(t *testing.T) {
	users := &mockUserStore{}
	users.On("Update", mock.Anything, "jane@example.com", mock.MatchedBy(func(u map[string]interface{}) bool {
		verified, _ := u["is_verified"].(bool)
		_, hasDoc := u["verification_document"]
		return verified && !hasDoc
	})).Return(nil)
	m := &mockMailer{}
	m.On("SendEmail", "jane@example.com", mock.Anything, mock.Anything).Return(nil)
	docs := &mockObjectStore{}

	svc := NewService(users, docs, m)
	err := svc.Request(context.Background(), &domain.User{UserID: "u2", Email: "jane@example.com"}, Request{})

	require.NoError(t, err)
	users.AssertExpectations(t)
	m.AssertExpectations(t)
	docs.AssertNotCalled(t, "UploadBase64", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequest_UploadsDocument(t *testing.T) {
	doc := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))

	docs := &mockObjectStore{}
	docs.On("UploadBase64", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "verification/u2/") && strings.HasSuffix(key, ".pdf")
	}), doc).Return(nil)
	users := &mockUserStore{}
	users.On("Update", mock.Anything, "jane@example.com", mock.MatchedBy(func(u map[string]interface{}) bool {
		key, _ := u["verification_document"].(string)
		return strings.HasPrefix(key, "verification/u2/")
	})).Return(nil)
	m := &mockMailer{}
	m.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(users, docs, m)
	err := svc.Request(context.Background(), &domain.User{UserID: "u2", Email: "jane@example.com"}, Request{
		Document: doc,
		Filename: "student-id.pdf",
	})

	require.NoError(t, err)
	docs.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestRequest_UploadFailureAborts(t *testing.T) {
	docs := &mockObjectStore{}
	docs.On("UploadBase64", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 down"))
	users := &mockUserStore{}

	svc := NewService(users, docs, &mockMailer{})
	err := svc.Request(context.Background(), &domain.User{UserID: "u2", Email: "jane@example.com"}, Request{Document: "aGk="})

	require.Error(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequest_MailFailureIsNotFatal(t *testing.T) {
	users := &mockUserStore{}
	users.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m := &mockMailer{}
	m.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp refused"))

	svc := NewService(users, &mockObjectStore{}, m)
	err := svc.Request(context.Background(), &domain.User{UserID: "u2", Email: "jane@example.com"}, Request{})

	require.NoError(t, err)
}

func TestStatus_ReadsFreshRecord(t *testing.T) {
	verifiedAt := time.Now().UTC()
	users := &mockUserStore{}
	users.On("GetByID", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", IsVerified: true, UpdatedAt: verifiedAt,
		VerificationDocument: "verification/u1/doc.pdf",
	}, nil)
	docs := &mockObjectStore{}
	docs.On("PresignedURL", mock.Anything, "verification/u1/doc.pdf", 15*time.Minute).Return("https://signed.example/doc.pdf", nil)

	svc := NewService(users, docs, &mockMailer{})
	st, err := svc.Status(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, st.IsVerified)
	require.NotNil(t, st.VerifiedAt)
	assert.Equal(t, verifiedAt, *st.VerifiedAt)
	assert.Equal(t, "https://signed.example/doc.pdf", st.DocumentURL)
}

func TestStatus_Unverified(t *testing.T) {
	users := &mockUserStore{}
	users.On("GetByID", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)

	svc := NewService(users, &mockObjectStore{}, &mockMailer{})
	st, err := svc.Status(context.Background(), "u2")

	require.NoError(t, err)
	assert.False(t, st.IsVerified)
	assert.Nil(t, st.VerifiedAt)
	assert.Empty(t, st.DocumentURL)
}

func TestStatus_PresignFailureIsNotFatal(t *testing.T) {
	users := &mockUserStore{}
	users.On("GetByID", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1", IsVerified: true, VerificationDocument: "verification/u1/doc.pdf",
	}, nil)
	docs := &mockObjectStore{}
	docs.On("PresignedURL", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("s3 down"))

	svc := NewService(users, docs, &mockMailer{})
	st, err := svc.Status(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, st.IsVerified)
	assert.Empty(t, st.DocumentURL)
}
