package domain

import "time"

// Deal is a third-party SaaS offer. Locked deals can only be claimed by
// verified users.
type Deal struct {
	DealID      string     `json:"id" dynamodbav:"deal_id"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description" dynamodbav:"description"`
	Provider    string     `json:"provider" dynamodbav:"provider"`
	IsLocked    bool       `json:"is_locked" dynamodbav:"is_locked"`
	Tags        []string   `json:"tags" dynamodbav:"tags"`
	TermsURL    *string    `json:"terms_url,omitempty" dynamodbav:"terms_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" dynamodbav:"expires_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateDealRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=5000"`
	Provider    string   `json:"provider" validate:"required,min=2,max=100"`
	IsLocked    bool     `json:"is_locked"`
	Tags        []string `json:"tags"`
	TermsURL    *string  `json:"terms_url" validate:"omitempty,url"`
	ExpiresAt   *string  `json:"expires_at"` // RFC 3339
}

// DealQuery holds the list-deals filter parameters.
type DealQuery struct {
	Text  string
	Tags  []string
	Page  int
	Limit int
}
