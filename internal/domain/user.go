package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID       string `json:"id" dynamodbav:"user_id"`
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool   `json:"is_verified" dynamodbav:"is_verified"`
	Role         string `json:"role" dynamodbav:"role"`
	// S3 key of the uploaded verification document, if any.
	VerificationDocument string    `json:"-" dynamodbav:"verification_document,omitempty"`
	CreatedAt            time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt            time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
