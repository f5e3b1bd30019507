package domain

import "time"

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
	ClaimStatusRedeemed = "redeemed"
)

// ValidClaimStatus reports whether s is one of the known claim statuses.
func ValidClaimStatus(s string) bool {
	switch s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusRedeemed:
		return true
	}
	return false
}

// ValidClaimTransition reports whether a claim may move from one status to
// another. The only legal moves are pending→approved, pending→rejected and
// approved→redeemed; rejected and redeemed are terminal.
func ValidClaimTransition(from, to string) bool {
	switch from {
	case ClaimStatusPending:
		return to == ClaimStatusApproved || to == ClaimStatusRejected
	case ClaimStatusApproved:
		return to == ClaimStatusRedeemed
	}
	return false
}

// Claim records a user's intent to redeem a deal. At most one claim may exist
// per (user, deal) pair; the pair is the claims table's compound primary key.
type Claim struct {
	ClaimID   string                 `json:"id" dynamodbav:"claim_id"`
	UserID    string                 `json:"user_id" dynamodbav:"user_id"`
	DealID    string                 `json:"deal_id" dynamodbav:"deal_id"`
	Status    string                 `json:"status" dynamodbav:"status"`
	Metadata  map[string]interface{} `json:"metadata" dynamodbav:"metadata"`
	CreatedAt time.Time              `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time              `json:"updated" dynamodbav:"updated_at"`
	Deal      *Deal                  `json:"deal,omitempty" dynamodbav:"-"`
}

type CreateClaimRequest struct {
	DealID   string                 `json:"dealId" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UpdateClaimRequest struct {
	Status string `json:"status" validate:"required"`
}
